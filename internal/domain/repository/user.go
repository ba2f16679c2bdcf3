package repository

import (
	"context"
	"time"
)

// Role es el rol de un usuario dentro del sistema.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOrgAdmin   Role = "org_admin"
	RoleManager    Role = "manager"
	RoleSalesRep   Role = "sales_rep"
)

// Valid verifica que el rol sea uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOrgAdmin, RoleManager, RoleSalesRep:
		return true
	}
	return false
}

// UserStatus es el estado de un usuario.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserPending  UserStatus = "pending"
)

// User representa un usuario del sistema.
// TenantID nil significa usuario de plataforma (sin tenant).
type User struct {
	ID            string
	TenantID      *string
	Email         string
	Username      *string
	PasswordHash  string
	Role          Role
	Status        UserStatus
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si el usuario puede autenticarse.
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	TenantID     *string
	Email        string
	Username     *string
	PasswordHash string
	Role         Role
	Status       UserStatus
}

// UpdateUserInput contiene los campos actualizables de un usuario.
// Los punteros nil se ignoran.
type UpdateUserInput struct {
	Username      *string
	Role          *Role
	Status        *UserStatus
	EmailVerified *bool
}

// ListUsersFilter opciones para listar usuarios.
type ListUsersFilter struct {
	TenantID *string
	Page     int // >= 1
	PageSize int // 1..100, se clampa silenciosamente
	Search   string
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// GetByID busca un usuario por ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, userID string) (*User, error)

	// GetByEmail busca un usuario por email (case-insensitive).
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create crea un nuevo usuario.
	// Retorna ErrConflict si el email o username ya existe, y
	// ErrSuperAdminExists si se intenta crear un segundo super_admin.
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// Update actualiza campos de un usuario.
	// Retorna ErrSuperAdminExists si la promoción viola el invariante.
	Update(ctx context.Context, userID string, input UpdateUserInput) (*User, error)

	// List lista usuarios con paginación. El segundo retorno es el total.
	List(ctx context.Context, filter ListUsersFilter) ([]User, int, error)

	// Delete elimina un usuario por ID.
	// Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, userID string) error

	// UpdatePasswordHash reemplaza el hash del password.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// CheckPassword verifica si el password coincide con el hash.
	// No accede a la BD, solo hace la comparación (tiempo constante).
	CheckPassword(hash, password string) bool
}
