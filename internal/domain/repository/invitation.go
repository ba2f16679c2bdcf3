package repository

import (
	"context"
	"time"
)

// Invitation representa una invitación de registro de un solo uso.
type Invitation struct {
	ID               string
	Email            string
	Role             Role
	TokenHash        string
	InvitedBy        string
	OrganizationName string
	TenantID         *string
	ExpiresAt        time.Time
	IsUsed           bool
	UsedAt           *time.Time
	CreatedAt        time.Time
}

// CreateInvitationInput contiene los datos para crear una invitación.
type CreateInvitationInput struct {
	Email            string
	Role             Role
	TokenHash        string
	InvitedBy        string
	OrganizationName string
	TenantID         *string
	TTL              time.Duration
}

// ListInvitationsFilter opciones para listar invitaciones.
type ListInvitationsFilter struct {
	TenantID *string
	Page     int
	PageSize int
}

// InvitationRepository define operaciones sobre invitaciones.
type InvitationRepository interface {
	// Create crea una nueva invitación.
	// Retorna ErrConflict si ya existe una invitación pendiente para el email.
	Create(ctx context.Context, input CreateInvitationInput) (*Invitation, error)

	// GetByTokenHash busca una invitación por el hash de su token opaco.
	// Retorna ErrNotFound si no existe.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error)

	// MarkUsed marca la invitación como usada, de forma atómica:
	// UPDATE ... WHERE is_used = FALSE. Retorna ErrInvitationUsed si otro
	// canje llegó primero.
	MarkUsed(ctx context.Context, invitationID string) error

	// List lista invitaciones con paginación. El segundo retorno es el total.
	List(ctx context.Context, filter ListInvitationsFilter) ([]Invitation, int, error)

	// DeleteExpired elimina invitaciones expiradas sin usar.
	// Retorna el número de filas eliminadas.
	DeleteExpired(ctx context.Context) (int, error)
}
