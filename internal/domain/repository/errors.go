package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: duplicado, constraint violation).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSuperAdminExists indica que ya existe un super_admin en el sistema.
	// Lo levanta la capa de persistencia (constraint), no la de aplicación.
	ErrSuperAdminExists = errors.New("super admin already exists")

	// ErrInvitationUsed indica que la invitación ya fue canjeada.
	ErrInvitationUsed = errors.New("invitation already used")

	// ErrInvitationExpired indica que la invitación ya expiró.
	ErrInvitationExpired = errors.New("invitation expired")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
