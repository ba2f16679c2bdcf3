package repository

import (
	"context"
	"time"
)

// Session representa un refresh token emitido: una sesión por
// dispositivo/login. El jti es el handle de revocación.
type Session struct {
	ID         string
	UserID     string
	TokenHash  string
	JTI        string
	DeviceInfo *string
	IPAddress  *string
	UserAgent  *string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	Revoked    bool
	RevokedAt  *time.Time
}

// Active indica si la sesión sigue vigente al instante dado.
func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt.After(now)
}

// CreateSessionInput contiene los datos para registrar un refresh token.
type CreateSessionInput struct {
	UserID     string
	TokenHash  string
	JTI        string
	DeviceInfo string
	IPAddress  string
	UserAgent  string
	ExpiresAt  time.Time
}

// SessionStatus filtra sesiones por estado en los listados.
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "active"
	SessionStatusRevoked SessionStatus = "revoked"
)

// GroupDimension es la dimensión de agrupamiento de sesiones.
// Valores fuera de {device, ip} caen al listado sin agrupar.
type GroupDimension string

const (
	GroupByDevice GroupDimension = "device"
	GroupByIP     GroupDimension = "ip"
)

// SessionGroup es un grupo de sesiones activas por dispositivo o IP.
type SessionGroup struct {
	Key      string
	Count    int
	Sessions []Session
}

// SessionRepository define operaciones sobre refresh tokens / sesiones.
type SessionRepository interface {
	// Create registra un nuevo refresh token.
	// Retorna ErrConflict si el jti colisiona (no debería ocurrir con
	// generación aleatoria; el caller reintenta una vez).
	Create(ctx context.Context, input CreateSessionInput) (*Session, error)

	// GetByID busca una sesión por ID de fila. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, sessionID string) (*Session, error)

	// GetByJTI busca una sesión por jti. Retorna ErrNotFound si no existe.
	GetByJTI(ctx context.Context, jti string) (*Session, error)

	// RevokeByJTI marca la sesión como revocada de forma atómica
	// (UPDATE ... WHERE revoked = FALSE). Retorna false si ya estaba
	// revocada o no existe: es idempotente, no un error.
	RevokeByJTI(ctx context.Context, jti string) (bool, error)

	// RevokeByID es como RevokeByJTI pero por ID de fila.
	RevokeByID(ctx context.Context, sessionID string) (bool, error)

	// RevokeAllByUser revoca todas las sesiones activas de un usuario.
	// Retorna el número de sesiones revocadas.
	RevokeAllByUser(ctx context.Context, userID string) (int, error)

	// ListByUser retorna las sesiones de un usuario ordenadas por
	// created_at DESC. page se clampa a >= 1 y pageSize a 1..100.
	// El segundo retorno es el total para paginación.
	ListByUser(ctx context.Context, userID string, status SessionStatus, page, pageSize int) ([]Session, int, error)

	// ListGroupedByUser agrupa las sesiones activas de un usuario por
	// dispositivo o IP, con el mismo clamping de paginación. El segundo
	// retorno es el total de grupos.
	ListGroupedByUser(ctx context.Context, userID string, dim GroupDimension, page, pageSize int) ([]SessionGroup, int, error)

	// DeleteExpired elimina sesiones cuyo expires_at pasó hace más de
	// grace. Retorna el número de filas eliminadas.
	DeleteExpired(ctx context.Context, grace time.Duration) (int, error)
}
