// Package session implementa el listado y la revocación de sesiones del
// usuario autenticado.
package session

import (
	"context"
	"errors"

	"github.com/max31337/salesoptimizer-sub001/internal/audit"
	"github.com/max31337/salesoptimizer-sub001/internal/authz"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/session"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// ErrSessionNotFound cubre tanto la sesión inexistente como la ajena:
// el caller no puede distinguir qué sesiones existen fuera de su alcance.
var ErrSessionNotFound = errors.New("session not found")

// Service define las operaciones sobre sesiones del usuario.
type Service interface {
	// List lista las sesiones del usuario con paginación (clamp silencioso).
	List(ctx context.Context, userID string, status repository.SessionStatus, page, pageSize int) (*dto.ListResponse, error)

	// ListGrouped agrupa las sesiones activas por dispositivo o IP.
	ListGrouped(ctx context.Context, userID string, dim repository.GroupDimension, page, pageSize int) (*dto.GroupedResponse, error)

	// Revoke revoca una sesión por ID. Solo el dueño o quien tenga
	// MANAGE_SYSTEM; para el resto la sesión "no existe".
	Revoke(ctx context.Context, claims *jwtx.Claims, sessionID string) error
}

// Deps contiene las dependencias del servicio de sesiones.
type Deps struct {
	Sessions repository.SessionRepository
}

type service struct {
	deps Deps
}

// NewService crea el servicio de sesiones.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) List(ctx context.Context, userID string, status repository.SessionStatus, page, pageSize int) (*dto.ListResponse, error) {
	sessions, total, err := s.deps.Sessions.ListByUser(ctx, userID, status, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toResponse(&sessions[i]))
	}

	page, pageSize = clamp(page, pageSize)
	return &dto.ListResponse{
		Sessions: out,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *service) ListGrouped(ctx context.Context, userID string, dim repository.GroupDimension, page, pageSize int) (*dto.GroupedResponse, error) {
	groups, total, err := s.deps.Sessions.ListGroupedByUser(ctx, userID, dim, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]dto.Group, 0, len(groups))
	for _, g := range groups {
		sessions := make([]dto.SessionResponse, 0, len(g.Sessions))
		for i := range g.Sessions {
			sessions = append(sessions, toResponse(&g.Sessions[i]))
		}
		out = append(out, dto.Group{Key: g.Key, Count: g.Count, Sessions: sessions})
	}

	page, pageSize = clamp(page, pageSize)
	return &dto.GroupedResponse{
		GroupBy:  string(dim),
		Groups:   out,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *service) Revoke(ctx context.Context, claims *jwtx.Claims, sessionID string) error {
	sess, err := s.deps.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrSessionNotFound
		}
		return err
	}

	owner := sess.UserID == claims.UserID
	admin := authz.HasPermission(repository.Role(claims.Role), authz.PermManageSystem)
	if !owner && !admin {
		// Misma respuesta que inexistente: no revelar sesiones ajenas
		return ErrSessionNotFound
	}

	// Idempotente: revocar dos veces no es error
	if _, err := s.deps.Sessions.RevokeByID(ctx, sessionID); err != nil {
		return err
	}

	audit.Log(ctx, audit.EventSessionRevoked,
		logger.UserID(claims.UserID),
		logger.SessionID(sessionID),
	)
	return nil
}

func toResponse(s *repository.Session) dto.SessionResponse {
	r := dto.SessionResponse{
		ID:        s.ID,
		Status:    string(repository.SessionStatusActive),
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		RevokedAt: s.RevokedAt,
	}
	if s.Revoked {
		r.Status = string(repository.SessionStatusRevoked)
	}
	if s.DeviceInfo != nil {
		r.DeviceInfo = *s.DeviceInfo
	}
	if s.IPAddress != nil {
		r.IPAddress = *s.IPAddress
	}
	if s.UserAgent != nil {
		r.UserAgent = *s.UserAgent
	}
	return r
}

// clamp replica la política de paginación del repositorio para que la
// respuesta refleje los valores efectivamente usados.
func clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
