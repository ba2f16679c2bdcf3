// Package user implementa la gestión de usuarios. El alcance depende del
// caller: MANAGE_SYSTEM ve todo, MANAGE_ORGANIZATION solo su tenant.
package user

import (
	"context"
	"errors"
	"strings"

	"github.com/max31337/salesoptimizer-sub001/internal/audit"
	"github.com/max31337/salesoptimizer-sub001/internal/authz"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/user"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// Errores del servicio de usuarios.
var (
	ErrInvalidInput = errors.New("invalid user input")
	ErrUserMissing  = errors.New("user not found")
	ErrForbidden    = errors.New("operation not allowed")
)

// Service define las operaciones sobre usuarios.
type Service interface {
	Get(ctx context.Context, claims *jwtx.Claims, userID string) (*dto.UserResponse, error)
	List(ctx context.Context, claims *jwtx.Claims, page, pageSize int, search string) (*dto.ListResponse, error)
	Update(ctx context.Context, claims *jwtx.Claims, userID string, in dto.UpdateRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, claims *jwtx.Claims, userID string) error
}

// Deps contiene las dependencias del servicio de usuarios.
type Deps struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
}

type service struct {
	deps Deps
}

// NewService crea el servicio de usuarios.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

// inScope decide si el caller puede operar sobre el usuario dado.
// No-sistema: solo usuarios del mismo tenant. La respuesta para usuarios
// fuera de alcance es la misma que para inexistentes.
func inScope(claims *jwtx.Claims, u *repository.User) bool {
	if authz.HasPermission(repository.Role(claims.Role), authz.PermManageSystem) {
		return true
	}
	if u.TenantID == nil {
		return false
	}
	return claims.TenantID != "" && *u.TenantID == claims.TenantID
}

func (s *service) Get(ctx context.Context, claims *jwtx.Claims, userID string) (*dto.UserResponse, error) {
	u, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserMissing
		}
		return nil, err
	}
	if !inScope(claims, u) && claims.UserID != u.ID {
		return nil, ErrUserMissing
	}
	resp := toResponse(u)
	return &resp, nil
}

func (s *service) List(ctx context.Context, claims *jwtx.Claims, page, pageSize int, search string) (*dto.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	filter := repository.ListUsersFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
	}
	if !authz.HasPermission(repository.Role(claims.Role), authz.PermManageSystem) {
		if claims.TenantID == "" {
			return nil, ErrForbidden
		}
		t := claims.TenantID
		filter.TenantID = &t
	}

	users, total, err := s.deps.Users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toResponse(&users[i]))
	}
	return &dto.ListResponse{Users: out, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *service) Update(ctx context.Context, claims *jwtx.Claims, userID string, in dto.UpdateRequest) (*dto.UserResponse, error) {
	u, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserMissing
		}
		return nil, err
	}
	if !inScope(claims, u) {
		return nil, ErrUserMissing
	}

	input := repository.UpdateUserInput{Username: in.Username}
	if in.Role != nil {
		role := repository.Role(*in.Role)
		if !role.Valid() {
			return nil, ErrInvalidInput
		}
		// La promoción a super_admin solo puede venir del bootstrap;
		// la capa de persistencia además lo rechazaría con conflicto.
		if role == repository.RoleSuperAdmin {
			return nil, ErrForbidden
		}
		input.Role = &role
	}
	if in.Status != nil {
		st := repository.UserStatus(*in.Status)
		if st != repository.UserActive && st != repository.UserInactive && st != repository.UserPending {
			return nil, ErrInvalidInput
		}
		input.Status = &st
	}

	updated, err := s.deps.Users.Update(ctx, userID, input)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserMissing
		}
		return nil, err
	}

	// Desactivar a alguien corta también sus sesiones vivas
	if input.Status != nil && *input.Status == repository.UserInactive {
		if n, err := s.deps.Sessions.RevokeAllByUser(ctx, userID); err == nil && n > 0 {
			logger.From(ctx).Info("sessions revoked on deactivation",
				logger.UserID(userID), logger.Count(n))
		}
	}

	resp := toResponse(updated)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, claims *jwtx.Claims, userID string) error {
	u, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserMissing
		}
		return err
	}
	if !inScope(claims, u) {
		return ErrUserMissing
	}
	if u.Role == repository.RoleSuperAdmin {
		return ErrForbidden
	}

	if err := s.deps.Users.Delete(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserMissing
		}
		return err
	}

	audit.Log(ctx, audit.EventUserDeleted,
		logger.UserID(claims.UserID),
		logger.String("deleted_user_id", userID),
	)
	return nil
}

func toResponse(u *repository.User) dto.UserResponse {
	r := dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		Status:        string(u.Status),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.TenantID != nil {
		r.TenantID = *u.TenantID
	}
	if u.Username != nil {
		r.Username = *u.Username
	}
	return r
}
