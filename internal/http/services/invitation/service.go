// Package invitation implementa la creación y listado de invitaciones de
// registro de un solo uso. El token opaco se devuelve una sola vez; en la
// BD solo vive su hash.
package invitation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/max31337/salesoptimizer-sub001/internal/audit"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/invitation"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
	tokens "github.com/max31337/salesoptimizer-sub001/internal/security/token"
)

// Bytes de entropía del token opaco de invitación.
const tokenBytes = 32

// Errores del servicio de invitaciones.
var (
	ErrInvalidInput   = errors.New("invalid invitation input")
	ErrPendingExists  = errors.New("pending invitation already exists for email")
	ErrRoleNotAllowed = errors.New("role not allowed for invitation")
)

// Service define las operaciones sobre invitaciones.
type Service interface {
	// Create genera el token opaco, persiste el hash y devuelve el token
	// en claro una única vez.
	Create(ctx context.Context, claims *jwtx.Claims, in dto.CreateRequest) (*dto.CreateResponse, error)

	// List lista invitaciones. Los org_admin solo ven las de su tenant.
	List(ctx context.Context, claims *jwtx.Claims, page, pageSize int) (*dto.ListResponse, error)
}

// Deps contiene las dependencias del servicio de invitaciones.
type Deps struct {
	Invitations repository.InvitationRepository
	TTL         time.Duration
}

type service struct {
	deps Deps
}

// NewService crea el servicio de invitaciones.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Create(ctx context.Context, claims *jwtx.Claims, in dto.CreateRequest) (*dto.CreateResponse, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	role := repository.Role(strings.TrimSpace(in.Role))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	if !role.Valid() {
		return nil, ErrInvalidInput
	}
	// Nadie invita a un super_admin: ese rol solo existe vía bootstrap
	if role == repository.RoleSuperAdmin {
		return nil, ErrRoleNotAllowed
	}

	// Tenant de la invitación: el del body o el del emisor
	var tenantID *string
	if t := strings.TrimSpace(in.TenantID); t != "" {
		tenantID = &t
	} else if claims.TenantID != "" {
		t := claims.TenantID
		tenantID = &t
	}

	raw, err := tokens.GenerateOpaqueToken(tokenBytes)
	if err != nil {
		return nil, err
	}

	inv, err := s.deps.Invitations.Create(ctx, repository.CreateInvitationInput{
		Email:            email,
		Role:             role,
		TokenHash:        tokens.SHA256Base64URL(raw),
		InvitedBy:        claims.UserID,
		OrganizationName: strings.TrimSpace(in.OrganizationName),
		TenantID:         tenantID,
		TTL:              s.deps.TTL,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrPendingExists
		}
		return nil, err
	}

	audit.Log(ctx, audit.EventInvitationCreated,
		logger.UserID(claims.UserID),
		logger.Email(email),
		logger.String("invitation_id", inv.ID),
	)

	return &dto.CreateResponse{
		InvitationResponse: toResponse(inv),
		Token:              raw,
	}, nil
}

func (s *service) List(ctx context.Context, claims *jwtx.Claims, page, pageSize int) (*dto.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	filter := repository.ListInvitationsFilter{Page: page, PageSize: pageSize}
	// Sin MANAGE_SYSTEM el listado queda acotado al tenant del caller
	if claims.Role != string(repository.RoleSuperAdmin) && claims.TenantID != "" {
		t := claims.TenantID
		filter.TenantID = &t
	}

	invs, total, err := s.deps.Invitations.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.InvitationResponse, 0, len(invs))
	for i := range invs {
		out = append(out, toResponse(&invs[i]))
	}
	return &dto.ListResponse{Invitations: out, Page: page, PageSize: pageSize, Total: total}, nil
}

func toResponse(i *repository.Invitation) dto.InvitationResponse {
	r := dto.InvitationResponse{
		ID:               i.ID,
		Email:            i.Email,
		Role:             string(i.Role),
		OrganizationName: i.OrganizationName,
		ExpiresAt:        i.ExpiresAt,
		IsUsed:           i.IsUsed,
		UsedAt:           i.UsedAt,
		CreatedAt:        i.CreatedAt,
	}
	if i.TenantID != nil {
		r.TenantID = *i.TenantID
	}
	return r
}
