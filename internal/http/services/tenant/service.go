// Package tenant implementa la gestión de tenants (organizaciones).
package tenant

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/max31337/salesoptimizer-sub001/internal/audit"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/tenant"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// Errores del servicio de tenants.
var (
	ErrInvalidInput  = errors.New("invalid tenant input")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrTenantMissing = errors.New("tenant not found")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Service define las operaciones sobre tenants.
type Service interface {
	Create(ctx context.Context, in dto.CreateRequest) (*dto.TenantResponse, error)
	Get(ctx context.Context, tenantID string) (*dto.TenantResponse, error)
	Update(ctx context.Context, tenantID string, in dto.UpdateRequest) (*dto.TenantResponse, error)
	List(ctx context.Context, page, pageSize int, search string) (*dto.ListResponse, error)
	Delete(ctx context.Context, tenantID string) error
}

// Deps contiene las dependencias del servicio de tenants.
type Deps struct {
	Tenants repository.TenantRepository
}

type service struct {
	deps Deps
}

// NewService crea el servicio de tenants.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Create(ctx context.Context, in dto.CreateRequest) (*dto.TenantResponse, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.TrimSpace(strings.ToLower(in.Slug))
	if name == "" || slug == "" || !slugRe.MatchString(slug) {
		return nil, ErrInvalidInput
	}

	t, err := s.deps.Tenants.Create(ctx, repository.CreateTenantInput{Name: name, Slug: slug})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	audit.Log(ctx, audit.EventTenantCreated, logger.TenantID(t.ID), logger.String("slug", t.Slug))
	resp := toResponse(t)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, tenantID string) (*dto.TenantResponse, error) {
	t, err := s.deps.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTenantMissing
		}
		return nil, err
	}
	resp := toResponse(t)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, tenantID string, in dto.UpdateRequest) (*dto.TenantResponse, error) {
	input := repository.UpdateTenantInput{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		input.Name = &name
	}
	if in.Status != nil {
		st := repository.TenantStatus(*in.Status)
		if st != repository.TenantActive && st != repository.TenantSuspended {
			return nil, ErrInvalidInput
		}
		input.Status = &st
	}

	t, err := s.deps.Tenants.Update(ctx, tenantID, input)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTenantMissing
		}
		return nil, err
	}
	resp := toResponse(t)
	return &resp, nil
}

func (s *service) List(ctx context.Context, page, pageSize int, search string) (*dto.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}
	tenants, total, err := s.deps.Tenants.List(ctx, repository.ListTenantsFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.TenantResponse, 0, len(tenants))
	for i := range tenants {
		out = append(out, toResponse(&tenants[i]))
	}
	return &dto.ListResponse{Tenants: out, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *service) Delete(ctx context.Context, tenantID string) error {
	err := s.deps.Tenants.Delete(ctx, tenantID)
	if repository.IsNotFound(err) {
		return ErrTenantMissing
	}
	return err
}

func toResponse(t *repository.Tenant) dto.TenantResponse {
	return dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
