package repository

import (
	"context"
	"time"
)

// TenantStatus es el estado de un tenant.
type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

// Tenant representa una organización (cliente del CRM).
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Status    TenantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTenantInput contiene los datos para crear un tenant.
type CreateTenantInput struct {
	Name string
	Slug string
}

// UpdateTenantInput contiene los campos actualizables de un tenant.
type UpdateTenantInput struct {
	Name   *string
	Status *TenantStatus
}

// ListTenantsFilter opciones para listar tenants.
type ListTenantsFilter struct {
	Page     int
	PageSize int
	Search   string
}

// TenantRepository define operaciones sobre tenants.
type TenantRepository interface {
	// GetByID busca un tenant por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, tenantID string) (*Tenant, error)

	// GetBySlug busca un tenant por slug. Retorna ErrNotFound si no existe.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)

	// Create crea un nuevo tenant. Retorna ErrConflict si el slug ya existe.
	Create(ctx context.Context, input CreateTenantInput) (*Tenant, error)

	// Update actualiza campos de un tenant.
	Update(ctx context.Context, tenantID string, input UpdateTenantInput) (*Tenant, error)

	// List lista tenants con paginación. El segundo retorno es el total.
	List(ctx context.Context, filter ListTenantsFilter) ([]Tenant, int, error)

	// Delete elimina un tenant por ID. Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, tenantID string) error
}
