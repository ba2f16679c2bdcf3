package tenant

import "time"

// CreateRequest es el body de POST /v1/tenants.
type CreateRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UpdateRequest es el body de PATCH /v1/tenants/{id}. Punteros nil se ignoran.
type UpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

// TenantResponse representa un tenant en la API.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResponse es la respuesta de GET /v1/tenants.
type ListResponse struct {
	Tenants  []TenantResponse `json:"tenants"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
}
