package user

import "time"

// UserResponse representa un usuario en la API. Nunca expone el hash.
type UserResponse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id,omitempty"`
	Email         string    `json:"email"`
	Username      string    `json:"username,omitempty"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpdateRequest es el body de PATCH /v1/users/{id}. Punteros nil se ignoran.
type UpdateRequest struct {
	Username *string `json:"username,omitempty"`
	Role     *string `json:"role,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// ListResponse es la respuesta de GET /v1/users.
type ListResponse struct {
	Users    []UserResponse `json:"users"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int            `json:"total"`
}
