package invitation

import "time"

// CreateRequest es el body de POST /v1/invitations.
type CreateRequest struct {
	Email            string `json:"email"`
	Role             string `json:"role"`
	OrganizationName string `json:"organization_name,omitempty"`
	TenantID         string `json:"tenant_id,omitempty"`
}

// CreateResponse incluye el token opaco. Se devuelve UNA sola vez: solo
// se persiste el hash.
type CreateResponse struct {
	InvitationResponse
	Token string `json:"token"`
}

// InvitationResponse representa una invitación en la API (sin token).
type InvitationResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	OrganizationName string     `json:"organization_name,omitempty"`
	TenantID         string     `json:"tenant_id,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at"`
	IsUsed           bool       `json:"is_used"`
	UsedAt           *time.Time `json:"used_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ListResponse es la respuesta de GET /v1/invitations.
type ListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	Total       int                  `json:"total"`
}
