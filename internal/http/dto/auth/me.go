package auth

// MeResponse es la respuesta de GET /v1/auth/me.
type MeResponse struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Username    string   `json:"username,omitempty"`
	Role        string   `json:"role"`
	TenantID    string   `json:"tenant_id,omitempty"`
	Status      string   `json:"status"`
	Permissions []string `json:"permissions"`
}
