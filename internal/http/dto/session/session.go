package session

import "time"

// SessionResponse representa una sesión (refresh token) en la API.
type SessionResponse struct {
	ID         string     `json:"id"`
	DeviceInfo string     `json:"device_info,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	Current    bool       `json:"current,omitempty"`
}

// ListResponse es la respuesta de GET /v1/sessions sin agrupar.
type ListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int               `json:"total"`
}

// Group es un grupo de sesiones activas por dispositivo o IP.
type Group struct {
	Key      string            `json:"key"`
	Count    int               `json:"count"`
	Sessions []SessionResponse `json:"sessions"`
}

// GroupedResponse es la respuesta de GET /v1/sessions?group_by=device|ip.
type GroupedResponse struct {
	GroupBy  string  `json:"group_by"`
	Groups   []Group `json:"groups"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Total    int     `json:"total"`
}
