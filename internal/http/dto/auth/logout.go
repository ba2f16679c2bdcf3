package auth

// LogoutRequest es el body de POST /v1/auth/logout.
// El refresh token también puede venir en la cookie refresh_token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LogoutAllResponse es la respuesta de POST /v1/auth/logout-all.
type LogoutAllResponse struct {
	RevokedSessions int `json:"revoked_sessions"`
}
