package auth

// RefreshRequest es el body de POST /v1/auth/refresh.
// El token también puede venir en la cookie refresh_token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}
