package auth

// RegisterRequest es el body de POST /v1/auth/register.
// El registro canjea una invitación de un solo uso.
type RegisterRequest struct {
	// Token es el token opaco de la invitación.
	Token string `json:"token"`
	// Password es requerido y está sujeto a la política de contraseñas.
	Password string `json:"password"`
	// Username es opcional.
	Username string `json:"username,omitempty"`
}

// RegisterResponse es la respuesta de un registro exitoso.
type RegisterResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
