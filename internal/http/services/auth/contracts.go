// Package auth implementa el núcleo de autenticación: login, emisión y
// verificación de tokens, rotación de refresh y la orquestación de
// revocación entre el session store y la blacklist de access tokens.
package auth

import (
	"context"
	"errors"
	"time"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

// Errores del servicio de autenticación.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user inactive")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
	ErrRefreshRevoked     = errors.New("refresh token revoked")
	ErrTokenRevoked       = errors.New("access token revoked")
	ErrInvitationInvalid  = errors.New("invitation invalid or expired")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet policy")
)

// DeviceMeta son los metadatos del dispositivo que abre la sesión.
type DeviceMeta struct {
	DeviceInfo string
	IPAddress  string
	UserAgent  string
}

// Service define el núcleo de autenticación.
type Service interface {
	// Login verifica credenciales, persiste la sesión y emite el par de
	// tokens. ErrInvalidCredentials en credenciales malas o usuario
	// inexistente; ErrUserInactive si la cuenta no está activa.
	Login(ctx context.Context, in dto.LoginRequest, meta DeviceMeta) (*dto.TokenPairResponse, error)

	// VerifyAccess decodifica el access token y compone los chequeos de
	// estado: blacklist de jti y usuario activo. Un fallo del store se
	// trata como fallo de autenticación, nunca como bypass.
	VerifyAccess(ctx context.Context, raw string) (*jwtx.Claims, error)

	// Refresh rota el refresh token: revoca la sesión vieja de forma
	// atómica e inserta la nueva. De dos refresh concurrentes con el
	// mismo token, solo uno gana; el otro recibe ErrRefreshRevoked.
	Refresh(ctx context.Context, rawRefresh string, meta DeviceMeta) (*dto.TokenPairResponse, error)

	// Logout revoca la sesión del refresh token y pone el jti del access
	// en la blacklist por su vida restante. Idempotente: sesión ya
	// revocada o inexistente no es error.
	Logout(ctx context.Context, accessClaims *jwtx.Claims, rawRefresh string) error

	// LogoutAll revoca todas las sesiones del usuario. Retorna cuántas
	// revocó; cero no es error.
	LogoutAll(ctx context.Context, accessClaims *jwtx.Claims) (int, error)

	// Register canjea una invitación de un solo uso y crea el usuario,
	// luego abre sesión como un login.
	Register(ctx context.Context, in dto.RegisterRequest, meta DeviceMeta) (*dto.RegisterResponse, error)

	// RefreshTTL expone el TTL del refresh para las cookies.
	RefreshTTL() time.Duration

	// AccessTTL expone el TTL del access para las cookies.
	AccessTTL() time.Duration
}
