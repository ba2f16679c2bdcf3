// Package jwt emite y valida los tokens firmados del servicio.
//
// El Parse es un decode puro (firma + exp/nbf): el chequeo de revocación
// por jti lo componen los services contra el session store / blacklist,
// para que cada paso sea testeable por separado.
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token en el claim "typ".
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var (
	// ErrTokenExpired indica que el token ya expiró.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed indica firma inválida, formato inválido o claims
	// faltantes.
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims son los claims decodificados de un token del servicio.
type Claims struct {
	UserID    string
	Role      string
	TenantID  string // vacío = usuario de plataforma
	JTI       string
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer firma tokens HS256 con un secret compartido.
type Issuer struct {
	Iss        string
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now permite inyectar el reloj en tests. Default: time.Now.
	Now func() time.Time
}

// NewIssuer crea un issuer con TTLs por defecto (30m access, 7d refresh).
func NewIssuer(iss string, secret []byte) *Issuer {
	return &Issuer{
		Iss:        iss,
		Secret:     secret,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 168 * time.Hour,
	}
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now().UTC()
	}
	return time.Now().UTC()
}

// IssueAccess emite un access token de vida corta con jti único.
func (i *Issuer) IssueAccess(userID, role, tenantID string) (string, Claims, error) {
	return i.sign(userID, role, tenantID, TokenAccess, i.AccessTTL)
}

// IssueRefresh emite un refresh token de vida larga con jti único.
// El caller es responsable de persistir el registro de sesión.
func (i *Issuer) IssueRefresh(userID, role, tenantID string) (string, Claims, error) {
	return i.sign(userID, role, tenantID, TokenRefresh, i.RefreshTTL)
}

func (i *Issuer) sign(userID, role, tenantID, typ string, ttl time.Duration) (string, Claims, error) {
	now := i.now()
	exp := now.Add(ttl)
	jti := uuid.NewString()

	claims := jwtv5.MapClaims{
		"iss": i.Iss,
		"sub": userID,
		"jti": jti,
		"typ": typ,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	if tenantID != "" {
		claims["tid"] = tenantID
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", Claims{}, err
	}

	return signed, Claims{
		UserID:    userID,
		Role:      role,
		TenantID:  tenantID,
		JTI:       jti,
		TokenType: typ,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Parse valida firma (HS256), iss y exp/nbf con una pequeña tolerancia, y
// devuelve los claims tipados. No consulta estado de revocación.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		return i.Secret, nil
	}

	tok, err := jwtv5.Parse(raw, keyfunc,
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(i.Iss),
		jwtv5.WithLeeway(30*time.Second),
		jwtv5.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !tok.Valid {
		return nil, ErrTokenMalformed
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	c := &Claims{}
	if c.UserID, _ = mc["sub"].(string); c.UserID == "" {
		return nil, ErrTokenMalformed
	}
	if c.JTI, _ = mc["jti"].(string); c.JTI == "" {
		return nil, ErrTokenMalformed
	}
	if c.TokenType, _ = mc["typ"].(string); c.TokenType == "" {
		return nil, ErrTokenMalformed
	}
	c.Role, _ = mc["role"].(string)
	c.TenantID, _ = mc["tid"].(string)
	if iat, ok := mc["iat"].(float64); ok {
		c.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return c, nil
}
