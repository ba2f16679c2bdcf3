package middlewares

import (
	"context"
	"net"
	"net/http"
	"strings"

	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyClaims
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID extrae el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithClaims inyecta las claims del token verificado en el contexto.
func WithClaims(ctx context.Context, c *jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// GetClaims extrae las claims del contexto. Nil si no hay usuario autenticado.
func GetClaims(ctx context.Context) *jwtx.Claims {
	if v, ok := ctx.Value(ctxKeyClaims).(*jwtx.Claims); ok {
		return v
	}
	return nil
}

// GetUserID extrae el user ID del contexto. Vacío si no hay usuario.
func GetUserID(ctx context.Context) string {
	if c := GetClaims(ctx); c != nil {
		return c.UserID
	}
	return ""
}

// ClientIP extrae la IP del cliente, considerando proxies.
func ClientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
