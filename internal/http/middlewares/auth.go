package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

// TokenVerifier valida un access token crudo y devuelve sus claims.
// La implementación real (el auth service) compone decode + blacklist + estado
// del usuario; el middleware no conoce esos detalles.
type TokenVerifier interface {
	VerifyAccess(ctx context.Context, raw string) (*jwtx.Claims, error)
}

// ExtractToken obtiene el access token del request: primero el header
// Authorization: Bearer, si no, la cookie access_token. Ambos caminos
// convergen en la misma verificación.
func ExtractToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah != "" && strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return strings.TrimSpace(ah[len("Bearer "):])
	}
	if ck, err := r.Cookie(helpers.AccessCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	return ""
}

// RequireAuth valida el access token (header o cookie) y guarda las claims
// en el contexto. Si el token falta, es inválido o fue revocado, responde 401.
func RequireAuth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			claims, err := verifier.VerifyAccess(r.Context(), raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				if errors.Is(err, jwtx.ErrTokenExpired) {
					httperrors.WriteError(w, httperrors.ErrTokenExpired)
					return
				}
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
