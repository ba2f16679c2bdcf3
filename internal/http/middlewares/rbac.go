package middlewares

import (
	"net/http"

	"github.com/max31337/salesoptimizer-sub001/internal/authz"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
)

// RequirePermission exige que el usuario autenticado tenga el permiso dado.
// Debe usarse después de RequireAuth. Sin claims en contexto responde 401;
// con claims pero sin el permiso, 403.
func RequirePermission(perm authz.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if !authz.HasPermission(repository.Role(claims.Role), perm) {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAll exige todos los permisos listados. La conjunción es explícita,
// no hay jerarquías implícitas entre permisos.
func RequireAll(perms ...authz.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if !authz.HasAll(repository.Role(claims.Role), perms...) {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
