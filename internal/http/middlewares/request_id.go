package middlewares

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Header de correlación aceptado y devuelto por el API.
const requestIDHeader = "X-Request-ID"

// Largo máximo aceptado para un ID provisto por el cliente.
const maxRequestIDLen = 128

// WithRequestID propaga el X-Request-ID del cliente o genera un uuid
// nuevo. El ID viaja en el contexto para los logs de la request y
// vuelve en el header de respuesta.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if rid == "" || len(rid) > maxRequestIDLen {
				rid = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, rid)

			ctx := setRequestID(r.Context(), rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
