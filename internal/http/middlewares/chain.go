package middlewares

import "net/http"

// Middleware envuelve un http.Handler con un aspecto transversal del
// API (trazas, recover, métricas, auth).
type Middleware func(http.Handler) http.Handler

// Chain compone la pila global del servicio: Chain(h, A, B, C) deja a
// A como el middleware más externo, el primero que ve cada request y
// el último que toca la respuesta.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
