package helpers

import (
	"net/http"
	"time"
)

// CookieSettings agrupa la configuración de cookies de autenticación.
type CookieSettings struct {
	Domain   string
	SameSite string
	Secure   bool
}

// SetAuthCookies escribe las cookies access_token y refresh_token.
func SetAuthCookies(w http.ResponseWriter, cs CookieSettings, access, refresh string, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, BuildCookie(AccessCookieName, access, cs.Domain, cs.SameSite, cs.Secure, accessTTL))
	http.SetCookie(w, BuildCookie(RefreshCookieName, refresh, cs.Domain, cs.SameSite, cs.Secure, refreshTTL))
}

// ClearAuthCookies borra las cookies de autenticación en el cliente.
func ClearAuthCookies(w http.ResponseWriter, cs CookieSettings) {
	http.SetCookie(w, BuildDeletionCookie(AccessCookieName, cs.Domain, cs.SameSite, cs.Secure))
	http.SetCookie(w, BuildDeletionCookie(RefreshCookieName, cs.Domain, cs.SameSite, cs.Secure))
}
