// Package auth contiene los controllers HTTP de autenticación.
package auth

import (
	"net/http"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/auth"
)

// Controllers agrupa los controllers de auth ya cableados.
type Controllers struct {
	Login    *LoginController
	Refresh  *RefreshController
	Logout   *LogoutController
	Me       *MeController
	Register *RegisterController
}

// Deps contiene las dependencias para construir los controllers de auth.
type Deps struct {
	Auth    svc.Service
	Users   repository.UserRepository
	Cookies helpers.CookieSettings
}

// New construye todos los controllers de auth.
func New(deps Deps) *Controllers {
	return &Controllers{
		Login:    &LoginController{service: deps.Auth, cookies: deps.Cookies},
		Refresh:  &RefreshController{service: deps.Auth, cookies: deps.Cookies},
		Logout:   &LogoutController{service: deps.Auth, cookies: deps.Cookies},
		Me:       &MeController{users: deps.Users},
		Register: &RegisterController{service: deps.Auth, cookies: deps.Cookies},
	}
}

// deviceMeta arma los metadatos del dispositivo a partir del request.
func deviceMeta(r *http.Request) svc.DeviceMeta {
	return svc.DeviceMeta{
		DeviceInfo: r.Header.Get("X-Device-Info"),
		IPAddress:  middlewares.ClientIP(r),
		UserAgent:  r.UserAgent(),
	}
}

// refreshFromRequest obtiene el refresh token del body (ya parseado) o de
// la cookie refresh_token.
func refreshFromRequest(r *http.Request, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	if ck, err := r.Cookie(helpers.RefreshCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	return ""
}
