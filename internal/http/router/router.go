// Package router arma el árbol de rutas /v1 con chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/max31337/salesoptimizer-sub001/internal/authz"
	httpx "github.com/max31337/salesoptimizer-sub001/internal/http"
	authctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/auth"
	healthctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/health"
	invitationctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/invitation"
	sessionctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/session"
	tenantctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/tenant"
	userctrl "github.com/max31337/salesoptimizer-sub001/internal/http/controllers/user"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	mw "github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	"github.com/max31337/salesoptimizer-sub001/internal/rate"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	Auth        *authctrl.Controllers
	Sessions    *sessionctrl.SessionsController
	Tenants     *tenantctrl.TenantsController
	Invitations *invitationctrl.InvitationsController
	Users       *userctrl.UsersController
	Health      *healthctrl.HealthController

	Verifier     mw.TokenVerifier
	LoginLimiter rate.Limiter // opcional: rate limit por IP en login

	Metrics http.Handler // handler de /metrics, opcional
}

// New arma el router completo del servicio.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("method not allowed"))
	})

	r.Get("/healthz", deps.Health.Healthz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/v1", func(v1 chi.Router) {
		// Endpoints públicos de auth
		v1.Group(func(pub chi.Router) {
			if deps.LoginLimiter != nil {
				pub.Use(mw.WithRateLimit(deps.LoginLimiter, mw.IPPathRateKey))
			}
			pub.Post("/auth/login", deps.Auth.Login.Login)
			pub.Post("/auth/register", deps.Auth.Register.Register)
			pub.Post("/auth/refresh", deps.Auth.Refresh.Refresh)
		})

		// Endpoints que requieren access token válido
		v1.Group(func(priv chi.Router) {
			priv.Use(mw.RequireAuth(deps.Verifier))

			priv.Post("/auth/logout", deps.Auth.Logout.Logout)
			priv.Post("/auth/logout-all", deps.Auth.Logout.LogoutAll)
			priv.Get("/auth/me", deps.Auth.Me.Me)

			priv.Get("/sessions", deps.Sessions.List)
			priv.Delete("/sessions/{id}", deps.Sessions.Revoke)

			priv.Group(func(inv chi.Router) {
				inv.Use(perm(authz.PermCreateInvitation))
				inv.Post("/invitations", deps.Invitations.Create)
				inv.Get("/invitations", deps.Invitations.List)
			})

			priv.Group(func(t chi.Router) {
				t.Use(perm(authz.PermCreateTenant))
				t.Post("/tenants", deps.Tenants.Create)
			})
			priv.Group(func(t chi.Router) {
				t.Use(perm(authz.PermManageSystem))
				t.Get("/tenants", deps.Tenants.List)
				t.Get("/tenants/{id}", deps.Tenants.Get)
				t.Patch("/tenants/{id}", deps.Tenants.Update)
				t.Delete("/tenants/{id}", deps.Tenants.Delete)
			})

			priv.Group(func(u chi.Router) {
				u.Use(perm(authz.PermManageUsers))
				u.Get("/users", deps.Users.List)
				u.Get("/users/{id}", deps.Users.Get)
				u.Patch("/users/{id}", deps.Users.Update)
				u.Delete("/users/{id}", deps.Users.Delete)
			})
		})
	})

	// Pila global: request id -> recover -> métricas -> logging
	return mw.Chain(r,
		mw.WithRequestID(),
		mw.WithRecover(),
		httpx.WithMetrics,
		mw.WithLogging(),
	)
}

func perm(p authz.Permission) func(http.Handler) http.Handler {
	return mw.RequirePermission(p)
}
