package auth

import (
	"errors"
	"net/http"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/auth"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.Service
	cookies helpers.CookieSettings
}

// Login maneja POST /v1/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	pair, err := c.service.Login(ctx, req, deviceMeta(r))
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}

	helpers.SetAuthCookies(w, c.cookies, pair.AccessToken, pair.RefreshToken,
		c.service.AccessTTL(), c.service.RefreshTTL())
	helpers.WriteJSON(w, http.StatusOK, pair)
}

// writeAuthError mapea errores del auth service a respuestas HTTP.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrUserInactive):
		httperrors.WriteError(w, httperrors.ErrAccountInactive)
	case errors.Is(err, svc.ErrInvalidRefresh):
		httperrors.WriteError(w, httperrors.ErrSessionExpired)
	case errors.Is(err, svc.ErrRefreshRevoked):
		httperrors.WriteError(w, httperrors.ErrSessionExpired)
	case errors.Is(err, svc.ErrInvitationInvalid):
		httperrors.WriteError(w, httperrors.ErrInvitationExpired)
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists)
	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("password does not meet policy"))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
