package auth

import (
	"net/http"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/auth"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// LogoutController maneja logout y logout-all.
type LogoutController struct {
	service svc.Service
	cookies helpers.CookieSettings
}

// Logout maneja POST /v1/auth/logout. Requiere auth.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.LogoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
	}

	if err := c.service.Logout(ctx, claims, refreshFromRequest(r, req.RefreshToken)); err != nil {
		log.Error("logout failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.ClearAuthCookies(w, c.cookies)
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll maneja POST /v1/auth/logout-all. Requiere auth.
func (c *LogoutController) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.LogoutAll"))

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	n, err := c.service.LogoutAll(ctx, claims)
	if err != nil {
		log.Error("logout all failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.ClearAuthCookies(w, c.cookies)
	helpers.WriteJSON(w, http.StatusOK, dto.LogoutAllResponse{RevokedSessions: n})
}
