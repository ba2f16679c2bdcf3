package auth

import (
	"net/http"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/auth"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// RefreshController maneja la rotación de refresh tokens.
type RefreshController struct {
	service svc.Service
	cookies helpers.CookieSettings
}

// Refresh maneja POST /v1/auth/refresh
func (c *RefreshController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RefreshController.Refresh"))

	// Body opcional: el token puede venir solo en la cookie
	var req dto.RefreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !helpers.ReadJSON(w, r, &req) {
			return
		}
	}

	raw := refreshFromRequest(r, req.RefreshToken)
	if raw == "" {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}

	pair, err := c.service.Refresh(ctx, raw, deviceMeta(r))
	if err != nil {
		log.Debug("refresh failed", logger.Err(err))
		helpers.ClearAuthCookies(w, c.cookies)
		writeAuthError(w, err)
		return
	}

	helpers.SetAuthCookies(w, c.cookies, pair.AccessToken, pair.RefreshToken,
		c.service.AccessTTL(), c.service.RefreshTTL())
	helpers.WriteJSON(w, http.StatusOK, pair)
}
