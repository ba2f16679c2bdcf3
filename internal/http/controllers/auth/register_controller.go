package auth

import (
	"net/http"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/auth"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// RegisterController maneja el registro por invitación.
type RegisterController struct {
	service svc.Service
	cookies helpers.CookieSettings
}

// Register maneja POST /v1/auth/register
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Register(ctx, req, deviceMeta(r))
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}

	helpers.SetAuthCookies(w, c.cookies, resp.AccessToken, resp.RefreshToken,
		c.service.AccessTTL(), c.service.RefreshTTL())
	helpers.WriteJSON(w, http.StatusCreated, resp)
}
