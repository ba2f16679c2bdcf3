package auth

import (
	"net/http"

	"github.com/max31337/salesoptimizer-sub001/internal/authz"
	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/auth"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// MeController expone la identidad del usuario autenticado.
type MeController struct {
	users repository.UserRepository
}

// Me maneja GET /v1/auth/me. Requiere auth.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MeController.Me"))

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	user, err := c.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			httperrors.WriteError(w, httperrors.ErrTokenInvalid)
			return
		}
		log.Error("user lookup failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	perms := authz.PermissionsFor(user.Role)
	permStrs := make([]string, 0, len(perms))
	for _, p := range perms {
		permStrs = append(permStrs, string(p))
	}

	resp := dto.MeResponse{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        string(user.Role),
		Status:      string(user.Status),
		Permissions: permStrs,
	}
	if user.TenantID != nil {
		resp.TenantID = *user.TenantID
	}
	if user.Username != nil {
		resp.Username = *user.Username
	}

	helpers.WriteJSON(w, http.StatusOK, resp)
}
