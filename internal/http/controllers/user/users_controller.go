// Package user contiene los controllers HTTP de usuarios.
package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/user"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/user"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// UsersController maneja la gestión de usuarios.
type UsersController struct {
	service svc.Service
}

// NewUsersController crea el controller de usuarios.
func NewUsersController(service svc.Service) *UsersController {
	return &UsersController{service: service}
}

// List maneja GET /v1/users. Requiere MANAGE_USERS.
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize == 0 {
		pageSize = 20
	}

	resp, err := c.service.List(ctx, claims, page, pageSize, q.Get("search"))
	if err != nil {
		writeUserError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Get maneja GET /v1/users/{id}.
func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	resp, err := c.service.Get(ctx, claims, chi.URLParam(r, "id"))
	if err != nil {
		writeUserError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Update maneja PATCH /v1/users/{id}. Requiere MANAGE_USERS.
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Update"))

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Update(ctx, claims, chi.URLParam(r, "id"), req)
	if err != nil {
		log.Debug("update user failed", logger.Err(err))
		writeUserError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Delete maneja DELETE /v1/users/{id}. Requiere MANAGE_USERS.
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	if err := c.service.Delete(ctx, claims, chi.URLParam(r, "id")); err != nil {
		writeUserError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid user input"))
	case errors.Is(err, svc.ErrUserMissing):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, svc.ErrForbidden):
		httperrors.WriteError(w, httperrors.ErrForbidden)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
