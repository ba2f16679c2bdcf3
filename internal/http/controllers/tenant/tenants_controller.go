// Package tenant contiene los controllers HTTP de tenants.
package tenant

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/tenant"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/tenant"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// TenantsController maneja el CRUD de tenants.
type TenantsController struct {
	service svc.Service
}

// NewTenantsController crea el controller de tenants.
func NewTenantsController(service svc.Service) *TenantsController {
	return &TenantsController{service: service}
}

// Create maneja POST /v1/tenants. Requiere CREATE_TENANT.
func (c *TenantsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("TenantsController.Create"))

	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Create(ctx, req)
	if err != nil {
		log.Debug("create tenant failed", logger.Err(err))
		writeTenantError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// Get maneja GET /v1/tenants/{id}.
func (c *TenantsController) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTenantError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// List maneja GET /v1/tenants.
func (c *TenantsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize == 0 {
		pageSize = 20
	}

	resp, err := c.service.List(ctx, page, pageSize, q.Get("search"))
	if err != nil {
		logger.From(ctx).Error("list tenants failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Update maneja PATCH /v1/tenants/{id}.
func (c *TenantsController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeTenantError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Delete maneja DELETE /v1/tenants/{id}.
func (c *TenantsController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeTenantError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeTenantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid tenant input"))
	case errors.Is(err, svc.ErrSlugTaken):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists)
	case errors.Is(err, svc.ErrTenantMissing):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
