// Package invitation contiene los controllers HTTP de invitaciones.
package invitation

import (
	"errors"
	"net/http"
	"strconv"

	dto "github.com/max31337/salesoptimizer-sub001/internal/http/dto/invitation"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/invitation"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// InvitationsController maneja la creación y listado de invitaciones.
type InvitationsController struct {
	service svc.Service
}

// NewInvitationsController crea el controller de invitaciones.
func NewInvitationsController(service svc.Service) *InvitationsController {
	return &InvitationsController{service: service}
}

// Create maneja POST /v1/invitations. Requiere CREATE_INVITATION.
func (c *InvitationsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("InvitationsController.Create"))

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Create(ctx, claims, req)
	if err != nil {
		log.Debug("create invitation failed", logger.Err(err))
		switch {
		case errors.Is(err, svc.ErrInvalidInput):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid invitation input"))
		case errors.Is(err, svc.ErrRoleNotAllowed):
			httperrors.WriteError(w, httperrors.ErrForbidden)
		case errors.Is(err, svc.ErrPendingExists):
			httperrors.WriteError(w, httperrors.ErrAlreadyExists.WithDetail("pending invitation exists for email"))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// List maneja GET /v1/invitations. Requiere CREATE_INVITATION.
func (c *InvitationsController) List(w http.ResponseWriter, r *http.Request) {
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

	resp, err := c.service.List(ctx, claims, page, pageSize)
	if err != nil {
		logger.From(ctx).Error("list invitations failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
