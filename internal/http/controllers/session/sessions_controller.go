// Package session contiene los controllers HTTP de sesiones.
package session

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/max31337/salesoptimizer-sub001/internal/domain/repository"
	httperrors "github.com/max31337/salesoptimizer-sub001/internal/http/errors"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/http/middlewares"
	svc "github.com/max31337/salesoptimizer-sub001/internal/http/services/session"
	"github.com/max31337/salesoptimizer-sub001/internal/observability/logger"
)

// Tamaño de página por defecto cuando el cliente no lo especifica.
const defaultPageSize = 20

// SessionsController maneja el listado y la revocación de sesiones.
type SessionsController struct {
	service svc.Service
}

// NewSessionsController crea el controller de sesiones.
func NewSessionsController(service svc.Service) *SessionsController {
	return &SessionsController{service: service}
}

// List maneja GET /v1/sessions. Requiere auth.
// Query: status=active|revoked, group_by=device|ip, page, page_size.
func (c *SessionsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionsController.List"))

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	page := parseIntDefault(q.Get("page"), 1)
	pageSize := parseIntDefault(q.Get("page_size"), defaultPageSize)

	status := repository.SessionStatusActive
	if strings.EqualFold(q.Get("status"), string(repository.SessionStatusRevoked)) {
		status = repository.SessionStatusRevoked
	}

	// group_by válido agrupa; cualquier otro valor cae al listado plano
	switch repository.GroupDimension(strings.ToLower(q.Get("group_by"))) {
	case repository.GroupByDevice:
		c.listGrouped(w, r, claims.UserID, repository.GroupByDevice, page, pageSize)
		return
	case repository.GroupByIP:
		c.listGrouped(w, r, claims.UserID, repository.GroupByIP, page, pageSize)
		return
	}

	resp, err := c.service.List(ctx, claims.UserID, status, page, pageSize)
	if err != nil {
		log.Error("list sessions failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func (c *SessionsController) listGrouped(w http.ResponseWriter, r *http.Request, userID string, dim repository.GroupDimension, page, pageSize int) {
	ctx := r.Context()
	resp, err := c.service.ListGrouped(ctx, userID, dim, page, pageSize)
	if err != nil {
		logger.From(ctx).Error("list grouped sessions failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Revoke maneja DELETE /v1/sessions/{id}. Requiere auth.
func (c *SessionsController) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionsController.Revoke"))

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter)
		return
	}

	if err := c.service.Revoke(ctx, claims, sessionID); err != nil {
		if errors.Is(err, svc.ErrSessionNotFound) {
			httperrors.WriteError(w, httperrors.ErrSessionNotFound)
			return
		}
		log.Error("revoke session failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
