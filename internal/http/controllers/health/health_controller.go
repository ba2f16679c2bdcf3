// Package health expone el endpoint de salud del servicio.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/max31337/salesoptimizer-sub001/internal/cache"
	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	"github.com/max31337/salesoptimizer-sub001/internal/store/pg"
)

// HealthController chequea las dependencias del servicio.
type HealthController struct {
	store *pg.Store
	cache cache.Client
}

// NewHealthController crea el controller de salud.
func NewHealthController(store *pg.Store, cacheClient cache.Client) *HealthController {
	return &HealthController{store: store, cache: cacheClient}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthz maneja GET /healthz.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	if err := c.store.Pool().Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		resp.Checks["postgres"] = "ok"
	}

	if err := c.cache.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		resp.Checks["cache"] = "ok"
	}

	helpers.WriteJSON(w, status, resp)
}
