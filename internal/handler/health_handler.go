package handler

import (
	"net/http"

	"go-auth-tasks/internal/database"
	"go-auth-tasks/internal/model"
)

type HealthHandler struct {
	serviceName string
	db          *database.DB
}

func NewHealthHandler(serviceName string, db *database.DB) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, db: db}
}

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.ServiceInfo{Service: h.serviceName, Status: "running"})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, model.HealthStatus{Status: "degraded"})
			return
		}
	}

	writeJSON(w, http.StatusOK, model.HealthStatus{Status: "healthy"})
}
