package handler

import (
	"context"
	"net/http"
)

// MaintenanceService defines the behavior needed by MaintenanceHandler.
type MaintenanceService interface {
	RunDaily(ctx context.Context) error
}

// MaintenanceHandler triggers the daily maintenance sweep on demand. The
// scheduler runs the same sweep; the endpoint exists for operators and
// integration environments.
type MaintenanceHandler struct {
	maintenanceUC MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(maintenanceUC MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceUC: maintenanceUC}
}

// Run executes one full maintenance pass. Safe to call repeatedly; every
// engine it drives is idempotent per day.
func (h *MaintenanceHandler) Run(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenanceUC.RunDaily(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "maintenance run failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
