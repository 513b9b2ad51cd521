package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// SettingsHandler handles site-wide settings HTTP requests.
type SettingsHandler struct {
	settingsRepo usecase.SettingsRepository
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsRepo usecase.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

// Get returns the current settings, falling back to defaults when none
// have been saved.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsRepo.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get settings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettingsFromDomain(settings))
}

// Update replaces the settings record. Per-account rates already seeded
// are unaffected; only future accounts pick up new defaults.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	settings := req.ToDomain()
	if err := h.settingsRepo.Save(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettingsFromDomain(settings))
}
