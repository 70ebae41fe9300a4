package handlers

import (
	"net/http"

	"github.com/rokko/warranty-tracker/internal/service"
)

type CronHandler struct {
	reminderService *service.ReminderService
}

func NewCronHandler(reminderService *service.ReminderService) *CronHandler {
	return &CronHandler{reminderService: reminderService}
}

type CronResponse struct {
	Success bool `json:"success"`
	*service.DispatchResult
	Error string `json:"error,omitempty"`
}

// Reminders runs the daily reminder job. Per-user failures are reported in
// the diagnostics of a 200; only a failure to load the users is a 500.
func (h *CronHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminderService.Run(r.Context())
	if err != nil {
		internalLog(r, "CronHandler.Reminders", err)
		writeJSON(w, http.StatusInternalServerError, CronResponse{
			Success: false,
			Error:   "Failed to send reminders",
		})
		return
	}

	writeJSON(w, http.StatusOK, CronResponse{
		Success:        true,
		DispatchResult: result,
	})
}
