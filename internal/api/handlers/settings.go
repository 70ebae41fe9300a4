package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rokko/warranty-tracker/internal/service"
)

type SettingsHandler struct {
	settingsService     *service.SettingsService
	notificationService *service.NotificationService
}

func NewSettingsHandler(settingsService *service.SettingsService, notificationService *service.NotificationService) *SettingsHandler {
	return &SettingsHandler{
		settingsService:     settingsService,
		notificationService: notificationService,
	}
}

type SettingsRequest struct {
	EmailEnabled bool   `json:"emailEnabled"`
	InAppEnabled bool   `json:"inAppEnabled"`
	ReminderDays int    `json:"reminderDays"`
	Locale       string `json:"locale"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	setting, err := h.settingsService.Get(r.Context(), userID)
	if err != nil {
		internalError(w, r, "SettingsHandler.Get", err)
		return
	}

	writeJSON(w, http.StatusOK, setting)
}

func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	setting, err := h.settingsService.Save(r.Context(), userID, service.SettingsInput{
		EmailEnabled: req.EmailEnabled,
		InAppEnabled: req.InAppEnabled,
		ReminderDays: req.ReminderDays,
		Locale:       req.Locale,
	})
	if err != nil {
		if validationError(w, err) {
			return
		}
		internalError(w, r, "SettingsHandler.Save", err)
		return
	}

	writeJSON(w, http.StatusOK, setting)
}

func (h *SettingsHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		internalError(w, r, "SettingsHandler.Notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}
