package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/api/middleware"
	"github.com/rokko/warranty-tracker/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// callerID reads the authenticated user; handlers behind middleware.Auth
// always have one.
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

// pathUUID parses a UUID path parameter, answering 400 when it is malformed
// so nothing is looked up with it.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// validationError answers 400 with the field message if err is a
// validation failure.
func validationError(w http.ResponseWriter, err error) bool {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return true
	}
	return false
}

func internalError(w http.ResponseWriter, r *http.Request, where string, err error) {
	internalLog(r, where, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func internalLog(r *http.Request, where string, err error) {
	middleware.Logger(r.Context()).Error().Err(err).Msg("[" + where + "] request failed")
}
