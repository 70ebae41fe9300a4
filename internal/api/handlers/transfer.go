package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/service"
)

type TransferHandler struct {
	transferService *service.TransferService
}

func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

type ClaimResponse struct {
	Status   domain.ClaimStatus `json:"status"`
	Warranty *domain.Warranty   `json:"warranty"`
}

// ClaimLoginURL is where a signed-out visitor of a claim link is sent; the
// redirect brings them back to the same link.
func ClaimLoginURL(r *http.Request) string {
	return "/auth?redirect=/claim/" + chi.URLParam(r, "token")
}

func (h *TransferHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	link, err := h.transferService.CreateToken(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrWarrantyNotFound) {
			http.Error(w, "Warranty not found", http.StatusNotFound)
			return
		}
		internalError(w, r, "TransferHandler.CreateLink", err)
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

// Resolve previews a claim link. Terminal outcomes keep the JSON body so
// the page can say why the link is unusable.
func (h *TransferHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}

	outcome, err := h.transferService.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		internalError(w, r, "TransferHandler.Resolve", err)
		return
	}

	writeJSON(w, claimStatusCode(outcome.Err()), outcome)
}

func (h *TransferHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	warranty, err := h.transferService.Claim(r.Context(), userID, chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, domain.ErrCannotClaimOwnWarranty) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if code := claimStatusCode(err); code != http.StatusInternalServerError {
			http.Error(w, err.Error(), code)
			return
		}
		internalError(w, r, "TransferHandler.Claim", err)
		return
	}

	writeJSON(w, http.StatusOK, ClaimResponse{
		Status:   domain.ClaimTransferred,
		Warranty: warranty,
	})
}

func claimStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTokenAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
