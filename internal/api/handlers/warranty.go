package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/service"
)

type WarrantyHandler struct {
	warrantyService *service.WarrantyService
}

func NewWarrantyHandler(warrantyService *service.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{warrantyService: warrantyService}
}

// WarrantyRequest is the create/update form. Dates are YYYY-MM-DD.
type WarrantyRequest struct {
	ProductName     string   `json:"productName"`
	Brand           string   `json:"brand"`
	PurchaseDate    string   `json:"purchaseDate"`
	WarrantyExpires string   `json:"warrantyExpires"`
	Category        string   `json:"category"`
	Store           string   `json:"store"`
	Price           *float64 `json:"price"`
	SerialNumber    string   `json:"serialNumber"`
	Notes           string   `json:"notes"`
}

func (req WarrantyRequest) input() (domain.WarrantyInput, error) {
	in := domain.WarrantyInput{
		ProductName:  req.ProductName,
		Brand:        req.Brand,
		Category:     req.Category,
		Store:        req.Store,
		Price:        req.Price,
		SerialNumber: req.SerialNumber,
		Notes:        req.Notes,
	}

	var err error
	if in.PurchaseDate, err = optionalDate("purchaseDate", req.PurchaseDate); err != nil {
		return in, err
	}
	if in.WarrantyExpires, err = optionalDate("warrantyExpires", req.WarrantyExpires); err != nil {
		return in, err
	}
	return in, nil
}

// optionalDate leaves a missing date zero so the domain reports it as
// required.
func optionalDate(field, s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, &domain.ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return d, nil
}

func (h *WarrantyHandler) decode(w http.ResponseWriter, r *http.Request) (domain.WarrantyInput, bool) {
	var req WarrantyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return domain.WarrantyInput{}, false
	}
	in, err := req.input()
	if err != nil {
		validationError(w, err)
		return in, false
	}
	return in, true
}

func (h *WarrantyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	warranty, err := h.warrantyService.Create(r.Context(), userID, in)
	if err != nil {
		if validationError(w, err) {
			return
		}
		internalError(w, r, "WarrantyHandler.Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, warranty)
}

func (h *WarrantyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	warranties, err := h.warrantyService.List(r.Context(), userID)
	if err != nil {
		internalError(w, r, "WarrantyHandler.List", err)
		return
	}
	if warranties == nil {
		warranties = []*domain.Warranty{}
	}

	writeJSON(w, http.StatusOK, warranties)
}

func (h *WarrantyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	warranty, err := h.warrantyService.Get(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, "WarrantyHandler.Get", err)
		return
	}

	writeJSON(w, http.StatusOK, warranty)
}

func (h *WarrantyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	warranty, err := h.warrantyService.Update(r.Context(), userID, id, in)
	if err != nil {
		h.fail(w, r, "WarrantyHandler.Update", err)
		return
	}

	writeJSON(w, http.StatusOK, warranty)
}

func (h *WarrantyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.warrantyService.Delete(r.Context(), userID, id); err != nil {
		h.fail(w, r, "WarrantyHandler.Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WarrantyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	stats, err := h.warrantyService.Stats(r.Context(), userID)
	if err != nil {
		internalError(w, r, "WarrantyHandler.Stats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *WarrantyHandler) fail(w http.ResponseWriter, r *http.Request, where string, err error) {
	if validationError(w, err) {
		return
	}
	if errors.Is(err, domain.ErrWarrantyNotFound) {
		http.Error(w, "Warranty not found", http.StatusNotFound)
		return
	}
	internalError(w, r, where, err)
}
