package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/service"
)

// multipart framing allowance on top of the file itself
const uploadOverhead = 1 << 20

type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

type ReceiptURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

// Upload accepts the file either as a multipart "file" field or as the raw
// request body.
func (h *ReceiptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxReceiptBytes+uploadOverhead)
	data, err := readUpload(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, service.ErrReceiptTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}

	warranty, err := h.receiptService.Upload(r.Context(), userID, id, data)
	if err != nil {
		h.fail(w, r, "ReceiptHandler.Upload", err)
		return
	}

	writeJSON(w, http.StatusOK, warranty)
}

func (h *ReceiptHandler) URL(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	url, err := h.receiptService.SignedURL(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, "ReceiptHandler.URL", err)
		return
	}

	writeJSON(w, http.StatusOK, ReceiptURLResponse{
		URL:       url,
		ExpiresIn: int(service.ReceiptURLTTL.Seconds()),
	})
}

func (h *ReceiptHandler) fail(w http.ResponseWriter, r *http.Request, where string, err error) {
	switch {
	case errors.Is(err, domain.ErrWarrantyNotFound):
		http.Error(w, "Warranty not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNoReceipt):
		http.Error(w, "Receipt not found", http.StatusNotFound)
	case errors.Is(err, service.ErrReceiptTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, service.ErrUnsupportedReceipt):
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
	case errors.Is(err, service.ErrReceiptStoreDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		internalError(w, r, where, err)
	}
}

// readUpload reads at most one byte past the limit so the service can tell
// an oversized file from one that is exactly at it.
func readUpload(r *http.Request) ([]byte, error) {
	limit := int64(service.MaxReceiptBytes) + 1

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(io.LimitReader(r.Body, limit))
	}

	if err := r.ParseMultipartForm(service.MaxReceiptBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, limit))
}
