package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/zyrnwastaken/mini-crm/internal/repository"
	"github.com/zyrnwastaken/mini-crm/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleServiceError maps service and repository sentinels to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired):
		respondError(w, http.StatusBadRequest, "name_required", err.Error())
	case errors.Is(err, service.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "empty_order", err.Error())
	case errors.Is(err, service.ErrUnknownStatus):
		respondError(w, http.StatusBadRequest, "unknown_status", err.Error())
	case errors.Is(err, repository.ErrCustomerNotFound):
		respondError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, repository.ErrDuplicateOrder):
		respondError(w, http.StatusConflict, "duplicate_order", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
