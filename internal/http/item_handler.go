package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
	"github.com/zyrnwastaken/mini-crm/internal/service"
)

type ItemHandler struct {
	svc     *service.ItemService
	timeout time.Duration
}

func NewItemHandler(svc *service.ItemService, timeout time.Duration) *ItemHandler {
	return &ItemHandler{
		svc:     svc,
		timeout: timeout,
	}
}

type ItemRequestDTO struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	PhotoURL string          `json:"photo_url"`
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.svc.List(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Price.IsNegative() || req.Cost.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_amount", "price and cost must not be negative")
		return
	}

	created, err := h.svc.Create(ctx, &domain.Item{
		Code:     req.Code,
		Name:     req.Name,
		Price:    req.Price,
		Cost:     req.Cost,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "id must be a valid UUID")
		return
	}

	var req ItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Price.IsNegative() || req.Cost.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_amount", "price and cost must not be negative")
		return
	}

	updated, err := h.svc.Update(ctx, &domain.Item{
		ID:       id,
		Code:     req.Code,
		Name:     req.Name,
		Price:    req.Price,
		Cost:     req.Cost,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
