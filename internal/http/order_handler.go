package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zyrnwastaken/mini-crm/internal/composer"
	"github.com/zyrnwastaken/mini-crm/internal/domain"
	"github.com/zyrnwastaken/mini-crm/internal/service"
)

type OrderHandler struct {
	svc     *service.OrderService
	timeout time.Duration
}

func NewOrderHandler(svc *service.OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// OrderLineDTO accepts quantity as a JSON number but runs it through the
// composer's fallback rule, so 0, negatives and absent values all land on 1.
type OrderLineDTO struct {
	ItemID   string          `json:"item_id"`
	Quantity json.Number     `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type CreateOrderRequestDTO struct {
	Code       string         `json:"code"`
	CustomerID string         `json:"customer_id"`
	Status     string         `json:"status"`
	Items      []OrderLineDTO `json:"items"`
}

type UpdateOrderRequestDTO struct {
	Status *string        `json:"status"`
	Items  []OrderLineDTO `json:"items"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.svc.List(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a valid UUID")
		return
	}

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a valid UUID")
		return
	}

	status := domain.OrderStatus("")
	if req.Status != "" {
		parsed, ok := domain.ParseOrderStatus(req.Status)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown_status", "status must be one of Pending, In Progress, Completed, Cancelled")
			return
		}
		status = parsed
	}

	lines, ok := convertLines(w, req.Items)
	if !ok {
		return
	}

	created, err := h.svc.Create(ctx, &domain.Order{
		Code:       req.Code,
		CustomerID: customerID,
		Status:     status,
		Lines:      lines,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a valid UUID")
		return
	}

	var req UpdateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var update service.UpdateRequest
	if req.Status != nil {
		parsed, ok := domain.ParseOrderStatus(*req.Status)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown_status", "status must be one of Pending, In Progress, Completed, Cancelled")
			return
		}
		update.Status = &parsed
	}
	if req.Items != nil {
		lines, ok := convertLines(w, req.Items)
		if !ok {
			return
		}
		update.Lines = lines
	}

	updated, err := h.svc.Update(ctx, id, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// convertLines maps line DTOs to domain lines, normalizing quantities. It
// writes the error response itself and reports success via the bool.
func convertLines(w http.ResponseWriter, dtos []OrderLineDTO) ([]domain.OrderLine, bool) {
	lines := make([]domain.OrderLine, 0, len(dtos))
	for _, dto := range dtos {
		itemID, err := uuid.Parse(dto.ItemID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_item_id", "items[].item_id must be a valid UUID")
			return nil, false
		}
		lines = append(lines, domain.OrderLine{
			ItemID:   itemID,
			Quantity: composer.NormalizeQuantity(dto.Quantity.String()),
			Price:    dto.Price,
		})
	}
	return lines, true
}
