package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zyrnwastaken/mini-crm/internal/composer"
	"github.com/zyrnwastaken/mini-crm/internal/domain"
	"github.com/zyrnwastaken/mini-crm/internal/repository"
)

type OrderService struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	items     repository.ItemRepository
}

func NewOrderService(orders repository.OrderRepository, customers repository.CustomerRepository, items repository.ItemRepository) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		items:     items,
	}
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrderByID(ctx, id)
}

// Create submits a new order. The line set is normalized (quantity fallback,
// duplicate item refs dropped), missing price snapshots are copied from the
// catalog, totals are computed server-side and a blank code falls back to a
// generated one.
func (s *OrderService) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if len(order.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if !order.Status.IsValid() {
		if order.Status != "" {
			return nil, ErrUnknownStatus
		}
		order.Status = domain.OrderStatusPending
	}

	if _, err := s.customers.GetCustomerByID(ctx, order.CustomerID); err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, composer.NormalizeLines(order.Lines))
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	totals := composer.ComputeTotals(order.Lines)
	order.TotalQuantity = totals.TotalQuantity
	order.TotalPrice = totals.TotalPrice

	if strings.TrimSpace(order.Code) == "" {
		order.Code = composer.GenerateCode("ORD_")
	}

	order.ID = uuid.New()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateRequest carries the mutable parts of an order. Nil fields are left
// as stored.
type UpdateRequest struct {
	Status *domain.OrderStatus
	Lines  []domain.OrderLine
}

func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, ErrUnknownStatus
		}
		order.Status = *req.Status
	}

	if req.Lines != nil {
		if len(req.Lines) == 0 {
			return nil, ErrEmptyOrder
		}
		lines, err := s.resolveLines(ctx, composer.NormalizeLines(req.Lines))
		if err != nil {
			return nil, err
		}
		order.Lines = lines

		totals := composer.ComputeTotals(order.Lines)
		order.TotalQuantity = totals.TotalQuantity
		order.TotalPrice = totals.TotalPrice
	}

	order.UpdatedAt = time.Now()

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// resolveLines checks every line's item reference against the catalog and
// fills in the price for lines submitted without one. Lines that already
// carry a snapshot keep it, prices are frozen at selection time, but a line
// referencing an unknown item is rejected regardless of its price.
func (s *OrderService) resolveLines(ctx context.Context, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	out := make([]domain.OrderLine, len(lines))
	for i, line := range lines {
		item, err := s.items.GetItemByID(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		if line.Price.IsZero() {
			line.Price = item.Price
		}
		out[i] = line
	}
	return out, nil
}
