package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus accepts both the stored form ("IN_PROGRESS") and the
// display form the dashboard sends ("In Progress").
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_"))
	status := OrderStatus(normalized)
	if !status.IsValid() {
		return "", false
	}
	return status, true
}

// OrderLine is one (item, quantity, price-snapshot) entry within an order.
// Price is copied from the catalog item at selection time.
type OrderLine struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Status        OrderStatus     `json:"status"`
	Lines         []OrderLine     `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
