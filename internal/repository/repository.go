package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateOrder   = errors.New("order with this id already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	UpdateItem(ctx context.Context, item *domain.Item) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListItems(ctx context.Context) ([]*domain.Item, error)
}

type OrderRepository interface {
	// CreateOrder persists the order and an order_created outbox row in one
	// transaction.
	CreateOrder(ctx context.Context, order *domain.Order) error
	// UpdateOrder persists the new status/lines/totals and an order_updated
	// outbox row in one transaction.
	UpdateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// OutboxEvent is one pending row of the transactional outbox
type OutboxEvent struct {
	ID          int
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type OutboxRepository interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int) error
}
