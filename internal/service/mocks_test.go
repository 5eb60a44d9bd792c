package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
	"github.com/zyrnwastaken/mini-crm/internal/repository"
)

type mockCustomerRepo struct {
	m         sync.RWMutex
	customers map[uuid.UUID]*domain.Customer
	err       error
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (m *mockCustomerRepo) CreateCustomer(_ context.Context, customer *domain.Customer) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *mockCustomerRepo) UpdateCustomer(_ context.Context, customer *domain.Customer) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.customers[customer.ID]; !ok {
		return repository.ErrCustomerNotFound
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *mockCustomerRepo) GetCustomerByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	customer, ok := m.customers[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return customer, nil
}

func (m *mockCustomerRepo) ListCustomers(context.Context) ([]*domain.Customer, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

type mockItemRepo struct {
	m         sync.RWMutex
	items     map[uuid.UUID]*domain.Item
	listCalls int
	err       error
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{items: make(map[uuid.UUID]*domain.Item)}
}

func (m *mockItemRepo) CreateItem(_ context.Context, item *domain.Item) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockItemRepo) UpdateItem(_ context.Context, item *domain.Item) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[item.ID]; !ok {
		return repository.ErrItemNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockItemRepo) GetItemByID(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	return item, nil
}

func (m *mockItemRepo) ListItems(context.Context) ([]*domain.Item, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Item, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

type mockOrderRepo struct {
	m      sync.RWMutex
	orders map[uuid.UUID]*domain.Order
	err    error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.orders[order.ID]; ok {
		return repository.ErrDuplicateOrder
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) UpdateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.orders[order.ID]; !ok {
		return repository.ErrOrderNotFound
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) ListOrders(context.Context) ([]*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Order, 0, len(m.orders))
	for _, order := range m.orders {
		out = append(out, order)
	}
	return out, nil
}

type mockCatalogCache struct {
	m           sync.RWMutex
	items       []*domain.Item
	getErr      error
	setCalls    int
	invalidated int
}

func (m *mockCatalogCache) Get(context.Context) ([]*domain.Item, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.items, nil
}

func (m *mockCatalogCache) Set(_ context.Context, items []*domain.Item) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.items = items
	m.setCalls++
	return nil
}

func (m *mockCatalogCache) Invalidate(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.items = nil
	m.invalidated++
	return nil
}
