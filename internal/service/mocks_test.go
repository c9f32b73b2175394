package service

import (
	"context"
	"sync"

	"marketplace/internal/entity"
	"marketplace/internal/repository"

	"github.com/shopspring/decimal"
)

// mockCartStore implements CartStore with an in-memory map.
type mockCartStore struct {
	m      sync.Mutex
	carts  map[string]*entity.Cart
	err    error
	putErr error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: map[string]*entity.Cart{}}
}

func (m *mockCartStore) Get(_ context.Context, sessionID string) (*entity.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[sessionID]
	if !ok {
		return &entity.Cart{}, nil
	}
	copied := &entity.Cart{Items: append([]entity.CartItem{}, cart.Items...)}
	return copied, nil
}

func (m *mockCartStore) Put(_ context.Context, sessionID string, cart *entity.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.putErr != nil {
		return m.putErr
	}
	m.carts[sessionID] = &entity.Cart{Items: append([]entity.CartItem{}, cart.Items...)}
	return nil
}

func (m *mockCartStore) Delete(_ context.Context, sessionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, sessionID)
	return m.err
}

// mockProductGetter implements ProductGetter over a fixed product map.
type mockProductGetter struct {
	products map[int]*entity.Product
	err      error
}

func (m *mockProductGetter) GetProduct(_ context.Context, id int) (*entity.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return product, nil
}

// mockOrderStore implements OrderStore, tracking calls for assertions.
type mockOrderStore struct {
	orders map[int]*entity.Order
	nextID int

	createErr      error
	confirmErr     error
	paymentErr     error
	createdItems   []entity.OrderItem
	createdTotal   decimal.Decimal
	confirmedOrder *entity.Order
	payment        *entity.Payment
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: map[int]*entity.Order{}, nextID: 1}
}

func (m *mockOrderStore) CreateOrder(_ context.Context, profileID int, totalCost decimal.Decimal, items []entity.OrderItem) (int, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	id := m.nextID
	m.nextID++
	m.createdItems = items
	m.createdTotal = totalCost
	m.orders[id] = &entity.Order{
		ID:        id,
		ProfileID: profileID,
		TotalCost: totalCost,
		Status:    entity.OrderStatusAccepted,
		Items:     items,
	}
	return id, nil
}

func (m *mockOrderStore) GetOrderByID(_ context.Context, id int) (*entity.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderStore) GetOrdersByProfile(_ context.Context, profileID int) ([]entity.Order, error) {
	var out []entity.Order
	for _, order := range m.orders {
		if order.ProfileID == profileID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderStore) ConfirmOrder(_ context.Context, order *entity.Order) (bool, error) {
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	stored, ok := m.orders[order.ID]
	if !ok || stored.Status == entity.OrderStatusPaid {
		return false, nil
	}
	m.confirmedOrder = order
	order.Status = entity.OrderStatusConfirmed
	updated := *order
	m.orders[order.ID] = &updated
	return true, nil
}

func (m *mockOrderStore) CreatePayment(_ context.Context, payment *entity.Payment) (bool, error) {
	if m.paymentErr != nil {
		return false, m.paymentErr
	}
	stored, ok := m.orders[payment.OrderID]
	if !ok || stored.Status == entity.OrderStatusPaid {
		return false, nil
	}
	m.payment = payment
	stored.Status = entity.OrderStatusPaid
	return true, nil
}

// mockDeliveryPricer implements DeliveryPricer over a fixed pricing map.
type mockDeliveryPricer struct {
	pricing map[string]*entity.DeliveryPricing
}

func (m *mockDeliveryPricer) GetByType(_ context.Context, deliveryType string) (*entity.DeliveryPricing, error) {
	pricing, ok := m.pricing[deliveryType]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return pricing, nil
}

func standardPricing() *mockDeliveryPricer {
	return &mockDeliveryPricer{pricing: map[string]*entity.DeliveryPricing{
		"free": {
			Type:         "free",
			MinCost:      decimal.NewFromInt(2000),
			DeliveryCost: decimal.NewFromInt(200),
		},
		"express": {
			Type:         "express",
			MinCost:      decimal.Zero,
			DeliveryCost: decimal.NewFromInt(500),
		},
	}}
}
