package api

import (
	"context"

	"marketplace/internal/entity"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/shopspring/decimal"
)

// mockCartStore implements service.CartStore with an in-memory map.
type mockCartStore struct {
	carts map[string]*entity.Cart
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: map[string]*entity.Cart{}}
}

func (m *mockCartStore) Get(_ context.Context, sessionID string) (*entity.Cart, error) {
	cart, ok := m.carts[sessionID]
	if !ok {
		return &entity.Cart{}, nil
	}
	return &entity.Cart{Items: append([]entity.CartItem{}, cart.Items...)}, nil
}

func (m *mockCartStore) Put(_ context.Context, sessionID string, cart *entity.Cart) error {
	m.carts[sessionID] = &entity.Cart{Items: append([]entity.CartItem{}, cart.Items...)}
	return nil
}

func (m *mockCartStore) Delete(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

// mockProductGetter implements service.ProductGetter over a fixed map.
type mockProductGetter struct {
	products map[int]*entity.Product
}

func (m *mockProductGetter) GetProduct(_ context.Context, id int) (*entity.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return product, nil
}

// mockOrderStore implements service.OrderStore.
type mockOrderStore struct {
	orders map[int]*entity.Order
	nextID int
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: map[int]*entity.Order{}, nextID: 1}
}

func (m *mockOrderStore) CreateOrder(_ context.Context, profileID int, totalCost decimal.Decimal, items []entity.OrderItem) (int, error) {
	id := m.nextID
	m.nextID++
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
	stored, ok := m.orders[order.ID]
	if !ok || stored.Status == entity.OrderStatusPaid {
		return false, nil
	}
	order.Status = entity.OrderStatusConfirmed
	updated := *order
	m.orders[order.ID] = &updated
	return true, nil
}

func (m *mockOrderStore) CreatePayment(_ context.Context, payment *entity.Payment) (bool, error) {
	stored, ok := m.orders[payment.OrderID]
	if !ok || stored.Status == entity.OrderStatusPaid {
		return false, nil
	}
	stored.Status = entity.OrderStatusPaid
	return true, nil
}

// mockDeliveryPricer implements service.DeliveryPricer.
type mockDeliveryPricer struct{}

func (m *mockDeliveryPricer) GetByType(_ context.Context, deliveryType string) (*entity.DeliveryPricing, error) {
	switch deliveryType {
	case "free":
		return &entity.DeliveryPricing{
			Type:         "free",
			MinCost:      decimal.NewFromInt(2000),
			DeliveryCost: decimal.NewFromInt(200),
		}, nil
	case "express":
		return &entity.DeliveryPricing{
			Type:         "express",
			DeliveryCost: decimal.NewFromInt(500),
		}, nil
	default:
		return nil, repository.ErrNotFound
	}
}
