package service

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCart(t *testing.T, store *mockCartStore, sessionID string, items ...entity.CartItem) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), sessionID, &entity.Cart{Items: items}))
}

func TestCheckoutFromCart(t *testing.T) {
	orders := newMockOrderStore()
	carts := newMockCartStore()
	seedCart(t, carts, "s1",
		entity.CartItem{ProductID: 1, Title: "Monitor", Price: decimal.NewFromInt(10), Count: 2},
		entity.CartItem{ProductID: 2, Title: "Keyboard", Price: decimal.NewFromInt(30), Count: 1},
	)
	svc := NewOrderService(orders, standardPricing(), testProducts(), carts, nil)

	orderID, err := svc.Checkout(context.Background(), "s1", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, orderID)

	require.Len(t, orders.createdItems, 2)
	assert.Equal(t, "Monitor", orders.createdItems[0].Title)
	assert.Equal(t, 2, orders.createdItems[0].Quantity)
	assert.True(t, decimal.NewFromInt(50).Equal(orders.createdTotal), "got %s", orders.createdTotal)

	cart, err := carts.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "cart should be cleared after checkout")
}

func TestCheckoutEmptyCart(t *testing.T) {
	orders := newMockOrderStore()
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	orderID, err := svc.Checkout(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, orderID)
	assert.Empty(t, orders.createdItems)
	assert.True(t, decimal.Zero.Equal(orders.createdTotal))
}

func TestCheckoutMissingProductAborts(t *testing.T) {
	orders := newMockOrderStore()
	carts := newMockCartStore()
	seedCart(t, carts, "s1",
		entity.CartItem{ProductID: 42, Title: "Ghost", Price: decimal.NewFromInt(10), Count: 1},
	)
	svc := NewOrderService(orders, standardPricing(), testProducts(), carts, nil)

	_, err := svc.Checkout(context.Background(), "s1", 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, orders.orders, "nothing should be persisted")

	cart, err := carts.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "cart must survive a failed checkout")
}

func TestCheckoutSucceedsWhenCartClearFails(t *testing.T) {
	orders := newMockOrderStore()
	carts := newMockCartStore()
	seedCart(t, carts, "s1",
		entity.CartItem{ProductID: 1, Title: "Monitor", Price: decimal.NewFromInt(10), Count: 1},
	)
	carts.putErr = errors.New("redis down")
	svc := NewOrderService(orders, standardPricing(), testProducts(), carts, nil)

	orderID, err := svc.Checkout(context.Background(), "s1", 7)
	require.NoError(t, err, "the order is committed, its id must reach the caller")
	assert.Equal(t, 1, orderID)
	require.NotNil(t, orders.orders[1])
}

func TestGetOrderOwnership(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	order, err := svc.GetOrder(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)

	_, err = svc.GetOrder(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetOrder(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrForbidden, "anonymous callers never own orders")

	_, err = svc.GetOrder(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrdersRequiresProfile(t *testing.T) {
	svc := NewOrderService(newMockOrderStore(), standardPricing(), testProducts(), newMockCartStore(), nil)

	_, err := svc.GetOrders(context.Background(), 0)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmAddsFeeBelowThreshold(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	req := ConfirmRequest{DeliveryType: "free", PaymentType: "online", TotalCost: decimal.NewFromInt(1999)}
	require.NoError(t, svc.Confirm(context.Background(), 1, 7, req))

	require.NotNil(t, orders.confirmedOrder)
	assert.True(t, decimal.NewFromInt(2199).Equal(orders.confirmedOrder.TotalCost),
		"got %s", orders.confirmedOrder.TotalCost)
}

func TestConfirmWaivesFeeAboveThreshold(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	req := ConfirmRequest{DeliveryType: "free", TotalCost: decimal.NewFromInt(2999)}
	require.NoError(t, svc.Confirm(context.Background(), 1, 7, req))

	assert.True(t, decimal.NewFromInt(2999).Equal(orders.confirmedOrder.TotalCost))
}

func TestConfirmFeeExactlyAtThreshold(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	// Exactly at the threshold still pays the fee, the waiver needs a
	// strictly greater subtotal.
	req := ConfirmRequest{DeliveryType: "free", TotalCost: decimal.NewFromInt(2000)}
	require.NoError(t, svc.Confirm(context.Background(), 1, 7, req))

	assert.True(t, decimal.NewFromInt(2200).Equal(orders.confirmedOrder.TotalCost))
}

func TestConfirmExpressAlwaysPaysFee(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	req := ConfirmRequest{DeliveryType: "express", TotalCost: decimal.NewFromInt(5000)}
	require.NoError(t, svc.Confirm(context.Background(), 1, 7, req))

	assert.True(t, decimal.NewFromInt(5500).Equal(orders.confirmedOrder.TotalCost))
}

func TestConfirmNegativeSubtotalRejected(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	req := ConfirmRequest{DeliveryType: "free", TotalCost: decimal.NewFromInt(-500)}
	err := svc.Confirm(context.Background(), 1, 7, req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "totalCost", vErr.Field)
	assert.Nil(t, orders.confirmedOrder, "a negative subtotal must never be written")
	assert.Equal(t, entity.OrderStatusAccepted, orders.orders[1].Status)
}

func TestConfirmUnknownDeliveryType(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	req := ConfirmRequest{DeliveryType: "drone", TotalCost: decimal.NewFromInt(100)}
	err := svc.Confirm(context.Background(), 1, 7, req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "deliveryType", vErr.Field)
}

func TestConfirmPaidOrderRejected(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusPaid}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	req := ConfirmRequest{DeliveryType: "free", TotalCost: decimal.NewFromInt(100)}
	err := svc.Confirm(context.Background(), 1, 7, req)
	assert.ErrorIs(t, err, ErrOrderPaid)
}

func TestConfirmIsRepeatable(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusAccepted}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	req := ConfirmRequest{DeliveryType: "express", TotalCost: decimal.NewFromInt(100)}
	require.NoError(t, svc.Confirm(context.Background(), 1, 7, req))

	// A confirmed order can be re-confirmed with different details.
	req.City = "Riga"
	require.NoError(t, svc.Confirm(context.Background(), 1, 7, req))
	assert.Equal(t, "Riga", orders.confirmedOrder.City)
}

func TestPaySuccess(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusConfirmed}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	payment := entity.Payment{Number: "4111111111111111", Name: "J Smith", Year: "2027", Month: "04", Code: "123"}
	require.NoError(t, svc.Pay(context.Background(), 1, 7, payment))

	require.NotNil(t, orders.payment)
	assert.Equal(t, 1, orders.payment.OrderID)
	assert.Equal(t, "**** 1111", orders.payment.Number)
	assert.Equal(t, entity.OrderStatusPaid, orders.orders[1].Status)
}

func TestPayPaidOrderRejected(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusPaid}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	payment := entity.Payment{Number: "4111111111111111", Year: "2027", Month: "04", Code: "123"}
	err := svc.Pay(context.Background(), 1, 7, payment)
	assert.ErrorIs(t, err, ErrOrderPaid)
	assert.Nil(t, orders.payment)
}

func TestPayValidation(t *testing.T) {
	base := entity.Payment{Number: "4111111111111111", Name: "J Smith", Year: "2027", Month: "04", Code: "123"}

	cases := []struct {
		name   string
		mutate func(p *entity.Payment)
		field  string
	}{
		{"letters in number", func(p *entity.Payment) { p.Number = "4111abcd" }, "number"},
		{"empty number", func(p *entity.Payment) { p.Number = "" }, "number"},
		{"two digit year", func(p *entity.Payment) { p.Year = "27" }, "year"},
		{"non numeric year", func(p *entity.Payment) { p.Year = "20x7" }, "year"},
		{"month zero", func(p *entity.Payment) { p.Month = "00" }, "month"},
		{"month thirteen", func(p *entity.Payment) { p.Month = "13" }, "month"},
		{"single digit month", func(p *entity.Payment) { p.Month = "4" }, "month"},
		{"short code", func(p *entity.Payment) { p.Code = "12" }, "code"},
		{"long code", func(p *entity.Payment) { p.Code = "12345" }, "code"},
		{"non numeric code", func(p *entity.Payment) { p.Code = "12a" }, "code"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := newMockOrderStore()
			orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusConfirmed}
			svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

			payment := base
			tc.mutate(&payment)
			err := svc.Pay(context.Background(), 1, 7, payment)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
			assert.NotEqual(t, entity.OrderStatusPaid, orders.orders[1].Status)
		})
	}
}

func TestPayAcceptsFourDigitCode(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusConfirmed}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	payment := entity.Payment{Number: "4111111111111111", Year: "2027", Month: "12", Code: "1234"}
	require.NoError(t, svc.Pay(context.Background(), 1, 7, payment))
}

func TestPayNonOwnerForbidden(t *testing.T) {
	orders := newMockOrderStore()
	orders.orders[1] = &entity.Order{ID: 1, ProfileID: 7, Status: entity.OrderStatusConfirmed}
	svc := NewOrderService(orders, standardPricing(), testProducts(), newMockCartStore(), nil)

	payment := entity.Payment{Number: "4111111111111111", Year: "2027", Month: "04", Code: "123"}
	err := svc.Pay(context.Background(), 1, 8, payment)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** 1111", maskCardNumber("4111111111111111"))
	assert.Equal(t, "1234", maskCardNumber("1234"))
}
