package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"marketplace/internal/entity"
	"marketplace/internal/repository"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderStore is the persistence the order lifecycle needs. ConfirmOrder
// and CreatePayment apply their status guard atomically and report
// false when the order turned paid underneath the caller.
type OrderStore interface {
	CreateOrder(ctx context.Context, profileID int, totalCost decimal.Decimal, items []entity.OrderItem) (int, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	GetOrdersByProfile(ctx context.Context, profileID int) ([]entity.Order, error)
	ConfirmOrder(ctx context.Context, order *entity.Order) (bool, error)
	CreatePayment(ctx context.Context, payment *entity.Payment) (bool, error)
}

// DeliveryPricer looks up the fee row for a delivery type.
type DeliveryPricer interface {
	GetByType(ctx context.Context, deliveryType string) (*entity.DeliveryPricing, error)
}

// OrderService drives the order lifecycle: checkout from the session
// cart, confirmation with the delivery fee rule, payment into the
// terminal paid state.
type OrderService struct {
	orders      OrderStore
	pricing     DeliveryPricer
	products    ProductGetter
	carts       CartStore
	kafkaWriter *kafka.Writer
}

func NewOrderService(orders OrderStore, pricing DeliveryPricer, products ProductGetter, carts CartStore, kafkaWriter *kafka.Writer) *OrderService {
	return &OrderService{
		orders:      orders,
		pricing:     pricing,
		products:    products,
		carts:       carts,
		kafkaWriter: kafkaWriter,
	}
}

// ConfirmRequest is the delivery/payment metadata submitted against an
// accepted order. TotalCost is the client's pre-fee subtotal.
type ConfirmRequest struct {
	DeliveryType string          `json:"deliveryType"`
	PaymentType  string          `json:"paymentType"`
	City         string          `json:"city"`
	Address      string          `json:"address"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

// Checkout converts the session cart into a persisted order. The cart
// is the only source of truth: every line becomes an item snapshot, the
// order total is the cart total, and the cart is cleared on success.
// An empty cart produces a zero-item, zero-cost order.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, profileID int) (int, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	items := make([]entity.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		// Missing products abort the whole checkout before anything
		// is persisted.
		if _, err := s.products.GetProduct(ctx, line.ProductID); err != nil {
			return 0, err
		}
		items = append(items, entity.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Count,
		})
	}

	orderID, err := s.orders.CreateOrder(ctx, profileID, cart.Total(), items)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return 0, err
	}

	// The order is committed at this point, so a cart cleanup failure
	// only leaves stale lines behind.
	if err := s.carts.Put(ctx, sessionID, &entity.Cart{}); err != nil {
		logger.Error().Err(err).Msgf("Error clearing cart for session %s after checkout", sessionID)
	}

	s.publishOrderEvent(ctx, orderID, "created")
	return orderID, nil
}

// GetOrders returns all orders of the acting profile.
func (s *OrderService) GetOrders(ctx context.Context, profileID int) ([]entity.Order, error) {
	if profileID == 0 {
		return nil, ErrForbidden
	}
	return s.orders.GetOrdersByProfile(ctx, profileID)
}

// GetOrder returns one order, owner only.
func (s *OrderService) GetOrder(ctx context.Context, orderID, profileID int) (*entity.Order, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, profileID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Confirm applies the delivery fee rule and advances an order to
// confirmed. Guard order: existence, ownership, terminal state, then
// field validation.
func (s *OrderService) Confirm(ctx context.Context, orderID, profileID int, req ConfirmRequest) error {
	order, err := s.loadOwnedOrder(ctx, orderID, profileID)
	if err != nil {
		return err
	}
	if order.Status.IsTerminal() {
		return ErrOrderPaid
	}

	if req.TotalCost.IsNegative() {
		return newValidationError("totalCost", "Total cost must not be negative.")
	}

	pricing, err := s.pricing.GetByType(ctx, req.DeliveryType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newValidationError("deliveryType", fmt.Sprintf("Unsupported delivery type: %s", req.DeliveryType))
		}
		return err
	}

	totalCost := req.TotalCost
	// The fee is waived only for the free delivery type once the
	// subtotal clears the threshold; everything else pays the flat fee.
	if !(pricing.Type == "free" && totalCost.GreaterThan(pricing.MinCost)) {
		totalCost = totalCost.Add(pricing.DeliveryCost)
	}

	order.DeliveryType = req.DeliveryType
	order.PaymentType = req.PaymentType
	order.City = req.City
	order.Address = req.Address
	order.TotalCost = totalCost

	updated, err := s.orders.ConfirmOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error confirming order %d", orderID)
		return err
	}
	if !updated {
		// Lost the race against a concurrent payment.
		return ErrOrderPaid
	}

	s.publishOrderEvent(ctx, orderID, "confirmed")
	return nil
}

// Pay records a payment and moves the order into the terminal paid
// state. The same guard chain as Confirm runs first, then the card
// fields are validated.
func (s *OrderService) Pay(ctx context.Context, orderID, profileID int, payment entity.Payment) error {
	order, err := s.loadOwnedOrder(ctx, orderID, profileID)
	if err != nil {
		return err
	}
	if order.Status.IsTerminal() {
		return ErrOrderPaid
	}

	if err := validatePayment(&payment); err != nil {
		return err
	}

	payment.OrderID = orderID
	payment.Number = maskCardNumber(payment.Number)

	paid, err := s.orders.CreatePayment(ctx, &payment)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating payment for order %d", orderID)
		return err
	}
	if !paid {
		return ErrOrderPaid
	}

	s.publishOrderEvent(ctx, orderID, "paid")
	return nil
}

func (s *OrderService) loadOwnedOrder(ctx context.Context, orderID, profileID int) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if profileID == 0 || order.ProfileID != profileID {
		return nil, ErrForbidden
	}
	return order, nil
}

func validatePayment(payment *entity.Payment) error {
	if !isDigits(payment.Number) || payment.Number == "" {
		return newValidationError("number", "Card number must contain only digits.")
	}
	if len(payment.Year) != 4 || !isDigits(payment.Year) {
		return newValidationError("year", "Expiry year must be a 4-digit number.")
	}
	if len(payment.Month) != 2 || !isDigits(payment.Month) {
		return newValidationError("month", "Expiry month must be a number between 01 and 12.")
	}
	month := int(payment.Month[0]-'0')*10 + int(payment.Month[1]-'0')
	if month < 1 || month > 12 {
		return newValidationError("month", "Expiry month must be a number between 01 and 12.")
	}
	if len(payment.Code) < 3 || len(payment.Code) > 4 || !isDigits(payment.Code) {
		return newValidationError("code", "CVV must be a 3 or 4-digit number.")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// maskCardNumber keeps only the last four digits of the card number.
func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "**** " + number[len(number)-4:]
}

type orderEvent struct {
	OrderID int    `json:"order_id"`
	Event   string `json:"event"`
}

func (s *OrderService) publishOrderEvent(ctx context.Context, orderID int, event string) {
	if s.kafkaWriter == nil {
		return
	}

	payload, err := json.Marshal(orderEvent{OrderID: orderID, Event: event})
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling %s event for order %d", event, orderID)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", event, orderID)),
		Value: payload,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event for order %d", event, orderID)
	}
}
