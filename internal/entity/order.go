package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPaid      OrderStatus = "paid"
)

// IsTerminal reports whether no further mutation of the order is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid
}

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID           int             `json:"id"`
	ProfileID    int             `json:"-"` // 0 means anonymous checkout
	CreatedAt    time.Time       `json:"createdAt"`
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	DeliveryType string          `json:"deliveryType"`
	PaymentType  string          `json:"paymentType"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	Status       OrderStatus     `json:"status"`
	City         string          `json:"city"`
	Address      string          `json:"address"`
	Items        []OrderItem     `json:"products"`
}

// OrderItem carries the title and unit price captured from the cart at
// checkout, so order history does not move with catalog repricing.
type OrderItem struct {
	ProductID int             `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"count"`
}

// DeliveryPricing is a reference row for one delivery type: for the
// "free" type, order subtotals above MinCost ship without a fee,
// everything else pays DeliveryCost on top.
type DeliveryPricing struct {
	Type         string          `json:"type"`
	MinCost      decimal.Decimal `json:"min_cost"`
	DeliveryCost decimal.Decimal `json:"delivery_cost"`
}

type Payment struct {
	ID      int    `json:"-"`
	OrderID int    `json:"-"`
	Number  string `json:"number"`
	Name    string `json:"name"`
	Year    string `json:"year"`
	Month   string `json:"month"`
	Code    string `json:"code"`
}

/*
MySQL tables, see migrations.AutoMigrateOrders:

orders(id, profile_id NULL, created_at, delivery_type, payment_type,
       total_cost DECIMAL(13,2), status VARCHAR(20), city, address)
order_items(id, order_id FK CASCADE, product_id, title,
            price DECIMAL(10,2), quantity)
delivery_pricing(id, type UNIQUE, min_cost DECIMAL(7,2),
                 delivery_cost DECIMAL(7,2))
payments(id, order_id FK CASCADE, number, name, year, month, code)
*/
