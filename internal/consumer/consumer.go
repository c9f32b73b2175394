package consumer

import (
	"context"
	"encoding/json"

	"marketplace/internal/entity"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// OrderLoader loads order item snapshots for stock adjustment.
type OrderLoader interface {
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
}

// StockAdjuster decrements catalog stock counts.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, productID, quantity int) error
}

// Consumer listens for order lifecycle events and reduces product stock
// once an order is paid.
type Consumer struct {
	reader   *kafka.Reader
	orders   OrderLoader
	products StockAdjuster
}

func NewConsumer(reader *kafka.Reader, orders OrderLoader, products StockAdjuster) *Consumer {
	return &Consumer{reader: reader, orders: orders, products: products}
}

type orderEvent struct {
	OrderID int    `json:"order_id"`
	Event   string `json:"event"`
}

// Start blocks, reading order events until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}
		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var event orderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error().Err(err).Msg("Error unmarshalling order event")
		return
	}

	if event.Event != "paid" {
		return
	}

	order, err := c.orders.GetOrderByID(ctx, event.OrderID)
	if err != nil {
		log.Error().Err(err).Msgf("Error loading order %d", event.OrderID)
		return
	}

	for _, item := range order.Items {
		if err := c.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Error().Err(err).Msgf("Error decrementing stock for product %d", item.ProductID)
		}
	}
	log.Info().Msgf("Adjusted stock for paid order %d", event.OrderID)
}
