package repository

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/entity"
)

type DeliveryPricingRepository struct {
	db *sql.DB
}

func NewDeliveryPricingRepository(db *sql.DB) *DeliveryPricingRepository {
	return &DeliveryPricingRepository{db}
}

// GetByType returns the fee row for one delivery type.
func (r *DeliveryPricingRepository) GetByType(ctx context.Context, deliveryType string) (*entity.DeliveryPricing, error) {
	query := `SELECT type, min_cost, delivery_cost FROM delivery_pricing WHERE type = ?`

	pricing := &entity.DeliveryPricing{}
	err := r.db.QueryRowContext(ctx, query, deliveryType).Scan(&pricing.Type, &pricing.MinCost, &pricing.DeliveryCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pricing, nil
}
