package service

import (
	"context"
	"errors"
	"os"

	"marketplace/internal/entity"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var cartLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// CartStore is the per-session cart persistence: get the whole cart,
// put the whole cart. Concurrent edits on one session are
// last-write-wins.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*entity.Cart, error)
	Put(ctx context.Context, sessionID string, cart *entity.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// ProductGetter resolves catalog products for cart snapshots. A
// missing product is reported as ErrNotFound.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int) (*entity.Product, error)
}

// CartService owns the session cart: add/remove lines, list them and
// compute the exact total.
type CartService struct {
	store    CartStore
	products ProductGetter
}

func NewCartService(store CartStore, products ProductGetter) *CartService {
	return &CartService{store: store, products: products}
}

// Add puts quantity of a product into the cart. A product already in
// the cart has its count incremented in place; a new product is
// snapshotted from the catalog first.
func (s *CartService) Add(ctx context.Context, sessionID string, productID, quantity int) (*entity.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if line := cart.Find(productID); line != nil {
		line.Count += quantity
		if err := s.store.Put(ctx, sessionID, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			cartLogger.Error().Err(err).Msgf("Error getting product by ID %d", productID)
		}
		return nil, err
	}

	cart.Items = append(cart.Items, entity.CartItem{
		ProductID:    product.ID,
		Title:        product.Title,
		Price:        product.Price,
		Count:        quantity,
		FreeDelivery: product.FreeDelivery,
		CategoryID:   product.CategoryID,
		Images:       product.Images,
	})
	if err := s.store.Put(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove decrements a product's count; a line at or below zero is
// dropped entirely. An absent product is a no-op.
func (s *CartService) Remove(ctx context.Context, sessionID string, productID, quantity int) (*entity.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := cart.Find(productID)
	if line == nil {
		return cart, nil
	}

	line.Count -= quantity
	if line.Count <= 0 {
		cart.Remove(productID)
	}
	if err := s.store.Put(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Put(ctx, sessionID, &entity.Cart{})
}

// List returns the cart lines in insertion order.
func (s *CartService) List(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// Total returns the exact decimal sum over the cart.
func (s *CartService) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total(), nil
}
