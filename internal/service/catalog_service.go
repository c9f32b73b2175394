package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"marketplace/internal/entity"
	"marketplace/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

var catalogLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const productCacheTTL = 1 * time.Minute

// CatalogStore is the read side of the product catalog.
type CatalogStore interface {
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	ListCatalog(ctx context.Context, filter repository.CatalogFilter) ([]entity.Product, int, error)
	ListPopular(ctx context.Context, limit int) ([]entity.Product, error)
	ListLimited(ctx context.Context, limit int) ([]entity.Product, error)
	ListBanners(ctx context.Context, limit int) ([]entity.Product, error)
	ListSales(ctx context.Context, page, limit int) ([]entity.Sale, int, error)
	CreateReview(ctx context.Context, review *entity.Review) error
	GetReviews(ctx context.Context, productID int) ([]entity.Review, error)
}

// CatalogPage is one page of catalog results.
type CatalogPage struct {
	Items       []entity.Product `json:"items"`
	CurrentPage int              `json:"currentPage"`
	LastPage    int              `json:"lastPage"`
}

// SalesPage is one page of sale rows.
type SalesPage struct {
	Items       []entity.Sale `json:"items"`
	CurrentPage int           `json:"currentPage"`
	LastPage    int           `json:"lastPage"`
}

// CatalogService serves catalog reads, with a short-lived redis cache
// in front of single product lookups.
type CatalogService struct {
	store CatalogStore
	rdb   *redis.Client
}

func NewCatalogService(store CatalogStore, rdb *redis.Client) *CatalogService {
	return &CatalogService{store: store, rdb: rdb}
}

// GetProduct returns one product, from cache when possible.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	key := fmt.Sprintf("product:%d", id)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			catalogLogger.Error().Err(err).Msgf("Error getting product %d from cache", id)
		}
		if cached != "" {
			product := &entity.Product{}
			if err := json.Unmarshal([]byte(cached), product); err == nil {
				return product, nil
			}
		}
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.rdb != nil {
		data, err := json.Marshal(product)
		if err == nil {
			if err := s.rdb.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
				catalogLogger.Error().Err(err).Msgf("Error setting product %d in cache", id)
			}
		}
	}
	return product, nil
}

// Catalog returns one filtered, sorted catalog page.
func (s *CatalogService) Catalog(ctx context.Context, filter repository.CatalogFilter) (*CatalogPage, error) {
	products, total, err := s.store.ListCatalog(ctx, filter)
	if err != nil {
		catalogLogger.Error().Err(err).Msg("Error listing catalog")
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	lastPage := (total + limit - 1) / limit
	if lastPage == 0 {
		lastPage = 1
	}

	return &CatalogPage{Items: products, CurrentPage: page, LastPage: lastPage}, nil
}

func (s *CatalogService) Popular(ctx context.Context) ([]entity.Product, error) {
	return s.store.ListPopular(ctx, 8)
}

func (s *CatalogService) Limited(ctx context.Context) ([]entity.Product, error) {
	return s.store.ListLimited(ctx, 16)
}

func (s *CatalogService) Banners(ctx context.Context) ([]entity.Product, error) {
	return s.store.ListBanners(ctx, 3)
}

func (s *CatalogService) Sales(ctx context.Context, page int) (*SalesPage, error) {
	const limit = 10
	sales, total, err := s.store.ListSales(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	lastPage := (total + limit - 1) / limit
	if lastPage == 0 {
		lastPage = 1
	}
	return &SalesPage{Items: sales, CurrentPage: page, LastPage: lastPage}, nil
}

// AddReview validates and stores a review, then returns the product's
// refreshed review list.
func (s *CatalogService) AddReview(ctx context.Context, review *entity.Review) ([]entity.Review, error) {
	if review.Rate < 1 || review.Rate > 5 {
		return nil, newValidationError("rate", "Rate must be between 1 and 5.")
	}
	if review.Text == "" {
		return nil, newValidationError("text", "Review text is required.")
	}

	if _, err := s.store.GetProductByID(ctx, review.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		catalogLogger.Error().Err(err).Msgf("Error creating review for product %d", review.ProductID)
		return nil, err
	}

	// Drop the cached product so the review aggregates refresh.
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, fmt.Sprintf("product:%d", review.ProductID)).Err(); err != nil {
			catalogLogger.Error().Err(err).Msgf("Error deleting product %d from cache", review.ProductID)
		}
	}

	return s.store.GetReviews(ctx, review.ProductID)
}

func (s *CatalogService) Reviews(ctx context.Context, productID int) ([]entity.Review, error) {
	return s.store.GetReviews(ctx, productID)
}
