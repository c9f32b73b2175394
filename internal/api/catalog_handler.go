package api

import (
	"net/http"
	"strconv"

	"marketplace/internal/entity"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalog    *service.CatalogService
	categories *repository.CategoryRepository
}

func NewCatalogHandler(catalog *service.CatalogService, categories *repository.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, categories: categories}
}

// Catalog returns a filtered, sorted, paginated product page --> GET /catalog
func (h *CatalogHandler) Catalog(c echo.Context) error {
	filter := repository.CatalogFilter{
		Name:     c.QueryParam("name"),
		Sort:     c.QueryParam("sort"),
		SortType: c.QueryParam("sortType"),
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.MaxPrice = &price
		}
	}
	if v := c.QueryParam("freeDelivery"); v != "" {
		free := v == "true"
		filter.FreeDelivery = &free
	}
	if v := c.QueryParam("available"); v == "true" {
		filter.Available = true
	}
	if v := c.QueryParam("category"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.CategoryID = id
		}
	}
	if v := c.QueryParam("rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			filter.Rating = &rating
		}
	}
	if v := c.QueryParam("currentPage"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			filter.Page = page
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}

	page, err := h.catalog.Catalog(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	if page.Items == nil {
		page.Items = []entity.Product{}
	}
	return c.JSON(http.StatusOK, page)
}

// Product returns one product --> GET /product/:id
func (h *CatalogHandler) Product(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	product, err := h.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Popular returns the top rated products --> GET /products/popular
func (h *CatalogHandler) Popular(c echo.Context) error {
	products, err := h.catalog.Popular(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Limited returns limited edition products --> GET /products/limited
func (h *CatalogHandler) Limited(c echo.Context) error {
	products, err := h.catalog.Limited(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Banners returns banner products --> GET /banners
func (h *CatalogHandler) Banners(c echo.Context) error {
	products, err := h.catalog.Banners(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Sales returns a page of active sales --> GET /sales
func (h *CatalogHandler) Sales(c echo.Context) error {
	page := 1
	if v := c.QueryParam("currentPage"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			page = parsed
		}
	}

	sales, err := h.catalog.Sales(c.Request().Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// Categories returns the category tree --> GET /categories
func (h *CatalogHandler) Categories(c echo.Context) error {
	tree, err := h.categories.ListTree(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if tree == nil {
		tree = []entity.Category{}
	}
	return c.JSON(http.StatusOK, tree)
}

// Tags returns all tags --> GET /tags
func (h *CatalogHandler) Tags(c echo.Context) error {
	tags, err := h.categories.ListTags(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if tags == nil {
		tags = []entity.Tag{}
	}
	return c.JSON(http.StatusOK, tags)
}

// Reviews returns the reviews of a product --> GET /product/:id/reviews
func (h *CatalogHandler) Reviews(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	reviews, err := h.catalog.Reviews(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

// AddReview posts a review --> POST /product/:id/reviews
func (h *CatalogHandler) AddReview(c echo.Context) error {
	if ProfileID(c) == 0 {
		return respondError(c, service.ErrForbidden)
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	review := entity.Review{}
	if err := c.Bind(&review); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	review.ProductID = id

	reviews, err := h.catalog.AddReview(c.Request().Context(), &review)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}
