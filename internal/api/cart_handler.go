package api

import (
	"net/http"

	"marketplace/internal/entity"
	"marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

func cartLines(items []entity.CartItem) []entity.CartItem {
	if items == nil {
		return []entity.CartItem{}
	}
	return items
}

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartLineRequest struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

// GetCart returns the current cart lines --> GET /basket
func (h *CartHandler) GetCart(c echo.Context) error {
	items, err := h.carts.List(c.Request().Context(), SessionID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cartLines(items))
}

// AddToCart adds a product to the cart --> POST /basket
func (h *CartHandler) AddToCart(c echo.Context) error {
	req := cartLineRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.Count <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"count": "Count must be a positive integer."})
	}

	cart, err := h.carts.Add(c.Request().Context(), SessionID(c), req.ID, req.Count)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cartLines(cart.Items))
}

// RemoveFromCart decrements a product in the cart --> DELETE /basket
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	req := cartLineRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.Count <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"count": "Count must be a positive integer."})
	}

	cart, err := h.carts.Remove(c.Request().Context(), SessionID(c), req.ID, req.Count)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cartLines(cart.Items))
}
