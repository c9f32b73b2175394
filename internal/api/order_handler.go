package api

import (
	"net/http"

	"marketplace/internal/entity"
	"marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListOrders returns all orders of the current user --> GET /orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orders.GetOrders(c.Request().Context(), ProfileID(c))
	if err != nil {
		return respondError(c, err)
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// CreateOrder converts the session cart into a new order --> POST /orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	orderID, err := h.orders.Checkout(c.Request().Context(), SessionID(c), ProfileID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]int{"orderId": orderID})
}

// GetOrder returns one order of the current user --> GET /order/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orders.GetOrder(c.Request().Context(), id, ProfileID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ConfirmOrder submits delivery and payment metadata --> POST /order/:id
func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	req := service.ConfirmRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.orders.Confirm(c.Request().Context(), id, ProfileID(c), req); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// CreatePayment submits card fields against an order --> POST /payment/:id
func (h *OrderHandler) CreatePayment(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	payment := entity.Payment{}
	if err := c.Bind(&payment); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.orders.Pay(c.Request().Context(), id, ProfileID(c), payment); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
