package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketplace/internal/entity"
	"marketplace/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartTestHandler() *CartHandler {
	products := &mockProductGetter{products: map[int]*entity.Product{
		1: {ID: 1, Title: "Monitor", Price: decimal.NewFromFloat(149.99)},
	}}
	return NewCartHandler(service.NewCartService(newMockCartStore(), products))
}

func newEchoContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(sessionCtxKey, "test-session")
	return c, rec
}

func TestGetCartEmpty(t *testing.T) {
	handler := newCartTestHandler()
	c, rec := newEchoContext(http.MethodGet, "/api/basket", "")

	require.NoError(t, handler.GetCart(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestAddToCart(t *testing.T) {
	handler := newCartTestHandler()
	c, rec := newEchoContext(http.MethodPost, "/api/basket", `{"id": 1, "count": 2}`)

	require.NoError(t, handler.AddToCart(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []entity.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ProductID)
	assert.Equal(t, 2, items[0].Count)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	handler := newCartTestHandler()
	c, rec := newEchoContext(http.MethodPost, "/api/basket", `{"id": 42, "count": 1}`)

	require.NoError(t, handler.AddToCart(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found.")
}

func TestAddToCartRejectsNonPositiveCount(t *testing.T) {
	handler := newCartTestHandler()

	for _, body := range []string{`{"id": 1, "count": 0}`, `{"id": 1, "count": -1}`, `{"id": 1}`} {
		c, rec := newEchoContext(http.MethodPost, "/api/basket", body)
		require.NoError(t, handler.AddToCart(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		assert.Contains(t, rec.Body.String(), "count")
	}
}

func TestRemoveFromCart(t *testing.T) {
	handler := newCartTestHandler()

	c, _ := newEchoContext(http.MethodPost, "/api/basket", `{"id": 1, "count": 3}`)
	require.NoError(t, handler.AddToCart(c))

	c, rec := newEchoContext(http.MethodDelete, "/api/basket", `{"id": 1, "count": 3}`)
	require.NoError(t, handler.RemoveFromCart(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
