package api

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

func parseID(s string) (int, error) {
	return strconv.Atoi(s)
}

// respondError maps service errors onto the HTTP surface: 400 for
// field validation (field-scoped body), 401 for bad credentials,
// 403 for forbidden/terminal, 404 for missing rows, 500 otherwise.
func respondError(c echo.Context, err error) error {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusBadRequest, map[string]string{validation.Field: validation.Message})
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
	case errors.Is(err, service.ErrOrderPaid):
		return c.JSON(http.StatusForbidden, map[string]string{"detail": service.ErrOrderPaid.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": service.ErrUnauthorized.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
