package api

import (
	"net/http"

	"marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new user --> POST /sign-up
func (h *UserHandler) SignUp(c echo.Context) error {
	req := signUpRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.users.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"token": token})
}

// SignIn logs a user in --> POST /sign-in
func (h *UserHandler) SignIn(c echo.Context) error {
	req := signInRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// SignOut drops the session token --> POST /sign-out
func (h *UserHandler) SignOut(c echo.Context) error {
	email := Email(c)
	if email != "" {
		if err := h.users.Logout(c.Request().Context(), email); err != nil {
			return respondError(c, err)
		}
	}
	return c.NoContent(http.StatusOK)
}

// GetProfile returns the acting user's profile --> GET /profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.users.GetProfile(c.Request().Context(), ProfileID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type profileUpdateRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// UpdateProfile writes the editable profile fields --> POST /profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	req := profileUpdateRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), ProfileID(c), req.FullName, req.Email, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces the password --> POST /profile/password
func (h *UserHandler) ChangePassword(c echo.Context) error {
	req := passwordChangeRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.users.ChangePassword(c.Request().Context(), ProfileID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
