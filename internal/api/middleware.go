package api

import (
	"net/http"
	"time"

	"marketplace/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookie = "session_id"
	sessionCtxKey = "sessionID"
	profileCtxKey = "profileID"
	emailCtxKey   = "email"
)

// SessionMiddleware ensures every request carries a cart session id,
// issuing a cookie with a fresh uuid when none is present.
func SessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				cookie = &http.Cookie{
					Name:     sessionCookie,
					Value:    uuid.NewString(),
					Path:     "/",
					Expires:  time.Now().Add(30 * 24 * time.Hour),
					HttpOnly: true,
				}
				c.SetCookie(cookie)
			}
			c.Set(sessionCtxKey, cookie.Value)
			return next(c)
		}
	}
}

// OptionalAuthMiddleware parses a Bearer token when one is supplied and
// attaches the profile identity to the request context. Requests
// without a (valid) token proceed anonymously; owner-scoped handlers
// reject them with 403.
func OptionalAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
				return next(c)
			}

			claims := &service.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(header[len(prefix):], claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return next(c)
			}

			c.Set(profileCtxKey, claims.UserID)
			c.Set(emailCtxKey, claims.Email)
			return next(c)
		}
	}
}

// SessionID returns the cart session id set by SessionMiddleware.
func SessionID(c echo.Context) string {
	if id, ok := c.Get(sessionCtxKey).(string); ok {
		return id
	}
	return ""
}

// ProfileID returns the authenticated profile id, 0 when anonymous. It
// understands both the optional-auth context and the echo-jwt token set
// on the protected profile group.
func ProfileID(c echo.Context) int {
	if id, ok := c.Get(profileCtxKey).(int); ok {
		return id
	}
	if token, ok := c.Get("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*service.JwtCustomClaims); ok {
			return claims.UserID
		}
	}
	return 0
}

// Email returns the authenticated email, empty when anonymous.
func Email(c echo.Context) string {
	if email, ok := c.Get(emailCtxKey).(string); ok {
		return email
	}
	if token, ok := c.Get("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*service.JwtCustomClaims); ok {
			return claims.Email
		}
	}
	return ""
}
