package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookie is the role-agnostic session cookie.
	SessionCookie = "token"
	// AdminSessionCookie is set in addition to SessionCookie on admin login.
	AdminSessionCookie = "admin_token"
)

// SetSessionCookie attaches an HTTP-only session cookie to the response.
func SetSessionCookie(c *fiber.Ctx, name, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(c *fiber.Ctx, secure bool) {
	for _, name := range []string{SessionCookie, AdminSessionCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteStrictMode,
			Path:     "/",
		})
	}
}
