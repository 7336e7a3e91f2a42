package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/awaaz-labs/civic-portal/internal/domain"
	apperrors "github.com/awaaz-labs/civic-portal/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, derived entirely from token
// claims. Endpoints that need fresh account data re-query the store.
type Principal struct {
	UserID string
	Email  string
	Role   domain.Role
}

// Middleware validates session cookies and loads principals.
type Middleware struct {
	tokens     *TokenManager
	adminEmail string
}

// NewMiddleware constructs the route guard. adminEmail is the single
// pre-authorized address allowed to hold an admin session.
func NewMiddleware(tokens *TokenManager, adminEmail string) *Middleware {
	return &Middleware{tokens: tokens, adminEmail: adminEmail}
}

func (m *Middleware) principalFromCookie(c *fiber.Ctx, cookieNames ...string) (*Principal, error) {
	var tokenStr string
	for _, name := range cookieNames {
		if v := c.Cookies(name); v != "" {
			tokenStr = v
			break
		}
	}
	if tokenStr == "" {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}
	return &Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	principal, err := m.principalFromCookie(c, SessionCookie)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional loads a principal when a valid session cookie is present but lets
// anonymous requests through.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	if principal, err := m.principalFromCookie(c, SessionCookie); err == nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

// RequireAdmin enforces an admin session: an admin role claim carried by a
// token whose email matches the pre-authorized admin address. The dedicated
// admin cookie is preferred, the shared one accepted for compatibility.
func (m *Middleware) RequireAdmin(c *fiber.Ctx) error {
	principal, err := m.principalFromCookie(c, AdminSessionCookie, SessionCookie)
	if err != nil {
		return err
	}
	if principal.Role != domain.RoleAdmin || !strings.EqualFold(principal.Email, m.adminEmail) {
		return apperrors.NewForbidden("admin privileges required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
