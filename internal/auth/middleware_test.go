package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awaaz-labs/civic-portal/internal/domain"
	apperrors "github.com/awaaz-labs/civic-portal/pkg/util"
)

const testAdminEmail = "admin@city.example"

func newGuardedApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	mw := NewMiddleware(tm, testAdminEmail)
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"email": principal.Email})
	})
	app.Get("/admin-only", mw.RequireAdmin, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/open", mw.Optional, func(c *fiber.Ctx) error {
		_, authenticated := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"authenticated": authenticated})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string, cookies map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareMissingTokenUnauthenticated(t *testing.T) {
	tm := NewTokenManager("test-secret", 168, 24)
	app := newGuardedApp(t, tm)

	resp := doRequest(t, app, "/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareValidCookieLoadsPrincipal(t *testing.T) {
	tm := NewTokenManager("test-secret", 168, 24)
	app := newGuardedApp(t, tm)

	token, _, err := tm.GenerateToken("64f1b2c3d4e5f60718293a4b", "citizen@example.com", domain.RoleCitizen)
	require.NoError(t, err)

	resp := doRequest(t, app, "/protected", map[string]string{SessionCookie: token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareTamperedTokenRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", 168, 24)
	forged := NewTokenManager("attacker-secret", 168, 24)
	app := newGuardedApp(t, tm)

	token, _, err := forged.GenerateToken("id", testAdminEmail, domain.RoleAdmin)
	require.NoError(t, err)

	resp := doRequest(t, app, "/admin-only", map[string]string{AdminSessionCookie: token})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdminRejectsCitizenRole(t *testing.T) {
	tm := NewTokenManager("test-secret", 168, 24)
	app := newGuardedApp(t, tm)

	token, _, err := tm.GenerateToken("id", "citizen@example.com", domain.RoleCitizen)
	require.NoError(t, err)

	resp := doRequest(t, app, "/admin-only", map[string]string{SessionCookie: token})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminRejectsUnauthorizedEmail(t *testing.T) {
	tm := NewTokenManager("test-secret", 168, 24)
	app := newGuardedApp(t, tm)

	// Admin role claim but not the pre-authorized address.
	token, _, err := tm.GenerateToken("id", "other-admin@city.example", domain.RoleAdmin)
	require.NoError(t, err)

	resp := doRequest(t, app, "/admin-only", map[string]string{AdminSessionCookie: token})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminAcceptsAuthorizedAdmin(t *testing.T) {
	tm := NewTokenManager("test-secret", 168, 24)
	app := newGuardedApp(t, tm)

	token, _, err := tm.GenerateToken("id", testAdminEmail, domain.RoleAdmin)
	require.NoError(t, err)

	resp := doRequest(t, app, "/admin-only", map[string]string{AdminSessionCookie: token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOptionalAllowsAnonymous(t *testing.T) {
	tm := NewTokenManager("test-secret", 168, 24)
	app := newGuardedApp(t, tm)

	resp := doRequest(t, app, "/open", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "/open", map[string]string{SessionCookie: "garbage"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
