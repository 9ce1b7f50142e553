package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"colisso/internal/adapters/http/middleware"
	"colisso/internal/config"
	"colisso/internal/core/domain"
	"colisso/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 15,
		},
	}
}

func newApp(cfg *config.Config, guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{middleware.AuthMiddleware(cfg)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/protected", handlers...)
	return app
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	t.Parallel()

	app := newApp(testConfig())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	app := newApp(cfg)

	token, err := jwt.GenerateAccessToken(1, "+22500000000", "Test User", "client", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareAcceptsCookieToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	app := newApp(cfg)

	token, err := jwt.GenerateAccessToken(1, "+22500000000", "Test User", "client", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	app := newApp(cfg)

	token, err := jwt.GenerateAccessToken(1, "+22500000000", "Test User", "client", cfg.JWT.Secret, -1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		role     string
		guard    fiber.Handler
		wantCode int
	}{
		{"admin passes admin gate", "admin", middleware.AdminOnly(), http.StatusOK},
		{"client blocked by admin gate", "client", middleware.AdminOnly(), http.StatusForbidden},
		{"courier passes courier gate", "courier", middleware.CourierOnly(), http.StatusOK},
		{"manager blocked by courier gate", "manager", middleware.CourierOnly(), http.StatusForbidden},
		{"counter agent passes counter gate", "counter_agent", middleware.CounterStaff(), http.StatusOK},
		{"parcel agent blocked by counter gate", "parcel_agent", middleware.CounterStaff(), http.StatusForbidden},
		{"manager passes parcel gate", "manager", middleware.ParcelStaff(), http.StatusOK},
		{"shipper blocked by staff gate", "shipper", middleware.Staff(), http.StatusForbidden},
	}

	cfg := testConfig()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newApp(cfg, tt.guard)

			token, err := jwt.GenerateAccessToken(1, "+22500000000", "Test User", tt.role, cfg.JWT.Secret, 15)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestCallerFromContext(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	app := fiber.New()

	var captured domain.Caller
	app.Get("/whoami", middleware.AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		c.Locals("stationIDs", []uint{4, 5})
		captured = middleware.Caller(c)
		return c.SendString("ok")
	})

	token, err := jwt.GenerateAccessToken(8, "+22500000000", "Test User", "manager", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, uint(8), captured.UserID)
	assert.Equal(t, domain.RoleManager, captured.Role)
	assert.Equal(t, []uint{4, 5}, captured.StationIDs)
}
