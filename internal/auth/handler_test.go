package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"propertyhub-backend/internal/auth"
	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthApp(t *testing.T) (*fiber.App, *config.Config) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := &config.Config{JWTSecret: "test-secret-test-secret-test-secret!"}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"message": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Unexpected server error"})
		},
	})
	app.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	app.Post("/auth/login", auth.LoginHandler(cfg))

	protected := app.Group("", auth.JWTMiddleware(cfg))
	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/admin-only", auth.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app, cfg
}

func post(t *testing.T, app *fiber.App, path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyOf(t *testing.T, resp *http.Response) map[string]any {
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRegisterAdminOnlyOnce(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := post(t, app, "/auth/register-admin",
		`{"name":"Sam","email":"SAM@Example.com","password":"hunter22"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "sam@example.com", bodyOf(t, resp)["email"])

	resp = post(t, app, "/auth/register-admin",
		`{"name":"Eve","email":"eve@example.com","password":"hunter22"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLoginAndAccessProtectedRoute(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := post(t, app, "/auth/register-admin",
		`{"name":"Sam","email":"sam@example.com","password":"hunter22"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = post(t, app, "/auth/login", `{"email":"sam@example.com","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = post(t, app, "/auth/login", `{"email":"sam@example.com","password":"hunter22"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := bodyOf(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, meResp.StatusCode)
	assert.Equal(t, "sam@example.com", bodyOf(t, meResp)["email"])

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	adminResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, adminResp.StatusCode)
}

func TestProtectedRouteRejectsBadTokens(t *testing.T) {
	app, _ := setupAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
