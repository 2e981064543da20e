package messaging_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"propertyhub-backend/internal/auth"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/messaging"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// asUser builds an app whose requests run as the given user id, standing in
// for the JWT middleware.
func asUser(t *testing.T, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		return c.Next()
	})
	app.Get("/messages/conversations", messaging.ListConversationsHandler())
	app.Get("/messages/thread/:userId", messaging.GetThreadHandler())
	app.Post("/messages", messaging.SendMessageHandler())
	return app
}

func setupMessagingDB(t *testing.T) (*gorm.DB, models.User, models.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	admin := models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	tenant := models.User{Name: "Jordan Reyes", Email: "jordan@example.com", PasswordHash: "x", Role: models.RoleTenant}
	require.NoError(t, db.Create(&tenant).Error)

	return db, admin, tenant
}

func TestSendAndReadThread(t *testing.T) {
	db, admin, tenant := setupMessagingDB(t)

	adminApp := asUser(t, admin.ID)
	tenantApp := asUser(t, tenant.ID)

	send := func(app *fiber.App, recipient uint, content string) {
		body := `{"recipientId":` + jsonUint(recipient) + `,"content":"` + content + `"}`
		req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	send(adminApp, tenant.ID, "Your lease renewal is ready")
	send(adminApp, tenant.ID, "Please review it this week")
	send(tenantApp, admin.ID, "Will do, thanks")

	// Tenant sees two unread from the admin.
	req := httptest.NewRequest(http.MethodGet, "/messages/conversations", nil)
	resp, err := tenantApp.Test(req, -1)
	require.NoError(t, err)
	conversations := decodeList(t, resp)
	require.Len(t, conversations, 1)
	assert.Equal(t, float64(2), conversations[0]["unreadCount"])
	last := conversations[0]["lastMessage"].(map[string]any)
	assert.Equal(t, "Will do, thanks", last["content"])

	// Opening the thread marks them read.
	req = httptest.NewRequest(http.MethodGet, "/messages/thread/"+jsonUint(admin.ID), nil)
	resp, err = tenantApp.Test(req, -1)
	require.NoError(t, err)
	thread := decodeList(t, resp)
	assert.Len(t, thread, 3)
	assert.Equal(t, "Your lease renewal is ready", thread[0]["content"])

	var unread int64
	db.Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", tenant.ID).
		Count(&unread)
	assert.Zero(t, unread)

	// The sender's own message stays unread for the admin until they open it.
	req = httptest.NewRequest(http.MethodGet, "/messages/conversations", nil)
	resp, err = adminApp.Test(req, -1)
	require.NoError(t, err)
	conversations = decodeList(t, resp)
	require.Len(t, conversations, 1)
	assert.Equal(t, float64(1), conversations[0]["unreadCount"])
}

func TestThreadUnknownPartner(t *testing.T) {
	_, admin, _ := setupMessagingDB(t)
	app := asUser(t, admin.ID)

	req := httptest.NewRequest(http.MethodGet, "/messages/thread/999", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
