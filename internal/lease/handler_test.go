package lease_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/lease"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	property models.Property
	unit     models.Unit
	tenant   models.Tenant
}

func setupLeaseApp(t *testing.T, mode models.RentalMode) (*fiber.App, *fixture) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	f := &fixture{db: db}

	f.property = models.Property{Name: "Maple Court"}
	require.NoError(t, db.Create(&f.property).Error)

	bedrooms := 1
	if mode == models.RentalModeBedroomWise {
		bedrooms = 3
	}
	f.unit = models.Unit{UnitNumber: "A-101", PropertyID: f.property.ID, RentalMode: mode, Bedrooms: bedrooms}
	require.NoError(t, db.Create(&f.unit).Error)

	if mode == models.RentalModeBedroomWise {
		for i := 1; i <= bedrooms; i++ {
			require.NoError(t, db.Create(&models.Bedroom{
				BedroomNumber: "A-101-" + strconv.Itoa(i),
				RoomNumber:    i,
				UnitID:        f.unit.ID,
				Status:        models.StatusVacant,
			}).Error)
		}
	}

	f.tenant = models.Tenant{Name: "Jordan Reyes", Email: "jordan@example.com"}
	require.NoError(t, db.Create(&f.tenant).Error)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"message": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Unexpected server error"})
		},
	})
	app.Post("/leases", lease.CreateLeaseHandler())
	app.Get("/leases", lease.ListLeasesHandler())
	app.Get("/leases/units-with-tenants", lease.UnitsWithTenantsHandler())
	app.Get("/leases/active/:unitId", lease.GetActiveLeaseHandler())
	app.Put("/leases/:id/terminate", lease.TerminateLeaseHandler())

	return app, f
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readJSON(t *testing.T, resp *http.Response) map[string]any {
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func leaseBody(f *fixture, status string) string {
	start := time.Now().Format(time.DateOnly)
	end := time.Now().AddDate(1, 0, 0).Format(time.DateOnly)
	body := `{"unitId":` + strconv.Itoa(int(f.unit.ID)) +
		`,"tenantId":` + strconv.Itoa(int(f.tenant.ID)) +
		`,"startDate":"` + start + `","endDate":"` + end + `","monthlyRent":1200`
	if status != "" {
		body += `,"status":"` + status + `"`
	}
	return body + `}`
}

func TestCreateLeaseMarksUnitOccupied(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeFullUnit)

	resp := postJSON(t, app, "/leases", leaseBody(f, "Active"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := readJSON(t, resp)
	assert.Equal(t, "Active", body["status"])
	assert.Equal(t, "Jordan Reyes", body["tenantName"])

	var u models.Unit
	require.NoError(t, f.db.First(&u, f.unit.ID).Error)
	assert.Equal(t, models.StatusOccupied, u.Status)
}

func TestCreateLeaseRejectsSecondActiveOnSameUnit(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeFullUnit)

	resp := postJSON(t, app, "/leases", leaseBody(f, "Active"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/leases", leaseBody(f, "Active"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unit or bedroom already has an active lease", readJSON(t, resp)["message"])

	var count int64
	f.db.Model(&models.Lease{}).Where("unit_id = ? AND status = ?", f.unit.ID, models.LeaseActive).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateDraftLeaseReservesNothing(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeFullUnit)

	resp := postJSON(t, app, "/leases", leaseBody(f, "DRAFT"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var u models.Unit
	require.NoError(t, f.db.First(&u, f.unit.ID).Error)
	assert.Equal(t, models.StatusVacant, u.Status)

	// A draft does not block a real lease.
	resp = postJSON(t, app, "/leases", leaseBody(f, "Active"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateLeasePerBedroomExclusivity(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeBedroomWise)

	var rooms []models.Bedroom
	require.NoError(t, f.db.Where("unit_id = ?", f.unit.ID).Order("room_number ASC").Find(&rooms).Error)
	require.Len(t, rooms, 3)

	withRoom := func(roomID uint) string {
		b := leaseBody(f, "Active")
		return strings.Replace(b, `{"unitId":`, `{"bedroomId":`+strconv.Itoa(int(roomID))+`,"unitId":`, 1)
	}

	resp := postJSON(t, app, "/leases", withRoom(rooms[0].ID))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var b models.Bedroom
	require.NoError(t, f.db.First(&b, rooms[0].ID).Error)
	assert.Equal(t, models.StatusOccupied, b.Status)

	// Same bedroom again is rejected; a different bedroom of the same unit is fine.
	resp = postJSON(t, app, "/leases", withRoom(rooms[0].ID))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/leases", withRoom(rooms[1].ID))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateLeaseRejectsBadDates(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeFullUnit)

	body := `{"unitId":` + strconv.Itoa(int(f.unit.ID)) +
		`,"tenantId":` + strconv.Itoa(int(f.tenant.ID)) +
		`,"startDate":"2026-06-01","endDate":"2026-05-01"}`
	resp := postJSON(t, app, "/leases", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "End date must be after start date", readJSON(t, resp)["message"])
}

func TestGetActiveLeaseAutofill(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeFullUnit)

	path := "/leases/active/" + strconv.Itoa(int(f.unit.ID))

	// No active lease: JSON null body.
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(string(raw)))

	resp = postJSON(t, app, "/leases", leaseBody(f, "Active"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, path, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	body := readJSON(t, resp)
	assert.Equal(t, "Jordan Reyes", body["tenantName"])
	assert.Equal(t, float64(1200), body["monthlyRent"])
}

func TestUnitsWithTenantsExcludesTakenUnitNumbers(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeFullUnit)

	other := models.Unit{UnitNumber: "A-102", PropertyID: f.property.ID, RentalMode: models.RentalModeFullUnit, Bedrooms: 1}
	require.NoError(t, f.db.Create(&other).Error)

	resp := postJSON(t, app, "/leases", leaseBody(f, "Active"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet,
		"/leases/units-with-tenants?propertyId="+strconv.Itoa(int(f.property.ID))+"&rentalMode=FULL_UNIT", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body := readJSON(t, resp)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "A-102", data[0].(map[string]any)["unitNumber"])
}

func TestTerminateLeaseFreesUnit(t *testing.T) {
	app, f := setupLeaseApp(t, models.RentalModeFullUnit)

	resp := postJSON(t, app, "/leases", leaseBody(f, "Active"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := readJSON(t, resp)
	leaseID := int(created["id"].(float64))

	req := httptest.NewRequest(http.MethodPut, "/leases/"+strconv.Itoa(leaseID)+"/terminate", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Expired", readJSON(t, resp)["status"])

	var u models.Unit
	require.NoError(t, f.db.First(&u, f.unit.ID).Error)
	assert.Equal(t, models.StatusVacant, u.Status)

	// Terminating twice fails.
	req = httptest.NewRequest(http.MethodPut, "/leases/"+strconv.Itoa(leaseID)+"/terminate", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
