package lease

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateLeaseRequest struct {
	UnitID          any    `json:"unitId"`
	BedroomID       any    `json:"bedroomId"`
	TenantID        any    `json:"tenantId"`
	StartDate       string `json:"startDate" validate:"required"`
	EndDate         string `json:"endDate" validate:"required"`
	MonthlyRent     any    `json:"monthlyRent"`
	SecurityDeposit any    `json:"securityDeposit"`
	Status          string `json:"status"`
}

type LeaseResponse struct {
	ID          uint               `json:"id"`
	UnitID      uint               `json:"unitId"`
	Unit        string             `json:"unit"` // unit number for display
	BedroomID   *uint              `json:"bedroomId"`
	Bedroom     string             `json:"bedroom,omitempty"`
	TenantID    uint               `json:"tenantId"`
	TenantName  string             `json:"tenantName"`
	StartDate   string             `json:"startDate"`
	EndDate     string             `json:"endDate"`
	MonthlyRent float64            `json:"monthlyRent"`
	Status      models.LeaseStatus `json:"status"`
}

func formatLease(l *models.Lease) LeaseResponse {
	resp := LeaseResponse{
		ID:          l.ID,
		UnitID:      l.UnitID,
		Unit:        l.Unit.UnitNumber,
		BedroomID:   l.BedroomID,
		TenantID:    l.TenantID,
		TenantName:  l.Tenant.Name,
		StartDate:   l.StartDate.Format(time.DateOnly),
		EndDate:     l.EndDate.Format(time.DateOnly),
		MonthlyRent: l.MonthlyRent,
		Status:      l.Status,
	}
	if l.Bedroom != nil {
		resp.Bedroom = l.Bedroom.BedroomNumber
	}
	return resp
}

func parseAmount(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func parseID(raw any) (uint, bool) {
	switch v := raw.(type) {
	case float64:
		if v > 0 {
			return uint(v), true
		}
	case int:
		if v > 0 {
			return uint(v), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n > 0 {
			return uint(n), true
		}
	}
	return 0, false
}

// POST /api/admin/leases
func CreateLeaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLeaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Start date and end date are required")
		}

		unitID, ok := parseID(body.UnitID)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unit is required")
		}
		tenantID, ok := parseID(body.TenantID)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Tenant is required")
		}

		var bedroomID *uint
		if bid, ok := parseID(body.BedroomID); ok {
			bedroomID = &bid
		}

		startDate, err := time.Parse(time.DateOnly, body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid start date")
		}
		endDate, err := time.Parse(time.DateOnly, body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid end date")
		}
		if !endDate.After(startDate) {
			return fiber.NewError(fiber.StatusBadRequest, "End date must be after start date")
		}

		var u models.Unit
		if err := database.DB.First(&u, "id = ?", unitID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Unit not found")
		}

		var tenant models.Tenant
		if err := database.DB.First(&tenant, "id = ?", tenantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tenant not found")
		}

		if bedroomID != nil {
			var b models.Bedroom
			if err := database.DB.First(&b, "id = ? AND unit_id = ?", *bedroomID, u.ID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Bedroom not found on this unit")
			}
			if b.Status == models.StatusOccupied {
				return fiber.NewError(fiber.StatusBadRequest, "Bedroom is already occupied")
			}
		}

		status := models.LeaseStatus(strings.TrimSpace(body.Status))
		if status == "" {
			status = models.LeaseActive
		}
		if status != models.LeaseActive && status != models.LeaseDraft {
			return fiber.NewError(fiber.StatusBadRequest, "Status must be Active or DRAFT")
		}

		newLease := models.Lease{
			UnitID:          u.ID,
			BedroomID:       bedroomID,
			TenantID:        tenant.ID,
			StartDate:       startDate,
			EndDate:         endDate,
			MonthlyRent:     parseAmount(body.MonthlyRent),
			SecurityDeposit: parseAmount(body.SecurityDeposit),
			Status:          status,
		}

		// The conflict check runs inside the same transaction as the insert
		// and the occupancy flip, so a concurrent create on the same unit or
		// bedroom cannot double-book it.
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if status == models.LeaseActive {
				if err := checkActiveConflict(tx, &u, bedroomID); err != nil {
					return err
				}
			}
			if err := tx.Create(&newLease).Error; err != nil {
				return err
			}
			if status != models.LeaseActive {
				// DRAFT leases reserve nothing.
				return nil
			}
			if bedroomID != nil {
				return tx.Model(&models.Bedroom{}).
					Where("id = ?", *bedroomID).
					Update("status", models.StatusOccupied).Error
			}
			return tx.Model(&models.Unit{}).
				Where("id = ?", u.ID).
				Update("status", models.StatusOccupied).Error
		})
		if txErr != nil {
			if errors.Is(txErr, ErrUnitOccupied) || errors.Is(txErr, ErrBedroomOccupied) {
				return fiber.NewError(fiber.StatusBadRequest, "Unit or bedroom already has an active lease")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Error creating lease")
		}

		newLease.Unit = u
		newLease.Tenant = tenant

		audit.Record(c, audit.Entry{
			EntityType:  "lease",
			EntityID:    newLease.ID,
			Action:      models.AuditActionCreate,
			Description: "Created lease on unit " + u.UnitNumber + " for " + tenant.Name,
			After:       newLease,
		})

		return c.Status(fiber.StatusCreated).JSON(formatLease(&newLease))
	}
}

// GET /api/admin/leases
func ListLeasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var leases []models.Lease
		if err := database.DB.
			Preload("Unit").
			Preload("Bedroom").
			Preload("Tenant").
			Order("start_date DESC").
			Find(&leases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list leases")
		}

		resp := make([]LeaseResponse, 0, len(leases))
		for i := range leases {
			resp = append(resp, formatLease(&leases[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/leases/active/:unitId
// Feeds the read-only tenant autofill on the lease forms: selecting a unit
// that already has an active lease locks the tenant fields to that tenant.
// Responds with a JSON null body when the unit has no active lease.
func GetActiveLeaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		unitID := c.Params("unitId")

		var u models.Unit
		if err := database.DB.First(&u, "id = ?", unitID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Unit not found")
		}

		var l models.Lease
		err := database.DB.
			Preload("Tenant").
			Where("unit_id = ? AND status = ?", u.ID, models.LeaseActive).
			Order("start_date DESC").
			First(&l).Error
		if err != nil {
			return c.JSON(nil)
		}

		return c.JSON(fiber.Map{
			"leaseId":     l.ID,
			"tenantId":    l.TenantID,
			"tenantName":  l.Tenant.Name,
			"startDate":   l.StartDate.Format(time.DateOnly),
			"endDate":     l.EndDate.Format(time.DateOnly),
			"monthlyRent": l.MonthlyRent,
		})
	}
}

type CandidateUnit struct {
	ID         uint              `json:"id"`
	UnitNumber string            `json:"unitNumber"`
	RentalMode models.RentalMode `json:"rentalMode"`
	Bedrooms   []CandidateRoom   `json:"bedrooms,omitempty"`
}

type CandidateRoom struct {
	ID            uint   `json:"id"`
	BedroomNumber string `json:"bedroomNumber"`
	RoomNumber    int    `json:"roomNumber"`
}

// GET /api/admin/leases/units-with-tenants?propertyId&rentalMode
// Candidate units for the lease creation forms. Whole-unit candidates
// exclude any unit number that appears on a currently active lease; the
// bedroom-wise flow instead lists each unit's vacant bedrooms.
func UnitsWithTenantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		propertyID := c.QueryInt("propertyId", 0)
		if propertyID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "propertyId is required")
		}
		mode := c.Query("rentalMode", string(models.RentalModeFullUnit))

		var units []models.Unit
		if err := database.DB.
			Where("property_id = ? AND rental_mode = ?", propertyID, mode).
			Order("unit_number ASC").
			Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list units")
		}

		// Unit numbers held by an active lease.
		var activeNumbers []string
		database.DB.Model(&models.Lease{}).
			Joins("JOIN units ON units.id = leases.unit_id").
			Where("leases.status = ?", models.LeaseActive).
			Pluck("units.unit_number", &activeNumbers)
		taken := make(map[string]bool, len(activeNumbers))
		for _, n := range activeNumbers {
			taken[n] = true
		}

		data := make([]CandidateUnit, 0, len(units))
		for _, u := range units {
			if mode == string(models.RentalModeFullUnit) && taken[u.UnitNumber] {
				continue
			}

			cu := CandidateUnit{
				ID:         u.ID,
				UnitNumber: u.UnitNumber,
				RentalMode: u.RentalMode,
			}

			if u.RentalMode == models.RentalModeBedroomWise {
				var vacant []models.Bedroom
				database.DB.
					Where("unit_id = ? AND status = ?", u.ID, models.StatusVacant).
					Order("room_number ASC").
					Find(&vacant)
				for _, b := range vacant {
					cu.Bedrooms = append(cu.Bedrooms, CandidateRoom{
						ID:            b.ID,
						BedroomNumber: b.BedroomNumber,
						RoomNumber:    b.RoomNumber,
					})
				}
			}

			data = append(data, cu)
		}

		return c.JSON(fiber.Map{
			"data": data,
			"pagination": fiber.Map{
				"total":      len(data),
				"page":       1,
				"limit":      len(data),
				"totalPages": int(math.Min(1, float64(len(data)))),
			},
		})
	}
}

// GET /api/admin/leases/:id/download
// Documents live in external storage; this only hands back the URL.
func DownloadLeaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var l models.Lease
		if err := database.DB.First(&l, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lease not found")
		}
		if l.DocumentURL == "" {
			return fiber.NewError(fiber.StatusNotFound, "Lease has no document")
		}

		return c.Redirect(l.DocumentURL, fiber.StatusFound)
	}
}

// PUT /api/admin/leases/:id/terminate
// Marks a lease Expired and frees the unit or bedroom it occupied.
func TerminateLeaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var l models.Lease
		if err := database.DB.Preload("Unit").Preload("Tenant").First(&l, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lease not found")
		}
		if l.Status != models.LeaseActive {
			return fiber.NewError(fiber.StatusBadRequest, "Only an active lease can be terminated")
		}
		before := l

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			l.Status = models.LeaseExpired
			if err := tx.Save(&l).Error; err != nil {
				return err
			}
			if l.BedroomID != nil {
				return tx.Model(&models.Bedroom{}).
					Where("id = ?", *l.BedroomID).
					Update("status", models.StatusVacant).Error
			}
			return tx.Model(&models.Unit{}).
				Where("id = ?", l.UnitID).
				Update("status", models.StatusVacant).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error terminating lease")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "lease",
			EntityID:    l.ID,
			Action:      models.AuditActionUpdate,
			Description: "Terminated lease on unit " + l.Unit.UnitNumber,
			Before:      before,
			After:       l,
		})

		return c.JSON(formatLease(&l))
	}
}
