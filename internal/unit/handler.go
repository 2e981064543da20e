package unit

import (
	"math"
	"strings"
	"time"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UnitResponse struct {
	ID         uint                   `json:"id"`
	UnitNumber string                 `json:"unitNumber"`
	UnitType   string                 `json:"unitType"`
	Floor      *int                   `json:"floor"`
	Building   string                 `json:"building"`
	RentalMode models.RentalMode      `json:"rentalMode"`
	Status     models.OccupancyStatus `json:"status"`
	PropertyID uint                   `json:"propertyId"`
	Bedrooms   int                    `json:"bedrooms"`
}

type CreateUnitRequest struct {
	Unit       string `json:"unit"` // legacy field name for the unit's display name
	UnitNumber string `json:"unitNumber"`
	UnitType   string `json:"unitType"`
	PropertyID any    `json:"propertyId"`
	RentalMode any    `json:"rentalMode"`
	Floor      any    `json:"floor"`
	Bedrooms   any    `json:"bedrooms"`
}

type UpdateUnitRequest struct {
	UnitNumber string `json:"unitNumber"`
	UnitType   string `json:"unitType"`
	PropertyID any    `json:"propertyId"`
	RentalMode any    `json:"rentalMode"`
	Floor      any    `json:"floor"`
	Bedrooms   any    `json:"bedrooms"`
	Status     string `json:"status"`
}

type BedroomResponse struct {
	ID            uint                   `json:"id"`
	BedroomNumber string                 `json:"bedroomNumber"`
	RoomNumber    int                    `json:"roomNumber"`
	Status        models.OccupancyStatus `json:"status"`
	RentAmount    float64                `json:"rentAmount"`
}

type ActiveLeaseResponse struct {
	TenantName string  `json:"tenantName"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Amount     float64 `json:"amount"`
}

type LeaseHistoryEntry struct {
	ID         uint   `json:"id"`
	TenantName string `json:"tenantName"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

type UnitDetailResponse struct {
	UnitResponse
	BedroomsList  []BedroomResponse    `json:"bedroomsList"`
	ActiveLease   *ActiveLeaseResponse `json:"activeLease"`
	TenantHistory []LeaseHistoryEntry  `json:"tenantHistory"`
}

func formatUnit(u *models.Unit) UnitResponse {
	number := u.UnitNumber
	if number == "" {
		number = u.Name
	}
	return UnitResponse{
		ID:         u.ID,
		UnitNumber: number,
		UnitType:   u.UnitType,
		Floor:      u.Floor,
		Building:   u.Property.Name,
		RentalMode: u.RentalMode,
		Status:     u.Status,
		PropertyID: u.PropertyID,
		Bedrooms:   u.Bedrooms,
	}
}

// GET /api/admin/units?page&limit&propertyId&rentalMode
func ListUnitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 {
			limit = 10
		}

		query := database.DB.Model(&models.Unit{})
		if propertyID := c.QueryInt("propertyId", 0); propertyID > 0 {
			query = query.Where("property_id = ?", propertyID)
		}
		if mode := c.Query("rentalMode"); mode != "" {
			query = query.Where("rental_mode = ?", mode)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list units")
		}

		var units []models.Unit
		if err := query.Preload("Property").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list units")
		}

		data := make([]UnitResponse, 0, len(units))
		for i := range units {
			data = append(data, formatUnit(&units[i]))
		}

		return c.JSON(fiber.Map{
			"data": data,
			"pagination": fiber.Map{
				"total":      total,
				"page":       page,
				"limit":      limit,
				"totalPages": int(math.Ceil(float64(total) / float64(limit))),
			},
		})
	}
}

// POST /api/admin/units
func CreateUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUnitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		propertyID, ok := parseID(body.PropertyID)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Property (Building) is required")
		}

		var property models.Property
		if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}

		mode := NormalizeRentalMode(body.RentalMode, models.RentalModeFullUnit)

		numBedrooms, ok := parseCount(body.Bedrooms)
		if !ok || numBedrooms <= 0 {
			if mode == models.RentalModeBedroomWise {
				numBedrooms = 3
			} else {
				numBedrooms = 1
			}
		}

		unitNumber := strings.TrimSpace(body.UnitNumber)
		if unitNumber == "" {
			unitNumber = strings.TrimSpace(body.Unit)
		}
		if unitNumber == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Unit number is required")
		}

		var floor *int
		if f, ok := parseCount(body.Floor); ok {
			floor = &f
		}

		newUnit := models.Unit{
			Name:       strings.TrimSpace(body.Unit),
			UnitNumber: unitNumber,
			UnitType:   strings.TrimSpace(body.UnitType),
			Floor:      floor,
			PropertyID: property.ID,
			RentalMode: mode,
			Bedrooms:   numBedrooms,
			Status:     models.StatusVacant,
			RentAmount: 0,
		}

		// Unit row and its bedroom batch are all-or-nothing: if either step
		// fails nothing is persisted.
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&newUnit).Error; err != nil {
				return err
			}
			if mode == models.RentalModeBedroomWise && numBedrooms > 0 {
				return CreateBedrooms(tx, &newUnit, 0, numBedrooms)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error creating unit")
		}

		newUnit.Property = property

		audit.Record(c, audit.Entry{
			EntityType:  "unit",
			EntityID:    newUnit.ID,
			Action:      models.AuditActionCreate,
			Description: "Created unit " + newUnit.UnitNumber,
			After:       newUnit,
		})

		return c.Status(fiber.StatusCreated).JSON(formatUnit(&newUnit))
	}
}

// GET /api/admin/units/:id
func GetUnitDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var u models.Unit
		if err := database.DB.
			Preload("Property").
			Preload("BedroomsList", func(db *gorm.DB) *gorm.DB {
				return db.Order("room_number ASC")
			}).
			Preload("Leases", func(db *gorm.DB) *gorm.DB {
				return db.Order("start_date DESC")
			}).
			Preload("Leases.Tenant").
			First(&u, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Unit not found")
		}

		detail := UnitDetailResponse{
			UnitResponse:  formatUnit(&u),
			BedroomsList:  make([]BedroomResponse, 0, len(u.BedroomsList)),
			TenantHistory: make([]LeaseHistoryEntry, 0, len(u.Leases)),
		}

		for _, b := range u.BedroomsList {
			detail.BedroomsList = append(detail.BedroomsList, BedroomResponse{
				ID:            b.ID,
				BedroomNumber: b.BedroomNumber,
				RoomNumber:    b.RoomNumber,
				Status:        b.Status,
				RentAmount:    b.RentAmount,
			})
		}

		for _, l := range u.Leases {
			if l.Status == models.LeaseActive && detail.ActiveLease == nil {
				detail.ActiveLease = &ActiveLeaseResponse{
					TenantName: l.Tenant.Name,
					StartDate:  l.StartDate.Format(time.DateOnly),
					EndDate:    l.EndDate.Format(time.DateOnly),
					Amount:     l.MonthlyRent,
				}
				continue
			}
			if l.Status != models.LeaseActive {
				detail.TenantHistory = append(detail.TenantHistory, LeaseHistoryEntry{
					ID:         l.ID,
					TenantName: l.Tenant.Name,
					StartDate:  l.StartDate.Format(time.DateOnly),
					EndDate:    l.EndDate.Format(time.DateOnly),
				})
			}
		}

		return c.JSON(detail)
	}
}

// PUT /api/admin/units/:id
func UpdateUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var existing models.Unit
		if err := database.DB.Preload("BedroomsList").First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Unit not found")
		}
		before := existing

		var body UpdateUnitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		// Unrecognized input keeps the stored mode, not FULL_UNIT.
		mode := NormalizeRentalMode(body.RentalMode, existing.RentalMode)

		numBedrooms, ok := parseCount(body.Bedrooms)
		if !ok || numBedrooms <= 0 {
			numBedrooms = existing.Bedrooms
		}

		if v := strings.TrimSpace(body.UnitNumber); v != "" {
			existing.UnitNumber = v
		}
		if v := strings.TrimSpace(body.UnitType); v != "" {
			existing.UnitType = v
		}
		if f, ok := parseCount(body.Floor); ok {
			existing.Floor = &f
		}
		if v := strings.TrimSpace(body.Status); v != "" {
			existing.Status = models.OccupancyStatus(v)
		}
		if pid, ok := parseID(body.PropertyID); ok {
			existing.PropertyID = pid
		}
		existing.RentalMode = mode
		existing.Bedrooms = numBedrooms

		// Unit update and bedroom reconciliation commit or roll back together,
		// so the roster can never end up inconsistent with a half-applied update.
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			if mode == models.RentalModeBedroomWise {
				return reconcileBedrooms(tx, &existing, numBedrooms)
			}
			// Switching to FULL_UNIT leaves existing bedroom rows in place;
			// the detail endpoint keeps them visible instead of hiding them.
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error updating unit")
		}

		if err := database.DB.Preload("Property").First(&existing, existing.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error updating unit")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "unit",
			EntityID:    existing.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated unit " + existing.UnitNumber,
			Before:      before,
			After:       existing,
		})

		return c.JSON(formatUnit(&existing))
	}
}

// DELETE /api/admin/units/:id
func DeleteUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var u models.Unit
		if err := database.DB.Preload("Leases").Preload("BedroomsList").First(&u, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Unit not found")
		}

		for _, l := range u.Leases {
			if l.Status == models.LeaseActive {
				return fiber.NewError(fiber.StatusBadRequest, "Cannot delete unit with active lease")
			}
		}

		// Bedrooms and leases foreign-key the unit, so they go first.
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("unit_id = ?", u.ID).Delete(&models.Bedroom{}).Error; err != nil {
				return err
			}
			if err := tx.Where("unit_id = ?", u.ID).Delete(&models.Lease{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Unit{}, u.ID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error deleting unit")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "unit",
			EntityID:    u.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted unit " + u.UnitNumber,
			Before:      u,
		})

		return c.JSON(fiber.Map{"message": "Unit deleted successfully"})
	}
}
