package property

import (
	"strings"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type PropertyResponse struct {
	ID         uint                  `json:"id"`
	Name       string                `json:"name"`
	Address    string                `json:"address"`
	City       string                `json:"city"`
	Province   string                `json:"province"`
	PostalCode string                `json:"postalCode"`
	UnitsCount int                   `json:"unitsCount"`
	Status     models.PropertyStatus `json:"status"`
	OwnerID    *uint                 `json:"ownerId"`
	OwnerName  string                `json:"ownerName,omitempty"`
}

type CreatePropertyRequest struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	UnitsCount int    `json:"unitsCount"`
	Status     string `json:"status"`
	OwnerID    *uint  `json:"ownerId"`
}

type UpdatePropertyRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	PostalCode *string `json:"postalCode"`
	UnitsCount *int    `json:"unitsCount"`
	Status     *string `json:"status"`
	OwnerID    *uint   `json:"ownerId"`
}

func formatProperty(p *models.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:         p.ID,
		Name:       p.Name,
		Address:    p.Address,
		City:       p.City,
		Province:   p.Province,
		PostalCode: p.PostalCode,
		UnitsCount: p.UnitsCount,
		Status:     p.Status,
		OwnerID:    p.OwnerID,
	}
	if p.Owner != nil {
		resp.OwnerName = p.Owner.Name
	}
	return resp
}

// GET /api/admin/properties
func ListPropertiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var properties []models.Property
		if err := database.DB.Preload("Owner").Order("name ASC").Find(&properties).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list properties")
		}

		resp := make([]PropertyResponse, 0, len(properties))
		for i := range properties {
			resp = append(resp, formatProperty(&properties[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/properties
func CreatePropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePropertyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Property name is required")
		}

		status := models.PropertyActive
		if body.Status == string(models.PropertyInactive) {
			status = models.PropertyInactive
		}

		if body.OwnerID != nil {
			var owner models.Owner
			if err := database.DB.First(&owner, "id = ?", *body.OwnerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Owner not found")
			}
		}

		p := models.Property{
			Name:       body.Name,
			Address:    body.Address,
			City:       body.City,
			Province:   body.Province,
			PostalCode: body.PostalCode,
			UnitsCount: body.UnitsCount,
			Status:     status,
			OwnerID:    body.OwnerID,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create property")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "property",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Created property " + p.Name,
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(formatProperty(&p))
	}
}

// GET /api/admin/properties/:id
func GetPropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Property
		if err := database.DB.
			Preload("Owner").
			Preload("Units").
			First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}

		units := make([]fiber.Map, 0, len(p.Units))
		for _, u := range p.Units {
			units = append(units, fiber.Map{
				"id":         u.ID,
				"unitNumber": u.UnitNumber,
				"rentalMode": u.RentalMode,
				"status":     u.Status,
				"bedrooms":   u.Bedrooms,
			})
		}

		resp := formatProperty(&p)
		return c.JSON(fiber.Map{
			"id":         resp.ID,
			"name":       resp.Name,
			"address":    resp.Address,
			"city":       resp.City,
			"province":   resp.Province,
			"postalCode": resp.PostalCode,
			"unitsCount": resp.UnitsCount,
			"status":     resp.Status,
			"ownerId":    resp.OwnerID,
			"ownerName":  resp.OwnerName,
			"units":      units,
		})
	}
}

// PUT /api/admin/properties/:id
func UpdatePropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Property
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}
		before := p

		var body UpdatePropertyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Property name cannot be empty")
			}
			p.Name = name
		}
		if body.Address != nil {
			p.Address = *body.Address
		}
		if body.City != nil {
			p.City = *body.City
		}
		if body.Province != nil {
			p.Province = *body.Province
		}
		if body.PostalCode != nil {
			p.PostalCode = *body.PostalCode
		}
		if body.UnitsCount != nil {
			p.UnitsCount = *body.UnitsCount
		}
		if body.Status != nil {
			switch models.PropertyStatus(*body.Status) {
			case models.PropertyActive, models.PropertyInactive:
				p.Status = models.PropertyStatus(*body.Status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Status must be Active or Inactive")
			}
		}
		if body.OwnerID != nil {
			var owner models.Owner
			if err := database.DB.First(&owner, "id = ?", *body.OwnerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Owner not found")
			}
			p.OwnerID = body.OwnerID
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update property")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "property",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated property " + p.Name,
			Before:      before,
			After:       p,
		})

		database.DB.Preload("Owner").First(&p, p.ID)
		return c.JSON(formatProperty(&p))
	}
}

// DELETE /api/admin/properties/:id
// Blocked while any unit still belongs to the property.
func DeletePropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Property
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}

		var unitCount int64
		database.DB.Model(&models.Unit{}).Where("property_id = ?", p.ID).Count(&unitCount)
		if unitCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Cannot delete property with existing units")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete property")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "property",
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted property " + p.Name,
			Before:      p,
		})

		return c.JSON(fiber.Map{"message": "Property deleted successfully"})
	}
}
