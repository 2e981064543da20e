package tenant

import (
	"strings"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/lease"
	"propertyhub-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type TenantResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Type        models.TenantType `json:"type"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	LeaseStatus string            `json:"leaseStatus"`
	UnitNumber  string            `json:"unitNumber,omitempty"`
	Building    string            `json:"building,omitempty"`
}

type CreateTenantRequest struct {
	Name                  string `json:"name" validate:"required"`
	Type                  string `json:"type"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Phone                 string `json:"phone"`
	EmergencyContactName  string `json:"emergencyContactName"`
	EmergencyContactPhone string `json:"emergencyContactPhone"`
}

type UpdateTenantRequest struct {
	Name                  *string `json:"name"`
	Type                  *string `json:"type"`
	Email                 *string `json:"email"`
	Phone                 *string `json:"phone"`
	EmergencyContactName  *string `json:"emergencyContactName"`
	EmergencyContactPhone *string `json:"emergencyContactPhone"`
}

func formatTenant(t *models.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:          t.ID,
		Name:        t.Name,
		Type:        t.Type,
		Email:       t.Email,
		Phone:       t.Phone,
		LeaseStatus: lease.TenantLeaseStatus(t.Leases),
	}
	// Unit context comes from the lease that decides the badge.
	for _, l := range t.Leases {
		if l.Status == models.LeaseActive {
			resp.UnitNumber = l.Unit.UnitNumber
			resp.Building = l.Unit.Property.Name
			break
		}
	}
	return resp
}

// GET /api/admin/tenants?available=true
// available filters to tenants without an active lease, used by the lease
// form's tenant dropdown.
func ListTenantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tenants []models.Tenant
		if err := database.DB.
			Preload("Leases").
			Preload("Leases.Unit").
			Preload("Leases.Unit.Property").
			Order("name ASC").
			Find(&tenants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list tenants")
		}

		onlyAvailable := c.QueryBool("available", false)

		resp := make([]TenantResponse, 0, len(tenants))
		for i := range tenants {
			formatted := formatTenant(&tenants[i])
			if onlyAvailable && formatted.LeaseStatus == string(models.LeaseActive) {
				continue
			}
			resp = append(resp, formatted)
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/tenants
func CreateTenantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTenantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tenant name is required and email must be valid")
		}

		tenantType := models.TenantIndividual
		if body.Type == string(models.TenantCompany) {
			tenantType = models.TenantCompany
		}

		t := models.Tenant{
			Name:                  body.Name,
			Type:                  tenantType,
			Email:                 strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:                 strings.TrimSpace(body.Phone),
			EmergencyContactName:  body.EmergencyContactName,
			EmergencyContactPhone: body.EmergencyContactPhone,
		}

		if err := database.DB.Create(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create tenant")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "tenant",
			EntityID:    t.ID,
			Action:      models.AuditActionCreate,
			Description: "Created tenant " + t.Name,
			After:       t,
		})

		return c.Status(fiber.StatusCreated).JSON(formatTenant(&t))
	}
}

// GET /api/admin/tenants/:id
func GetTenantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var t models.Tenant
		if err := database.DB.
			Preload("Leases").
			Preload("Leases.Unit").
			Preload("Leases.Unit.Property").
			First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tenant not found")
		}

		leases := make([]fiber.Map, 0, len(t.Leases))
		for _, l := range t.Leases {
			leases = append(leases, fiber.Map{
				"id":          l.ID,
				"unitNumber":  l.Unit.UnitNumber,
				"startDate":   l.StartDate.Format("2006-01-02"),
				"endDate":     l.EndDate.Format("2006-01-02"),
				"monthlyRent": l.MonthlyRent,
				"status":      l.Status,
			})
		}

		resp := formatTenant(&t)
		return c.JSON(fiber.Map{
			"id":                    resp.ID,
			"name":                  resp.Name,
			"type":                  resp.Type,
			"email":                 resp.Email,
			"phone":                 resp.Phone,
			"leaseStatus":           resp.LeaseStatus,
			"unitNumber":            resp.UnitNumber,
			"building":              resp.Building,
			"emergencyContactName":  t.EmergencyContactName,
			"emergencyContactPhone": t.EmergencyContactPhone,
			"leases":                leases,
		})
	}
}

// PUT /api/admin/tenants/:id
func UpdateTenantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var t models.Tenant
		if err := database.DB.First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tenant not found")
		}
		before := t

		var body UpdateTenantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Tenant name cannot be empty")
			}
			t.Name = name
		}
		if body.Type != nil {
			switch models.TenantType(*body.Type) {
			case models.TenantIndividual, models.TenantCompany:
				t.Type = models.TenantType(*body.Type)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Type must be Individual or Company")
			}
		}
		if body.Email != nil {
			t.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			t.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.EmergencyContactName != nil {
			t.EmergencyContactName = *body.EmergencyContactName
		}
		if body.EmergencyContactPhone != nil {
			t.EmergencyContactPhone = *body.EmergencyContactPhone
		}

		if err := database.DB.Save(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update tenant")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "tenant",
			EntityID:    t.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated tenant " + t.Name,
			Before:      before,
			After:       t,
		})

		database.DB.Preload("Leases").Preload("Leases.Unit").Preload("Leases.Unit.Property").First(&t, t.ID)
		return c.JSON(formatTenant(&t))
	}
}

// DELETE /api/admin/tenants/:id
func DeleteTenantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var t models.Tenant
		if err := database.DB.First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tenant not found")
		}

		var activeCount int64
		database.DB.Model(&models.Lease{}).
			Where("tenant_id = ? AND status = ?", t.ID, models.LeaseActive).
			Count(&activeCount)
		if activeCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Cannot delete tenant with active lease")
		}

		if err := database.DB.Delete(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete tenant")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "tenant",
			EntityID:    t.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted tenant " + t.Name,
			Before:      t,
		})

		return c.JSON(fiber.Map{"message": "Tenant deleted successfully"})
	}
}
