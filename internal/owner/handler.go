package owner

import (
	"strings"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type OwnerResponse struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Properties []string `json:"properties"`
}

type CreateOwnerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"` // optional portal login
}

type UpdateOwnerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`

	// Full set of property ids this owner should hold. Only unassigned
	// properties or the owner's own may appear; the rest of the owner's
	// current assignments are released.
	PropertyIDs *[]uint `json:"propertyIds"`
}

func formatOwner(o *models.Owner) OwnerResponse {
	resp := OwnerResponse{
		ID:         o.ID,
		Name:       o.Name,
		Email:      o.Email,
		Phone:      o.Phone,
		Properties: make([]string, 0, len(o.Properties)),
	}
	for _, p := range o.Properties {
		resp.Properties = append(resp.Properties, p.Name)
	}
	return resp
}

// GET /api/admin/owners
func ListOwnersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var owners []models.Owner
		if err := database.DB.Preload("Properties").Order("name ASC").Find(&owners).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list owners")
		}

		resp := make([]OwnerResponse, 0, len(owners))
		for i := range owners {
			resp = append(resp, formatOwner(&owners[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/owners/:id
func GetOwnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var o models.Owner
		if err := database.DB.Preload("Properties").First(&o, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Owner not found")
		}
		return c.JSON(formatOwner(&o))
	}
}

// POST /api/admin/owners
// Optionally creates a portal login for the owner when a password is given.
func CreateOwnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Owner name and a valid email are required")
		}

		var existing models.Owner
		if err := database.DB.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "An owner with this email already exists")
		}

		o := models.Owner{
			Name:  body.Name,
			Email: body.Email,
			Phone: strings.TrimSpace(body.Phone),
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&o).Error; err != nil {
				return err
			}
			if body.Password == "" {
				return nil
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := models.User{
				Name:         o.Name,
				Email:        o.Email,
				PasswordHash: string(hash),
				Role:         models.RoleOwner,
				OwnerID:      &o.ID,
			}
			return tx.Create(&user).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create owner")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "owner",
			EntityID:    o.ID,
			Action:      models.AuditActionCreate,
			Description: "Created owner " + o.Name,
			After:       o,
		})

		return c.Status(fiber.StatusCreated).JSON(formatOwner(&o))
	}
}

// PUT /api/admin/owners/:id
func UpdateOwnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var o models.Owner
		if err := database.DB.Preload("Properties").First(&o, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Owner not found")
		}

		var body UpdateOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Owner name cannot be empty")
			}
			o.Name = name
		}
		if body.Email != nil {
			o.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			o.Phone = strings.TrimSpace(*body.Phone)
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&o).Error; err != nil {
				return err
			}
			if body.PropertyIDs == nil {
				return nil
			}

			// A property may be claimed only when unassigned or already this
			// owner's.
			for _, pid := range *body.PropertyIDs {
				var p models.Property
				if err := tx.First(&p, "id = ?", pid).Error; err != nil {
					return fiber.NewError(fiber.StatusNotFound, "Property not found")
				}
				if p.OwnerID != nil && *p.OwnerID != o.ID {
					return fiber.NewError(fiber.StatusBadRequest, "Property "+p.Name+" is already assigned to another owner")
				}
			}

			// Release everything first, then claim the requested set.
			if err := tx.Model(&models.Property{}).
				Where("owner_id = ?", o.ID).
				Update("owner_id", nil).Error; err != nil {
				return err
			}
			if len(*body.PropertyIDs) > 0 {
				if err := tx.Model(&models.Property{}).
					Where("id IN ?", *body.PropertyIDs).
					Update("owner_id", o.ID).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update owner")
		}

		database.DB.Preload("Properties").First(&o, o.ID)

		audit.Record(c, audit.Entry{
			EntityType:  "owner",
			EntityID:    o.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated owner " + o.Name,
			After:       o,
		})

		return c.JSON(formatOwner(&o))
	}
}

// DELETE /api/admin/owners/:id
func DeleteOwnerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var o models.Owner
		if err := database.DB.First(&o, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Owner not found")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			// Assignments are released, the properties themselves stay.
			if err := tx.Model(&models.Property{}).
				Where("owner_id = ?", o.ID).
				Update("owner_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("owner_id = ?", o.ID).Delete(&models.User{}).Error; err != nil {
				return err
			}
			return tx.Delete(&o).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete owner")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "owner",
			EntityID:    o.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted owner " + o.Name,
			Before:      o,
		})

		return c.JSON(fiber.Map{"message": "Owner deleted successfully"})
	}
}
