package ticket

import (
	"strings"

	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type TicketResponse struct {
	ID          uint                  `json:"id"`
	TenantID    uint                  `json:"tenantId"`
	TenantName  string                `json:"tenantName"`
	UnitID      *uint                 `json:"unitId"`
	UnitNumber  string                `json:"unitNumber,omitempty"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    models.TicketPriority `json:"priority"`
	Status      models.TicketStatus   `json:"status"`
	CreatedAt   string                `json:"createdAt"`
}

type CreateTicketRequest struct {
	TenantID    uint   `json:"userId" validate:"required"` // legacy field name from the admin UI
	UnitID      *uint  `json:"unitId"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type UpdateTicketRequest struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

func formatTicket(t *models.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          t.ID,
		TenantID:    t.TenantID,
		TenantName:  t.Tenant.Name,
		UnitID:      t.UnitID,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if t.Unit != nil {
		resp.UnitNumber = t.Unit.UnitNumber
	}
	return resp
}

// GET /api/admin/tickets?userId=
func ListTicketsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Tenant").Preload("Unit")
		if tenantID := c.QueryInt("userId", 0); tenantID > 0 {
			query = query.Where("tenant_id = ?", tenantID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var tickets []models.Ticket
		if err := query.Order("created_at DESC").Find(&tickets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list tickets")
		}

		resp := make([]TicketResponse, 0, len(tickets))
		for i := range tickets {
			resp = append(resp, formatTicket(&tickets[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/tickets
func CreateTicketHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTicketRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Subject = strings.TrimSpace(body.Subject)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tenant and subject are required")
		}

		var tenant models.Tenant
		if err := database.DB.First(&tenant, "id = ?", body.TenantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tenant not found")
		}

		if body.UnitID != nil {
			var u models.Unit
			if err := database.DB.First(&u, "id = ?", *body.UnitID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Unit not found")
			}
		}

		priority := models.PriorityMedium
		switch models.TicketPriority(body.Priority) {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
			priority = models.TicketPriority(body.Priority)
		}

		t := models.Ticket{
			TenantID:    tenant.ID,
			UnitID:      body.UnitID,
			Subject:     body.Subject,
			Description: body.Description,
			Priority:    priority,
			Status:      models.TicketOpen,
		}

		if err := database.DB.Create(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create ticket")
		}

		t.Tenant = tenant
		return c.Status(fiber.StatusCreated).JSON(formatTicket(&t))
	}
}

// PUT /api/admin/tickets/:id
func UpdateTicketHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var t models.Ticket
		if err := database.DB.Preload("Tenant").Preload("Unit").First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ticket not found")
		}

		var body UpdateTicketRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Status != nil {
			switch models.TicketStatus(*body.Status) {
			case models.TicketOpen, models.TicketInProgress, models.TicketResolved:
				t.Status = models.TicketStatus(*body.Status)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Invalid ticket status")
			}
		}
		if body.Priority != nil {
			switch models.TicketPriority(*body.Priority) {
			case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
				t.Priority = models.TicketPriority(*body.Priority)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Invalid ticket priority")
			}
		}

		if err := database.DB.Save(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update ticket")
		}

		return c.JSON(formatTicket(&t))
	}
}
