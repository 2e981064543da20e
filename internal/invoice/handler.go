package invoice

import (
	"strings"
	"time"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type InvoiceResponse struct {
	ID            uint                 `json:"id"`
	InvoiceNumber string               `json:"invoiceNumber"`
	TenantID      uint                 `json:"tenantId"`
	TenantName    string               `json:"tenantName"`
	LeaseID       *uint                `json:"leaseId"`
	Amount        float64              `json:"amount"`
	DueDate       string               `json:"dueDate"`
	Status        models.InvoiceStatus `json:"status"`
	DaysOverdue   int                  `json:"daysOverdue"`
}

type CreateInvoiceRequest struct {
	TenantID uint    `json:"tenantId" validate:"required"`
	LeaseID  *uint   `json:"leaseId"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	DueDate  string  `json:"dueDate" validate:"required"`
}

func formatInvoice(inv *models.Invoice, now time.Time) InvoiceResponse {
	status, daysOverdue := DeriveStatus(inv, now)
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		TenantID:      inv.TenantID,
		TenantName:    inv.Tenant.Name,
		LeaseID:       inv.LeaseID,
		Amount:        inv.Amount,
		DueDate:       inv.DueDate.Format(time.DateOnly),
		Status:        status,
		DaysOverdue:   daysOverdue,
	}
}

// DeriveStatus computes the effective status and daysOverdue from the due
// date. Paid is terminal; an unpaid invoice past its due date reads as
// Overdue without any stored-state writer.
func DeriveStatus(inv *models.Invoice, now time.Time) (models.InvoiceStatus, int) {
	if inv.Status == models.InvoicePaid {
		return models.InvoicePaid, 0
	}
	due := inv.DueDate.Truncate(24 * time.Hour)
	today := now.Truncate(24 * time.Hour)
	if today.After(due) {
		days := int(today.Sub(due).Hours() / 24)
		return models.InvoiceOverdue, days
	}
	return models.InvoicePending, 0
}

// GET /api/admin/invoices
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var invoices []models.Invoice
		if err := database.DB.Preload("Tenant").Order("due_date DESC").Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list invoices")
		}

		now := time.Now()
		resp := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			resp = append(resp, formatInvoice(&invoices[i], now))
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/invoices
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tenant, amount and due date are required")
		}

		var tenant models.Tenant
		if err := database.DB.First(&tenant, "id = ?", body.TenantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tenant not found")
		}

		dueDate, err := time.Parse(time.DateOnly, body.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid due date")
		}

		if body.LeaseID != nil {
			var l models.Lease
			if err := database.DB.First(&l, "id = ?", *body.LeaseID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Lease not found")
			}
		}

		inv := models.Invoice{
			InvoiceNumber: "INV-" + strings.ToUpper(uuid.NewString()[:8]),
			TenantID:      tenant.ID,
			LeaseID:       body.LeaseID,
			Amount:        body.Amount,
			DueDate:       dueDate,
			Status:        models.InvoicePending,
		}

		if err := database.DB.Create(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create invoice")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "invoice",
			EntityID:    inv.ID,
			Action:      models.AuditActionCreate,
			Description: "Created invoice " + inv.InvoiceNumber,
			After:       inv,
		})

		inv.Tenant = tenant
		return c.Status(fiber.StatusCreated).JSON(formatInvoice(&inv, time.Now()))
	}
}

// PUT /api/admin/invoices/:id/pay
func MarkInvoicePaidHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var inv models.Invoice
		if err := database.DB.Preload("Tenant").First(&inv, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
		}
		if inv.Status == models.InvoicePaid {
			return fiber.NewError(fiber.StatusBadRequest, "Invoice is already paid")
		}
		before := inv

		now := time.Now()
		inv.Status = models.InvoicePaid
		inv.PaidAt = &now

		if err := database.DB.Save(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update invoice")
		}

		audit.Record(c, audit.Entry{
			EntityType:  "invoice",
			EntityID:    inv.ID,
			Action:      models.AuditActionUpdate,
			Description: "Marked invoice " + inv.InvoiceNumber + " paid",
			Before:      before,
			After:       inv,
		})

		return c.JSON(formatInvoice(&inv, now))
	}
}

// GET /api/admin/outstanding-dues
// All unpaid invoices with their derived status and daysOverdue.
func OutstandingDuesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var invoices []models.Invoice
		if err := database.DB.
			Preload("Tenant").
			Where("status <> ?", models.InvoicePaid).
			Order("due_date ASC").
			Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list outstanding dues")
		}

		now := time.Now()
		resp := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			resp = append(resp, formatInvoice(&invoices[i], now))
		}
		return c.JSON(resp)
	}
}
