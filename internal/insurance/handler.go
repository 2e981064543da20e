package insurance

import (
	"strings"
	"time"

	"propertyhub-backend/internal/auth"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type PolicyResponse struct {
	ID             uint    `json:"id"`
	TenantID       uint    `json:"tenantId"`
	TenantName     string  `json:"tenantName"`
	Unit           string  `json:"unit,omitempty"`
	Provider       string  `json:"provider"`
	PolicyNumber   string  `json:"policyNumber"`
	CoverageAmount float64 `json:"coverageAmount"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Status         string  `json:"status"`
	DaysLeft       int     `json:"daysLeft"`
	DocumentURL    string  `json:"documentUrl,omitempty"`
}

type UpsertPolicyRequest struct {
	Provider       string  `json:"provider" validate:"required"`
	PolicyNumber   string  `json:"policyNumber" validate:"required"`
	CoverageAmount float64 `json:"coverageAmount"`
	StartDate      string  `json:"startDate" validate:"required"`
	EndDate        string  `json:"endDate" validate:"required"`
	DocumentURL    string  `json:"documentUrl"`
}

func formatPolicy(p *models.InsurancePolicy, unitNumber string, now time.Time) PolicyResponse {
	status, daysLeft := DeriveStatus(p.EndDate, now)
	return PolicyResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		TenantName:     p.Tenant.Name,
		Unit:           unitNumber,
		Provider:       p.Provider,
		PolicyNumber:   p.PolicyNumber,
		CoverageAmount: p.CoverageAmount,
		StartDate:      p.StartDate.Format(time.DateOnly),
		EndDate:        p.EndDate.Format(time.DateOnly),
		Status:         status,
		DaysLeft:       daysLeft,
		DocumentURL:    p.DocumentURL,
	}
}

// activeUnitNumbers maps tenant id to the unit number on its active lease,
// for display context on the compliance board.
func activeUnitNumbers() map[uint]string {
	var leases []models.Lease
	database.DB.Preload("Unit").
		Where("status = ?", models.LeaseActive).
		Find(&leases)

	byTenant := make(map[uint]string, len(leases))
	for _, l := range leases {
		byTenant[l.TenantID] = l.Unit.UnitNumber
	}
	return byTenant
}

// GET /api/admin/insurance/alerts
func InsuranceAlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var policies []models.InsurancePolicy
		if err := database.DB.Preload("Tenant").Order("end_date ASC").Find(&policies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list insurance policies")
		}

		units := activeUnitNumbers()
		now := time.Now()
		resp := make([]PolicyResponse, 0, len(policies))
		for i := range policies {
			resp = append(resp, formatPolicy(&policies[i], units[policies[i].TenantID], now))
		}
		return c.JSON(resp)
	}
}

// GET /api/tenant/insurance
// The calling tenant's own policy (most recent by end date).
func GetOwnPolicyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := auth.TenantID(c)
		if tenantID == nil {
			return fiber.NewError(fiber.StatusForbidden, "No tenant record linked to this account")
		}

		var p models.InsurancePolicy
		err := database.DB.Preload("Tenant").
			Where("tenant_id = ?", *tenantID).
			Order("end_date DESC").
			First(&p).Error
		if err != nil {
			return c.JSON(nil)
		}

		return c.JSON(formatPolicy(&p, "", time.Now()))
	}
}

// POST /api/tenant/insurance
// Tenants submit or replace their own policy.
func SubmitOwnPolicyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := auth.TenantID(c)
		if tenantID == nil {
			return fiber.NewError(fiber.StatusForbidden, "No tenant record linked to this account")
		}

		var body UpsertPolicyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Provider = strings.TrimSpace(body.Provider)
		body.PolicyNumber = strings.TrimSpace(body.PolicyNumber)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Provider, policy number and dates are required")
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

		p := models.InsurancePolicy{
			TenantID:       *tenantID,
			Provider:       body.Provider,
			PolicyNumber:   body.PolicyNumber,
			CoverageAmount: body.CoverageAmount,
			StartDate:      startDate,
			EndDate:        endDate,
			DocumentURL:    body.DocumentURL,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save insurance policy")
		}

		database.DB.Preload("Tenant").First(&p, p.ID)
		return c.Status(fiber.StatusCreated).JSON(formatPolicy(&p, "", time.Now()))
	}
}
