package report

import (
	"bytes"
	"fmt"
	"time"

	"propertyhub-backend/internal/auth"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/owner/reports/:propertyId/statement.xlsx
// Monthly statement for one of the caller's properties: every unit with
// its occupancy, tenant and rent, plus invoice totals for the current
// month. Admins may pull any property's statement.
func OwnerStatementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		propertyID, err := c.ParamsInt("propertyId")
		if err != nil || propertyID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid property id")
		}

		var p models.Property
		if err := database.DB.First(&p, "id = ?", propertyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}

		role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
		if role == models.RoleOwner {
			ownerID := auth.OwnerID(c)
			if ownerID == nil || p.OwnerID == nil || *p.OwnerID != *ownerID {
				return fiber.NewError(fiber.StatusForbidden, "This property does not belong to you")
			}
		}

		var units []models.Unit
		if err := database.DB.
			Preload("Leases", "status = ?", models.LeaseActive).
			Preload("Leases.Tenant").
			Where("property_id = ?", p.ID).
			Order("unit_number ASC").
			Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load units")
		}

		buf, err := buildStatement(&p, units, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build statement")
		}

		filename := fmt.Sprintf("statement-%s-%s.xlsx", p.Name, time.Now().Format("2006-01"))
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}

func buildStatement(p *models.Property, units []models.Unit, now time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Statement"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", p.Name)
	f.SetCellValue(sheet, "A2", "Monthly statement "+now.Format("January 2006"))

	headers := []string{"Unit", "Status", "Tenant", "Monthly Rent", "Lease End"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	row := 5
	var totalRent float64
	for _, u := range units {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), u.UnitNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), string(u.Status))

		if len(u.Leases) > 0 {
			l := u.Leases[0]
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), l.Tenant.Name)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), l.MonthlyRent)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), l.EndDate.Format(time.DateOnly))
			totalRent += l.MonthlyRent
		}
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total monthly rent")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), totalRent)

	// Invoice totals for the current month, across the property's tenants.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var collected float64
	database.DB.Model(&models.Invoice{}).
		Joins("JOIN leases ON leases.id = invoices.lease_id").
		Joins("JOIN units ON units.id = leases.unit_id").
		Where("units.property_id = ? AND invoices.status = ? AND invoices.paid_at >= ? AND invoices.paid_at < ?",
			p.ID, models.InvoicePaid, monthStart, monthEnd).
		Select("COALESCE(SUM(invoices.amount), 0)").
		Scan(&collected)

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Collected this month")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), collected)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
