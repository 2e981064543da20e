package dashboard

import (
	"time"

	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/insurance"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MonthlyPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type BuildingVacancy struct {
	Building string `json:"building"`
	Total    int64  `json:"total"`
	Vacant   int64  `json:"vacant"`
	Occupied int64  `json:"occupied"`
}

type PropertyRevenue struct {
	Property string  `json:"property"`
	Revenue  float64 `json:"revenue"`
}

// actualMonthlyRevenue is the rent due this month: the sum over active
// leases. projectedMonthlyRevenue adds what currently vacant units and
// bedrooms would bring at their listed rent.
func actualMonthlyRevenue() float64 {
	var total float64
	database.DB.Model(&models.Lease{}).
		Where("status = ?", models.LeaseActive).
		Select("COALESCE(SUM(monthly_rent), 0)").
		Scan(&total)
	return total
}

func projectedMonthlyRevenue() float64 {
	total := actualMonthlyRevenue()

	var vacantUnits float64
	database.DB.Model(&models.Unit{}).
		Where("status = ? AND rental_mode = ?", models.StatusVacant, models.RentalModeFullUnit).
		Select("COALESCE(SUM(rent_amount), 0)").
		Scan(&vacantUnits)

	var vacantRooms float64
	database.DB.Model(&models.Bedroom{}).
		Where("status = ?", models.StatusVacant).
		Select("COALESCE(SUM(rent_amount), 0)").
		Scan(&vacantRooms)

	return total + vacantUnits + vacantRooms
}

// GET /api/admin/dashboard/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var totalProperties, totalUnits, occupiedUnits int64
		database.DB.Model(&models.Property{}).Count(&totalProperties)
		database.DB.Model(&models.Unit{}).Count(&totalUnits)
		database.DB.Model(&models.Unit{}).
			Where("status = ?", models.StatusOccupied).
			Count(&occupiedUnits)

		occupancy := 0.0
		if totalUnits > 0 {
			occupancy = float64(occupiedUnits) / float64(totalUnits) * 100
		}

		// Non-compliant policies: expired or inside the warning window.
		var policies []models.InsurancePolicy
		database.DB.Find(&policies)
		now := time.Now()
		alerts := 0
		for _, p := range policies {
			if status, _ := insurance.DeriveStatus(p.EndDate, now); status != insurance.StatusActive {
				alerts++
			}
		}

		var recent []models.AuditLog
		database.DB.Order("created_at DESC").Limit(5).Find(&recent)
		activity := make([]fiber.Map, 0, len(recent))
		for _, entry := range recent {
			activity = append(activity, fiber.Map{
				"description": entry.Description,
				"user":        entry.UserName,
				"at":          entry.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		actual := actualMonthlyRevenue()

		return c.JSON(fiber.Map{
			"totalProperties":  totalProperties,
			"totalUnits":       totalUnits,
			"occupancy":        occupancy,
			"monthlyRevenue":   actual,
			"actualRevenue":    actual,
			"projectedRevenue": projectedMonthlyRevenue(),
			"insuranceAlerts":  alerts,
			"recentActivity":   activity,
		})
	}
}

// GET /api/admin/analytics/vacancy
func VacancyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var total, vacant, occupied int64
		database.DB.Model(&models.Unit{}).Count(&total)
		database.DB.Model(&models.Unit{}).Where("status = ?", models.StatusVacant).Count(&vacant)
		database.DB.Model(&models.Unit{}).Where("status = ?", models.StatusOccupied).Count(&occupied)

		var properties []models.Property
		database.DB.Order("name ASC").Find(&properties)

		byBuilding := make([]BuildingVacancy, 0, len(properties))
		for _, p := range properties {
			entry := BuildingVacancy{Building: p.Name}
			database.DB.Model(&models.Unit{}).Where("property_id = ?", p.ID).Count(&entry.Total)
			database.DB.Model(&models.Unit{}).
				Where("property_id = ? AND status = ?", p.ID, models.StatusVacant).
				Count(&entry.Vacant)
			entry.Occupied = entry.Total - entry.Vacant
			byBuilding = append(byBuilding, entry)
		}

		return c.JSON(fiber.Map{
			"total":             total,
			"vacant":            vacant,
			"occupied":          occupied,
			"vacancyByBuilding": byBuilding,
		})
	}
}

// GET /api/admin/analytics/revenue
func RevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actual := actualMonthlyRevenue()
		projected := projectedMonthlyRevenue()

		// Collected revenue per month over the last six months, from paid
		// invoices.
		now := time.Now()
		series := make([]MonthlyPoint, 0, 6)
		for i := 5; i >= 0; i-- {
			monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
			monthEnd := monthStart.AddDate(0, 1, 0)

			var sum float64
			database.DB.Model(&models.Invoice{}).
				Where("status = ? AND paid_at >= ? AND paid_at < ?", models.InvoicePaid, monthStart, monthEnd).
				Select("COALESCE(SUM(amount), 0)").
				Scan(&sum)

			series = append(series, MonthlyPoint{
				Month:   monthStart.Format("Jan"),
				Revenue: sum,
			})
		}

		var properties []models.Property
		database.DB.Order("name ASC").Find(&properties)
		byProperty := make([]PropertyRevenue, 0, len(properties))
		for _, p := range properties {
			var sum float64
			database.DB.Model(&models.Lease{}).
				Joins("JOIN units ON units.id = leases.unit_id").
				Where("units.property_id = ? AND leases.status = ?", p.ID, models.LeaseActive).
				Select("COALESCE(SUM(leases.monthly_rent), 0)").
				Scan(&sum)
			byProperty = append(byProperty, PropertyRevenue{Property: p.Name, Revenue: sum})
		}

		return c.JSON(fiber.Map{
			"actualRevenue":     actual,
			"totalRevenue":      actual,
			"projectedRevenue":  projected,
			"monthlyRevenue":    series,
			"revenueByProperty": byProperty,
		})
	}
}
