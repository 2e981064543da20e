package importer

import (
	"strconv"
	"strings"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// POST /api/admin/units/import
// Accepts an .xlsx file and creates units (with their bedroom rows) under the
// given property. Rows that fail validation are reported individually; the
// rest are imported.
func ImportUnitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		propertyID, err := strconv.Atoi(c.FormValue("propertyId"))
		if err != nil || propertyID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "A valid propertyId is required")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File could not be uploaded: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File could not be opened: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file could not be read: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file contains no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet could not be read: "+err.Error())
		}

		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		results, imported, err := ImportRows(database.DB, uint(propertyID), rows)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}

		// Entity type "import" has no undo path: a batch cannot be reversed
		// as a single entity mutation.
		audit.Record(c, audit.Entry{
			EntityType:  "import",
			EntityID:    uint(propertyID),
			Action:      models.AuditActionCreate,
			Description: "Imported " + strconv.Itoa(imported) + " units from " + fileHeader.Filename,
		})

		return c.JSON(fiber.Map{
			"imported": imported,
			"failed":   failed,
			"results":  results,
		})
	}
}
