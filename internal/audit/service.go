package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"propertyhub-backend/internal/auth"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Entry struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Record writes an audit entry for the authenticated caller. Audit failures
// never fail the request that caused them; they are logged and dropped.
func Record(c *fiber.Ctx, e Entry) {
	userID := auth.UserID(c)

	var user models.User
	userName := ""
	if err := database.DB.Select("name").First(&user, "id = ?", userID).Error; err == nil {
		userName = user.Name
	}

	if err := WriteLog(userID, userName, e); err != nil {
		zap.L().Warn("audit log write failed",
			zap.String("entity_type", e.EntityType),
			zap.Uint("entity_id", e.EntityID),
			zap.Error(err))
	}
}

func WriteLog(userID uint, userName string, e Entry) error {
	// jsonb columns want the JSON null literal, not an empty string.
	beforeStr := "null"
	afterStr := "null"

	if e.Before != nil {
		if b, err := json.Marshal(e.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if e.After != nil {
		if b, err := json.Marshal(e.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not persist audit log: %w", err)
	}

	return nil
}

// UndoLog reverses the mutation a log entry recorded: a create is deleted,
// an update restored to its before snapshot, a delete recreated from it.
func UndoLog(logID uint, userID uint, userName string) error {
	var entry models.AuditLog
	if err := database.DB.First(&entry, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log not found: %w", err)
	}

	if entry.IsUndone {
		return fmt.Errorf("this action has already been undone")
	}

	switch entry.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(entry.EntityType, entry.EntityID); err != nil {
			return fmt.Errorf("could not delete entity: %w", err)
		}
	case models.AuditActionUpdate:
		if err := restoreEntity(entry.EntityType, entry.BeforeData); err != nil {
			return fmt.Errorf("could not restore entity: %w", err)
		}
	case models.AuditActionDelete:
		if err := recreateEntity(entry.EntityType, entry.BeforeData); err != nil {
			return fmt.Errorf("could not recreate entity: %w", err)
		}
	default:
		return fmt.Errorf("this action type cannot be undone")
	}

	now := time.Now()
	entry.IsUndone = true
	entry.UndoneBy = &userID
	entry.UndoneAt = &now

	if err := database.DB.Save(&entry).Error; err != nil {
		return fmt.Errorf("could not update log: %w", err)
	}

	undoEntry := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Undid: %s", entry.Description),
		BeforeData:  entry.AfterData,
		AfterData:   entry.BeforeData,
	}

	if err := database.DB.Create(&undoEntry).Error; err != nil {
		return fmt.Errorf("could not persist undo log: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "property":
		return database.DB.Delete(&models.Property{}, "id = ?", entityID).Error
	case "unit":
		// Its bedroom rows go with it.
		if err := database.DB.Where("unit_id = ?", entityID).Delete(&models.Bedroom{}).Error; err != nil {
			return err
		}
		return database.DB.Delete(&models.Unit{}, "id = ?", entityID).Error
	case "lease":
		return database.DB.Delete(&models.Lease{}, "id = ?", entityID).Error
	case "tenant":
		return database.DB.Delete(&models.Tenant{}, "id = ?", entityID).Error
	case "owner":
		return database.DB.Delete(&models.Owner{}, "id = ?", entityID).Error
	case "invoice":
		return database.DB.Delete(&models.Invoice{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func restoreEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "property":
		var p models.Property
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		return database.DB.Save(&p).Error
	case "unit":
		var u models.Unit
		if err := json.Unmarshal([]byte(dataJSON), &u); err != nil {
			return err
		}
		u.BedroomsList = nil
		u.Leases = nil
		return database.DB.Save(&u).Error
	case "lease":
		var l models.Lease
		if err := json.Unmarshal([]byte(dataJSON), &l); err != nil {
			return err
		}
		return database.DB.Save(&l).Error
	case "tenant":
		var t models.Tenant
		if err := json.Unmarshal([]byte(dataJSON), &t); err != nil {
			return err
		}
		return database.DB.Save(&t).Error
	case "owner":
		var o models.Owner
		if err := json.Unmarshal([]byte(dataJSON), &o); err != nil {
			return err
		}
		return database.DB.Save(&o).Error
	case "invoice":
		var inv models.Invoice
		if err := json.Unmarshal([]byte(dataJSON), &inv); err != nil {
			return err
		}
		return database.DB.Save(&inv).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "property":
		var p models.Property
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		p.ID = 0
		return database.DB.Create(&p).Error
	case "unit":
		var u models.Unit
		if err := json.Unmarshal([]byte(dataJSON), &u); err != nil {
			return err
		}
		u.ID = 0
		u.BedroomsList = nil
		u.Leases = nil
		return database.DB.Create(&u).Error
	case "lease":
		var l models.Lease
		if err := json.Unmarshal([]byte(dataJSON), &l); err != nil {
			return err
		}
		l.ID = 0
		return database.DB.Create(&l).Error
	case "tenant":
		var t models.Tenant
		if err := json.Unmarshal([]byte(dataJSON), &t); err != nil {
			return err
		}
		t.ID = 0
		return database.DB.Create(&t).Error
	case "owner":
		var o models.Owner
		if err := json.Unmarshal([]byte(dataJSON), &o); err != nil {
			return err
		}
		o.ID = 0
		return database.DB.Create(&o).Error
	case "invoice":
		var inv models.Invoice
		if err := json.Unmarshal([]byte(dataJSON), &inv); err != nil {
			return err
		}
		inv.ID = 0
		return database.DB.Create(&inv).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}
