package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/internal/storage"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
	"gorm.io/gorm"
)

// ResetHandler wipes every user, asset, like and comment. Audit rows are kept.
type ResetHandler struct {
	DB      *gorm.DB
	Blobs   storage.BlobStore
	Audit   *services.AuditService
	Enabled bool
}

func NewResetHandler(db *gorm.DB, blobs storage.BlobStore, audit *services.AuditService, enabled bool) *ResetHandler {
	return &ResetHandler{DB: db, Blobs: blobs, Audit: audit, Enabled: enabled}
}

func (h *ResetHandler) Reset(c *fiber.Ctx) error {
	if !h.Enabled {
		logger.Warn("reset_refused", map[string]interface{}{"ip": c.IP()})
		return utils.Error(c, fiber.StatusForbidden, "reset is disabled")
	}

	ctx := c.UserContext()

	// Keys are read in the same transaction as the deletes so a commit racing
	// the reset cannot leave a blob without a row.
	var keys []string
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE assets IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Asset{}).Pluck("bucketkey", &keys).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{&models.Like{}, &models.Comment{}, &models.Asset{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("reset_delete_rows_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "database operation failed...")
	}

	orphaned := 0
	for _, key := range keys {
		if err := h.Blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			orphaned++
			logger.Error("reset_delete_blob_failed", err, map[string]interface{}{"bucket_key": key})
		}
	}

	logger.Warn("system_reset", map[string]interface{}{
		"assets_removed": len(keys),
		"blobs_orphaned": orphaned,
		"ip":             c.IP(),
	})

	h.Audit.LogAsync(services.AuditEntry{
		Action:       services.AuditSystemReset,
		ResourceType: "system",
		Details: map[string]interface{}{
			"assets_removed": len(keys),
			"blobs_orphaned": orphaned,
		},
		IPAddress: c.IP(),
		RequestID: getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, nil)
}
