package services

import (
	"context"
	"errors"
	"time"

	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/storage"
	"github.com/photoapp/photoapp/pkg/logger"
	"gorm.io/gorm"
)

// Reconciler removes uploads that never reached the committed state, along
// with any blob they left behind.
type Reconciler struct {
	DB    *gorm.DB
	Blobs storage.BlobStore
	now   func() time.Time
}

func NewReconciler(db *gorm.DB, blobs storage.BlobStore) *Reconciler {
	return &Reconciler{DB: db, Blobs: blobs, now: time.Now}
}

// Sweep deletes pending assets created more than olderThan ago and returns how many it removed.
func (r *Reconciler) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := r.now().UTC().Add(-olderThan)
	db := r.DB.WithContext(ctx)

	var stale []models.Asset
	if err := db.Where("state = ? AND created_at < ?", models.AssetStatePending, cutoff).
		Order("assetid ASC").
		Find(&stale).Error; err != nil {
		return 0, err
	}

	removed := 0
	for _, asset := range stale {
		// The state guard loses to a concurrent commit, which then keeps its blob.
		res := db.Where("assetid = ? AND state = ?", asset.ID, models.AssetStatePending).Delete(&models.Asset{})
		if res.Error != nil {
			logger.Error("reconcile_row_delete_failed", res.Error, map[string]interface{}{
				"asset_id": asset.ID,
			})
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		removed++

		if err := r.Blobs.Delete(ctx, asset.BucketKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			logger.Error("reconcile_blob_delete_failed", err, map[string]interface{}{
				"asset_id":   asset.ID,
				"bucket_key": asset.BucketKey,
			})
		}
	}

	if removed > 0 {
		logger.Info("reconcile_pending_removed", map[string]interface{}{
			"count":  removed,
			"cutoff": cutoff.UTC().Format(time.RFC3339),
		})
	}
	return removed, nil
}

// Start runs Sweep every interval until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 {
		logger.Info("reconciler_disabled", nil)
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := r.Sweep(ctx, maxAge); err != nil {
					logger.Error("reconcile_sweep_failed", err, nil)
				}
			}
		}
	}()

	logger.Info("reconciler_started", map[string]interface{}{
		"interval": interval.String(),
		"max_age":  maxAge.String(),
	})
}
