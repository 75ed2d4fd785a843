package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/storage"
	"github.com/photoapp/photoapp/pkg/logger"
	"gorm.io/gorm"
)

const (
	AuditUserRegister         = "user.register"
	AuditUserLogin            = "user.login"
	AuditAssetUpload          = "asset.upload"
	AuditAssetDownload        = "asset.download"
	AuditAssetLike            = "asset.like"
	AuditAssetComment         = "asset.comment"
	AuditStorageInconsistency = "storage.inconsistency"
	AuditSystemReset          = "system.reset"
	auditExportBatchSize      = 10000
	auditQueueSize            = 1000
)

type AuditEntry struct {
	UserID       *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	Details      map[string]interface{}
	IPAddress    string
	RequestID    string
}

type AuditService struct {
	DB      *gorm.DB
	Storage storage.BlobStore

	exportBatchSize int
	queue           chan models.AuditLog
	done            chan struct{}
	mu              sync.RWMutex
	closed          bool
}

func NewAuditService(db *gorm.DB, blobs storage.BlobStore) *AuditService {
	s := &AuditService{
		DB:              db,
		Storage:         blobs,
		exportBatchSize: auditExportBatchSize,
		queue:           make(chan models.AuditLog, auditQueueSize),
		done:            make(chan struct{}),
	}
	go s.processQueue()
	return s
}

// LogAsync enqueues entry without blocking. Entries are dropped when the queue is full.
// CreatedAt is stamped by the insert, so the export cursor never passes a
// row that is still queued.
func (s *AuditService) LogAsync(entry AuditEntry) {
	row := models.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      entry.Details,
		IPAddress:    entry.IPAddress,
		RequestID:    entry.RequestID,
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.queue <- row:
	default:
		logger.Warn("audit_queue_full", map[string]interface{}{
			"action":  entry.Action,
			"dropped": true,
		})
	}
}

// Close stops accepting entries and waits until the queued ones are stored.
func (s *AuditService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
}

func (s *AuditService) processQueue() {
	defer close(s.done)
	for row := range s.queue {
		if err := s.DB.Create(&row).Error; err != nil {
			logger.Error("audit_log_insert_failed", err, map[string]interface{}{
				"action": row.Action,
			})
		}
	}
}

// StartExporter periodically ships new audit rows to the blob store as NDJSON
// until ctx is cancelled.
func (s *AuditService) StartExporter(ctx context.Context, interval time.Duration) {
	if s.Storage == nil || interval <= 0 {
		logger.Info("audit_exporter_disabled", map[string]interface{}{
			"interval": interval.String(),
		})
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
				if _, err := s.Export(ctx); err != nil {
					logger.Error("audit_export_failed", err, nil)
				}
			}
		}
	}()

	logger.Info("audit_exporter_started", map[string]interface{}{
		"interval": interval.String(),
	})
}

// Export writes every row newer than the cursor to one object and advances
// the cursor. It returns the number of exported rows.
func (s *AuditService) Export(ctx context.Context) (int, error) {
	db := s.DB.WithContext(ctx)

	var cursor models.AuditExportCursor
	err := db.First(&cursor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cursor = models.AuditExportCursor{
			LastExportAt: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		if err := db.Create(&cursor).Error; err != nil {
			return 0, fmt.Errorf("create export cursor: %w", err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("load export cursor: %w", err)
	}

	var logs []models.AuditLog
	if err := db.Where("created_at > ?", cursor.LastExportAt).
		Order("created_at ASC").
		Limit(s.exportBatchSize).
		Find(&logs).Error; err != nil {
		return 0, fmt.Errorf("query audit logs: %w", err)
	}

	// A full batch may split rows sharing its last timestamp; the cursor is
	// exclusive, so hold those back for the next run.
	if len(logs) == s.exportBatchSize {
		last := logs[len(logs)-1].CreatedAt
		cut := len(logs)
		for cut > 0 && logs[cut-1].CreatedAt.Equal(last) {
			cut--
		}
		if cut > 0 {
			logs = logs[:cut]
		} else if err := db.Where("created_at = ?", last).Order("id ASC").Find(&logs).Error; err != nil {
			return 0, fmt.Errorf("query audit logs at %s: %w", last, err)
		}
	}

	if len(logs) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, log := range logs {
		if err := enc.Encode(log); err != nil {
			logger.Error("audit_export_encode_failed", err, map[string]interface{}{
				"log_id": log.ID.String(),
			})
		}
	}

	now := time.Now().UTC()
	objectName := fmt.Sprintf("audit-logs/%s/%s.ndjson",
		now.Format("2006/01/02"),
		now.Format("15-04-05"),
	)

	if err := s.Storage.Upload(ctx, objectName, &buf, int64(buf.Len()), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("upload %s: %w", objectName, err)
	}

	lastCreatedAt := logs[len(logs)-1].CreatedAt
	if err := db.Model(&cursor).Updates(map[string]interface{}{
		"last_export_at": lastCreatedAt,
		"exported_count": gorm.Expr("exported_count + ?", len(logs)),
	}).Error; err != nil {
		return 0, fmt.Errorf("advance export cursor: %w", err)
	}

	logger.Info("audit_export_success", map[string]interface{}{
		"object_name": objectName,
		"count":       len(logs),
	})
	return len(logs), nil
}
