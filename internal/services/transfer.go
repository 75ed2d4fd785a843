package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/storage"
	"github.com/photoapp/photoapp/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const assetContentType = "image/jpeg"

var acceptedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// TransferService moves asset bytes between callers, the metadata store and
// the blob store, and owns the social operations on assets.
type TransferService struct {
	DB     *gorm.DB
	Blobs  storage.BlobStore
	Access *AccessService
	Audit  *AuditService
}

func NewTransferService(db *gorm.DB, blobs storage.BlobStore, access *AccessService, audit *AuditService) *TransferService {
	return &TransferService{DB: db, Blobs: blobs, Access: access, Audit: audit}
}

type DownloadResult struct {
	Asset *models.Asset
	Data  []byte
}

func DecodePayload(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errvalues.Wrap(errvalues.KindBadRequest, "data is not valid base64", err)
	}
	return data, nil
}

func EncodePayload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// ValidateAssetName rejects names whose extension is not a JPEG one.
func ValidateAssetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errvalues.New(errvalues.KindBadRequest, "assetname is required")
	}
	if !acceptedExtensions[strings.ToLower(filepath.Ext(name))] {
		return errvalues.New(errvalues.KindUnsupportedFormat, "expected a .jpg file")
	}
	return nil
}

// Upload stores data as a new asset owned by r. The metadata row is written
// first in pending state and only committed once the blob is stored; any
// failure removes whatever was written.
func (s *TransferService) Upload(ctx context.Context, r *Requester, name string, assetType string, data []byte) (*models.Asset, error) {
	if r == nil {
		return nil, errvalues.New(errvalues.KindUnauthorized, "authentication required")
	}
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	kind, ok := models.ParseAssetType(assetType)
	if !ok {
		return nil, errvalues.New(errvalues.KindBadRequest, "assettype must be public or private")
	}

	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.Select("userid", "bucketfolder").First(&user, "userid = ?", r.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errvalues.New(errvalues.KindUnauthorized, "no such user...")
		}
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err)
	}

	asset := &models.Asset{
		OwnerID:   user.ID,
		Name:      name,
		BucketKey: user.BucketFolder + "/" + uuid.NewString() + ".jpg",
		Type:      kind,
		State:     models.AssetStatePending,
	}
	if err := db.Create(asset).Error; err != nil {
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "inserting asset failed", err)
	}

	// Compensation must run even when the request has been cancelled.
	cleanupCtx := context.WithoutCancel(ctx)

	if err := s.Blobs.Upload(ctx, asset.BucketKey, bytes.NewReader(data), int64(len(data)), assetContentType); err != nil {
		s.deleteRow(cleanupCtx, asset)
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "storing asset failed", err)
	}

	res := db.Model(&models.Asset{}).
		Where("assetid = ? AND state = ?", asset.ID, models.AssetStatePending).
		Update("state", models.AssetStateCommitted)
	if res.Error != nil || res.RowsAffected != 1 {
		err := res.Error
		if err == nil {
			err = errors.New("pending asset row disappeared before commit")
		}
		if delErr := s.Blobs.Delete(cleanupCtx, asset.BucketKey); delErr != nil {
			logger.Error("upload_rollback_blob_failed", delErr, map[string]interface{}{
				"asset_id":   asset.ID,
				"bucket_key": asset.BucketKey,
			})
		}
		s.deleteRow(cleanupCtx, asset)
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "inserting asset failed", err)
	}

	asset.State = models.AssetStateCommitted
	return asset, nil
}

func (s *TransferService) deleteRow(ctx context.Context, asset *models.Asset) {
	err := s.DB.WithContext(ctx).
		Where("assetid = ? AND state = ?", asset.ID, models.AssetStatePending).
		Delete(&models.Asset{}).Error
	if err != nil {
		logger.Error("upload_rollback_row_failed", err, map[string]interface{}{
			"asset_id":   asset.ID,
			"bucket_key": asset.BucketKey,
		})
	}
}

func (s *TransferService) Download(ctx context.Context, r *Requester, assetID int64) (*DownloadResult, error) {
	asset, err := s.Access.Authorize(ctx, r, assetID, ActionRead)
	if err != nil {
		return nil, err
	}

	data, err := s.Blobs.Download(ctx, asset.BucketKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.reportInconsistency(r, asset, err)
			return nil, errvalues.Wrap(errvalues.KindStorageInconsistency, "asset data is missing", err)
		}
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "reading asset failed", err)
	}

	return &DownloadResult{Asset: asset, Data: data}, nil
}

func (s *TransferService) reportInconsistency(r *Requester, asset *models.Asset, err error) {
	details := map[string]interface{}{
		"asset_id":   asset.ID,
		"owner_id":   asset.OwnerID,
		"bucket_key": asset.BucketKey,
	}
	logger.Error("storage_inconsistency", err, details)

	if s.Audit == nil {
		return
	}
	entry := AuditEntry{
		Action:       AuditStorageInconsistency,
		ResourceType: "asset",
		ResourceID:   &asset.ID,
		Details:      details,
	}
	if r != nil {
		entry.UserID = &r.UserID
	}
	s.Audit.LogAsync(entry)
}

// List returns the committed assets visible to r, ordered by id.
func (s *TransferService) List(ctx context.Context, r *Requester) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.DB.WithContext(ctx).
		Scopes(VisibleScope(r)).
		Order("assetid ASC").
		Find(&assets).Error; err != nil {
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err)
	}
	return assets, nil
}

// Like records that r likes the asset. Liking twice is a no-op that returns
// the existing row with created=false.
func (s *TransferService) Like(ctx context.Context, r *Requester, assetID int64) (*models.Like, bool, error) {
	if r == nil {
		return nil, false, errvalues.New(errvalues.KindUnauthorized, "authentication required")
	}
	asset, err := s.Access.Authorize(ctx, r, assetID, ActionRead)
	if err != nil {
		return nil, false, err
	}

	db := s.DB.WithContext(ctx)
	like := &models.Like{UserID: r.UserID, AssetID: asset.ID}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return nil, false, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", res.Error)
	}
	if res.RowsAffected == 1 {
		return like, true, nil
	}

	existing := &models.Like{}
	if err := db.Where("userid = ? AND assetid = ?", r.UserID, asset.ID).First(existing).Error; err != nil {
		return nil, false, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err)
	}
	return existing, false, nil
}

func (s *TransferService) Comment(ctx context.Context, r *Requester, assetID int64, text string) (*models.Comment, error) {
	if r == nil {
		return nil, errvalues.New(errvalues.KindUnauthorized, "authentication required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errvalues.New(errvalues.KindBadRequest, "comment is required")
	}
	asset, err := s.Access.Authorize(ctx, r, assetID, ActionRead)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{UserID: r.UserID, AssetID: asset.ID, Text: text}
	if err := s.DB.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err)
	}
	return comment, nil
}

func (s *TransferService) Likes(ctx context.Context, r *Requester, assetID int64) ([]models.Like, error) {
	asset, err := s.Access.Authorize(ctx, r, assetID, ActionRead)
	if err != nil {
		return nil, err
	}

	var likes []models.Like
	if err := s.DB.WithContext(ctx).
		Where("assetid = ?", asset.ID).
		Order("likeid ASC").
		Find(&likes).Error; err != nil {
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err)
	}
	return likes, nil
}

func (s *TransferService) Comments(ctx context.Context, r *Requester, assetID int64) ([]models.Comment, error) {
	asset, err := s.Access.Authorize(ctx, r, assetID, ActionRead)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := s.DB.WithContext(ctx).
		Where("assetid = ?", asset.ID).
		Order("created_at ASC, commentid ASC").
		Find(&comments).Error; err != nil {
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err)
	}
	return comments, nil
}
