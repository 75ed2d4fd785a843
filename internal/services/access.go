package services

import (
	"context"
	"errors"

	"github.com/photoapp/photoapp/internal/errvalues"
	"github.com/photoapp/photoapp/internal/models"
	"gorm.io/gorm"
)

// Requester is the identity carried by a verified bearer token. A nil
// *Requester is an anonymous caller.
type Requester struct {
	UserID   int64
	Username string
}

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// CanRead reports whether r may see asset. Public assets are readable by
// everyone, private ones only by their owner.
func CanRead(r *Requester, asset *models.Asset) bool {
	if asset.IsPublic() {
		return true
	}
	return r != nil && r.UserID == asset.OwnerID
}

func CanWrite(r *Requester, asset *models.Asset) bool {
	return r != nil && r.UserID == asset.OwnerID
}

// CanList is always true; callers filter the listing with VisibleScope.
func CanList(_ *Requester) bool {
	return true
}

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// VisibleScope restricts an asset query to committed rows r may read.
func VisibleScope(r *Requester) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("assets.state = ?", models.AssetStateCommitted)
		if r == nil {
			return db.Where("assets.assettype = ?", models.AssetTypePublic)
		}
		return db.Where("assets.assettype = ? OR assets.userid = ?", models.AssetTypePublic, r.UserID)
	}
}

// committedAsset loads a committed asset by id. Pending rows are reported as missing.
func (a *AccessService) committedAsset(ctx context.Context, assetID int64) (*models.Asset, error) {
	var asset models.Asset
	err := a.DB.WithContext(ctx).
		Where("assetid = ? AND state = ?", assetID, models.AssetStateCommitted).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errvalues.New(errvalues.KindAssetNotFound, "no such asset...")
		}
		return nil, errvalues.Wrap(errvalues.KindUpstreamFailure, "database operation failed...", err)
	}
	return &asset, nil
}

// Authorize loads the asset and checks action against it. It returns
// AssetNotFound, Forbidden or UpstreamFailure kinds on failure.
func (a *AccessService) Authorize(ctx context.Context, r *Requester, assetID int64, action Action) (*models.Asset, error) {
	asset, err := a.committedAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	allowed := false
	switch action {
	case ActionRead:
		allowed = CanRead(r, asset)
	case ActionWrite:
		allowed = CanWrite(r, asset)
	}
	if !allowed {
		return nil, errvalues.New(errvalues.KindForbidden, "access denied")
	}
	return asset, nil
}
