package models

import "time"

type AssetType string

const (
	AssetTypePublic  AssetType = "public"
	AssetTypePrivate AssetType = "private"
)

func ParseAssetType(s string) (AssetType, bool) {
	switch AssetType(s) {
	case "":
		return AssetTypePrivate, true
	case AssetTypePublic, AssetTypePrivate:
		return AssetType(s), true
	}
	return "", false
}

type AssetState string

const (
	// AssetStatePending rows have no confirmed blob yet and are invisible to readers.
	AssetStatePending   AssetState = "pending"
	AssetStateCommitted AssetState = "committed"
)

type Asset struct {
	ID        int64      `json:"assetid" gorm:"column:assetid;primaryKey;autoIncrement"`
	OwnerID   int64      `json:"userid" gorm:"column:userid;not null;index"`
	Name      string     `json:"assetname" gorm:"column:assetname;type:varchar(255);not null"`
	BucketKey string     `json:"bucketkey" gorm:"column:bucketkey;type:varchar(512);uniqueIndex;not null"`
	Type      AssetType  `json:"assettype" gorm:"column:assettype;type:varchar(16);not null;default:'private';index"`
	State     AssetState `json:"-" gorm:"type:varchar(16);not null;default:'pending';index"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
}

func (a *Asset) IsPublic() bool {
	return a.Type == AssetTypePublic
}
