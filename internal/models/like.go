package models

import "time"

type Like struct {
	ID        int64     `json:"likeid" gorm:"column:likeid;primaryKey;autoIncrement"`
	UserID    int64     `json:"userid" gorm:"column:userid;not null;uniqueIndex:idx_likes_user_asset"`
	AssetID   int64     `json:"assetid" gorm:"column:assetid;not null;uniqueIndex:idx_likes_user_asset;index"`
	CreatedAt time.Time `json:"-"`

	Asset Asset `json:"-" gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID        int64     `json:"commentid" gorm:"column:commentid;primaryKey;autoIncrement"`
	UserID    int64     `json:"userid" gorm:"column:userid;not null;index"`
	AssetID   int64     `json:"assetid" gorm:"column:assetid;not null;index"`
	Text      string    `json:"comment" gorm:"column:comment;type:text;not null"`
	CreatedAt time.Time `json:"created" gorm:"not null;index"`

	Asset Asset `json:"-" gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE"`
}
