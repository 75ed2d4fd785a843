package models

import "time"

type User struct {
	ID           int64  `json:"userid" gorm:"column:userid;primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`
	Email        string `json:"email" gorm:"type:varchar(255);not null"`
	FirstName    string `json:"firstname" gorm:"column:firstname;type:varchar(100);not null"`
	LastName     string `json:"lastname" gorm:"column:lastname;type:varchar(100);not null"`
	// BucketFolder prefixes every blob key of the user's assets. Immutable.
	BucketFolder string    `json:"bucketfolder" gorm:"column:bucketfolder;type:varchar(255);uniqueIndex;not null"`
	CreatedAt    time.Time `json:"-"`
}
