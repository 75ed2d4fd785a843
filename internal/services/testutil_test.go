package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/storage/storagetest"
	"github.com/photoapp/photoapp/pkg/logger"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Like{},
		&models.Comment{},
		&models.AuditLog{},
		&models.AuditExportCursor{},
	)
	if err != nil {
		t.Fatalf("failed automigrating: %v", err)
	}

	return db
}

type transferFixture struct {
	db       *gorm.DB
	blobs    *storagetest.Memory
	service  *TransferService
	audit    *AuditService
	owner    *Requester
	stranger *Requester
}

func setupTransferFixture(t *testing.T) *transferFixture {
	t.Helper()

	db := setupServiceTestDB(t)
	blobs := storagetest.NewMemory()
	audit := NewAuditService(db, blobs)
	t.Cleanup(audit.Close)

	owner := createServiceTestUser(t, db, "alice")
	stranger := createServiceTestUser(t, db, "bob")

	return &transferFixture{
		db:       db,
		blobs:    blobs,
		service:  NewTransferService(db, blobs, NewAccessService(db), audit),
		audit:    audit,
		owner:    &Requester{UserID: owner.ID, Username: owner.Username},
		stranger: &Requester{UserID: stranger.ID, Username: stranger.Username},
	}
}

func createServiceTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		Email:        username + "@test.com",
		FirstName:    "Test",
		LastName:     "User",
		BucketFolder: fmt.Sprintf("%s-folder", username),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return user
}

func createServiceTestAsset(t *testing.T, db *gorm.DB, owner int64, assetType models.AssetType) *models.Asset {
	t.Helper()

	var count int64
	db.Model(&models.Asset{}).Count(&count)

	asset := &models.Asset{
		OwnerID:   owner,
		Name:      "photo.jpg",
		BucketKey: fmt.Sprintf("folder/%d-%d.jpg", owner, count+1),
		Type:      assetType,
		State:     models.AssetStateCommitted,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed creating asset: %v", err)
	}
	return asset
}
