package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/photoapp/photoapp/internal/middleware"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/internal/storage/storagetest"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	blobs   *storagetest.Memory
	audit   *services.AuditService
	queries *atomic.Int64
}

var testSetupOnce sync.Once

type testEnvOption func(*testEnvConfig)

type testEnvConfig struct {
	allowReset bool
}

func withReset() testEnvOption {
	return func(c *testEnvConfig) { c.allowReset = true }
}

func setupTestEnv(t *testing.T, opts ...testEnvOption) *testEnv {
	t.Helper()

	var cfg testEnvConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	testSetupOnce.Do(func() {
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Like{},
		&models.Comment{},
		&models.AuditLog{},
		&models.AuditExportCursor{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	queries := countStatements(t, db)

	blobs := storagetest.NewMemory()
	auditService := services.NewAuditService(db, blobs)
	t.Cleanup(func() {
		auditService.Close()
		_ = sqlDB.Close()
	})

	accessService := services.NewAccessService(db)
	transferService := services.NewTransferService(db, blobs, accessService, auditService)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS([]string{"http://localhost:3001"}))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	RegisterRoutes(app, Set{
		Auth:   NewAuthHandler(db, auditService),
		Users:  NewUsersHandler(db, auditService),
		Assets: NewAssetsHandler(transferService, auditService),
		Reset:  NewResetHandler(db, blobs, auditService, cfg.allowReset),
	})

	return &testEnv{app: app, db: db, blobs: blobs, audit: auditService, queries: queries}
}

// countStatements counts every statement gorm issues after migration.
func countStatements(t *testing.T, db *gorm.DB) *atomic.Int64 {
	t.Helper()

	var n atomic.Int64
	inc := func(*gorm.DB) { n.Add(1) }
	cb := db.Callback()
	for name, err := range map[string]error{
		"create": cb.Create().Before("gorm:create").Register("test:count_create", inc),
		"query":  cb.Query().Before("gorm:query").Register("test:count_query", inc),
		"update": cb.Update().Before("gorm:update").Register("test:count_update", inc),
		"delete": cb.Delete().Before("gorm:delete").Register("test:count_delete", inc),
		"row":    cb.Row().Before("gorm:row").Register("test:count_row", inc),
		"raw":    cb.Raw().Before("gorm:raw").Register("test:count_raw", inc),
	} {
		if err != nil {
			t.Fatalf("failed registering %s counter: %v", name, err)
		}
	}
	return &n
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@test.com",
		FirstName:    "Test",
		LastName:     "User",
		BucketFolder: fmt.Sprintf("%s-bucket", username),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertMessage(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["message"].(string); got != expected {
		t.Fatalf("expected message %q, got %q (body %+v)", expected, got, body)
	}
}

func numberField(t *testing.T, body map[string]any, key string) int64 {
	t.Helper()
	raw, ok := body[key].(float64)
	if !ok {
		t.Fatalf("expected numeric field %q, got %T (%v)", key, body[key], body[key])
	}
	return int64(raw)
}
