package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/photoapp/photoapp/internal/config"
	"github.com/photoapp/photoapp/internal/database"
	"github.com/photoapp/photoapp/internal/handlers"
	"github.com/photoapp/photoapp/internal/middleware"
	"github.com/photoapp/photoapp/internal/services"
	"github.com/photoapp/photoapp/internal/storage"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("%s initialization failed: %v", cfg.Storage.Backend, err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring %s bucket: %v", cfg.Storage.Backend, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditService := services.NewAuditService(db, store)
	accessService := services.NewAccessService(db)
	transferService := services.NewTransferService(db, store, accessService, auditService)
	reconciler := services.NewReconciler(db, store)

	auditService.StartExporter(ctx, cfg.Audit.ExportInterval)
	reconciler.Start(ctx, cfg.Upload.ReconcileInterval, cfg.Upload.PendingMaxAge)

	app := fiber.New(fiber.Config{BodyLimit: cfg.Server.BodyLimitMB * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	handlers.RegisterRoutes(app, handlers.Set{
		Auth:   handlers.NewAuthHandler(db, auditService),
		Users:  handlers.NewUsersHandler(db, auditService),
		Assets: handlers.NewAssetsHandler(transferService, auditService),
		Reset:  handlers.NewResetHandler(db, store, auditService, cfg.Server.AllowReset),
	})

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":            cfg.Server.Port,
		"address":         listenAddr,
		"db_driver":       cfg.DB.Driver,
		"storage_backend": cfg.Storage.Backend,
		"bucket":          store.Bucket(),
		"body_limit_mb":   cfg.Server.BodyLimitMB,
		"reset_enabled":   cfg.Server.AllowReset,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}

	cancel()
	auditService.Close()
}
