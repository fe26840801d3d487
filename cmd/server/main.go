package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/config"
	"github.com/farmovs/decanting/internal/qr"
	"github.com/farmovs/decanting/internal/render"
	"github.com/farmovs/decanting/internal/repository/mongodb"
	"github.com/farmovs/decanting/internal/repository/sheets"
	"github.com/farmovs/decanting/internal/scheduler"
	"github.com/farmovs/decanting/internal/server/handlers"
	"github.com/farmovs/decanting/internal/server/router"
	authsvc "github.com/farmovs/decanting/internal/service/auth"
	exportsvc "github.com/farmovs/decanting/internal/service/export"
	recordsvc "github.com/farmovs/decanting/internal/service/records"
	"github.com/farmovs/decanting/pkg/clients/notify"
	"github.com/farmovs/decanting/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var publisher notify.Publisher
	if cfg.NotifyEnabled() {
		publisher = notify.NewClient(cfg.Notify)
		baseLogger.Info("record event webhook enabled")
	}

	recordsSvc := recordsvc.NewService(mongoRepo, publisher, baseLogger.Named("svc.records"))
	authSvc := authsvc.NewService(mongoRepo, cfg.Auth.JWTSecret, baseLogger.Named("svc.auth"))

	var exporter *exportsvc.Service
	if cfg.SheetsEnabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = exportsvc.NewService(sheetsRepo, mongoRepo, baseLogger.Named("svc.export"))
		baseLogger.Info("compliance sheet export enabled")
	}

	logo := render.LoadLogo(cfg.App.LogoPath)
	if !logo.HasImage() {
		baseLogger.Warn("logo asset unavailable, forms will carry the text wordmark", zap.String("path", cfg.App.LogoPath))
	}
	renderer := render.NewRenderer(logo)

	recordHandler := handlers.NewRecordHandler(recordsSvc, renderer, qr.NewEncoder(), cfg.App.PublicBaseURL, baseLogger.Named("handlers.records"))
	authHandler := handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth"))
	exportHandler := handlers.NewExportHandler(exporter, baseLogger.Named("handlers.export"))
	engine := router.New(recordHandler, authHandler, exportHandler, authSvc, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, recordsSvc, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
