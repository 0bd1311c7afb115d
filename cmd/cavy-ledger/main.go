package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/handler"
	"github.com/noah-isme/cavy-ledger/internal/middleware"
	"github.com/noah-isme/cavy-ledger/internal/repository"
	"github.com/noah-isme/cavy-ledger/internal/scheduler"
	"github.com/noah-isme/cavy-ledger/internal/server"
	"github.com/noah-isme/cavy-ledger/internal/service"
	"github.com/noah-isme/cavy-ledger/pkg/cache"
	"github.com/noah-isme/cavy-ledger/pkg/config"
	"github.com/noah-isme/cavy-ledger/pkg/database"
	"github.com/noah-isme/cavy-ledger/pkg/export"
	"github.com/noah-isme/cavy-ledger/pkg/logger"
)

// @title Cavy Ledger
// @version 1.0.0
// @description Breeding, sales and expense records for a guinea-pig farm
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr)

	stockRepo := repository.NewStockRepository(db)
	birthRepo := repository.NewBirthRepository(db)
	weaningRepo := repository.NewWeaningRepository(db)
	deathRepo := repository.NewDeathRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)

	locations := service.NewLocationPolicy(stockRepo, cfg.Records.RequireRegisteredLocation, logr)

	stockSvc := service.NewStockService(stockRepo, locations, cacheSvc, metrics, logr)
	birthSvc := service.NewBirthService(birthRepo, locations, cacheSvc, metrics, logr)
	weaningSvc := service.NewWeaningService(weaningRepo, locations, cacheSvc, metrics, logr)
	deathSvc := service.NewDeathService(deathRepo, locations, cacheSvc, metrics, logr)
	saleSvc := service.NewSaleService(saleRepo, locations, cacheSvc, metrics, logr)
	expenseSvc := service.NewExpenseService(expenseRepo, cacheSvc, metrics, logr)

	aggregator := service.NewAggregator(service.DashboardSources(stockRepo, birthRepo, weaningRepo, deathRepo), metrics, logr)
	dashboardSvc := service.NewDashboardService(aggregator, cacheSvc, logr, service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL})

	projectionSvc := service.NewProjectionService(birthRepo, deathRepo, saleRepo, cfg.Projections.DefaultMonths, logr)
	reportSvc := service.NewReportService(service.ReportSources{
		Stock:    stockRepo,
		Births:   birthRepo,
		Weanings: weaningRepo,
		Deaths:   deathRepo,
		Sales:    saleRepo,
		Expenses: expenseRepo,
	}, projectionSvc, export.NewCSVExporter(), logr)
	balanceSvc := service.NewBalanceService(saleRepo, expenseRepo, export.NewPDFExporter(), cfg.Balance.Currency, logr)
	exportSvc := service.NewExportService(maintenanceRepo, export.NewXLSXExporter(), logr)

	maintenanceSvc, err := service.NewMaintenanceService(maintenanceRepo, cacheSvc, cfg.Maintenance.DeletePassphrase, cfg.Maintenance.DeletePassphraseHash, logr)
	if err != nil {
		return err
	}

	notificationSvc := service.NewNotificationService(notificationRepo, birthRepo, stockRepo, deathRepo, metrics, logr)

	flash := middleware.NewFlash(cfg.SecretKey, cfg.Env == config.EnvProduction)
	form := handler.NewFormResponder(flash, logr)

	router := server.NewRouter(server.Handlers{
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Stock:     handler.NewStockHandler(stockSvc, form),
		Births:    handler.NewBirthHandler(birthSvc, form),
		Records: handler.NewRecordHandler(handler.RecordServices{
			Weanings: weaningSvc,
			Deaths:   deathSvc,
			Sales:    saleSvc,
			Expenses: expenseSvc,
		}, form),
		Reports:       handler.NewReportHandler(reportSvc, projectionSvc, balanceSvc),
		Maintenance:   handler.NewMaintenanceHandler(maintenanceSvc, exportSvc, form),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Metrics:       handler.NewMetricsHandler(metrics),
	}, server.Options{
		Logger:         logr,
		Metrics:        metrics,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	if cfg.Notifications.Enabled {
		sched, err := scheduler.NewScheduler(cfg.Notifications.Schedule, notificationSvc, logr)
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
