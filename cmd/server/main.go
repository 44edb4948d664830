package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/config"
	"github.com/mamadbah2/platecost/internal/repository/mongodb"
	"github.com/mamadbah2/platecost/internal/repository/sheets"
	"github.com/mamadbah2/platecost/internal/scheduler"
	"github.com/mamadbah2/platecost/internal/server/handlers"
	"github.com/mamadbah2/platecost/internal/server/router"
	catalogsvc "github.com/mamadbah2/platecost/internal/service/catalog"
	"github.com/mamadbah2/platecost/internal/service/conversion"
	"github.com/mamadbah2/platecost/internal/service/pricing"
	recipesvc "github.com/mamadbah2/platecost/internal/service/recipes"
	reportingsvc "github.com/mamadbah2/platecost/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/platecost/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/platecost/pkg/clients/whatsapp"
	"github.com/mamadbah2/platecost/pkg/logger"
)

// priceListFirstRow is the sheet row of the first data row in the default
// price list range (row 1 holds the header).
const priceListFirstRow = 2

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("google sheets not configured, price list sync and review log disabled")
	}

	strategy, err := pricing.ParseStrategy(cfg.Pricing.Rounding)
	if err != nil {
		baseLogger.Fatal("invalid default rounding", zap.Error(err))
	}
	defaults := recipesvc.Defaults{
		TaxRate:                  cfg.Pricing.TaxRate,
		TargetGrossProfitPercent: cfg.Pricing.TargetGP,
		Strategy:                 strategy,
		StrictUnits:              cfg.Pricing.StrictUnits,
	}
	densities := conversion.DefaultDensities(cfg.Pricing.DefaultDensity)

	recipeSvc := recipesvc.NewService(mongoRepo, densities, defaults, baseLogger.Named("svc.recipes"))
	reportingSvc := reportingsvc.NewService(sheetsRepo, cfg.Sheets.ReviewLogRange, baseLogger.Named("svc.reporting"))

	var (
		syncer        scheduler.PriceListSyncer
		handlerSyncer handlers.PriceListSyncer
	)
	if sheetsRepo != nil {
		catalogSvc := catalogsvc.NewService(sheetsRepo, mongoRepo, cfg.Sheets.PriceListRange, priceListFirstRow, baseLogger.Named("svc.catalog"))
		syncer, handlerSyncer = catalogSvc, catalogSvc
	}

	var notifier whatsappsvc.Notifier
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, baseLogger.Named("svc.whatsapp"))
		baseLogger.Info("whatsapp margin alerts enabled")
	} else {
		baseLogger.Warn("whatsapp not configured, margin alerts will only be logged")
	}

	engine := router.New(router.Handlers{
		Conversion: handlers.NewConversionHandler(conversion.NewConverter(densities), baseLogger.Named("handlers.conversion")),
		Pricing:    handlers.NewPricingHandler(defaults, baseLogger.Named("handlers.pricing")),
		Recipes:    handlers.NewRecipeHandler(recipeSvc, handlerSyncer, baseLogger.Named("handlers.recipes")),
	}, cfg.Server, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Scheduler, recipeSvc, syncer, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
