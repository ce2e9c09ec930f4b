// Package main starts the GophShop HTTP API, wiring configuration, logging,
// the storage medium, services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophShop/internal/config"
	"github.com/atinyakov/GophShop/internal/logger"
	"github.com/atinyakov/GophShop/internal/repository"
	"github.com/atinyakov/GophShop/internal/server/handler/http"
	"github.com/atinyakov/GophShop/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()

	options, err := config.Parse()
	if err != nil {
		log.Log.Fatal("failed to read config", zap.Error(err))
	}
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	medium, closeMedium, err := config.OpenMedium(options)
	if err != nil {
		zapLogger.Fatal("cannot open storage", zap.String("storage", options.Storage), zap.Error(err))
	}
	defer func() {
		if err := closeMedium(); err != nil {
			zapLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records := repository.NewRecords(medium)
	session := service.NewSession(records)
	accountService := service.NewAccountService(records, session)
	catalogService := service.NewCatalogService(records)
	cartService := service.NewCartService(records, catalogService, session)

	created, err := accountService.EnsureAdmin(ctx)
	if err != nil {
		zapLogger.Fatal("cannot provision admin account", zap.Error(err))
	}
	migrated, seeded, err := catalogService.Bootstrap(ctx)
	if err != nil {
		zapLogger.Fatal("cannot prepare catalog", zap.Error(err))
	}
	zapLogger.Info("storage ready",
		zap.String("storage", options.Storage),
		zap.Bool("admin_created", created),
		zap.Bool("catalog_seeded", seeded),
		zap.Int("images_migrated", migrated),
	)

	router := http.NewRouter(
		&http.AuthHandler{AuthService: accountService},
		&http.ProductHandler{ProductService: catalogService},
		&http.CartHandler{CartService: cartService, Logger: zapLogger},
		session,
		accountService,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Error("server stopped", zap.Error(err))
	}
}
