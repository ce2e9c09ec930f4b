// Package main runs the GophShop storefront shell against the configured
// storage medium.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/atinyakov/GophShop/internal/client/shell"
	"github.com/atinyakov/GophShop/internal/config"
	"github.com/atinyakov/GophShop/internal/logger"
	"github.com/atinyakov/GophShop/internal/repository"
	"github.com/atinyakov/GophShop/internal/service"
)

var (
	version   string
	buildDate string
)

func main() {
	showVer := flag.Bool("version", false, "show build version and date")

	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *showVer {
		fmt.Printf("GophShop Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	// The shell owns stdout; only errors reach the log.
	if err := log.Init("error"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	medium, closeMedium, err := config.OpenMedium(options)
	if err != nil {
		log.Log.Fatal("cannot open storage", zap.Error(err))
	}
	defer func() { _ = closeMedium() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records := repository.NewRecords(medium)
	session := service.NewSession(records)
	accounts := service.NewAccountService(records, session)
	catalog := service.NewCatalogService(records)
	cart := service.NewCartService(records, catalog, session)

	if _, err := accounts.EnsureAdmin(ctx); err != nil {
		log.Log.Fatal("cannot provision admin account", zap.Error(err))
	}
	if _, _, err := catalog.Bootstrap(ctx); err != nil {
		log.Log.Fatal("cannot prepare catalog", zap.Error(err))
	}

	sh := shell.New(accounts, catalog, cart, os.Stdin, os.Stdout)
	service.StartCountRefresher(ctx, cart, options.RefreshInterval, sh.SetCount, log.Log)

	if err := sh.Run(ctx); err != nil {
		log.Log.Error("shell stopped", zap.Error(err))
	}
}
