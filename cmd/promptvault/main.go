package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/junxiaopang/promptvault/internal/catalog"
	"github.com/junxiaopang/promptvault/internal/config"
	"github.com/junxiaopang/promptvault/internal/criteria"
	"github.com/junxiaopang/promptvault/internal/event"
	"github.com/junxiaopang/promptvault/internal/filter"
	"github.com/junxiaopang/promptvault/internal/gallery"
	"github.com/junxiaopang/promptvault/internal/likes"
	"github.com/junxiaopang/promptvault/internal/metrics"
	"github.com/junxiaopang/promptvault/internal/server"
	"github.com/junxiaopang/promptvault/internal/settings"
	"github.com/junxiaopang/promptvault/internal/store"
	"github.com/junxiaopang/promptvault/internal/version"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("PromptVault server starting", zap.String("version", version.Short()))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	reg, err := registry.Load()
	if err != nil {
		logger.Fatal("failed to load category registry", zap.Error(err))
	}

	db, err := store.New(cfg.GetString("store.path"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settingsRepo, err := settings.NewSQLiteRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize settings repository", zap.Error(err))
	}

	bus := event.NewBus(logger.Named("bus"))
	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	loader := catalog.NewLoader(cfg.GetString("catalog.data_dir"), logger.Named("catalog"))
	catalogSvc := catalog.NewService(loader, reg, bus, m, logger.Named("catalog"))
	if err := catalogSvc.Reload(ctx); err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	likesSvc := likes.NewService(ctx, settingsRepo, bus, m, logger.Named("likes"))
	criteriaStore := criteria.NewStore(settingsRepo, logger.Named("criteria"))

	locale := cfg.GetString("gallery.locale")
	engine := filter.NewEngine(reg, locale, nil, m)

	gallerySvc := gallery.NewService(ctx, catalogSvc, engine, likesSvc, reg, criteriaStore, bus, logger.Named("gallery"), gallery.Options{
		Locale:   locale,
		PageSize: cfg.GetInt("gallery.page_size"),
	})
	galleryHandler := gallery.NewHandler(gallerySvc, logger.Named("http"))

	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	srv := server.New(server.Options{
		Addr:       addr,
		WriteRate:  rate.Limit(50),
		WriteBurst: 25,
		Gatherer:   promRegistry,
		Bus:        bus,
	}, logger.Named("server"), galleryHandler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("PromptVault server ready", zap.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("PromptVault server stopped")
}
