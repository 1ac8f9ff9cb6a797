package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/handler"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/server"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/internal/workers"
	"github.com/MKhiriev/go-vidtube/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// startupTimeout bounds connecting to the stores and the object storage.
const startupTimeout = 30 * time.Second

func main() {
	printBuildInfo()

	log := logger.NewLogger("vidtube-server", "")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.LogLevel != "" {
		log = logger.NewLogger("vidtube-server", cfg.App.LogLevel)
	}

	log.Debug().Any("config", cfg.Sanitized()).Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	startCtx, cancelStart := context.WithTimeout(ctx, startupTimeout)
	defer cancelStart()

	storages, err := store.NewStorages(startCtx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	objectStore, err := media.NewObjectStore(startCtx, cfg.Media, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating media store")
	}
	uploader := media.NewUploader(objectStore, media.Folder, log)

	tempFiles, err := media.NewTempFiles(cfg.Media.TempDir)
	if err != nil {
		log.Fatal().Err(err).Msg("error preparing temp upload dir")
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, uploader, *cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, tempFiles, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	go workers.NewWorkers(tempFiles, cfg.Workers, log).Run(ctx)

	if err = srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
