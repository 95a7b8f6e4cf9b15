package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MuhaUsman/SecureVault/internal/config"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/internal/service"
	"github.com/MuhaUsman/SecureVault/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("secure-vault")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = log.WithContext(ctx)

	cryptoSvc := crypto.NewService(cfg.Security.BcryptCost)

	storages, err := store.NewStorages(ctx, *cfg, cryptoSvc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	services := service.NewServices(storages, cryptoSvc, *cfg, log)

	// surface the tail of the audit trail so operators see at a glance
	// what happened before the last shutdown
	if entries, err := services.Auditor.Logs(ctx, 5, nil); err == nil {
		for _, entry := range entries {
			log.Info().
				Str("action", entry.Action).
				Str("username", entry.Username).
				Str("status", string(entry.Status)).
				Time("at", entry.Timestamp).
				Msg("recent audit event")
		}
	}

	log.Info().Msg("vault core is ready")

	<-ctx.Done()
	log.Info().Msg("shutting down")
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
