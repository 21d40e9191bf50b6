package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/kmcrae/sociogram/pkg/api"
	"github.com/kmcrae/sociogram/pkg/auth"
	"github.com/kmcrae/sociogram/pkg/config"
	"github.com/kmcrae/sociogram/pkg/datastore"
	"github.com/kmcrae/sociogram/pkg/events"
	"github.com/kmcrae/sociogram/pkg/logging"
	"github.com/kmcrae/sociogram/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dataDir := flag.String("data", "", "Data directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewDefaultLogger().Error("Failed to load config", logging.Error(err))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", logging.Error(err))
		os.Exit(1)
	}

	logger.Info("Sociogram server starting",
		logging.Int("port", cfg.Server.Port),
		logging.String("data_dir", cfg.Data.Dir),
	)

	store, err := datastore.NewStore(cfg.Data.Dir, logger)
	if err != nil {
		logger.Error("Failed to initialize data store", logging.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, err := buildUserStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize user store", logging.Error(err))
		os.Exit(1)
	}
	defer users.Close()

	sessions, err := auth.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		logger.Error("Failed to initialize sessions", logging.Error(err))
		os.Exit(1)
	}

	var publisher *events.Publisher
	if cfg.Events.Addr != "" {
		publisher, err = events.NewPublisher(cfg.Events.Addr, logger)
		if err != nil {
			logger.Error("Failed to start event publisher", logging.Error(err))
			os.Exit(1)
		}
		defer publisher.Close()
	}

	server, err := api.NewServer(cfg, api.Deps{
		Logger:    logger,
		Store:     store,
		Users:     users,
		Sessions:  sessions,
		Metrics:   metrics.DefaultRegistry(),
		Publisher: publisher,
	})
	if err != nil {
		logger.Error("Failed to build server", logging.Error(err))
		os.Exit(1)
	}

	if err := server.Start(ctx); err != nil {
		logger.Error("Server error", logging.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exited")
}

// buildUserStore selects Postgres when a database URL is configured and the
// in-memory store otherwise. The development test account is only seeded into
// the in-memory store.
func buildUserStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (auth.UserStore, error) {
	if cfg.Auth.DatabaseURL != "" {
		logger.Info("Using Postgres user store")
		return auth.NewPGStore(ctx, cfg.Auth.DatabaseURL)
	}

	store := auth.NewMemoryStore()
	if cfg.Auth.SeedTestUser {
		if err := auth.SeedTestUser(ctx, store); err != nil {
			return nil, err
		}
		logger.Warn("Seeded development test user", logging.UserEmail("test@example.com"))
	}
	return store, nil
}
