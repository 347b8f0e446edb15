package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/ewilliams-labs/woodshed/internal/adapters/rest"
	"github.com/ewilliams-labs/woodshed/internal/adapters/spotify"
	"github.com/ewilliams-labs/woodshed/internal/adapters/sqlite"
	"github.com/ewilliams-labs/woodshed/internal/config"
	"github.com/ewilliams-labs/woodshed/internal/core/services"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	app := &cli.Command{
		Name:  "woodshed",
		Usage: "Practice-profile song curation service",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx, cmd.String("config"), logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Flags: []cli.Flag{configFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return serve(ctx, cmd.String("config"), logger)
				},
			},
			{
				Name:  "create-profile",
				Usage: "Create a practice profile for an owner identity",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "owner", Usage: "Owner identity string", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return createProfile(ctx, cmd, logger)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.WithError(err).Fatal("application error")
	}
}

func serve(ctx context.Context, configPath string, logger *logrus.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	}

	fallbackIdentity := cfg.Identity.FallbackUserID
	if fallbackIdentity == "" {
		fallbackIdentity = uuid.NewString()
		logger.WithField("fallback_user_id", fallbackIdentity).
			Warn("no fallback identity configured; generated one for this run")
	}

	repo, err := sqlite.NewAdapter(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repo.Close()

	catalog := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		Timeout:      time.Duration(cfg.Spotify.TimeoutSeconds) * time.Second,
		RatePerSec:   cfg.Spotify.RatePerSec,
	}, logger)

	enricher := services.NewEnricher(catalog, logger)
	svc := services.NewCollection(repo, repo, repo, enricher, logger)
	handler := rest.NewHandler(svc, catalog, fallbackIdentity, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	logger.WithField("addr", cfg.Addr()).Info("woodshed API listening")

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	}
}

func createProfile(ctx context.Context, cmd *cli.Command, logger *logrus.Logger) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	repo, err := sqlite.NewAdapter(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repo.Close()

	var name *string
	if n := cmd.String("name"); n != "" {
		name = &n
	}

	profile, err := repo.CreateProfile(ctx, cmd.String("owner"), name)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"owner_id":   profile.OwnerID,
	}).Info("profile created")
	return nil
}
