package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mathnotes-io/mathnotes/internal/api"
	"github.com/mathnotes-io/mathnotes/internal/auth"
	"github.com/mathnotes-io/mathnotes/internal/config"
	"github.com/mathnotes-io/mathnotes/internal/content"
	"github.com/mathnotes-io/mathnotes/internal/logging"
	"github.com/mathnotes-io/mathnotes/internal/storage"
)

const version = "0.1.0"

// catalogSource picks where the catalog is read from.
func catalogSource(ctx context.Context, cfg *config.Config, log zerolog.Logger) (content.Source, error) {
	if cfg.Content.Source != config.SourceS3 {
		return content.Embedded(), nil
	}
	s3cfg := cfg.Content.S3
	return storage.NewBucketSource(ctx, storage.Options{
		Endpoint:        s3cfg.Endpoint,
		Region:          s3cfg.Region,
		Bucket:          s3cfg.Bucket,
		Prefix:          s3cfg.Prefix,
		AccessKeyID:     s3cfg.AccessKeyID,
		SecretAccessKey: s3cfg.SecretAccessKey,
		Attempts:        cfg.Content.FetchAttempts,
	}, log)
}

func initializeAPI(ctx context.Context, configPath, envPath string) (*api.Api, error) {
	if err := config.LoadEnvFile(envPath); err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Pretty)

	src, err := catalogSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := content.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Info().
		Str("source", cfg.Content.Source).
		Int("notes", len(store.Notes())).
		Int("videos", len(store.Videos())).
		Msg("catalog loaded")

	sessions, err := auth.NewManager(auth.Options{
		Secret:     cfg.Auth.JWTSecret,
		LoginDelay: cfg.Auth.LoginDelay,
		SessionTTL: cfg.Auth.SessionTTL,
	}, log)
	if err != nil {
		return nil, err
	}

	return api.NewApi(*cfg, store, sessions, log)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to an optional dotenv file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := initializeAPI(ctx, *configPath, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mathnotes v%s: %v\n", version, err)
		os.Exit(1)
	}

	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mathnotes v%s: %v\n", version, err)
		os.Exit(1)
	}
}
