// Package site parses site server configuration and launches the server.
package site

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	entrypoint "github.com/rust-in/site/internal/platform/cmd"
	"github.com/rust-in/site/internal/platform/config"
	"github.com/rust-in/site/internal/platform/logging"
	"github.com/rust-in/site/internal/platform/otel"
	"github.com/rust-in/site/internal/services/site/auth"
	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/readiness"
	"github.com/rust-in/site/internal/services/site/seed"
	"github.com/rust-in/site/internal/services/site/storage/sqlite"
	"github.com/rust-in/site/internal/services/site/web"
	"github.com/rust-in/site/internal/services/site/web/platform/requestmeta"
	"go.uber.org/zap"
)

// Config holds site command configuration.
type Config struct {
	HTTPAddr  string `env:"RUSTIN_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath    string `env:"RUSTIN_DB_PATH" envDefault:"data/site.db"`
	MediaDir  string `env:"RUSTIN_MEDIA_DIR" envDefault:"data/media"`
	AssetsDir string `env:"RUSTIN_ASSETS_DIR" envDefault:"build/assets"`
	// Secret signs admin sessions. Empty uses a per-process secret.
	Secret              string        `env:"RUSTIN_SECRET"`
	TrustForwardedProto bool          `env:"RUSTIN_TRUST_FORWARDED_PROTO" envDefault:"false"`
	SplashMinimum       time.Duration `env:"RUSTIN_SPLASH_MIN" envDefault:"1500ms"`
	SplashDebounce      time.Duration `env:"RUSTIN_SPLASH_DEBOUNCE" envDefault:"250ms"`
	// SplashSafetyTimeout of zero disables the fallback reveal.
	SplashSafetyTimeout time.Duration `env:"RUSTIN_SPLASH_SAFETY_TIMEOUT" envDefault:"8s"`
	SeedOnEmpty         bool          `env:"RUSTIN_SEED_ON_EMPTY" envDefault:"true"`

	Logging logging.Config
	Tracing otel.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return ParseConfigEnv(fs, args, nil)
}

// ParseConfigEnv is ParseConfig over an explicit environment. A nil
// environ reads the process environment.
func ParseConfigEnv(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvMap(&cfg, environ); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.MediaDir, "media-dir", cfg.MediaDir, "Uploaded media directory")
	fs.StringVar(&cfg.AssetsDir, "assets-dir", cfg.AssetsDir, "Directory holding site.wasm and wasm_exec.js")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Logging.Development, "log-dev", cfg.Logging.Development, "Human-readable console logs")
	fs.BoolVar(&cfg.SeedOnEmpty, "seed-on-empty", cfg.SeedOnEmpty, "Load the default content into empty collections")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.SplashSafetyTimeout < 0 {
		return Config{}, fmt.Errorf("splash safety timeout must not be negative")
	}
	return cfg, nil
}

// Run starts the site server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("service", entrypoint.ServiceSite))

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSite, entrypoint.RunOptions{
		Tracing: cfg.Tracing,
		Logger:  logger,
	}, func(ctx context.Context) error {
		return serve(ctx, cfg, logger)
	})
}

func serve(ctx context.Context, cfg Config, logger *zap.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	secret, err := sessionSecret(cfg.Secret, logger)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(store, secret, logger)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	blobs, err := media.OpenBlobs(cfg.MediaDir)
	if err != nil {
		return fmt.Errorf("open media dir: %w", err)
	}

	server, err := web.NewServer(ctx, web.Config{
		HTTPAddr:  cfg.HTTPAddr,
		Store:     store,
		Auth:      authService,
		Blobs:     blobs,
		AssetsDir: cfg.AssetsDir,
		Splash: readiness.Options{
			MinimumSplash:  cfg.SplashMinimum,
			RevealDebounce: cfg.SplashDebounce,
			SafetyTimeout:  cfg.SplashSafetyTimeout,
		},
		Policy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("init site server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve site: %w", err)
	}
	return nil
}

// openStore opens the database and loads the default content into empty
// collections when configured.
func openStore(ctx context.Context, cfg Config, logger *zap.Logger) (*sqlite.Store, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.SeedOnEmpty {
		file, err := seed.Default()
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("load default seed: %w", err)
		}
		if _, err := seed.Apply(ctx, store, file, seed.Options{OnlyEmpty: true, Logger: logger}); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}
	if users, err := store.CountUsers(ctx); err == nil && users == 0 {
		logger.Warn("no admin user exists; create one with sitectl user create")
	}
	return store, nil
}

// sessionSecret returns the configured signing secret, or a random one with
// a warning when none is set.
func sessionSecret(raw string, logger *zap.Logger) ([]byte, error) {
	if secret := strings.TrimSpace(raw); secret != "" {
		return []byte(secret), nil
	}
	logger.Warn("RUSTIN_SECRET is not set; admin sessions end when the process restarts")
	secret, err := auth.RandomSecret()
	if err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return secret, nil
}
