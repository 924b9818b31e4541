// Package sitectl builds the operator command tree of the site.
package sitectl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rust-in/site/internal/platform/config"
	"github.com/rust-in/site/internal/platform/logging"
	"github.com/rust-in/site/internal/services/site/auth"
	"github.com/rust-in/site/internal/services/site/seed"
	"github.com/rust-in/site/internal/services/site/storage/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Defaults holds the environment defaults of the command flags.
type Defaults struct {
	DBPath  string `env:"RUSTIN_DB_PATH" envDefault:"data/site.db"`
	Logging logging.Config
}

// LoadDefaults reads Defaults from environ, or the process environment when
// environ is nil.
func LoadDefaults(environ map[string]string) (Defaults, error) {
	var defaults Defaults
	if err := config.ParseEnvMap(&defaults, environ); err != nil {
		return Defaults{}, err
	}
	return defaults, nil
}

type options struct {
	dbPath string
	out    io.Writer
	logger *zap.Logger
}

// NewRootCommand returns the sitectl command tree. Output goes to out.
func NewRootCommand(defaults Defaults, out io.Writer, logger *zap.Logger) *cobra.Command {
	opts := &options{dbPath: defaults.DBPath, out: out, logger: logging.OrNop(logger)}
	if opts.out == nil {
		opts.out = os.Stdout
	}
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Operate the site database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.out)
	root.PersistentFlags().StringVar(&opts.dbPath, "db", opts.dbPath, "SQLite database path")
	root.AddCommand(newMigrateCommand(opts), newSeedCommand(opts), newUserCommand(opts))
	return root
}

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := sqlite.Migrate(cmd.Context(), opts.dbPath)
			if err != nil {
				return err
			}
			for _, name := range result.Applied {
				fmt.Fprintf(opts.out, "applied %s\n", name)
			}
			fmt.Fprintf(opts.out, "%d applied, %d already current\n", len(result.Applied), len(result.Skipped))
			return nil
		},
	}
}

func newSeedCommand(opts *options) *cobra.Command {
	var file string
	var onlyEmpty bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load seed documents into the content collections",
		Long: `Load seed documents into the content collections.

Without --file the built-in default content is used. Documents whose id
already exists are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seedFile, err := loadSeed(file)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), opts, func(ctx context.Context, store *sqlite.Store) error {
				result, err := seed.Apply(ctx, store, seedFile, seed.Options{OnlyEmpty: onlyEmpty, Logger: opts.logger})
				if err != nil {
					return err
				}
				fmt.Fprintf(opts.out, "%d created, %d skipped\n", result.Created, result.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML seed file (default: built-in content)")
	cmd.Flags().BoolVar(&onlyEmpty, "only-empty", false, "Skip collections that already hold documents")
	return cmd
}

func loadSeed(path string) (seed.File, error) {
	if strings.TrimSpace(path) == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return seed.File{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return seed.Load(f)
}

func newUserCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newUserCreateCommand(opts), newUserListCommand(opts))
	return cmd
}

func newUserCreateCommand(opts *options) *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(password) == "" {
				return errors.New("--password is required")
			}
			return withStore(cmd.Context(), opts, func(ctx context.Context, store *sqlite.Store) error {
				// Token signing is unused here; any valid secret will do.
				secret, err := auth.RandomSecret()
				if err != nil {
					return err
				}
				service, err := auth.NewService(store, secret, opts.logger)
				if err != nil {
					return err
				}
				user, err := service.CreateUser(ctx, email, name, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(opts.out, "created %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Login e-mail")
	cmd.Flags().StringVar(&name, "name", "", "Display name (default: e-mail)")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), opts, func(ctx context.Context, store *sqlite.Store) error {
				users, err := store.ListUsers(ctx)
				if err != nil {
					return err
				}
				for _, user := range users {
					fmt.Fprintf(opts.out, "%s\t%s\t%s\n", user.ID, user.Email, user.Name)
				}
				return nil
			})
		},
	}
}

func withStore(ctx context.Context, opts *options, fn func(context.Context, *sqlite.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := sqlite.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			opts.logger.Warn("close store", zap.Error(err))
		}
	}()
	return fn(ctx, store)
}
