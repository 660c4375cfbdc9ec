package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"

	"github.com/kurochkinivan/cdr_converter/internal/config"
	"github.com/kurochkinivan/cdr_converter/internal/repository/postgresql"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationTypeUp      = "up"
	migrationTypeDown    = "down"
	migrationTypeVersion = "version"
)

const (
	exitCodeOK = iota
	exitCodeInputErr
	exitCodeInternalErr
)

type flags struct {
	migrationType string
	postgreSQL    config.PostgreSQL
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to load .env file", slog.String("err", err.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	exitCode, err := Run(ctx, log, os.Args[1:])
	if err != nil {
		log.ErrorContext(ctx, "failed to apply migrations", slog.String("err", err.Error()))
	}

	stop()
	os.Exit(exitCode)
}

func Run(ctx context.Context, log *slog.Logger, args []string) (exitCode int, err error) {
	f, err := parseFlags(args)
	if err != nil {
		return exitCodeInputErr, err
	}

	if err := f.validate(); err != nil {
		return exitCodeInputErr, fmt.Errorf("invalid flags: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return exitCodeInternalErr, fmt.Errorf("failed to create migrations source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", src, postgresql.ConnectionURL(f.postgreSQL))
	if err != nil {
		return exitCodeInternalErr, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := migrator.Close()
		if closeErr := errors.Join(srcErr, dbErr); closeErr != nil {
			if err == nil {
				exitCode = exitCodeInternalErr
			}
			err = errors.Join(err, closeErr)
		}
	}()

	if f.migrationType == migrationTypeVersion {
		version, dirty, err := migrator.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.InfoContext(ctx, "no migrations applied yet")
			return exitCodeOK, nil
		}
		if err != nil {
			return exitCodeInternalErr, fmt.Errorf("failed to get migration version: %w", err)
		}

		log.InfoContext(ctx, "current migration version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		return exitCodeOK, nil
	}

	if err := applyMigration(migrator, f.migrationType); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.InfoContext(ctx, "no migrations to apply")
			return exitCodeOK, nil
		}

		return exitCodeInternalErr, fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.InfoContext(ctx, "migrations applied successfully", slog.String("type", f.migrationType))

	return exitCodeOK, nil
}

func applyMigration(migrator *migrate.Migrate, migrationType string) error {
	switch migrationType {
	case migrationTypeUp:
		return migrator.Up()
	case migrationTypeDown:
		return migrator.Down()
	default:
		return fmt.Errorf("unknown migration type %q", migrationType)
	}
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}

	set := flag.NewFlagSet("migrator", flag.ContinueOnError)
	set.StringVar(&f.migrationType, "type", migrationTypeUp, "migration type: up/down/version")
	set.StringVar(&f.postgreSQL.Username, "username", os.Getenv("CDR_PG_USERNAME"), "database username")
	set.StringVar(&f.postgreSQL.Password, "password", os.Getenv("CDR_PG_PASSWORD"), "database password")
	set.StringVar(&f.postgreSQL.Host, "host", envOr("CDR_PG_HOST", "127.0.0.1"), "database host")
	set.StringVar(&f.postgreSQL.Port, "port", envOr("CDR_PG_PORT", "5432"), "database port")
	set.StringVar(&f.postgreSQL.DBName, "db", os.Getenv("CDR_PG_DBNAME"), "database name")

	if err := set.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *flags) validate() error {
	switch f.migrationType {
	case migrationTypeUp, migrationTypeDown, migrationTypeVersion:
	default:
		return fmt.Errorf("type must be %q, %q or %q, got %q",
			migrationTypeUp, migrationTypeDown, migrationTypeVersion, f.migrationType)
	}

	for _, req := range []struct{ name, value string }{
		{"username", f.postgreSQL.Username},
		{"password", f.postgreSQL.Password},
		{"db", f.postgreSQL.DBName},
		{"port", f.postgreSQL.Port},
	} {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}

	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
