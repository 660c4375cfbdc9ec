package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kurochkinivan/cdr_converter/internal/config"
	v1 "github.com/kurochkinivan/cdr_converter/internal/controller/http/v1"
	"github.com/kurochkinivan/cdr_converter/internal/domain"
	"github.com/kurochkinivan/cdr_converter/internal/infrastructure/report_generator"
	"github.com/kurochkinivan/cdr_converter/internal/pipeline"
	"github.com/kurochkinivan/cdr_converter/internal/repository/postgresql"
	"github.com/kurochkinivan/cdr_converter/internal/storage/s3"
)

const shutdownTimeout = 5 * time.Second

var ErrStorageNotConfigured = errors.New("postgresql is not configured")

type App struct {
	log *slog.Logger
	cfg *config.Config
	out io.Writer
	now func() time.Time
}

func New(log *slog.Logger, cfg *config.Config) *App {
	return &App{
		log: log,
		cfg: cfg,
		out: os.Stdout,
		now: time.Now,
	}
}

// Status describes what a run would do with the current configuration.
func (a *App) Status() string {
	var b strings.Builder

	fmt.Fprintln(&b, "cdr_converter: no directory given, nothing to process")
	fmt.Fprintf(&b, "  trim:         %t\n", a.cfg.App.Trim)
	fmt.Fprintf(&b, "  header check: %s\n", a.cfg.App.HeaderCheck)
	fmt.Fprintf(&b, "  pdf report:   %t\n", a.cfg.App.PDFReport)
	fmt.Fprintf(&b, "  postgresql:   %s\n", enabled(a.cfg.PostgreSQL.Enabled()))
	fmt.Fprintf(&b, "  s3 upload:    %s\n", enabled(a.cfg.S3.Enabled()))
	fmt.Fprintln(&b, "use -d <path> to process a directory")

	return b.String()
}

func enabled(ok bool) string {
	if ok {
		return "enabled"
	}
	return "disabled"
}

// Run processes the configured directory once and exports the result.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.App.Directory == "" {
		_, err := io.WriteString(a.out, a.Status())
		return err
	}

	runAt := a.now()
	timestamp := pipeline.Timestamp(runAt)

	a.log.InfoContext(ctx, "starting run",
		slog.String("dir", a.cfg.App.Directory),
		slog.Bool("trim", a.cfg.App.Trim),
		slog.String("header_check", string(a.cfg.App.HeaderCheck)),
		slog.String("timestamp", timestamp),
	)

	processor := pipeline.NewProcessor(a.log, a.cfg.App.Directory, pipeline.Options{
		Trim:        a.cfg.App.Trim,
		HeaderCheck: a.cfg.App.HeaderCheck,
	})

	result, err := processor.Process(ctx)
	if err != nil {
		return fmt.Errorf("failed to process directory: %w", err)
	}

	artifacts, err := pipeline.NewWriter(a.log, a.cfg.App.Directory).Write(ctx, result, timestamp)
	if errors.Is(err, domain.ErrNoData) {
		a.log.WarnContext(ctx, "no records found, nothing written", slog.String("dir", a.cfg.App.Directory))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write artifacts: %w", err)
	}

	paths := artifacts.Paths()

	if a.cfg.App.PDFReport {
		reporter := pipeline.NewReporter(a.log, a.cfg.App.Directory, report_generator.New())

		report, err := reporter.Report(ctx, result, timestamp)
		if err != nil {
			return err
		}
		paths = append(paths, report)
	}

	if a.cfg.S3.Enabled() {
		if err := a.upload(ctx, timestamp, paths); err != nil {
			return err
		}
	}

	if a.cfg.PostgreSQL.Enabled() {
		if err := a.archive(ctx, result, runAt); err != nil {
			return err
		}
	}

	a.log.InfoContext(ctx, "run finished", slog.String("result", result.String()))

	return nil
}

func (a *App) upload(ctx context.Context, timestamp string, paths []string) error {
	client, err := s3.NewClient(a.cfg.S3)
	if err != nil {
		return err
	}

	uploader := s3.NewUploader(a.log, client, a.cfg.S3.Bucket, a.cfg.S3.Prefix)

	if err := uploader.EnsureBucket(ctx); err != nil {
		return err
	}

	keys, err := uploader.Upload(ctx, timestamp, paths...)
	if err != nil {
		return err
	}

	a.log.InfoContext(ctx, "artifacts uploaded",
		slog.String("bucket", a.cfg.S3.Bucket),
		slog.Int("objects", len(keys)),
	)

	return nil
}

func (a *App) archive(ctx context.Context, result *domain.ProcessingResult, runAt time.Time) error {
	a.log.InfoContext(ctx, "establishing postgresql connection",
		slog.String("postgresql_host", a.cfg.PostgreSQL.Host),
		slog.String("postgresql_port", a.cfg.PostgreSQL.Port),
		slog.String("postgresql_dbname", a.cfg.PostgreSQL.DBName),
	)

	pool, err := postgresql.NewConnection(ctx, a.log, a.cfg.PostgreSQL)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	defer pool.Close()

	archiver := pipeline.NewArchiver(a.log, postgresql.NewRunsRepository(pool), postgresql.NewTxManager(pool))

	if _, err := archiver.Archive(ctx, result, runAt); err != nil {
		return fmt.Errorf("failed to archive run: %w", err)
	}

	return nil
}

// Serve exposes stored runs over HTTP until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	if !a.cfg.PostgreSQL.Enabled() {
		return ErrStorageNotConfigured
	}

	pool, err := postgresql.NewConnection(ctx, a.log, a.cfg.PostgreSQL)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	defer pool.Close()

	server := v1.NewServer(a.cfg.HTTP, postgresql.NewRunsRepository(pool))

	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "starting http server", slog.String("addr", server.Addr()))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	erg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := erg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.ErrorContext(ctx, "server stopped with error", slog.String("err", err.Error()))

		return err
	}

	a.log.InfoContext(ctx, "server stopped gracefully")

	return nil
}
