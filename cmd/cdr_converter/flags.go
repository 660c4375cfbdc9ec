package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/kurochkinivan/cdr_converter/internal/app"
	"github.com/kurochkinivan/cdr_converter/internal/config"
	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

const envPrefix = "CDR_"

var version = "dev"

func cmd() *cli.Command {
	var config string

	return &cli.Command{
		Name:    "cdr_converter",
		Usage:   "Convert a directory of CDR/CMR files into JSON",
		Version: version,
		Flags:   flags(&config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return fmt.Errorf("unexpected arguments %q", cmd.Args().Slice())
			}

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}

			return a.Run(ctx)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve stored runs over HTTP",
				Flags: httpFlags(&config),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(ctx, cmd)
					if err != nil {
						return err
					}

					return a.Serve(ctx)
				},
			},
		},
	}
}

func newApp(ctx context.Context, cmd *cli.Command) (*app.App, error) {
	log, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return nil, errors.New("failed to get logger from context")
	}

	return app.New(log, config.Load(cmd)), nil
}

// sources reads a flag from CDR_<FLAG> first, then from the YAML config key.
func sources(flag, key string, config *string) cli.ValueSourceChain {
	env := envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))

	return cli.NewValueSourceChain(
		cli.EnvVar(env),
		yaml.YAML(key, altsrc.NewStringPtrSourcer(config)),
	)
}

func flags(config *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Validator:   validateConfig,
			Usage:       "Load configuration from `FILE`",
			Sources:     cli.EnvVars(envPrefix + "CONFIG"),
			Destination: config,
		},
		&cli.StringFlag{
			Name:      "dir",
			Aliases:   []string{"d"},
			Usage:     "Process files in `DIR`",
			Sources:   sources("dir", "app.dir", config),
			Validator: validateDirectory,
		},
		&cli.StringFlag{
			Name:      "trim",
			Aliases:   []string{"t"},
			Usage:     "Drop empty and zero values from records when `BOOL` is true",
			Value:     "false",
			Sources:   sources("trim", "app.trim", config),
			Validator: validateBool,
		},
		&cli.StringFlag{
			Name:      "header-check",
			Usage:     "Set what to do with a header that differs from its record type schema: ignore, warn or reject",
			Value:     string(domain.HeaderCheckIgnore),
			Sources:   sources("header-check", "app.header_check", config),
			Validator: validateHeaderCheck,
		},
		&cli.BoolFlag{
			Name:    "pdf-report",
			Usage:   "Write a PDF summary of the run",
			Sources: sources("pdf-report", "app.pdf_report", config),
		},
		&cli.StringFlag{
			Name:    "pg-host",
			Usage:   "Set PostgreSQL host, runs are not stored when empty",
			Sources: sources("pg-host", "postgresql.host", config),
		},
		&cli.StringFlag{
			Name:    "pg-port",
			Usage:   "Set PostgreSQL port",
			Value:   "5432",
			Sources: sources("pg-port", "postgresql.port", config),
		},
		&cli.StringFlag{
			Name:    "pg-username",
			Usage:   "Set PostgreSQL username",
			Sources: sources("pg-username", "postgresql.username", config),
		},
		&cli.StringFlag{
			Name:    "pg-password",
			Usage:   "Set PostgreSQL password",
			Sources: sources("pg-password", "postgresql.password", config),
		},
		&cli.StringFlag{
			Name:    "pg-dbname",
			Usage:   "Set PostgreSQL database name",
			Value:   "cdr_converter",
			Sources: sources("pg-dbname", "postgresql.dbname", config),
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "Set S3 endpoint, artifacts are not uploaded when empty",
			Sources: sources("s3-endpoint", "s3.endpoint", config),
		},
		&cli.StringFlag{
			Name:    "s3-access-key",
			Usage:   "Set S3 access key",
			Sources: sources("s3-access-key", "s3.access_key", config),
		},
		&cli.StringFlag{
			Name:    "s3-secret-key",
			Usage:   "Set S3 secret key",
			Sources: sources("s3-secret-key", "s3.secret_key", config),
		},
		&cli.StringFlag{
			Name:    "s3-bucket",
			Usage:   "Set S3 bucket",
			Sources: sources("s3-bucket", "s3.bucket", config),
		},
		&cli.StringFlag{
			Name:    "s3-prefix",
			Usage:   "Set S3 object key prefix",
			Value:   "runs",
			Sources: sources("s3-prefix", "s3.prefix", config),
		},
		&cli.BoolFlag{
			Name:    "s3-use-ssl",
			Usage:   "Use TLS for S3",
			Sources: sources("s3-use-ssl", "s3.use_ssl", config),
		},
	}
}

func httpFlags(config *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "http-host",
			Usage:   "Set HTTP server host",
			Value:   "localhost",
			Sources: sources("http-host", "http.host", config),
		},
		&cli.StringFlag{
			Name:    "http-port",
			Usage:   "Set HTTP server port",
			Value:   "8080",
			Sources: sources("http-port", "http.port", config),
		},
		&cli.DurationFlag{
			Name:    "http-idle-timeout",
			Usage:   "Set HTTP server idle timeout",
			Value:   1 * time.Minute,
			Sources: sources("http-idle-timeout", "http.idle_timeout", config),
		},
		&cli.DurationFlag{
			Name:    "http-read-timeout",
			Usage:   "Set HTTP server read timeout",
			Value:   15 * time.Second,
			Sources: sources("http-read-timeout", "http.read_timeout", config),
		},
		&cli.DurationFlag{
			Name:    "http-write-timeout",
			Usage:   "Set HTTP server write timeout",
			Value:   15 * time.Second,
			Sources: sources("http-write-timeout", "http.write_timeout", config),
		},
	}
}

func validateDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", dir)
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	return nil
}

func validateBool(s string) error {
	if _, err := strconv.ParseBool(s); err != nil {
		return fmt.Errorf("%q is not a boolean", s)
	}
	return nil
}

func validateHeaderCheck(s string) error {
	_, err := domain.ParseHeaderCheck(s)
	return err
}

func validateConfig(config string) error {
	info, err := os.Stat(config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", config)
		}
		return fmt.Errorf("failed to stat %q: %w", config, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", config)
	}

	ext := filepath.Ext(info.Name())
	if ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("invalid extension %q", config)
	}

	return nil
}
