package config

import (
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/kurochkinivan/cdr_converter/internal/domain"
)

type Config struct {
	App
	PostgreSQL
	S3
	HTTP
}

type App struct {
	Directory   string
	Trim        bool
	HeaderCheck domain.HeaderCheck
	PDFReport   bool
}

type PostgreSQL struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// Enabled is false when no database was configured; runs are then not stored.
func (c PostgreSQL) Enabled() bool {
	return c.Host != "" && c.DBName != ""
}

type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

func (c S3) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

type HTTP struct {
	Host         string
	Port         string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func Load(cmd *cli.Command) *Config {
	// The trim flag is validated on parse.
	trim, _ := strconv.ParseBool(cmd.String("trim"))

	return &Config{
		App: App{
			Directory:   cmd.String("dir"),
			Trim:        trim,
			HeaderCheck: domain.HeaderCheck(cmd.String("header-check")),
			PDFReport:   cmd.Bool("pdf-report"),
		},
		PostgreSQL: PostgreSQL{
			Host:     cmd.String("pg-host"),
			Port:     cmd.String("pg-port"),
			Username: cmd.String("pg-username"),
			Password: cmd.String("pg-password"),
			DBName:   cmd.String("pg-dbname"),
		},
		S3: S3{
			Endpoint:  cmd.String("s3-endpoint"),
			AccessKey: cmd.String("s3-access-key"),
			SecretKey: cmd.String("s3-secret-key"),
			Bucket:    cmd.String("s3-bucket"),
			Prefix:    cmd.String("s3-prefix"),
			UseSSL:    cmd.Bool("s3-use-ssl"),
		},
		HTTP: HTTP{
			Host:         cmd.String("http-host"),
			Port:         cmd.String("http-port"),
			IdleTimeout:  cmd.Duration("http-idle-timeout"),
			ReadTimeout:  cmd.Duration("http-read-timeout"),
			WriteTimeout: cmd.Duration("http-write-timeout"),
		},
	}
}
