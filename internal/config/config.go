// Package config loads zoocore runtime configuration from the environment,
// optionally seeded from a dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"zoocore/internal/blob"
)

// Dataset drivers.
const (
	DriverSeed     = "seed"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBlob     = "blob"
)

// Metrics and trace output formats.
const (
	MetricsPrometheus = "prometheus"
	MetricsExpvar     = "expvar"
	TraceJSON         = "json"
	TraceOTel         = "otel"
)

// Config is the full runtime configuration.
type Config struct {
	DatasetDriver string `env:"ZOO_DATASET_DRIVER" envDefault:"seed"`
	DatasetPath   string `env:"ZOO_DATASET_PATH"`
	SQLitePath    string `env:"ZOO_SQLITE_PATH" envDefault:"zoocore.db"`
	PostgresDSN   string `env:"ZOO_POSTGRES_DSN" envDefault:"postgres://localhost/zoocore?sslmode=disable"`

	Blob BlobConfig `envPrefix:"ZOO_BLOB_"`
	Log  LogConfig  `envPrefix:"ZOO_LOG_"`

	MetricsOut    string `env:"ZOO_METRICS_OUT"`
	MetricsFormat string `env:"ZOO_METRICS_FORMAT" envDefault:"prometheus"`
	TraceOut      string `env:"ZOO_TRACE_OUT"`
	TraceFormat   string `env:"ZOO_TRACE_FORMAT" envDefault:"json"`
}

// BlobConfig configures the blob dataset backend.
type BlobConfig struct {
	Driver      string `env:"DRIVER" envDefault:"fs"`
	FSRoot      string `env:"FS_ROOT" envDefault:"./blobdata"`
	Key         string `env:"KEY" envDefault:"datasets/zoo.json"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3PathStyle bool   `env:"S3_PATH_STYLE"`
}

// StoreConfig converts the settings into a blob factory configuration.
func (b BlobConfig) StoreConfig() blob.Config {
	return blob.Config{
		Driver: blob.Driver(b.Driver),
		FSRoot: b.FSRoot,
		S3: blob.S3Config{
			Bucket:    b.S3Bucket,
			Region:    b.S3Region,
			Endpoint:  b.S3Endpoint,
			PathStyle: b.S3PathStyle,
		},
	}
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load reads envFile when it exists, overlays the process environment, and
// parses the result. Process variables win over file entries.
func Load(envFile string) (Config, error) {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read env file: %w", err)
		default:
			vars = fileVars
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return FromMap(vars)
}

// FromMap parses configuration from an explicit variable set.
func FromMap(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and incomplete driver settings.
func (c Config) Validate() error {
	switch c.DatasetDriver {
	case DriverSeed, DriverSQLite, DriverPostgres:
	case DriverFile:
		if strings.TrimSpace(c.DatasetPath) == "" {
			return errors.New("ZOO_DATASET_PATH is required for the file dataset driver")
		}
	case DriverBlob:
		switch blob.Driver(c.Blob.Driver) {
		case blob.DriverFilesystem, blob.DriverMemory:
		case blob.DriverS3:
			if c.Blob.S3Bucket == "" {
				return errors.New("ZOO_BLOB_S3_BUCKET is required for the s3 blob driver")
			}
		default:
			return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
		}
	default:
		return fmt.Errorf("unknown dataset driver %q", c.DatasetDriver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	switch c.MetricsFormat {
	case MetricsPrometheus, MetricsExpvar:
	default:
		return fmt.Errorf("unknown metrics format %q", c.MetricsFormat)
	}
	switch c.TraceFormat {
	case TraceJSON, TraceOTel:
	default:
		return fmt.Errorf("unknown trace format %q", c.TraceFormat)
	}
	return nil
}
