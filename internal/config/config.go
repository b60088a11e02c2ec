package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/sikraken/runreport/internal/result"
	"github.com/sikraken/runreport/internal/rewrite"
)

type Config struct {
	Layout      result.Layout `yaml:"layout"`
	ObjectStore ObjectStore   `yaml:"object_store"`
	Workers     int           `yaml:"workers" env:"RUNREPORT_WORKERS, overwrite"`
	LogLevel    string        `yaml:"log_level" env:"RUNREPORT_LOG_LEVEL, overwrite"`
}

// ObjectStore locates the bucket reports are published to. BaseURL wins over
// Bucket and Region.
type ObjectStore struct {
	BaseURL string `yaml:"base_url" env:"RUNREPORT_OBJECT_STORE_URL, overwrite"`
	Bucket  string `yaml:"bucket" env:"RUNREPORT_BUCKET, overwrite"`
	Region  string `yaml:"region" env:"RUNREPORT_REGION, overwrite"`
}

func (o ObjectStore) URL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return rewrite.S3BaseURL(o.Bucket, o.Region)
}

func Default() *Config {
	return &Config{
		Layout: result.DefaultLayout(),
		ObjectStore: ObjectStore{
			Bucket: "testcov-results-bucket",
			Region: "eu-west-1",
		},
		Workers:  1,
		LogLevel: "info",
	}
}

// Load reads the YAML config at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := validate(cfg); err != nil {
		if path == "" {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Level is the configured log level.
func (c *Config) Level() slog.Level {
	var l slog.Level
	// validate has already rejected unknown levels.
	_ = l.UnmarshalText([]byte(c.LogLevel))
	return l
}

func validate(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q: want debug, info, warn or error", cfg.LogLevel)
	}
	files := map[string]string{
		"run_log":       cfg.Layout.RunLog,
		"manifest":      cfg.Layout.Manifest,
		"report":        cfg.Layout.Report,
		"summary":       cfg.Layout.Summary,
		"primary_log":   cfg.Layout.PrimaryLog,
		"secondary_log": cfg.Layout.SecondaryLog,
		"plot":          cfg.Layout.Plot,
	}
	for key, name := range files {
		if name == "" {
			return fmt.Errorf("layout.%s is required", key)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("layout.%s must be a file name, got %q", key, name)
		}
	}
	o := cfg.ObjectStore
	if o.BaseURL == "" && (o.Bucket == "" || o.Region == "") {
		return fmt.Errorf("object_store needs base_url or both bucket and region")
	}
	if _, err := rewrite.New(o.URL()); err != nil {
		return fmt.Errorf("object_store: %w", err)
	}
	return nil
}
