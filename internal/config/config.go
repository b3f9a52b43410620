package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/v-zq/media-to-GIF/internal/library"
)

// Config holds all pipeline configuration. Values come from environment
// variables with sensible defaults; CLI flags apply as Options on top. The
// struct is immutable after New: components receive it at construction and
// nothing is read from the environment afterwards.
//
// Environment Variables:
// - INPUT_DIR: pairing root (default: input)
// - OUTPUT_DIR: clip root (default: gifs)
// - PAIRING_MODE: "same-name" or "subfolder" (default: same-name)
// - FPS: clip frame rate (default: 15)
// - WIDTH: clip width in pixels (default: 800)
// - FONTSIZE: overlay font size (default: 24)
// - OUTLINE: overlay outline in pixels (default: 2)
// - SKIP_ENABLED: enable the skip filter (default: true)
// - MAX_WORKERS: parallel transcoder invocations (default: host core count)
// - METADATA_INCLUDE_SKIPPED: record filtered-out entries (default: true)
// - HISTORY_DB: SQLite ledger path (default: <OUTPUT_DIR>/history.db)
// - CRON_EXPR: rerun schedule; empty means run once and exit
type Config struct {
	InputDir   string       `json:"input_dir"`
	OutputDir  string       `json:"output_dir"`
	Mode       library.Mode `json:"pairing_mode"`
	ClipFormat string       `json:"clip_format"`

	Render RenderConfig `json:"render"`

	SkipEnabled            bool   `json:"skip_enabled"`
	MaxWorkers             int    `json:"max_workers"`
	MetadataIncludeSkipped bool   `json:"metadata_include_skipped"`
	HistoryDB              string `json:"history_db"`
	CronExpr               string `json:"cron_expr"`
}

// RenderConfig carries the fixed ffmpeg rendering parameters.
type RenderConfig struct {
	FPS      int `json:"fps"`
	Width    int `json:"width"`
	FontSize int `json:"fontsize"`
	Outline  int `json:"outline"`
}

// Option is a function type for configuring Config
type Option func(*Config)

func WithInputDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.InputDir = dir
		}
	}
}

func WithOutputDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.OutputDir = dir
			c.HistoryDB = filepath.Join(dir, "history.db")
		}
	}
}

func WithMode(mode string) Option {
	return func(c *Config) {
		if mode != "" {
			c.Mode = library.Mode(mode)
		}
	}
}

func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxWorkers = n
		}
	}
}

func WithSkipDisabled(disabled bool) Option {
	return func(c *Config) {
		if disabled {
			c.SkipEnabled = false
		}
	}
}

func WithCronExpr(expr string) Option {
	return func(c *Config) {
		if expr != "" {
			c.CronExpr = expr
		}
	}
}

// NewFromEnv creates a Config from environment variables, then applies opts.
func NewFromEnv(opts ...Option) (*Config, error) {
	outputDir := getEnvString("OUTPUT_DIR", "gifs")

	config := &Config{
		InputDir:   getEnvString("INPUT_DIR", "input"),
		OutputDir:  outputDir,
		Mode:       library.Mode(getEnvString("PAIRING_MODE", string(library.ModeSameName))),
		ClipFormat: "gif",
		Render: RenderConfig{
			FPS:      getEnvInt("FPS", 15),
			Width:    getEnvInt("WIDTH", 800),
			FontSize: getEnvInt("FONTSIZE", 24),
			Outline:  getEnvInt("OUTLINE", 2),
		},
		SkipEnabled:            getEnvBool("SKIP_ENABLED", true),
		MaxWorkers:             getEnvInt("MAX_WORKERS", runtime.NumCPU()),
		MetadataIncludeSkipped: getEnvBool("METADATA_INCLUDE_SKIPPED", true),
		HistoryDB:              getEnvString("HISTORY_DB", filepath.Join(outputDir, "history.db")),
		CronExpr:               getEnvString("CRON_EXPR", ""),
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("PAIRING_MODE must be %q or %q, got %q",
			library.ModeSameName, library.ModeSubfolder, c.Mode)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("FPS must be positive, got %d", c.Render.FPS)
	}
	if c.Render.Width <= 0 {
		return fmt.Errorf("WIDTH must be positive, got %d", c.Render.Width)
	}
	if c.Render.FontSize <= 0 {
		return fmt.Errorf("FONTSIZE must be positive, got %d", c.Render.FontSize)
	}
	if c.Render.Outline < 0 {
		return fmt.Errorf("OUTLINE must not be negative, got %d", c.Render.Outline)
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("MAX_WORKERS must be positive, got %d", c.MaxWorkers)
	}
	if c.CronExpr != "" {
		if _, err := cron.ParseStandard(c.CronExpr); err != nil {
			return fmt.Errorf("invalid CRON_EXPR: %w", err)
		}
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
