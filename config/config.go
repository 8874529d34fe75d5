// Package config gathers the settings of pagesim from .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/pagesim/paging"
	"github.com/sarchlab/pagesim/tracing"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "PAGESIM_"

// DefaultEnvFile is loaded when no env file is given and it exists.
const DefaultEnvFile = ".env"

// Playback speed limits, in milliseconds per step.
const (
	MinSpeedMs = 200
	MaxSpeedMs = 2000
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings of a pagesim invocation.
type Config struct {
	Algorithm  string // Replacement algorithm (fifo, lru, lfu, optimal)
	Frames     int    // Number of memory frames
	References string // Comma-separated reference string

	SpeedMs int // Playback interval per step

	Port        int  // Monitoring server port, 0 picks a random one
	OpenBrowser bool // Open the monitoring page after start

	RecordPath   string // SQLite database name for recorded runs
	ExportFormat string // Trace export format (csv, json)
	Compression  string // Trace export compression (none, snappy, lz4)

	Verbose bool // Log every step
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:    "fifo",
		Frames:       3,
		References:   "1,2,3,4,1,2,5,1,2,3,4,5",
		SpeedMs:      1000,
		ExportFormat: string(tracing.FormatCSV),
		Compression:  string(tracing.CompressionNone),
	}
}

// Load reads the env files into the environment and builds a configuration
// from the defaults and the PAGESIM_* variables. Without env files, the
// default .env file is read if present.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFiles = []string{DefaultEnvFile}
		}
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("loading env files: %w", err)
		}
	}

	c := DefaultConfig()
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}

	return c, nil
}

// ApplyEnv overrides the fields that have a PAGESIM_* variable set.
func (c *Config) ApplyEnv() error {
	lookupString("ALGORITHM", &c.Algorithm)
	lookupString("REFERENCES", &c.References)
	lookupString("RECORD_PATH", &c.RecordPath)
	lookupString("EXPORT_FORMAT", &c.ExportFormat)
	lookupString("COMPRESSION", &c.Compression)

	ints := []struct {
		name string
		dst  *int
	}{
		{"FRAMES", &c.Frames},
		{"SPEED_MS", &c.SpeedMs},
		{"PORT", &c.Port},
	}
	for _, v := range ints {
		if err := lookupInt(v.name, v.dst); err != nil {
			return err
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"OPEN_BROWSER", &c.OpenBrowser},
		{"VERBOSE", &c.Verbose},
	}
	for _, v := range bools {
		if err := lookupBool(v.name, v.dst); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks the configuration and clamps the playback speed into its
// allowed range.
func (c *Config) Validate() error {
	if _, err := paging.StrategyByName(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Frames < 1 {
		return fmt.Errorf("%w: frames must be at least 1, got %d",
			ErrInvalidConfig, c.Frames)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}

	if _, err := tracing.ParseFormat(c.ExportFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if _, err := tracing.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	c.SpeedMs = ClampSpeed(c.SpeedMs)

	return nil
}

// ClampSpeed limits a playback interval to [MinSpeedMs, MaxSpeedMs].
func ClampSpeed(ms int) int {
	if ms < MinSpeedMs {
		return MinSpeedMs
	}

	if ms > MaxSpeedMs {
		return MaxSpeedMs
	}

	return ms
}

func lookupString(name string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = strings.TrimSpace(v)
	}
}

func lookupInt(name string, dst *int) error {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, name, err)
	}

	*dst = n

	return nil
}

func lookupBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, name, err)
	}

	*dst = b

	return nil
}
