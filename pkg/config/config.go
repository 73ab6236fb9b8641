// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
	"github.com/user/timelapse/pkg/timelapse"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSpeed         = errors.New("config: invalid speed")
	ErrInvalidFailurePolicy = errors.New("config: invalid failure policy")
)

// Config represents the full configuration for timelapse.
type Config struct {
	// Tools
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// Batch
	Destination   string `yaml:"destination"`
	Speed         string `yaml:"speed"`
	FailurePolicy string `yaml:"failure_policy"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	DebugDir   string `yaml:"debug_dir"`
	DebugEvery int    `yaml:"debug_every"`

	// Summary is the Markdown report path. Empty disables the report.
	Summary string `yaml:"summary"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Speed:         timelapse.FormatSpeed(timelapse.DefaultSpeed),
		FailurePolicy: pipeline.FailFast.String(),
		LogLevel:      ports.LevelInfo.String(),
		DebugEvery:    1,
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of Defaults.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be clamped.
func (c Config) Validate() error {
	if _, err := timelapse.ParseSpeed(c.Speed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpeed, err)
	}
	if _, ok := pipeline.ParseFailurePolicy(c.FailurePolicy); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFailurePolicy, c.FailurePolicy)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// ToOptions converts Config to timelapse.Options.
func (c Config) ToOptions(logger ports.Logger) (timelapse.Options, error) {
	if err := c.Validate(); err != nil {
		return timelapse.Options{}, err
	}
	speed, _ := timelapse.ParseSpeed(c.Speed)
	policy, _ := pipeline.ParseFailurePolicy(c.FailurePolicy)

	return timelapse.NewOptionsBuilder().
		WithFFmpegPath(c.FFmpegPath).
		WithFFprobePath(c.FFprobePath).
		WithSpeed(speed).
		WithDestinationDir(c.Destination).
		WithFailurePolicy(policy).
		WithDebugDir(c.DebugDir).
		WithDebugEvery(c.DebugEvery).
		WithLogger(logger).
		Build(), nil
}
