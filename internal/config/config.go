// Package config handles baker configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/meshbake/pkg/bake"
	"github.com/Faultbox/meshbake/pkg/formats"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all baker settings.
type Config struct {
	Bake    BakeConfig    `yaml:"bake"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// BakeConfig holds texture baking settings.
type BakeConfig struct {
	Resolution  int    `yaml:"resolution"`   // Texture side length in texels
	Workers     int    `yaml:"workers"`      // Parallel row bands, 0 = one per CPU
	FillPasses  int    `yaml:"fill_passes"`  // Hole-fill dilation passes
	FillDivisor string `yaml:"fill_divisor"` // "fixed" (divide by 9) or "covered"
}

// ExportConfig holds output settings.
type ExportConfig struct {
	OutDir      string `yaml:"out_dir"`
	Name        string `yaml:"name"`         // Base name shared by the exported files
	ImageFormat string `yaml:"image_format"` // png, bmp, tiff or tga
	GLB         bool   `yaml:"glb"`          // Also write a binary glTF
	Verify      bool   `yaml:"verify"`       // Decode the written texture and compare it to the bake
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Bake: BakeConfig{
			Resolution:  bake.DefaultResolution,
			Workers:     0,
			FillPasses:  bake.DefaultFillPasses,
			FillDivisor: bake.DivisorFixed.String(),
		},
		Export: ExportConfig{
			OutDir:      "outputs",
			Name:        "asset",
			ImageFormat: string(formats.ImagePNG),
			GLB:         false,
			Verify:      false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var err error
	if c.Bake.Resolution <= 0 || c.Bake.Resolution > bake.MaxResolution {
		err = multierr.Append(err, fmt.Errorf("%w: bake.resolution must be in 1..%d, got %d",
			ErrInvalidConfig, bake.MaxResolution, c.Bake.Resolution))
	}
	if c.Bake.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: bake.workers must not be negative, got %d", ErrInvalidConfig, c.Bake.Workers))
	}
	if c.Bake.FillPasses < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: bake.fill_passes must not be negative, got %d", ErrInvalidConfig, c.Bake.FillPasses))
	}
	if _, perr := bake.ParseDivisor(c.Bake.FillDivisor); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: bake.fill_divisor: %v", ErrInvalidConfig, perr))
	}
	if _, perr := formats.ParseImageFormat(c.Export.ImageFormat); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: export.image_format: %v", ErrInvalidConfig, perr))
	}
	if c.Export.OutDir == "" {
		err = multierr.Append(err, fmt.Errorf("%w: export.out_dir is empty", ErrInvalidConfig))
	}
	return err
}

// BakeOptions converts the bake section into bake.Options.
// Call Validate first; an unknown divisor falls back to fixed.
func (c *Config) BakeOptions() bake.Options {
	div, _ := bake.ParseDivisor(c.Bake.FillDivisor)
	return bake.Options{
		Resolution: c.Bake.Resolution,
		Workers:    c.Bake.Workers,
		FillPasses: c.Bake.FillPasses,
		Divisor:    div,
	}
}
