package kagedevice

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default window settings used for zero fields.
const (
	DefaultTitle  = "birch"
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultTPS    = 60

	DefaultScreenshotDir = "screenshots"
)

// RunConfig describes the window and post-processing pass opened by Run.
type RunConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TPS       int    `yaml:"tps"`
	Resizable bool   `yaml:"resizable"`
	// Effect is Kage fragment source for the post-processing pass. Empty
	// means the identity effect.
	Effect string `yaml:"effect"`
	// EffectFile is read into Effect by LoadRunConfig when Effect is empty.
	EffectFile string `yaml:"effect_file"`
	// Saturation, when set, binds a Saturation ColorMatrix and selects
	// ColorMatrixEffect if no other effect is given.
	Saturation *float32 `yaml:"saturation"`
	// ScreenshotDir is where Host.Screenshot writes PNGs.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// withDefaults fills zero fields and rejects values that cannot describe a
// window.
func (c RunConfig) withDefaults() (RunConfig, error) {
	if c.Width < 0 || c.Height < 0 {
		return c, errors.Errorf("kagedevice: invalid window size %dx%d", c.Width, c.Height)
	}
	if c.TPS < 0 {
		return c, errors.Errorf("kagedevice: invalid tps %d", c.TPS)
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.TPS == 0 {
		c.TPS = DefaultTPS
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = DefaultScreenshotDir
	}
	if c.Saturation != nil && c.Effect == "" && c.EffectFile == "" {
		c.Effect = ColorMatrixEffect
	}
	return c, nil
}

// ParseRunConfig decodes YAML into a RunConfig with defaults applied.
// Unknown keys are rejected.
func ParseRunConfig(data []byte) (RunConfig, error) {
	var cfg RunConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return RunConfig{}, errors.Wrap(err, "kagedevice: parse run config")
	}
	return cfg.withDefaults()
}

// LoadRunConfig reads and parses a YAML file. A relative EffectFile is
// resolved against the working directory.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, errors.Wrap(err, "kagedevice: read run config")
	}
	cfg, err := ParseRunConfig(data)
	if err != nil {
		return RunConfig{}, errors.Wrapf(err, "%s", path)
	}
	if cfg.Effect == "" && cfg.EffectFile != "" {
		src, err := os.ReadFile(cfg.EffectFile)
		if err != nil {
			return RunConfig{}, errors.Wrap(err, "kagedevice: read effect")
		}
		cfg.Effect = string(src)
	}
	return cfg, nil
}
