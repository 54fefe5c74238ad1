package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"collage-video/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvFFmpeg    = "COLLAGE_FFMPEG"
	EnvLogLevel  = "COLLAGE_LOG_LEVEL"
	EnvWorkers   = "COLLAGE_WORKERS"
	EnvOutputDir = "COLLAGE_OUTPUT_DIR"
)

// Defaults applied by Resolve.
const (
	DefaultResolution  = model.Resolution1080p
	DefaultFPS         = 30
	DefaultOutputDir   = "exports"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultJPEGQuality = 90
)

// Config holds export and tool settings.
type Config struct {
	// Output
	Resolution string `yaml:"resolution"`
	FPS        int    `yaml:"fps"`
	OutputDir  string `yaml:"output_dir"`
	Poster     bool   `yaml:"poster"`

	// Encoding
	FFmpegPath  string   `yaml:"ffmpeg_path"`
	Formats     []string `yaml:"formats"` // MIME preference list
	MJPEG       bool     `yaml:"mjpeg_fallback"`
	JPEGQuality int      `yaml:"jpeg_quality"`
	TempDir     string   `yaml:"temp_dir"`

	// Rendering
	Realtime    bool   `yaml:"realtime"`
	Blur        *bool  `yaml:"blur"`
	Workers     int    `yaml:"workers"`
	MaxPhotoDim int    `yaml:"max_photo_dim"`
	LayoutsFile string `yaml:"layouts_file"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads a YAML (or JSON) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Relative paths in the file are relative to the file.
	base := filepath.Dir(path)
	if cfg.LayoutsFile != "" && !filepath.IsAbs(cfg.LayoutsFile) {
		cfg.LayoutsFile = filepath.Join(base, cfg.LayoutsFile)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from the environment. getenv is normally
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvFFmpeg); v != "" {
		c.FFmpegPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Resolution string
	FPS        int
	OutputDir  string
	FFmpeg     string
	Formats    string // comma separated MIME types
	Workers    int
	LogLevel   string
	Realtime   bool
	NoBlur     bool
	Poster     bool
	MJPEG      bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Resolution != "" {
		c.Resolution = flags.Resolution
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.FFmpeg != "" {
		c.FFmpegPath = flags.FFmpeg
	}
	if flags.Formats != "" {
		c.Formats = splitList(flags.Formats)
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Realtime {
		c.Realtime = true
	}
	if flags.NoBlur {
		off := false
		c.Blur = &off
	}
	if flags.Poster {
		c.Poster = true
	}
	if flags.MJPEG {
		c.MJPEG = true
	}

	if c.Resolution == "" {
		c.Resolution = string(DefaultResolution)
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Blur == nil {
		on := true
		c.Blur = &on
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = DefaultJPEGQuality
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

// ExportOptions returns the validated output options.
func (c Config) ExportOptions() (model.ExportOptions, error) {
	res, err := model.ParseResolution(strings.ToLower(strings.TrimSpace(c.Resolution)))
	if err != nil {
		return model.ExportOptions{}, err
	}
	opts := model.ExportOptions{Resolution: res, FPS: c.FPS}
	return opts, opts.Validate()
}

// BlurEnabled reports the resolved blur setting.
func (c Config) BlurEnabled() bool {
	return c.Blur == nil || *c.Blur
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
