package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"collage-video/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collage.yaml")
	doc := `resolution: 4k
fps: 60
formats: [video/webm;codecs=vp9, video/mp4]
mjpeg_fallback: true
blur: false
layouts_file: layouts.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4k", cfg.Resolution)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, []string{"video/webm;codecs=vp9", "video/mp4"}, cfg.Formats)
	assert.True(t, cfg.MJPEG)
	assert.False(t, cfg.BlurEnabled())
	assert.Equal(t, filepath.Join(dir, "layouts.yaml"), cfg.LayoutsFile)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"resolution":"720p","fps":24,"workers":3}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "720p", cfg.Resolution)
	assert.Equal(t, 24, cfg.FPS)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: [1"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	assert.Equal(t, "1080p", cfg.Resolution)
	assert.Equal(t, DefaultFPS, cfg.FPS)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, DefaultJPEGQuality, cfg.JPEGQuality)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.BlurEnabled())
	assert.False(t, cfg.Realtime)
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Resolution: "720p", FPS: 24, OutputDir: "from-file", Workers: 2}
	cfg.Resolve(Flags{
		Resolution: "4k",
		FPS:        60,
		OutputDir:  "from-flag",
		Formats:    " video/mp4 , ,video/webm",
		Workers:    8,
		Realtime:   true,
		NoBlur:     true,
		MJPEG:      true,
	})

	assert.Equal(t, "4k", cfg.Resolution)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, "from-flag", cfg.OutputDir)
	assert.Equal(t, []string{"video/mp4", "video/webm"}, cfg.Formats)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Realtime)
	assert.False(t, cfg.BlurEnabled())
	assert.True(t, cfg.MJPEG)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvFFmpeg:    "/opt/ffmpeg",
		EnvLogLevel:  "debug",
		EnvWorkers:   "5",
		EnvOutputDir: "/tmp/out",
	}
	var cfg Config
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "/opt/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)

	env[EnvWorkers] = "many"
	assert.Error(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COLLAGE_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("COLLAGE_TEST_DOTENV", "")
	os.Unsetenv("COLLAGE_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "from-file", os.Getenv("COLLAGE_TEST_DOTENV"))
}

func TestExportOptions(t *testing.T) {
	cfg := Config{Resolution: " 4K ", FPS: 24}
	opts, err := cfg.ExportOptions()
	require.NoError(t, err)
	assert.Equal(t, model.ExportOptions{Resolution: model.Resolution4K, FPS: 24}, opts)

	_, err = Config{Resolution: "8k", FPS: 30}.ExportOptions()
	assert.ErrorIs(t, err, model.ErrInvalidOptions)

	_, err = Config{Resolution: "720p", FPS: 25}.ExportOptions()
	assert.ErrorIs(t, err, model.ErrInvalidOptions)
}
