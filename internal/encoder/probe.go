package encoder

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Prober answers which backends this machine can run.
type Prober interface {
	FFmpegAvailable() bool
	HasEncoder(name string) bool
}

// LocateFFmpeg finds an ffmpeg binary: the configured path first, then
// next to the executable, then PATH, then common install directories.
func LocateFFmpeg(configured string) (string, bool) {
	if configured != "" {
		if p, err := exec.LookPath(configured); err == nil {
			return p, true
		}
		return "", false
	}

	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name = "ffmpeg.exe"
	}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		for _, p := range []string{filepath.Join(dir, name), filepath.Join(dir, "ffmpeg", name)} {
			if isFile(p) {
				return p, true
			}
		}
	}

	if p, err := exec.LookPath(name); err == nil {
		return p, true
	}

	var common []string
	switch runtime.GOOS {
	case "darwin":
		common = []string{"/usr/local/bin/ffmpeg", "/opt/homebrew/bin/ffmpeg", "/opt/local/bin/ffmpeg"}
	case "linux":
		common = []string{"/usr/bin/ffmpeg", "/usr/local/bin/ffmpeg", "/snap/bin/ffmpeg"}
	case "windows":
		common = []string{`C:\ffmpeg\bin\ffmpeg.exe`, `C:\Program Files\ffmpeg\bin\ffmpeg.exe`}
	}
	for _, p := range common {
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

// FFmpegProber asks an ffmpeg binary for its encoder list, once.
type FFmpegProber struct {
	Path    string
	Timeout time.Duration

	once     sync.Once
	encoders map[string]bool
}

// NewFFmpegProber returns a prober for the binary at path. An empty path
// means ffmpeg is unavailable.
func NewFFmpegProber(path string) *FFmpegProber {
	return &FFmpegProber{Path: path, Timeout: 10 * time.Second}
}

func (p *FFmpegProber) FFmpegAvailable() bool {
	return p.Path != ""
}

func (p *FFmpegProber) HasEncoder(name string) bool {
	if p.Path == "" {
		return false
	}
	p.once.Do(p.probe)
	return p.encoders[name]
}

func (p *FFmpegProber) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, p.Path, "-hide_banner", "-encoders").Output()
	if err != nil {
		p.encoders = map[string]bool{}
		return
	}
	p.encoders = ParseEncoders(string(out))
}

// ParseEncoders extracts encoder names from `ffmpeg -encoders` output.
// Entries follow a "------" separator as "<flags> <name> <description>".
func ParseEncoders(out string) map[string]bool {
	encoders := make(map[string]bool)
	listing := false
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "---") {
			listing = true
			continue
		}
		if !listing {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		encoders[fields[1]] = true
	}
	return encoders
}

// Select picks the first preferred format this machine can produce.
// With ffmpeg present but none of the preferred codecs built in, ffmpeg's
// default WebM encoder is used. Without ffmpeg, Motion JPEG is the only
// option and only when allowMJPEG is set.
func Select(prefs []Format, p Prober, allowMJPEG bool) (Format, error) {
	if len(prefs) == 0 {
		prefs = DefaultPreferences
	}
	hasFFmpeg := p != nil && p.FFmpegAvailable()
	for _, f := range prefs {
		switch f.Backend {
		case BackendFFmpeg:
			if hasFFmpeg && (f.Codec == "" || p.HasEncoder(f.Codec)) {
				return f, nil
			}
		case BackendMJPEG:
			if allowMJPEG {
				return f, nil
			}
		}
	}
	if hasFFmpeg {
		return GenericWebM, nil
	}
	if allowMJPEG {
		return MotionJPEG, nil
	}
	return Format{}, ErrUnsupportedFormat
}
