package encoder

import (
	"fmt"
	"strings"
)

// Backend names the machinery that produces a Format.
type Backend string

const (
	BackendFFmpeg Backend = "ffmpeg"
	BackendMJPEG  Backend = "mjpeg"
)

// Format is one container/codec pairing an export can produce.
type Format struct {
	MIMEType  string
	Extension string
	Container string // ffmpeg muxer name
	Codec     string // ffmpeg encoder name; empty lets ffmpeg choose
	Backend   Backend
}

var (
	H264MP4     = Format{MIMEType: "video/mp4;codecs=h264", Extension: "mp4", Container: "mp4", Codec: "libx264", Backend: BackendFFmpeg}
	MPEG4MP4    = Format{MIMEType: "video/mp4", Extension: "mp4", Container: "mp4", Codec: "mpeg4", Backend: BackendFFmpeg}
	VP9WebM     = Format{MIMEType: "video/webm;codecs=vp9", Extension: "webm", Container: "webm", Codec: "libvpx-vp9", Backend: BackendFFmpeg}
	VP8WebM     = Format{MIMEType: "video/webm;codecs=vp8", Extension: "webm", Container: "webm", Codec: "libvpx", Backend: BackendFFmpeg}
	GenericWebM = Format{MIMEType: "video/webm", Extension: "webm", Container: "webm", Backend: BackendFFmpeg}
	MotionJPEG  = Format{MIMEType: "video/x-motion-jpeg", Extension: "avi", Container: "avi", Codec: "mjpeg", Backend: BackendMJPEG}
)

// DefaultPreferences is tried in order until one is available.
var DefaultPreferences = []Format{H264MP4, MPEG4MP4, VP9WebM, VP8WebM}

var known = []Format{H264MP4, MPEG4MP4, VP9WebM, VP8WebM, GenericWebM, MotionJPEG}

// ByMIME looks a format up by MIME type. Whitespace and case are ignored.
func ByMIME(mime string) (Format, bool) {
	norm := normalizeMIME(mime)
	for _, f := range known {
		if normalizeMIME(f.MIMEType) == norm {
			return f, true
		}
	}
	return Format{}, false
}

// ParsePreferences resolves an ordered list of MIME types.
func ParsePreferences(mimes []string) ([]Format, error) {
	if len(mimes) == 0 {
		return DefaultPreferences, nil
	}
	out := make([]Format, 0, len(mimes))
	for _, m := range mimes {
		f, ok := ByMIME(m)
		if !ok {
			return nil, fmt.Errorf("encoder: unknown format %q", m)
		}
		out = append(out, f)
	}
	return out, nil
}

func normalizeMIME(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	return strings.ReplaceAll(s, `"`, "")
}
