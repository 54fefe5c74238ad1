package encoder

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnsupportedFormat means no preferred format can be produced here.
var ErrUnsupportedFormat = errors.New("encoder: no supported video format")

// EncoderError is a failure inside an encoder backend.
type EncoderError struct {
	Op     string
	Format string
	Err    error
	Stderr string // last lines ffmpeg printed, if any
}

func (e *EncoderError) Error() string {
	msg := fmt.Sprintf("encoder: %s (%s): %v", e.Op, e.Format, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *EncoderError) Unwrap() error { return e.Err }

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
