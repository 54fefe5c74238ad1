package export

import (
	"context"
	"time"
)

// Result is a finished export.
type Result struct {
	JobID     string
	Video     []byte
	MIMEType  string
	Extension string
	Frames    int
	Duration  time.Duration
	Poster    []byte // WebP of the first frame; nil unless enabled
}

// Job is one export run in flight.
type Job struct {
	ID string

	cancel context.CancelFunc
	done   chan struct{}
	result Result
	err    error
}

// Cancel asks the run to stop after the current frame.
func (j *Job) Cancel() { j.cancel() }

// Done is closed when the run has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the run has finished.
func (j *Job) Wait() (Result, error) {
	<-j.done
	return j.result, j.err
}
