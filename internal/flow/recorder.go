package flow

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const DefaultRestartDelay = 300 * time.Millisecond

var ErrAlreadyRecording = errors.New("recorder is already running")

// Recognizer turns speech (or typed text) into transcript segments. Listen
// blocks until ctx is cancelled or the engine stops on its own.
type Recognizer interface {
	Listen(ctx context.Context, onText func(text string)) error
}

// Recorder supervises a Recognizer for one recording period. When the
// recognizer stops while the period is still open it is restarted after a
// fixed delay; the transcript and the timer carry over.
type Recorder struct {
	recognizer Recognizer
	restart    backoff.BackOff
	now        func() time.Time

	mu       sync.Mutex
	parts    []string
	started  time.Time
	restarts int
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewRecorder(recognizer Recognizer, restartDelay time.Duration) *Recorder {
	if restartDelay <= 0 {
		restartDelay = DefaultRestartDelay
	}
	return &Recorder{
		recognizer: recognizer,
		restart:    backoff.NewConstantBackOff(restartDelay),
		now:        time.Now,
	}
}

func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return ErrAlreadyRecording
	}

	ctx, cancel := context.WithCancel(ctx)
	r.parts = nil
	r.restarts = 0
	r.started = r.now()
	r.cancel = cancel
	r.done = make(chan struct{})
	r.restart.Reset()

	go r.supervise(ctx, r.done)
	return nil
}

// Stop closes the recording period and returns the transcript with its
// wall-clock duration in seconds.
func (r *Recorder) Stop() (string, float64) {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel == nil {
		return "", 0
	}

	stopped := r.now()
	cancel()
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = nil

	return strings.Join(r.parts, " "), stopped.Sub(r.started).Seconds()
}

func (r *Recorder) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.parts, " ")
}

// Restarts counts recognizer restarts in the current or last period.
func (r *Recorder) Restarts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.restarts
}

func (r *Recorder) supervise(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		err := r.recognizer.Listen(ctx, r.appendText)
		if ctx.Err() != nil {
			return
		}

		wait := r.restart.NextBackOff()
		log.Printf("⚠️  Recognizer stopped while recording (%v), restarting in %v\n", err, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		r.mu.Lock()
		r.restarts++
		r.mu.Unlock()
	}
}

func (r *Recorder) appendText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.mu.Lock()
	r.parts = append(r.parts, text)
	r.mu.Unlock()
}
