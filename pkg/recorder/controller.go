package recorder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
)

type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateReview    State = "review"
)

// Microphone opens a raw capture stream. Closing the stream stops capture.
type Microphone interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// tickerFactory lets tests drive the duration clock by hand.
type tickerFactory func() (<-chan time.Time, func())

// Controller is the voice recording state machine: idle -> recording ->
// review, then back to idle via cancel or send. The duration counter runs
// once per second and only while recording; in review it stays frozen at
// the captured length.
type Controller struct {
	mic      Microphone
	newTimer tickerFactory

	mu       sync.Mutex
	state    State
	starting bool
	duration int
	capture  io.ReadCloser
	stopTick func()
	done     chan struct{}
	captured int64
}

type Option func(*Controller)

// WithTicker replaces the wall clock driving the duration counter.
func WithTicker(f tickerFactory) Option {
	return func(c *Controller) { c.newTimer = f }
}

func NewController(mic Microphone, opts ...Option) *Controller {
	c := &Controller{
		mic:   mic,
		state: StateIdle,
		newTimer: func() (<-chan time.Time, func()) {
			t := time.NewTicker(time.Second)
			return t.C, t.Stop
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Duration is the recorded length in whole seconds.
func (c *Controller) Duration() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.duration
}

// Start opens the microphone and begins counting. Anywhere but idle it is a
// no-op. A capture device failure leaves the controller idle.
//
// The starting flag closes the gap while the mutex is released for the device
// open: a second Start arriving mid-open is a no-op, so only one capture can
// ever be live.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle || c.starting {
		c.mu.Unlock()
		return nil
	}
	c.starting = true
	c.mu.Unlock()

	capture, err := c.mic.Open(ctx)

	c.mu.Lock()
	c.starting = false
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", domain.ErrNoMicAccess, err)
	}

	tick, stopTick := c.newTimer()
	done := make(chan struct{})

	c.state = StateRecording
	c.duration = 0
	c.captured = 0
	c.capture = capture
	c.stopTick = stopTick
	c.done = done
	c.mu.Unlock()

	go c.drain(ctx, capture)
	go c.count(tick, done)

	slog.InfoContext(ctx, "Recording started")
	return nil
}

// Stop freezes the recording for review.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		return domain.ErrRecorderState
	}
	c.closeCaptureLocked()
	c.state = StateReview

	slog.Info("Recording stopped", "seconds", c.duration, "bytes", c.captured)
	return nil
}

// Cancel discards the reviewed recording.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReview {
		return domain.ErrRecorderState
	}
	c.resetLocked()
	return nil
}

// Send releases the reviewed recording as a chat message body and resets the
// controller. The caller pushes the returned text through the chat pipeline.
func (c *Controller) Send() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReview {
		return "", domain.ErrRecorderState
	}
	c.resetLocked()
	return domain.VoicePlaceholder, nil
}

func (c *Controller) drain(ctx context.Context, capture io.ReadCloser) {
	n, err := io.Copy(io.Discard, capture)
	if err != nil {
		slog.WarnContext(ctx, "Capture stream ended with error", logger.Err(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.captured += n
}

func (c *Controller) count(tick <-chan time.Time, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-tick:
			c.mu.Lock()
			if c.state == StateRecording {
				c.duration++
			}
			c.mu.Unlock()
		}
	}
}

func (c *Controller) resetLocked() {
	c.closeCaptureLocked()
	c.state = StateIdle
	c.duration = 0
	c.captured = 0
}

func (c *Controller) closeCaptureLocked() {
	if c.capture != nil {
		_ = c.capture.Close()
		c.capture = nil
	}
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}
