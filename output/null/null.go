// Package null provides a backend that pulls audio at real-time pace and
// throws it away. It is used for headless runs.
package null

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noriah/pitchline/output"
	"github.com/pkg/errors"
)

func init() {
	output.Register("null", 10, Backend{})
}

// Period is how often a session pulls a chunk of audio.
const Period = 10 * time.Millisecond

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Devices() ([]output.Device, error) {
	return []output.Device{Device{}}, nil
}

func (b Backend) DefaultDevice() (output.Device, error) {
	return Device{}, nil
}

func (b Backend) Start(cfg output.SessionConfig) (output.Session, error) {
	return NewSession(cfg), nil
}

type Device struct{}

func (d Device) String() string {
	return "null"
}

// Session discards everything it reads.
type Session struct {
	cfg    output.SessionConfig
	frames atomic.Int64

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewSession(cfg output.SessionConfig) *Session {
	return &Session{cfg: cfg}
}

// Frames returns how many frames have been pulled so far.
func (s *Session) Frames() int64 {
	return s.frames.Load()
}

func (s *Session) Start(ctx context.Context, src io.Reader) error {
	if s.cfg.ChannelCount < 1 || s.cfg.SampleRate <= 0 {
		return errors.New("invalid session config")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	frames := int(s.cfg.SampleRate * Period.Seconds())
	if frames < 1 {
		frames = 1
	}

	buf := make([]byte, frames*s.cfg.FrameBytes())

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(Period)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
			}

			n, err := io.ReadFull(src, buf)
			s.frames.Add(int64(n / s.cfg.FrameBytes()))

			if err != nil {
				return
			}
		}
	}()

	return nil
}

func (s *Session) Close() error {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}

		s.cancel()
		<-s.done
	})

	return nil
}
