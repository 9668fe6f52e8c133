// Package oto plays audio through the platform mixer using ebitengine/oto.
package oto

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/noriah/pitchline/output"
	"github.com/pkg/errors"
)

func init() {
	output.Register("oto", 0, &Backend{})
}

// BufferDuration is the mixer buffer asked of the platform.
const BufferDuration = 40 * time.Millisecond

// oto allows a single context per process, so every session shares it.
type Backend struct {
	mu      sync.Mutex
	ctx     *oto.Context
	ready   chan struct{}
	rate    int
	chCount int
}

func (b *Backend) Init() error {
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx == nil {
		return nil
	}

	return b.ctx.Suspend()
}

func (b *Backend) Devices() ([]output.Device, error) {
	return []output.Device{Device{}}, nil
}

func (b *Backend) DefaultDevice() (output.Device, error) {
	return Device{}, nil
}

func (b *Backend) Start(cfg output.SessionConfig) (output.Session, error) {
	if _, ok := cfg.Device.(Device); !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	otoCtx, ready, err := b.context(cfg)
	if err != nil {
		return nil, err
	}

	return &Session{ctx: otoCtx, ready: ready, cfg: cfg}, nil
}

func (b *Backend) context(cfg output.SessionConfig) (*oto.Context, chan struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rate := int(cfg.SampleRate)

	if b.ctx != nil {
		if rate != b.rate || cfg.ChannelCount != b.chCount {
			return nil, nil, errors.Errorf(
				"oto is already running at %d Hz with %d channels", b.rate, b.chCount)
		}

		return b.ctx, b.ready, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: cfg.ChannelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   BufferDuration,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create oto context")
	}

	b.ctx, b.ready = otoCtx, ready
	b.rate, b.chCount = rate, cfg.ChannelCount

	return b.ctx, b.ready, nil
}

// Device is the platform default output. oto does not pick devices.
type Device struct{}

func (d Device) String() string {
	return "default"
}

// Session is one oto player.
type Session struct {
	ctx    *oto.Context
	ready  chan struct{}
	cfg    output.SessionConfig
	player *oto.Player
	once   sync.Once
}

// Start waits for the device, resumes the context and starts the player.
func (s *Session) Start(ctx context.Context, src io.Reader) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "audio device not ready")
	}

	if err := s.ctx.Resume(); err != nil {
		return errors.Wrap(err, "failed to resume audio")
	}

	s.player = s.ctx.NewPlayer(src)
	perSecond := s.cfg.SampleRate * float64(s.cfg.FrameBytes())
	s.player.SetBufferSize(int(BufferDuration.Seconds() * perSecond))
	s.player.Play()

	return nil
}

// Close stops the player. Only the first call does anything.
func (s *Session) Close() error {
	var err error

	s.once.Do(func() {
		if s.player == nil {
			return
		}

		s.player.Pause()
		err = s.player.Close()
	})

	return err
}
