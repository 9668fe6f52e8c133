// Package sonify turns price ticks into short pitched blips.
//
// A Sonifier owns one output session and one oscillator for as long as it is
// enabled. Every tick positions the value in a running window, maps it to a
// frequency and peak gain, glides the oscillator toward that frequency and
// plays a short attack/release envelope on its gain.
package sonify

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/output"
	"github.com/pkg/errors"
)

// Envelope timing
const (
	// GlideTimeConstant is how fast the pitch approaches a new target.
	GlideTimeConstant = 20 * time.Millisecond
	// AttackTime is the rise from silence to the peak gain.
	AttackTime = 10 * time.Millisecond
	// ReleaseTime is when the blip is back to silence, from its start.
	ReleaseTime = 120 * time.Millisecond
)

// Defaults
const (
	DefaultBaseFreq     = 220.0
	DefaultSpan         = 700.0
	DefaultVolume       = 0.06
	DefaultSampleRate   = 48000.0
	DefaultChannelCount = 2
)

// State is the lifecycle state of a Sonifier.
type State int

// Sonifier states
const (
	Uninitialized State = iota
	Enabled
	Disabled
)

func (s State) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "uninitialized"
	}
}

// Config sets up a Sonifier.
type Config struct {
	Backend      output.Backend // where the audio goes
	Device       output.Device  // nil picks the backend default
	SampleRate   float64        // rate of the rendered audio
	ChannelCount int            // interleaved channels
	Mode         dsp.Mode       // what is mapped to pitch
	Tone         dsp.ToneConfig // pitch and loudness mapping
}

// NewZeroConfig returns the default configuration, without a backend.
func NewZeroConfig() Config {
	return Config{
		SampleRate:   DefaultSampleRate,
		ChannelCount: DefaultChannelCount,
		Mode:         dsp.ModeDelta,
		Tone: dsp.ToneConfig{
			BaseFreq: DefaultBaseFreq,
			Span:     DefaultSpan,
			Volume:   DefaultVolume,
		},
	}
}

// Sonifier maps ticks to sound. It is safe for concurrent use.
type Sonifier struct {
	mu sync.Mutex

	backend    output.Backend
	device     output.Device
	sampleRate float64
	channels   int

	mode dsp.Mode
	tone dsp.ToneConfig

	state     State
	acquiring bool
	canceled  bool
	before    State // state when the running acquisition began

	norm  *dsp.Normalizer
	graph *graph
	sess  output.Session
}

// New returns an Uninitialized Sonifier.
func New(cfg Config) *Sonifier {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}

	if cfg.ChannelCount < 1 {
		cfg.ChannelCount = DefaultChannelCount
	}

	s := &Sonifier{
		backend:    cfg.Backend,
		device:     cfg.Device,
		sampleRate: cfg.SampleRate,
		channels:   cfg.ChannelCount,
		mode:       cfg.Mode,
		tone:       cfg.Tone,
		norm:       dsp.NewNormalizer(),
	}

	s.tone.Volume = clampVolume(s.tone.Volume)

	return s
}

// Enable acquires the output and starts the oscillator, silent.
//
// Enable blocks until the output is ready to play, which on some platforms
// takes a while. Calling it while enabled, or while another Enable is still
// acquiring, does nothing. On failure the Sonifier is left Uninitialized. A
// Disable issued while acquiring wins and the acquired output is released,
// unless Enable is called again before the acquisition finishes.
func (s *Sonifier) Enable(ctx context.Context) error {
	s.mu.Lock()

	if s.state == Enabled {
		s.mu.Unlock()
		return nil
	}

	if s.acquiring {
		// the running acquisition commits after all
		if s.canceled {
			s.canceled = false
			s.state = s.before
		}
		s.mu.Unlock()
		return nil
	}

	if s.backend == nil {
		s.state = Uninitialized
		s.mu.Unlock()
		return errors.New("no output backend")
	}

	s.acquiring = true
	s.canceled = false
	s.before = s.state

	backend, device := s.backend, s.device
	cfg := output.SessionConfig{
		Device:       device,
		SampleRate:   s.sampleRate,
		ChannelCount: s.channels,
	}
	baseFreq := s.tone.BaseFreq

	s.mu.Unlock()

	g, sess, err := acquire(ctx, backend, cfg, baseFreq)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.acquiring = false

	if err != nil {
		s.state = Uninitialized
		return errors.Wrap(err, "failed to enable sound")
	}

	if s.canceled {
		s.canceled = false
		release(g, sess)
		return nil
	}

	s.graph, s.sess = g, sess
	s.norm.Reset()
	s.state = Enabled

	return nil
}

func acquire(ctx context.Context, backend output.Backend, cfg output.SessionConfig, freq float64) (*graph, output.Session, error) {
	if err := backend.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize output backend")
	}

	if cfg.Device == nil {
		dev, err := backend.DefaultDevice()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to get default device")
		}
		cfg.Device = dev
	}

	sess, err := backend.Start(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open output session")
	}

	g := newGraph(cfg.SampleRate, cfg.ChannelCount, freq)

	if err := sess.Start(ctx, g); err != nil {
		g.close()
		sess.Close()
		return nil, nil, errors.Wrap(err, "failed to start output session")
	}

	return g, sess, nil
}

// release tears down a graph and its session. Close errors are dropped, the
// session may already have stopped on its own.
func release(g *graph, sess output.Session) {
	if g != nil {
		g.close()
	}

	if sess != nil {
		_ = sess.Close()
	}
}

// Disable stops the oscillator and releases the output. It is safe to call at
// any time, any number of times.
func (s *Sonifier) Disable() {
	s.mu.Lock()

	if s.acquiring {
		s.canceled = true
	}

	if s.state != Enabled {
		if s.acquiring {
			s.state = Disabled
		}
		s.mu.Unlock()
		return
	}

	g, sess := s.graph, s.sess
	s.graph, s.sess = nil, nil
	s.state = Disabled

	s.mu.Unlock()

	release(g, sess)
}

// Tick plays value, given the value before it. prev is nil when there is no
// previous value. It returns the tone played and true, or false when nothing
// was played: the Sonifier is not enabled or the values are not finite.
func (s *Sonifier) Tick(value float64, prev *float64) (dsp.Tone, bool) {
	if !finite(value) || (prev != nil && !finite(*prev)) {
		return dsp.Tone{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Enabled || s.graph == nil {
		return dsp.Tone{}, false
	}

	var p float64
	hasPrev := prev != nil
	if hasPrev {
		p = *prev
	}

	pos := s.norm.Observe(s.mode.Input(value, p, hasPrev))
	tone := dsp.MapTone(pos, dsp.IsUp(value, p, hasPrev), s.tone)

	s.graph.blip(tone)

	return tone, true
}

// State returns the lifecycle state.
func (s *Sonifier) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Enabled reports whether ticks currently make sound.
func (s *Sonifier) Enabled() bool {
	return s.State() == Enabled
}

// SetMode changes the mapping mode from the next tick on.
func (s *Sonifier) SetMode(mode dsp.Mode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// Mode returns the mapping mode.
func (s *Sonifier) Mode() dsp.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetVolume sets the peak gain, clamped to [0, 1], from the next tick on.
func (s *Sonifier) SetVolume(v float64) {
	s.mu.Lock()
	s.tone.Volume = clampVolume(v)
	s.mu.Unlock()
}

// Volume returns the peak gain.
func (s *Sonifier) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tone.Volume
}

// SetToneConfig sets the base frequency and span from the next tick on.
func (s *Sonifier) SetToneConfig(baseFreq, span float64) {
	s.mu.Lock()
	s.tone.BaseFreq = baseFreq
	s.tone.Span = span
	s.mu.Unlock()
}

// Window returns the normalization window of the current session.
func (s *Sonifier) Window() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.norm.Window()
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
