// Package player walks a series one sample per period, sonifying and
// rendering each step.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/series"
)

// DefaultInterval is the playback period.
const DefaultInterval = 300 * time.Millisecond

// Ticker sonifies one step. prev is nil when the step has no predecessor.
type Ticker interface {
	Tick(value float64, prev *float64) (dsp.Tone, bool)
}

// RenderFunc draws the series with idx as the current index.
type RenderFunc func(s series.Series, idx int)

// Config sets up a Player. Sonifier and Render may be left nil.
type Config struct {
	Interval time.Duration // time between steps
	Sonifier Ticker        // may be nil
	Render   RenderFunc    // may be nil
}

// Player is the playback clock over one series. It is safe for concurrent
// use. Render and Tick are always called without the player lock held, one
// step at a time.
type Player struct {
	mu     sync.Mutex
	tickMu sync.Mutex

	interval time.Duration
	sonifier Ticker
	render   RenderFunc

	series series.Series
	cursor series.Cursor

	playing bool
	gen     uint64
	cancel  context.CancelFunc
}

// New returns a stopped Player with no series loaded.
func New(cfg Config) *Player {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Player{
		interval: cfg.Interval,
		sonifier: cfg.Sonifier,
		render:   cfg.Render,
	}
}

// Load stops playback, replaces the series and moves back to the first
// sample.
func (p *Player) Load(s series.Series) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	p.stop()
	p.series = s
	p.cursor.Reset(s.Len())
	p.mu.Unlock()

	p.draw(s, 0)
}

// Start begins stepping every interval until Stop or until ctx ends. It
// returns false when already playing or when there is nothing to play.
func (p *Player) Start(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.start(ctx)
}

func (p *Player) start(ctx context.Context) bool {
	if p.playing || p.series.Empty() {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)

	p.gen++
	p.playing = true
	p.cancel = cancel

	go p.run(ctx, p.gen)

	return true
}

func (p *Player) run(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.expire(gen)
			return

		case <-ticker.C:
			if _, ok := p.step(gen, true); !ok {
				return
			}
		}
	}
}

// expire marks gen stopped when its context ended from the outside.
func (p *Player) expire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing && p.gen == gen {
		p.stop()
	}
}

// Stop halts playback, keeping the index. Once Stop returns no step of the
// stopped run will happen. It returns false when nothing was playing.
func (p *Player) Stop() bool {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stop()
}

func (p *Player) stop() bool {
	if !p.playing {
		return false
	}

	p.playing = false
	p.gen++

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	return true
}

// Toggle starts playback when stopped and stops it when playing. It returns
// whether the player is now playing.
func (p *Player) Toggle(ctx context.Context) bool {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		p.stop()
		return false
	}

	return p.start(ctx)
}

// Step advances one sample, wrapping at the end, renders and sonifies it.
// Stepping onto the first sample after a wrap has no previous value. It
// returns the new index, or false on an empty series.
func (p *Player) Step() (int, bool) {
	return p.step(0, false)
}

func (p *Player) step(gen uint64, checkGen bool) (int, bool) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()

	if checkGen && (!p.playing || p.gen != gen) {
		p.mu.Unlock()
		return 0, false
	}

	if p.series.Empty() {
		p.mu.Unlock()
		return 0, false
	}

	prevIdx, wrapped := p.cursor.Advance()
	idx := p.cursor.Index()
	s := p.series

	p.mu.Unlock()

	var prev *float64
	if !wrapped {
		v := s.At(prevIdx).Value
		prev = &v
	}

	p.draw(s, idx)

	if p.sonifier != nil {
		p.sonifier.Tick(s.At(idx).Value, prev)
	}

	return idx, true
}

// Seek moves to idx, clamped into the series, and renders. It never makes a
// sound.
func (p *Player) Seek(idx int) int {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	idx = p.cursor.Seek(idx)
	s := p.series
	p.mu.Unlock()

	p.draw(s, idx)

	return idx
}

// Next seeks one sample forward.
func (p *Player) Next() int {
	return p.Seek(p.Index() + 1)
}

// Prev seeks one sample back.
func (p *Player) Prev() int {
	return p.Seek(p.Index() - 1)
}

// Home seeks to the first sample.
func (p *Player) Home() int {
	return p.Seek(0)
}

// End seeks to the last sample.
func (p *Player) End() int {
	return p.Seek(p.Series().Len() - 1)
}

// Playing reports whether the clock is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Index is the current sample index.
func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor.Index()
}

// Series returns the loaded series.
func (p *Player) Series() series.Series {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.series
}

// Current returns the sample at the index, or false on an empty series.
func (p *Player) Current() (series.Sample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.series.Empty() {
		return series.Sample{}, false
	}

	return p.series.At(p.cursor.Index()), true
}

// Redraw renders the current state again.
func (p *Player) Redraw() {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	s, idx := p.series, p.cursor.Index()
	p.mu.Unlock()

	p.draw(s, idx)
}

func (p *Player) draw(s series.Series, idx int) {
	if p.render != nil {
		p.render(s, idx)
	}
}
