package sonify

import (
	"io"
	"sync"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/output"
)

// graph is the oscillator -> gain -> sink chain of one Enabled session.
//
// The output session pulls audio through Read on its own goroutine while
// ticks schedule changes, so both sides share mu.
type graph struct {
	mu       sync.Mutex
	osc      *dsp.Oscillator
	channels int
	closed   bool

	scratch []float32
}

func newGraph(sampleRate float64, channels int, freq float64) *graph {
	return &graph{
		osc:      dsp.NewOscillator(sampleRate, freq),
		channels: channels,
	}
}

// Read renders whole frames as float32 little endian. It returns io.EOF once
// the graph is closed.
func (g *graph) Read(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return 0, io.EOF
	}

	frameBytes := g.channels * 4
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	n := frames * g.channels
	if cap(g.scratch) < n {
		g.scratch = make([]float32, n)
	}
	buf := g.scratch[:n]

	g.osc.Process(buf, g.channels)

	return output.PutFloats(p, buf), nil
}

// blip glides toward t.Frequency and plays one attack/release envelope
// anchored at the graph's current time.
func (g *graph) blip(t dsp.Tone) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	now := g.osc.Now()

	g.osc.Frequency.SetTargetAt(t.Frequency, now, GlideTimeConstant.Seconds())

	gain := g.osc.Gain
	gain.CancelScheduled(now)
	gain.SetValueAt(0, now)
	gain.LinearRampTo(t.Gain, now+AttackTime.Seconds())
	gain.LinearRampTo(0, now+ReleaseTime.Seconds())
}

// close silences the graph and makes further reads return io.EOF.
func (g *graph) close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
}
