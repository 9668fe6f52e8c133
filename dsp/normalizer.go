package dsp

import (
	"math"

	"github.com/pkg/errors"
)

// Mode selects what part of a sample is mapped to pitch.
type Mode int

// Sonification modes
const (
	// ModeDelta maps the change from the previous sample.
	ModeDelta Mode = iota
	// ModePrice maps the raw sample value.
	ModePrice
)

func (m Mode) String() string {
	switch m {
	case ModePrice:
		return "price"
	case ModeDelta:
		return "delta"
	default:
		return "unknown"
	}
}

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "price":
		return ModePrice, nil
	case "delta":
		return ModeDelta, nil
	default:
		return ModeDelta, errors.Errorf("unknown mode %q (price, delta)", s)
	}
}

// Input returns the scalar fed to a Normalizer for value. In delta mode a
// missing previous value counts as no change.
func (m Mode) Input(value, prev float64, hasPrev bool) float64 {
	if m != ModeDelta {
		return value
	}

	if !hasPrev {
		return 0
	}

	return value - prev
}

// Normalizer keeps a running window over every value it has seen and
// positions new values within it.
//
// The window only ever widens. A zero-width window (a single point or a flat
// run) is treated as having a range of 1, so the position there is 0.
type Normalizer struct {
	min float64
	max float64
}

// NewNormalizer returns an empty Normalizer.
func NewNormalizer() *Normalizer {
	n := &Normalizer{}
	n.Reset()
	return n
}

// Reset empties the window.
func (n *Normalizer) Reset() {
	n.min = math.Inf(1)
	n.max = math.Inf(-1)
}

// Empty reports whether nothing has been observed since the last reset.
func (n *Normalizer) Empty() bool {
	return n.min > n.max
}

// Window returns the current bounds. On an empty Normalizer they are +Inf
// and -Inf.
func (n *Normalizer) Window() (float64, float64) {
	return n.min, n.max
}

// Observe widens the window to include x and returns x's position in [0, 1].
func (n *Normalizer) Observe(x float64) float64 {
	n.min = math.Min(n.min, x)
	n.max = math.Max(n.max, x)

	rng := n.max - n.min
	if rng <= 0 {
		rng = 1
	}

	return (x - n.min) / rng
}
