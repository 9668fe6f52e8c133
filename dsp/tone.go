package dsp

import "math"

// DownGainRatio scales the peak gain of a downward move. Falling prices are
// played slightly quieter than rising ones.
const DownGainRatio = 0.85

// Direction is the way a value moved relative to its predecessor.
type Direction int

// Directions
const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// ToneConfig holds the pitch and loudness mapping parameters.
type ToneConfig struct {
	BaseFreq float64 // frequency at position 0, in Hz
	Span     float64 // Hz added at position 1
	Volume   float64 // peak gain of an upward blip, [0, 1]
}

// Tone is what a single tick should sound like.
type Tone struct {
	Frequency float64
	Gain      float64
	Direction Direction
}

// IsUp reports whether value is a move up from prev. Without a previous value
// the move counts as up.
func IsUp(value, prev float64, hasPrev bool) bool {
	return !hasPrev || value >= prev
}

// MapTone turns a normalized position and a direction into a Tone. Positions
// outside [0, 1] are clamped.
func MapTone(position float64, up bool, cfg ToneConfig) Tone {
	if math.IsNaN(position) {
		position = 0
	}

	position = math.Max(0, math.Min(1, position))

	t := Tone{
		Frequency: cfg.BaseFreq + position*cfg.Span,
		Gain:      cfg.Volume,
		Direction: Up,
	}

	if !up {
		t.Gain = cfg.Volume * DownGainRatio
		t.Direction = Down
	}

	return t
}
