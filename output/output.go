// Package output provides the audio sinks a sonifier can stream to.
package output

import (
	"context"
	"encoding/binary"
	"io"
	"math"
)

// Device is a named output device of a backend.
type Device interface {
	String() string
}

// SessionConfig describes the stream a session should open.
type SessionConfig struct {
	Device       Device  // device to play on
	SampleRate   float64 // frames per second
	ChannelCount int     // interleaved channels per frame
}

// FrameBytes returns the size of one float32 frame.
func (cfg SessionConfig) FrameBytes() int {
	return cfg.ChannelCount * 4
}

// Session is one acquired output stream.
type Session interface {
	// Start begins pulling float32 little endian frames from src. It returns
	// once the sink is ready to produce sound, or with an error when it cannot
	// be made ready before ctx ends.
	Start(ctx context.Context, src io.Reader) error
	// Close stops playback and releases the stream. Closing twice is fine.
	Close() error
}

// PutFloats encodes samples as float32 little endian into dst and returns the
// number of bytes written. dst must hold len(samples)*4 bytes.
func PutFloats(dst []byte, samples []float32) int {
	for i, v := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
	return len(samples) * 4
}
