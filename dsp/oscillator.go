package dsp

import "math"

// Oscillator is a sine oscillator with automated frequency and gain.
//
// It keeps its own sample clock, so Now is the time of the next frame it will
// render. Scheduling against Now lands changes on the next rendered frame.
type Oscillator struct {
	Frequency *Param
	Gain      *Param

	sampleRate float64
	frame      uint64
	phase      float64
}

// NewOscillator returns a silent oscillator at freq Hz.
func NewOscillator(sampleRate, freq float64) *Oscillator {
	return &Oscillator{
		Frequency:  NewParam(freq),
		Gain:       NewParam(0),
		sampleRate: sampleRate,
	}
}

// SampleRate returns the rate the oscillator renders at.
func (o *Oscillator) SampleRate() float64 {
	return o.sampleRate
}

// Now returns the oscillator clock, in seconds.
func (o *Oscillator) Now() float64 {
	return float64(o.frame) / o.sampleRate
}

// Process renders len(buf)/channels frames of interleaved audio into buf.
func (o *Oscillator) Process(buf []float32, channels int) {
	if channels < 1 {
		channels = 1
	}

	for idx := 0; idx+channels <= len(buf); idx += channels {
		t := o.Now()

		freq := o.Frequency.At(t)
		gain := o.Gain.At(t)

		v := float32(gain * math.Sin(2*math.Pi*o.phase))

		for ch := 0; ch < channels; ch++ {
			buf[idx+ch] = v
		}

		o.phase += freq / o.sampleRate
		o.phase -= math.Floor(o.phase)
		o.frame++
	}
}
