package main

import (
	"bytes"
	"testing"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/graphic"
	"github.com/noriah/pitchline/series"
	"github.com/stretchr/testify/assert"
)

func TestRawOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewRawOutput(&buf)

	s := series.New("x", []series.Sample{
		{Label: "2024-08-01", Value: 10},
		{Label: "2024-08-02", Value: 12.5},
	})

	out.Render(s, 0)
	out.SetInfo(graphic.Info{
		HasTone: true,
		Tone:    dsp.Tone{Frequency: 920, Gain: 0.051, Direction: dsp.Down},
	})
	out.Render(s, 1)
	out.SetStatus("sound %s", "on")
	out.Render(series.Series{}, 0)

	assert.Equal(t, "0\t2024-08-01\t10.00\n"+
		"1\t2024-08-02\t12.50\t920.00 Hz\t0.0510\tdown\n"+
		"# sound on\n"+
		"# no data\n", buf.String())
}
