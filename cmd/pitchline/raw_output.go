package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/noriah/pitchline"
	"github.com/noriah/pitchline/graphic"
	"github.com/noriah/pitchline/series"
)

// RawOutput prints one line per render instead of drawing.
type RawOutput struct {
	mu   sync.Mutex
	w    io.Writer
	info graphic.Info
}

var _ pitchline.Output = &RawOutput{}

func NewRawOutput(w io.Writer) *RawOutput {
	return &RawOutput{w: w}
}

// Render prints the index, label and value at idx, and the last tone played.
func (d *RawOutput) Render(s series.Series, idx int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.Empty() {
		fmt.Fprintln(d.w, "# no data")
		return
	}

	smp := s.At(idx)
	fmt.Fprintf(d.w, "%d\t%s\t%.2f", idx, smp.Label, smp.Value)

	if d.info.HasTone {
		fmt.Fprintf(d.w, "\t%.2f Hz\t%.4f\t%s",
			d.info.Tone.Frequency, d.info.Tone.Gain, d.info.Tone.Direction)
	}

	fmt.Fprintln(d.w)
}

func (d *RawOutput) SetInfo(info graphic.Info) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.info = info
}

// SetStatus prints status lines as comments.
func (d *RawOutput) SetStatus(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.w, "# "+format+"\n", args...)
}
