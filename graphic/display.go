// Package graphic draws the series as a line chart on the terminal and turns
// key presses into player actions.
package graphic

import (
	"context"
	"fmt"
	"sync"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/series"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
)

const (
	// PointRune marks a sample on the line
	PointRune = '•'
	// MarkerPointRune marks the sample at the current index
	MarkerPointRune = '●'
	// LineRune joins two samples
	LineRune = '│'
	// GridRune is the dotted grid line
	GridRune = '·'

	// ChartPad is the number of empty rows above and below the line
	ChartPad = 1

	// VolumeStep is how much one volume key press moves the volume
	VolumeStep = 0.01
)

// Info is the playback and sound state shown next to the series.
type Info struct {
	Playing bool
	Sound   string // sound state
	Mode    string // mapping mode
	Volume  float64
	Tone    dsp.Tone // last tone played
	HasTone bool
	Live    string // live quote line, if any
	Watch   string // every tracked symbol, if live
}

// Display draws on the termbox screen. It is safe for concurrent use.
type Display struct {
	mu sync.Mutex

	styles Styles

	series  series.Series
	index   int
	signals series.Signals

	info   Info
	status string

	running bool
	restore func()
}

// Init sets up the terminal.
func (d *Display) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}

	restore, err := normalizeTerminal()
	if err != nil {
		return errors.Wrap(err, "failed to normalize terminal")
	}

	if err := termbox.Init(); err != nil {
		restore()
		return errors.Wrap(err, "failed to init termbox")
	}

	termbox.SetInputMode(termbox.InputEsc)
	termbox.SetOutputMode(termbox.Output256)
	termbox.HideCursor()

	if d.styles == (Styles{}) {
		d.styles = DefaultStyles()
	}

	d.restore = restore
	d.running = true

	d.draw()

	return nil
}

// Close gives the terminal back.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.running = false
	termbox.Close()
	d.restore()

	return nil
}

// Start polls key presses into actions until a quit key, or until ctx ends.
// The returned context is canceled on quit.
func (d *Display) Start(ctx context.Context, actions Actions) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go eventPoller(dispCtx, dispCancel, d, actions)
	return dispCtx
}

// Stop wakes the event poller so it can see its context ended.
func (d *Display) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		termbox.Interrupt()
	}

	return nil
}

func eventPoller(ctx context.Context, fn context.CancelFunc, d *Display, actions Actions) {
	defer fn()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			if !dispatch(ev, actions) {
				return
			}

		case termbox.EventResize:
			d.Redraw()

		case termbox.EventError:
			return

		default:
		}
	}
}

// SetStyles sets the chart colors.
func (d *Display) SetStyles(sts Styles) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.styles = sts
	d.draw()
}

// Render draws s with idx as the current index.
func (d *Display) Render(s series.Series, idx int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.Name != d.series.Name || s.Len() != d.series.Len() {
		d.signals = series.Stats(s)
	}

	d.series = s
	d.index = idx
	d.draw()
}

// SetInfo updates the header.
func (d *Display) SetInfo(info Info) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.info = info
	d.draw()
}

// SetStatus updates the footer line.
func (d *Display) SetStatus(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.status = fmt.Sprintf(format, args...)
	d.draw()
}

// Redraw draws everything again.
func (d *Display) Redraw() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.draw()
}

func (d *Display) draw() {
	if !d.running {
		return
	}

	sts := d.styles
	termbox.Clear(sts.Foreground, sts.Background)

	width, height := termbox.Size()

	d.drawHeader(width)
	d.drawSignals(width)

	if chartHeight := height - 3; chartHeight > 2 {
		d.drawChart(2, width, chartHeight)
	}

	printAt(0, height-1, width, d.status, sts.Foreground, sts.Background)

	termbox.Flush()
}

func (d *Display) drawHeader(width int) {
	sts := d.styles

	left := "no data"
	if !d.series.Empty() {
		smp := d.series.At(d.index)
		left = fmt.Sprintf("%s  %d/%d  %s  %.2f",
			d.series.Name, d.index+1, d.series.Len(), smp.Label, smp.Value)
	}

	state := "paused"
	if d.info.Playing {
		state = "playing"
	}

	right := fmt.Sprintf("%s  sound %s  mode %s  vol %.2f",
		state, d.info.Sound, d.info.Mode, d.info.Volume)

	if d.info.HasTone {
		right += fmt.Sprintf("  %.0f Hz %s", d.info.Tone.Frequency, d.info.Tone.Direction)
	}

	x := printAt(0, 0, width, left, sts.Foreground|termbox.AttrBold, sts.Background)

	if start := width - len([]rune(right)); start > x+1 {
		printAt(start, 0, width, right, sts.Foreground, sts.Background)
	}
}

func (d *Display) drawSignals(width int) {
	if d.series.Empty() {
		return
	}

	sts := d.styles
	sig := d.signals

	color := sts.Down
	if sig.Up() {
		color = sts.Up
	}

	line := fmt.Sprintf("trend %+.4f/step  volatility %.2f%%  momentum %+.2f%%",
		sig.Trend, sig.Volatility*100, sig.Momentum)

	x := printAt(0, 1, width, line, color, sts.Background)

	if d.info.Live != "" {
		x = printAt(x+2, 1, width, d.info.Live, sts.Foreground, sts.Background)
	}

	if d.info.Watch != "" {
		printAt(x+2, 1, width, "| "+d.info.Watch, sts.Grid, sts.Background)
	}
}

func (d *Display) drawChart(top, width, height int) {
	sts := d.styles

	for q := 1; q < 4; q++ {
		y := top + q*(height-1)/4
		for x := 0; x < width; x++ {
			termbox.SetCell(x, y, GridRune, sts.Grid, sts.Background)
		}
	}

	if d.series.Empty() {
		return
	}

	rows := Plot(d.series.Values(), width, height, ChartPad)
	marker := ColumnOf(d.index, width, d.series.Len())

	color := sts.Down
	if d.signals.Up() {
		color = sts.Up
	}

	for y := 0; y < height; y++ {
		termbox.SetCell(marker, top+y, LineRune, sts.Marker, sts.Background)
	}

	for x, row := range rows {
		if x > 0 {
			from, to := rows[x-1], row
			if from > to {
				from, to = to, from
			}

			for y := from + 1; y < to; y++ {
				termbox.SetCell(x, top+y, LineRune, color, sts.Background)
			}
		}

		termbox.SetCell(x, top+row, PointRune, color, sts.Background)
	}

	termbox.SetCell(marker, top+rows[marker], MarkerPointRune, sts.Marker, sts.Background)
}
