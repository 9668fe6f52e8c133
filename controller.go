package pitchline

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/graphic"
	"github.com/noriah/pitchline/player"
	"github.com/noriah/pitchline/quote"
	"github.com/noriah/pitchline/series"
	"github.com/noriah/pitchline/sonify"
)

// controller turns key presses into player and sonifier calls and keeps the
// output informed. It sits between the tick sources and the sonifier to
// remember the last tone.
type controller struct {
	mu sync.Mutex

	ctx      context.Context
	out      Output
	player   *player.Player
	sonifier *sonify.Sonifier
	poller   *quote.Poller
	client   *quote.Client
	rng      *rand.Rand

	tone    dsp.Tone
	hasTone bool
	live    string
	watch   string
}

var _ graphic.Actions = (*controller)(nil)

func (ctrl *controller) setContext(ctx context.Context) {
	ctrl.mu.Lock()
	ctrl.ctx = ctx
	ctrl.mu.Unlock()
}

func (ctrl *controller) runContext() context.Context {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.ctx
}

// Tick sonifies one value for the player or the live feed.
func (ctrl *controller) Tick(value float64, prev *float64) (dsp.Tone, bool) {
	tone, ok := ctrl.sonifier.Tick(value, prev)
	if ok {
		ctrl.mu.Lock()
		ctrl.tone, ctrl.hasTone = tone, true
		ctrl.mu.Unlock()
	}

	ctrl.pushInfo()

	return tone, ok
}

func (ctrl *controller) pushInfo() {
	ctrl.mu.Lock()
	info := graphic.Info{
		Tone:    ctrl.tone,
		HasTone: ctrl.hasTone,
		Live:    ctrl.live,
		Watch:   ctrl.watch,
	}
	ctrl.mu.Unlock()

	if ctrl.player != nil {
		info.Playing = ctrl.player.Playing()
	}

	info.Sound = ctrl.sonifier.State().String()
	info.Mode = ctrl.sonifier.Mode().String()
	info.Volume = ctrl.sonifier.Volume()

	ctrl.out.SetInfo(info)
}

func (ctrl *controller) TogglePlay() {
	if ctrl.player.Toggle(ctrl.runContext()) {
		ctrl.out.SetStatus("playing")
	} else if ctrl.player.Series().Empty() {
		ctrl.out.SetStatus("nothing to play")
	} else {
		ctrl.out.SetStatus("paused")
	}

	ctrl.pushInfo()
}

func (ctrl *controller) Next() { ctrl.player.Next() }
func (ctrl *controller) Prev() { ctrl.player.Prev() }
func (ctrl *controller) Home() { ctrl.player.Home() }
func (ctrl *controller) End()  { ctrl.player.End() }

// ToggleSound disables sound when enabled and enables it otherwise. Enabling
// runs in the background, the result lands in the status line.
func (ctrl *controller) ToggleSound() {
	if ctrl.sonifier.Enabled() {
		ctrl.sonifier.Disable()
		ctrl.out.SetStatus("sound off")
		ctrl.pushInfo()
		return
	}

	ctrl.out.SetStatus("enabling sound...")

	ctx := ctrl.runContext()
	go func() {
		if err := ctrl.sonifier.Enable(ctx); err != nil {
			ctrl.out.SetStatus("%v", err)
		} else if ctrl.sonifier.Enabled() {
			ctrl.out.SetStatus("sound on")
		}

		ctrl.pushInfo()
	}()
}

func (ctrl *controller) ToggleMode() {
	mode := dsp.ModeDelta
	if ctrl.sonifier.Mode() == dsp.ModeDelta {
		mode = dsp.ModePrice
	}

	ctrl.sonifier.SetMode(mode)
	ctrl.out.SetStatus("mapping %s", mode)
	ctrl.pushInfo()
}

func (ctrl *controller) Volume(delta float64) {
	ctrl.sonifier.SetVolume(ctrl.sonifier.Volume() + delta)
	ctrl.pushInfo()
}

// LoadDemo replaces the series with demo dataset n and follows the same
// symbol on the live feed.
func (ctrl *controller) LoadDemo(n int) {
	keys := series.DemoKeys()
	if n < 0 || n >= len(keys) {
		return
	}

	ctrl.mu.Lock()
	s, err := series.Demo(keys[n], ctrl.rng)
	ctrl.mu.Unlock()

	if err != nil {
		ctrl.out.SetStatus("%v", err)
		return
	}

	ctrl.player.Load(s)

	if ctrl.poller != nil {
		ctrl.poller.Select(keys[n])
	}

	ctrl.out.SetStatus("loaded %s", s.Name)
	ctrl.pushInfo()
}

// liveUpdate shows the selected symbol's latest quote.
func (ctrl *controller) liveUpdate(summaries []quote.Summary) {
	selected := ctrl.poller.Selected()

	line := "live: no quote for " + selected
	for _, sum := range summaries {
		if sum.Symbol != selected {
			continue
		}

		sign := ""
		if sum.Up {
			sign = "+"
		}

		line = fmt.Sprintf("live %s %.2f %s (%s%.2f, %s%.2f%%) vol %.3f%%",
			sum.Symbol, sum.Price, sum.Currency, sign, sum.Delta, sign, sum.Percent,
			ctrl.poller.Volatility()*100)
	}

	ctrl.mu.Lock()
	ctrl.live = line
	ctrl.watch = watchlist(summaries)
	ctrl.mu.Unlock()

	ctrl.pushInfo()
}

// watchlist is one compact entry per tracked symbol, largest move first.
func watchlist(summaries []quote.Summary) string {
	sorted := append([]quote.Summary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Percent) > math.Abs(sorted[j].Percent)
	})

	entries := make([]string, len(sorted))
	for i, sum := range sorted {
		entries[i] = fmt.Sprintf("%s %.2f %+.2f%%", sum.Symbol, sum.Price, sum.Percent)
	}

	return strings.Join(entries, "  ")
}
