package quote

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/util"
)

// Poller defaults
const (
	DefaultInterval   = 15 * time.Second
	DefaultWindowSize = 32
)

// Ticker sonifies one live price. prev is nil for the first price seen.
type Ticker interface {
	Tick(value float64, prev *float64) (dsp.Tone, bool)
}

type PollerConfig struct {
	Client     *Client         // quote source
	Interval   time.Duration   // time between refreshes
	Symbol     string          // selected symbol key
	WindowSize int             // live prices kept for volatility
	Sonifier   Ticker          // fed the selected symbol, may be nil
	OnUpdate   func([]Summary) // called after every successful refresh
	OnError    func(error)     // called when a refresh fails
}

// Poller refreshes every tracked symbol on an interval and sonifies the
// selected one.
type Poller struct {
	mu sync.Mutex

	client   *Client
	interval time.Duration
	sonifier Ticker
	onUpdate func([]Summary)
	onError  func(error)

	selected string
	last     map[string]float64
	window   *util.MovingWindow

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}

	if cfg.Symbol == "" {
		cfg.Symbol = Symbols[0].Key
	}

	if cfg.Client == nil {
		cfg.Client = NewClient("", "")
	}

	return &Poller{
		client:   cfg.Client,
		interval: cfg.Interval,
		sonifier: cfg.Sonifier,
		onUpdate: cfg.OnUpdate,
		onError:  cfg.OnError,
		selected: cfg.Symbol,
		last:     make(map[string]float64),
		window:   util.NewMovingWindow(cfg.WindowSize),
	}
}

// Start refreshes once right away and then every interval until Stop or ctx
// ends. Starting a started Poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			p.Poll(ctx)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts polling and waits for a refresh in flight to end.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

// Poll refreshes every symbol once, one request at a time. Symbols with a
// non-finite price are left out. The first failed request ends the refresh.
func (p *Poller) Poll(ctx context.Context) ([]Summary, error) {
	if !p.client.HasKey() {
		p.report(ErrMissingKey)
		return nil, ErrMissingKey
	}

	summaries := make([]Summary, 0, len(Symbols))

	for _, sym := range Symbols {
		q, err := p.client.Quote(ctx, sym.Finnhub)
		if err != nil {
			if ctx.Err() == nil {
				p.report(err)
			}
			return nil, err
		}

		if !finite(q.Current) || !finite(q.PrevClose) {
			continue
		}

		summaries = append(summaries, Summarize(sym, q.Current, q.PrevClose))
		p.observe(sym.Key, q.Current)
	}

	if p.onUpdate != nil {
		p.onUpdate(summaries)
	}

	return summaries, nil
}

func (p *Poller) observe(key string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	last, seen := p.last[key]
	p.last[key] = price

	if key != p.selected {
		return
	}

	p.window.Update(price)

	if p.sonifier == nil {
		return
	}

	var prev *float64
	if seen {
		prev = &last
	}

	p.sonifier.Tick(price, prev)
}

func (p *Poller) report(err error) {
	if p.onError != nil {
		p.onError(err)
	}
}

// Select switches the sonified symbol. The live window starts over.
func (p *Poller) Select(key string) error {
	sym, err := FindSymbol(key)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selected != sym.Key {
		p.selected = sym.Key
		p.window.Reset()
	}

	return nil
}

// Selected returns the sonified symbol key.
func (p *Poller) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Last returns the last price seen for key.
func (p *Poller) Last(key string) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, ok := p.last[key]
	return v, ok
}

// Volatility is the std dev of returns over the selected symbol's recent
// live prices.
func (p *Poller) Volatility() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window.Volatility()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
