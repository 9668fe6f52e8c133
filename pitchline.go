// Package pitchline plays a price series as sound while drawing it, one sample
// per step, optionally sonifying live quotes as they arrive.
package pitchline

import (
	"context"
	"math/rand"
	"time"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/graphic"
	"github.com/noriah/pitchline/output"
	"github.com/noriah/pitchline/player"
	"github.com/noriah/pitchline/quote"
	"github.com/noriah/pitchline/series"
	"github.com/noriah/pitchline/sonify"

	"github.com/pkg/errors"
)

type SetupFunc func() error
type StartFunc func(ctx context.Context, actions graphic.Actions) (context.Context, error)
type CleanupFunc func() error

// Output is where renders and state go.
type Output interface {
	Render(s series.Series, idx int)
	SetInfo(info graphic.Info)
	SetStatus(format string, args ...any)
}

// Run plays until ctx ends, or until the context StartFunc returns ends.
func Run(cfg *Config, ctx context.Context) error {
	if cfg.Output == nil {
		return errors.New("no output")
	}

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(); err != nil {
			return err
		}
	}

	if cfg.CleanupFunc != nil {
		defer cfg.CleanupFunc()
	}

	backend, err := output.Open(cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	device, err := output.FindDevice(backend, cfg.Device)
	if err != nil {
		return err
	}

	mode, err := dsp.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	sonifier := sonify.New(sonify.Config{
		Backend:      backend,
		Device:       device,
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.ChannelCount,
		Mode:         mode,
		Tone: dsp.ToneConfig{
			BaseFreq: cfg.BaseFreq,
			Span:     cfg.Span,
			Volume:   cfg.Volume,
		},
	})
	defer sonifier.Disable()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctrl := &controller{
		out:      cfg.Output,
		sonifier: sonifier,
		rng:      rand.New(rand.NewSource(seed)),
		client:   quote.NewClient(cfg.FinnhubURL, cfg.FinnhubKey),
	}

	ctrl.player = player.New(player.Config{
		Interval: cfg.Interval,
		Sonifier: ctrl,
		Render:   cfg.Output.Render,
	})
	defer ctrl.player.Stop()

	s, err := ctrl.initialSeries(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Live {
		ctrl.poller = quote.NewPoller(quote.PollerConfig{
			Client:   ctrl.client,
			Interval: cfg.PollInterval,
			Symbol:   cfg.Symbol,
			Sonifier: ctrl,
			OnUpdate: ctrl.liveUpdate,
			OnError: func(err error) {
				ctrl.out.SetStatus("quote error: %v", err)
			},
		})
	}

	ctrl.setContext(ctx)

	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx, ctrl); err != nil {
			return err
		}
	}

	ctrl.setContext(ctx)
	ctrl.player.Load(s)
	ctrl.pushInfo()

	if ctrl.poller != nil {
		ctrl.poller.Start(ctx)
		defer ctrl.poller.Stop()
	}

	if cfg.Sound {
		ctrl.ToggleSound()
	}

	if cfg.Autoplay {
		ctrl.player.Start(ctx)
		ctrl.pushInfo()
	}

	<-ctx.Done()

	return nil
}

func (ctrl *controller) initialSeries(ctx context.Context, cfg *Config) (series.Series, error) {
	switch {
	case cfg.File != "":
		s, err := series.LoadCSV(cfg.File)
		if err != nil {
			return s, errors.Wrapf(err, "failed to load %q", cfg.File)
		}
		return s, nil

	case cfg.Timeframe != "":
		return fetchSeries(ctx, ctrl.client, cfg.Symbol, cfg.Timeframe)

	default:
		return series.Demo(cfg.Demo, ctrl.rng)
	}
}

// fetchSeries loads the candles of a tracked symbol over a timeframe.
func fetchSeries(ctx context.Context, client *quote.Client, key, timeframe string) (series.Series, error) {
	sym, err := quote.FindSymbol(key)
	if err != nil {
		return series.Series{}, err
	}

	tf, err := quote.ParseTimeframe(timeframe)
	if err != nil {
		return series.Series{}, err
	}

	cs, err := client.Candles(ctx, sym.Finnhub, tf.Query(time.Now()))
	if err != nil {
		return series.Series{}, errors.Wrap(err, "failed to fetch candles")
	}

	return cs.Series(sym.Key + " (" + string(tf) + ")")
}
