package pitchline

import (
	"math"
	"os"
	"strings"
	"time"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/player"
	"github.com/noriah/pitchline/quote"
	"github.com/noriah/pitchline/series"
	"github.com/noriah/pitchline/sonify"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the config file to load, if any.
const ConfigEnv = "PITCHLINE_CONFIG"

// Limits
const (
	MaxChannelCount = 2
	MinSampleRate   = 8000
	MaxSampleRate   = 192000
	MinInterval     = 20 * time.Millisecond
	MinPollInterval = time.Second
)

type Config struct {
	// The name of the backend from the output package
	Backend string `yaml:"backend"`
	// The name of the device to play on
	Device string `yaml:"device"`
	// The rate audio is rendered at
	SampleRate float64 `yaml:"sample_rate"`
	// The number of channels to render
	ChannelCount int `yaml:"channels"`

	// Time between playback steps
	Interval time.Duration `yaml:"interval"`
	// Start playing right away
	Autoplay bool `yaml:"autoplay"`

	// What is mapped to pitch, "delta" or "price"
	Mode string `yaml:"mode"`
	// Lowest pitch, in Hz
	BaseFreq float64 `yaml:"base_freq"`
	// Pitch range above BaseFreq, in Hz
	Span float64 `yaml:"span"`
	// Peak gain [0, 1]
	Volume float64 `yaml:"volume"`
	// Enable sound on start
	Sound bool `yaml:"sound"`

	// CSV file to play
	File string `yaml:"file"`
	// Demo dataset to play when no file is given
	Demo string `yaml:"demo"`
	// Seed for the demo data, 0 picks one
	Seed int64 `yaml:"seed"`

	// Symbol to fetch candles for and to sonify live
	Symbol string `yaml:"symbol"`
	// Fetch candles over this timeframe instead of using demo data
	Timeframe string `yaml:"timeframe"`
	// Poll live quotes
	Live bool `yaml:"live"`
	// Time between live quote refreshes
	PollInterval time.Duration `yaml:"poll_interval"`
	// Finnhub API key, FINNHUB_KEY when empty
	FinnhubKey string `yaml:"finnhub_key"`
	// Finnhub API root, for testing
	FinnhubURL string `yaml:"finnhub_url"`

	// Function to call when setting up the pipeline
	SetupFunc SetupFunc `yaml:"-"`
	// Function to call when starting the pipeline
	StartFunc StartFunc `yaml:"-"`
	// Function to call when cleaning up the pipeline
	CleanupFunc CleanupFunc `yaml:"-"`
	// Where renders and state go
	Output Output `yaml:"-"`
}

func NewZeroConfig() Config {
	return Config{
		SampleRate:   sonify.DefaultSampleRate,
		ChannelCount: sonify.DefaultChannelCount,
		Interval:     player.DefaultInterval,
		Mode:         dsp.ModeDelta.String(),
		BaseFreq:     sonify.DefaultBaseFreq,
		Span:         sonify.DefaultSpan,
		Volume:       sonify.DefaultVolume,
		Demo:         series.DemoKeys()[0],
		Symbol:       quote.Symbols[0].Key,
		PollInterval: quote.DefaultInterval,
	}
}

// LoadFile reads yaml settings from path over cfg. Keys missing from the
// file keep their value.
func (cfg *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config %q", path)
	}

	return nil
}

// LoadEnv loads the file named by PITCHLINE_CONFIG, if set.
func (cfg *Config) LoadEnv() error {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		return nil
	}

	return cfg.LoadFile(path)
}

// Validate checks the config, clamping what can be clamped.
func (cfg *Config) Validate() error {
	switch {
	case cfg.SampleRate < MinSampleRate:
		return errors.Errorf("sample rate too low (%d min)", MinSampleRate)

	case cfg.SampleRate > MaxSampleRate:
		return errors.Errorf("sample rate too high (%d max)", MaxSampleRate)

	case cfg.ChannelCount > MaxChannelCount:
		return errors.Errorf("too many channels (%d max)", MaxChannelCount)

	case cfg.ChannelCount < 1:
		return errors.New("too few channels (1 min)")
	}

	if _, err := dsp.ParseMode(cfg.Mode); err != nil {
		return err
	}

	if cfg.BaseFreq <= 0 || math.IsNaN(cfg.BaseFreq) {
		return errors.New("base frequency must be positive")
	}

	if cfg.Span < 0 || math.IsNaN(cfg.Span) {
		return errors.New("pitch span must not be negative")
	}

	if nyquist := cfg.SampleRate / 2; cfg.BaseFreq+cfg.Span >= nyquist {
		return errors.Errorf("highest pitch %.0f Hz at or above %.0f Hz", cfg.BaseFreq+cfg.Span, nyquist)
	}

	switch {
	case math.IsNaN(cfg.Volume) || cfg.Volume < 0:
		cfg.Volume = 0
	case cfg.Volume > 1:
		cfg.Volume = 1
	}

	if cfg.Interval < MinInterval {
		cfg.Interval = MinInterval
	}

	if cfg.PollInterval < MinPollInterval {
		cfg.PollInterval = MinPollInterval
	}

	cfg.Demo = strings.ToUpper(strings.TrimSpace(cfg.Demo))

	if cfg.File == "" && cfg.Timeframe == "" {
		if !hasDemo(cfg.Demo) {
			return errors.Wrapf(series.ErrUnknownDemo, "%q", cfg.Demo)
		}
	}

	if cfg.Timeframe != "" {
		if _, err := quote.ParseTimeframe(cfg.Timeframe); err != nil {
			return err
		}
	}

	if cfg.Timeframe != "" || cfg.Live {
		if _, err := quote.FindSymbol(cfg.Symbol); err != nil {
			return err
		}
	}

	return nil
}

func hasDemo(key string) bool {
	for _, k := range series.DemoKeys() {
		if k == key {
			return true
		}
	}
	return false
}
