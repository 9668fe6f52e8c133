package pitchline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroConfigIsValid(t *testing.T) {
	cfg := NewZeroConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 300*time.Millisecond, cfg.Interval)
	assert.Equal(t, "delta", cfg.Mode)
	assert.Equal(t, 220.0, cfg.BaseFreq)
	assert.Equal(t, 700.0, cfg.Span)
	assert.Equal(t, 0.06, cfg.Volume)
	assert.Equal(t, "TSLA", cfg.Demo)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitchline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: price
interval: 150ms
volume: 0.2
demo: aapl
live: true
poll_interval: 30s
`), 0o644))

	cfg := NewZeroConfig()
	require.NoError(t, cfg.LoadFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "price", cfg.Mode)
	assert.Equal(t, 150*time.Millisecond, cfg.Interval)
	assert.Equal(t, 0.2, cfg.Volume)
	assert.Equal(t, "AAPL", cfg.Demo)
	assert.True(t, cfg.Live)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)

	// untouched keys keep their defaults
	assert.Equal(t, 220.0, cfg.BaseFreq)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(ConfigEnv, "")

	cfg := NewZeroConfig()
	require.NoError(t, cfg.LoadEnv())

	t.Setenv(ConfigEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, cfg.LoadEnv())
}

func TestLoadFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: [1, 2"), 0o644))

	cfg := NewZeroConfig()
	assert.Error(t, cfg.LoadFile(path))
}

func TestValidateClamps(t *testing.T) {
	cfg := NewZeroConfig()
	cfg.Volume = 3
	cfg.Interval = time.Millisecond
	cfg.PollInterval = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.Volume)
	assert.Equal(t, MinInterval, cfg.Interval)
	assert.Equal(t, MinPollInterval, cfg.PollInterval)

	cfg.Volume = -1
	require.NoError(t, cfg.Validate())
	assert.Zero(t, cfg.Volume)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"low rate", func(c *Config) { c.SampleRate = 100 }},
		{"high rate", func(c *Config) { c.SampleRate = 1e6 }},
		{"no channels", func(c *Config) { c.ChannelCount = 0 }},
		{"many channels", func(c *Config) { c.ChannelCount = 6 }},
		{"mode", func(c *Config) { c.Mode = "volume" }},
		{"base", func(c *Config) { c.BaseFreq = 0 }},
		{"span", func(c *Config) { c.Span = -5 }},
		{"nyquist", func(c *Config) { c.SampleRate = 8000; c.Span = 5000 }},
		{"demo", func(c *Config) { c.Demo = "DOGE" }},
		{"timeframe", func(c *Config) { c.Timeframe = "2W" }},
		{"symbol", func(c *Config) { c.Live = true; c.Symbol = "DOGE" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := NewZeroConfig()
			test.mod(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateFileSkipsDemo(t *testing.T) {
	cfg := NewZeroConfig()
	cfg.File = "prices.csv"
	cfg.Demo = "nope"
	assert.NoError(t, cfg.Validate())
}
