package sonify

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/noriah/pitchline/dsp"
	"github.com/noriah/pitchline/output"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDevice struct{}

func (testDevice) String() string { return "test" }

type testSession struct {
	mu       sync.Mutex
	src      io.Reader
	closed   int
	closeErr error
	startErr error
	block    chan struct{}
	started  chan struct{}
}

func (ts *testSession) Start(ctx context.Context, src io.Reader) error {
	if ts.started != nil {
		close(ts.started)
	}

	if ts.block != nil {
		select {
		case <-ts.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if ts.startErr != nil {
		return ts.startErr
	}

	ts.mu.Lock()
	ts.src = src
	ts.mu.Unlock()

	return nil
}

func (ts *testSession) Close() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.closed++
	return ts.closeErr
}

func (ts *testSession) closeCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.closed
}

type testBackend struct {
	mu       sync.Mutex
	starts   int
	startErr error
	next     func() *testSession
	sessions []*testSession
}

func (tb *testBackend) Init() error  { return nil }
func (tb *testBackend) Close() error { return nil }

func (tb *testBackend) Devices() ([]output.Device, error) {
	return []output.Device{testDevice{}}, nil
}

func (tb *testBackend) DefaultDevice() (output.Device, error) {
	return testDevice{}, nil
}

func (tb *testBackend) Start(cfg output.SessionConfig) (output.Session, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.starts++

	if tb.startErr != nil {
		return nil, tb.startErr
	}

	sess := &testSession{}
	if tb.next != nil {
		sess = tb.next()
	}

	tb.sessions = append(tb.sessions, sess)
	return sess, nil
}

func (tb *testBackend) last() *testSession {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.sessions[len(tb.sessions)-1]
}

func newTestSonifier(backend output.Backend) *Sonifier {
	cfg := NewZeroConfig()
	cfg.Backend = backend
	cfg.SampleRate = 8000
	cfg.ChannelCount = 1
	return New(cfg)
}

func ptr(v float64) *float64 {
	return &v
}

func TestTickWhileUninitializedDoesNothing(t *testing.T) {
	s := newTestSonifier(&testBackend{})

	tone, ok := s.Tick(10, nil)
	assert.False(t, ok)
	assert.Equal(t, dsp.Tone{}, tone)
	assert.Equal(t, Uninitialized, s.State())

	lo, hi := s.Window()
	assert.True(t, math.IsInf(lo, 1))
	assert.True(t, math.IsInf(hi, -1))
}

func TestEnableIsIdempotent(t *testing.T) {
	backend := &testBackend{}
	s := newTestSonifier(backend)

	require.NoError(t, s.Enable(context.Background()))
	require.NoError(t, s.Enable(context.Background()))

	assert.Equal(t, Enabled, s.State())
	assert.True(t, s.Enabled())
	assert.Equal(t, 1, backend.starts)
}

func TestDeltaTicks(t *testing.T) {
	s := newTestSonifier(&testBackend{})
	require.NoError(t, s.Enable(context.Background()))

	values := []float64{10, 12, 9}
	var tones []dsp.Tone

	for i, v := range values {
		var prev *float64
		if i > 0 {
			prev = ptr(values[i-1])
		}

		tone, ok := s.Tick(v, prev)
		require.True(t, ok)
		tones = append(tones, tone)
	}

	assert.Equal(t, []dsp.Direction{dsp.Up, dsp.Up, dsp.Down},
		[]dsp.Direction{tones[0].Direction, tones[1].Direction, tones[2].Direction})

	assert.Equal(t, DefaultVolume, tones[0].Gain)
	assert.Equal(t, DefaultVolume, tones[1].Gain)
	assert.InDelta(t, DefaultVolume*dsp.DownGainRatio, tones[2].Gain, 1e-12)

	lo, hi := s.Window()
	assert.Equal(t, -3.0, lo)
	assert.Equal(t, 2.0, hi)
}

func TestPriceTicks(t *testing.T) {
	s := newTestSonifier(&testBackend{})
	s.SetMode(dsp.ModePrice)
	s.SetToneConfig(220, 700)
	require.NoError(t, s.Enable(context.Background()))

	first, ok := s.Tick(100, nil)
	require.True(t, ok)
	second, ok := s.Tick(200, ptr(100))
	require.True(t, ok)

	assert.Equal(t, 220.0, first.Frequency)
	assert.Equal(t, 920.0, second.Frequency)
	assert.Equal(t, dsp.ModePrice, s.Mode())
}

func TestFlatSeriesStaysAtBase(t *testing.T) {
	s := newTestSonifier(&testBackend{})
	s.SetMode(dsp.ModePrice)
	require.NoError(t, s.Enable(context.Background()))

	var prev *float64
	for i := 0; i < 3; i++ {
		tone, ok := s.Tick(50, prev)
		require.True(t, ok)
		assert.Equal(t, DefaultBaseFreq, tone.Frequency)
		prev = ptr(50)
	}
}

func TestDisable(t *testing.T) {
	backend := &testBackend{next: func() *testSession {
		return &testSession{closeErr: errors.New("already stopped")}
	}}
	s := newTestSonifier(backend)

	// disabling before anything was acquired is a no-op
	s.Disable()
	assert.Equal(t, Uninitialized, s.State())

	require.NoError(t, s.Enable(context.Background()))
	s.Tick(1, nil)

	s.Disable()
	s.Disable()

	assert.Equal(t, Disabled, s.State())
	assert.Equal(t, 1, backend.last().closeCount())

	lo, hi := s.Window()
	_, ok := s.Tick(5, ptr(1))
	assert.False(t, ok)

	lo2, hi2 := s.Window()
	assert.Equal(t, lo, lo2)
	assert.Equal(t, hi, hi2)
}

func TestReenableStartsNewWindow(t *testing.T) {
	backend := &testBackend{}
	s := newTestSonifier(backend)

	require.NoError(t, s.Enable(context.Background()))
	s.Tick(5, nil)
	s.Tick(9, ptr(5))
	s.Disable()

	require.NoError(t, s.Enable(context.Background()))
	assert.Equal(t, Enabled, s.State())
	assert.Equal(t, 2, backend.starts)

	lo, hi := s.Window()
	assert.True(t, math.IsInf(lo, 1))
	assert.True(t, math.IsInf(hi, -1))
}

func TestEnableFailureLeavesUninitialized(t *testing.T) {
	s := newTestSonifier(&testBackend{startErr: errors.New("no device")})

	assert.Error(t, s.Enable(context.Background()))
	assert.Equal(t, Uninitialized, s.State())

	_, ok := s.Tick(1, nil)
	assert.False(t, ok)
}

func TestEnableSessionFailureClosesSession(t *testing.T) {
	backend := &testBackend{next: func() *testSession {
		return &testSession{startErr: errors.New("suspended")}
	}}
	s := newTestSonifier(backend)

	assert.Error(t, s.Enable(context.Background()))
	assert.Equal(t, Uninitialized, s.State())
	assert.Equal(t, 1, backend.last().closeCount())
}

func TestEnableWithoutBackend(t *testing.T) {
	s := New(NewZeroConfig())
	assert.Error(t, s.Enable(context.Background()))
	assert.Equal(t, Uninitialized, s.State())
}

func TestDisableWhileAcquiring(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})

	backend := &testBackend{next: func() *testSession {
		return &testSession{block: block, started: started}
	}}
	s := newTestSonifier(backend)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Enable(context.Background())
	}()

	<-started

	// a second Enable while the first is in flight is a no-op
	require.NoError(t, s.Enable(context.Background()))

	s.Disable()
	close(block)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("enable did not return")
	}

	assert.Equal(t, Disabled, s.State())
	assert.Equal(t, 1, backend.starts)
	assert.Equal(t, 1, backend.last().closeCount())

	_, ok := s.Tick(1, nil)
	assert.False(t, ok)
}

func TestReenableWhileAcquiring(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})

	backend := &testBackend{next: func() *testSession {
		return &testSession{block: block, started: started}
	}}
	s := newTestSonifier(backend)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Enable(context.Background())
	}()

	<-started

	s.Disable()
	assert.Equal(t, Disabled, s.State())

	require.NoError(t, s.Enable(context.Background()))
	assert.Equal(t, Uninitialized, s.State())

	close(block)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("enable did not return")
	}

	assert.Equal(t, Enabled, s.State())
	assert.Equal(t, 1, backend.starts)
	assert.Zero(t, backend.last().closeCount())

	_, ok := s.Tick(1, nil)
	assert.True(t, ok)

	s.Disable()
	assert.Equal(t, 1, backend.last().closeCount())
}

func TestEnableCanceled(t *testing.T) {
	backend := &testBackend{next: func() *testSession {
		return &testSession{block: make(chan struct{})}
	}}
	s := newTestSonifier(backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, s.Enable(ctx))
	assert.Equal(t, Uninitialized, s.State())
	assert.Equal(t, 1, backend.last().closeCount())
}

func TestSetVolumeClamps(t *testing.T) {
	s := newTestSonifier(&testBackend{})

	s.SetVolume(2)
	assert.Equal(t, 1.0, s.Volume())

	s.SetVolume(-1)
	assert.Equal(t, 0.0, s.Volume())

	s.SetVolume(math.NaN())
	assert.Equal(t, 0.0, s.Volume())

	s.SetVolume(0.3)
	assert.Equal(t, 0.3, s.Volume())
}

func TestNonFiniteTicksAreIgnored(t *testing.T) {
	s := newTestSonifier(&testBackend{})
	require.NoError(t, s.Enable(context.Background()))

	_, ok := s.Tick(math.NaN(), nil)
	assert.False(t, ok)

	_, ok = s.Tick(1, ptr(math.Inf(1)))
	assert.False(t, ok)

	lo, _ := s.Window()
	assert.True(t, math.IsInf(lo, 1))
}

func readSamples(t *testing.T, src io.Reader, frames int) []float32 {
	t.Helper()

	raw := make([]byte, frames*4)
	_, err := io.ReadFull(src, raw)
	require.NoError(t, err)

	out := make([]float32, frames)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}

func TestTickPlaysOneBlip(t *testing.T) {
	backend := &testBackend{}
	s := newTestSonifier(backend)
	s.SetVolume(0.5)
	require.NoError(t, s.Enable(context.Background()))

	src := backend.last().src
	require.NotNil(t, src)

	// silent before any tick
	for _, v := range readSamples(t, src, 400) {
		assert.Zero(t, v)
	}

	_, ok := s.Tick(10, nil)
	require.True(t, ok)

	// 8000 Hz: 0.2s of audio, the blip is over after 0.12s.
	samples := readSamples(t, src, 1600)

	peak := 0.0
	for _, v := range samples[:960] {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	assert.Greater(t, peak, 0.1)
	assert.LessOrEqual(t, peak, 0.5+1e-6)

	for _, v := range samples[1000:] {
		assert.Zero(t, v)
	}

	s.Disable()

	_, err := src.Read(make([]byte, 16))
	assert.ErrorIs(t, err, io.EOF)
}
