package series

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoStaysInRange(t *testing.T) {
	for _, d := range demos {
		s, err := Demo(d.key, rand.New(rand.NewSource(7)))
		require.NoError(t, err)

		assert.Equal(t, d.key+" (demo)", s.Name)
		require.Equal(t, DemoPoints, s.Len())
		assert.Equal(t, "2024-08-01", s.At(0).Label)
		assert.Equal(t, "2024-08-65", s.At(DemoPoints-1).Label)

		for _, v := range s.Values() {
			assert.GreaterOrEqual(t, v, d.min)
			assert.LessOrEqual(t, v, d.max)
		}
	}
}

func TestDemoDeterministicWithSeed(t *testing.T) {
	a, err := Demo("AAPL", rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	b, err := Demo("AAPL", rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDemoUnknown(t *testing.T) {
	_, err := Demo("DOGE", nil)
	assert.True(t, errors.Is(err, ErrUnknownDemo))
}

func TestDemoKeys(t *testing.T) {
	assert.Equal(t, []string{"TSLA", "AAPL", "BTC"}, DemoKeys())
}
