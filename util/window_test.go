package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingWindow(t *testing.T) {
	mw := NewMovingWindow(3)

	assert.Equal(t, 3, mw.Cap())
	assert.Equal(t, 0, mw.Len())

	mean, sd := mw.Stats()
	assert.Zero(t, mean)
	assert.Zero(t, sd)

	mean, sd = mw.Update(4)
	assert.Equal(t, 4.0, mean)
	assert.Zero(t, sd)

	mw.Update(6)
	mean, _ = mw.Update(8)
	assert.Equal(t, 6.0, mean)
	assert.InDelta(t, 2.0, mw.StdDev(), 1e-12)

	// 4 falls out
	mw.Update(10)
	assert.Equal(t, []float64{6, 8, 10}, mw.Values())
	assert.Equal(t, 8.0, mw.Mean())
	assert.Equal(t, 3, mw.Len())

	last, ok := mw.Last()
	assert.True(t, ok)
	assert.Equal(t, 10.0, last)
}

func TestMovingWindowDrop(t *testing.T) {
	mw := NewMovingWindow(4)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		mw.Update(v)
	}

	mean, _ := mw.Drop(2)
	assert.Equal(t, []float64{4, 5}, mw.Values())
	assert.Equal(t, 4.5, mean)

	mw.Drop(10)
	assert.Equal(t, 0, mw.Len())

	_, ok := mw.Last()
	assert.False(t, ok)

	mw.Update(9)
	assert.Equal(t, []float64{9}, mw.Values())

	mw.Reset()
	assert.Empty(t, mw.Values())
}

func TestVolatility(t *testing.T) {
	mw := NewMovingWindow(10)
	assert.Zero(t, mw.Volatility())

	for _, v := range []float64{100, 110, 99} {
		mw.Update(v)
	}

	// returns 0.1 and -0.1
	assert.InDelta(t, 0.1414213, mw.Volatility(), 1e-6)

	flat := NewMovingWindow(5)
	for i := 0; i < 5; i++ {
		flat.Update(50)
	}
	assert.Zero(t, flat.Volatility())
}

func BenchmarkMovingWindow(b *testing.B) {
	mw := NewMovingWindow(64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mw.Update(float64(i % 100))
	}
}
