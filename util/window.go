// Package util holds small helpers shared by the live feed and the display.
package util

import (
	"gonum.org/v1/gonum/stat"
)

// MovingWindow keeps the last Cap values pushed into it.
//
// values is used as a ring; head is where the next value goes. Statistics are
// computed on demand over the values in push order.
type MovingWindow struct {
	values []float64
	head   int
	length int
}

// NewMovingWindow returns a window holding at most size values.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}

	return &MovingWindow{values: make([]float64, size)}
}

// Update pushes value, dropping the oldest one when full, and returns the
// mean and standard deviation of the window.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	mw.values[mw.head] = value
	mw.head = (mw.head + 1) % len(mw.values)

	if mw.length < len(mw.values) {
		mw.length++
	}

	return mw.Stats()
}

// Drop removes up to count of the oldest values.
func (mw *MovingWindow) Drop(count int) (float64, float64) {
	if count > mw.length {
		count = mw.length
	}

	mw.length -= count

	return mw.Stats()
}

// Reset empties the window.
func (mw *MovingWindow) Reset() {
	mw.head = 0
	mw.length = 0
}

// Len returns how many values are in the window.
func (mw *MovingWindow) Len() int {
	return mw.length
}

// Cap returns the max size of the window.
func (mw *MovingWindow) Cap() int {
	return len(mw.values)
}

// Values returns the values oldest first.
func (mw *MovingWindow) Values() []float64 {
	out := make([]float64, mw.length)

	start := mw.head - mw.length
	if start < 0 {
		start += len(mw.values)
	}

	for i := range out {
		out[i] = mw.values[(start+i)%len(mw.values)]
	}

	return out
}

// Last returns the newest value, or false when empty.
func (mw *MovingWindow) Last() (float64, bool) {
	if mw.length == 0 {
		return 0, false
	}

	idx := mw.head - 1
	if idx < 0 {
		idx += len(mw.values)
	}

	return mw.values[idx], true
}

// Mean is the window average.
func (mw *MovingWindow) Mean() float64 {
	m, _ := mw.Stats()
	return m
}

// StdDev is the window standard deviation.
func (mw *MovingWindow) StdDev() float64 {
	_, s := mw.Stats()
	return s
}

// Stats returns the mean and standard deviation of the window. Fewer than
// two values have no deviation.
func (mw *MovingWindow) Stats() (float64, float64) {
	switch mw.length {
	case 0:
		return 0, 0
	case 1:
		v, _ := mw.Last()
		return v, 0
	}

	return stat.MeanStdDev(mw.Values(), nil)
}

// Volatility is the standard deviation of the simple returns between
// consecutive values. Non-positive values are skipped as a base.
func (mw *MovingWindow) Volatility() float64 {
	vals := mw.Values()

	returns := make([]float64, 0, len(vals))
	for i := 1; i < len(vals); i++ {
		if vals[i-1] <= 0 {
			continue
		}
		returns = append(returns, (vals[i]-vals[i-1])/vals[i-1])
	}

	if len(returns) < 2 {
		return 0
	}

	return stat.StdDev(returns, nil)
}
