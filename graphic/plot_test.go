package graphic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlot(t *testing.T) {
	rows := Plot([]float64{0, 5, 10}, 3, 11, 0)
	assert.Equal(t, []int{10, 5, 0}, rows)

	rows = Plot([]float64{0, 10}, 2, 11, 2)
	assert.Equal(t, []int{8, 2}, rows)
}

func TestPlotResamples(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	rows := Plot(values, 9, 5, 0)
	assert.Len(t, rows, 9)
	assert.Equal(t, 4, rows[0])
	assert.Equal(t, 0, rows[8])

	// more samples than columns keeps the endpoints
	rows = Plot(values, 2, 5, 0)
	assert.Equal(t, []int{4, 0}, rows)
}

func TestPlotFlat(t *testing.T) {
	rows := Plot([]float64{50, 50, 50}, 4, 9, 1)
	assert.Equal(t, []int{4, 4, 4, 4}, rows)

	rows = Plot([]float64{7}, 3, 6, 0)
	assert.Equal(t, []int{3, 3, 3}, rows)
}

func TestPlotEmpty(t *testing.T) {
	assert.Nil(t, Plot(nil, 10, 10, 0))
	assert.Nil(t, Plot([]float64{1, 2}, 0, 10, 0))
	assert.Nil(t, Plot([]float64{1, 2}, 10, 0, 0))
}

func TestPlotPadTooLarge(t *testing.T) {
	rows := Plot([]float64{0, 1}, 2, 4, 2)
	assert.Equal(t, []int{3, 0}, rows)
}

func TestColumnOf(t *testing.T) {
	assert.Equal(t, 0, ColumnOf(0, 80, 65))
	assert.Equal(t, 79, ColumnOf(64, 80, 65))
	assert.Equal(t, 79, ColumnOf(100, 80, 65))
	assert.Equal(t, 0, ColumnOf(3, 1, 65))

	for idx := 0; idx < 65; idx++ {
		assert.Equal(t, idx, SampleAt(ColumnOf(idx, 129, 65), 129, 65))
	}
}

func BenchmarkPlot(b *testing.B) {
	values := make([]float64, 1024)
	for i := range values {
		values[i] = float64(i % 37)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Plot(values, 200, 50, 1)
	}
}
