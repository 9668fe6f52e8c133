package graphic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Plot lays values out over width columns and height rows. It returns the row
// of every column, 0 being the top row, keeping pad empty rows above and below
// the line. Each column shows the sample it falls on; with more columns than
// samples, samples repeat. A flat series is drawn on the middle row.
//
// Plot returns nil when there is nothing to lay out.
func Plot(values []float64, width, height, pad int) []int {
	if len(values) == 0 || width < 1 || height < 1 {
		return nil
	}

	if pad < 0 || 2*pad >= height {
		pad = 0
	}

	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	usable := height - 1 - 2*pad

	rows := make([]int, width)

	for col := range rows {
		v := values[SampleAt(col, width, len(values))]

		if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
			rows[col] = height / 2
			continue
		}

		rows[col] = pad + int(math.Round((hi-v)/span*float64(usable)))
	}

	return rows
}

// SampleAt returns the sample index shown in column col of width columns
// over n samples.
func SampleAt(col, width, n int) int {
	if width <= 1 || n <= 1 {
		return 0
	}

	return int(math.Round(float64(col) * float64(n-1) / float64(width-1)))
}

// ColumnOf returns the column sample idx of n is shown in, over width columns.
func ColumnOf(idx, width, n int) int {
	if width <= 1 || n <= 1 {
		return 0
	}

	col := int(math.Round(float64(idx) * float64(width-1) / float64(n-1)))

	switch {
	case col < 0:
		return 0
	case col >= width:
		return width - 1
	}

	return col
}
