// Package series holds the price series the player walks over, along with the
// few ways of producing one.
package series

// Sample is one point of a series.
type Sample struct {
	Label string  // timestamp label, shown as-is
	Value float64 // closing price
}

// Series is an ordered, chronological run of samples with a display name.
//
// A Series is treated as immutable once built. Replacing a dataset means
// building a new Series.
type Series struct {
	Name    string
	Samples []Sample
}

// New returns a Series with the given name over samples.
func New(name string, samples []Sample) Series {
	return Series{Name: name, Samples: samples}
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Samples)
}

// Empty reports whether there is nothing to play.
func (s Series) Empty() bool {
	return len(s.Samples) == 0
}

// At returns the sample at idx. idx must be in range.
func (s Series) At(idx int) Sample {
	return s.Samples[idx]
}

// Values returns a fresh slice of sample values.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Value
	}
	return out
}
