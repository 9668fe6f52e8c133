package series

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrUnknownDemo is returned for a demo key that does not exist.
var ErrUnknownDemo = errors.New("unknown demo dataset")

// DemoPoints is the number of samples in every demo dataset.
const DemoPoints = 65

type demoRange struct {
	key      string
	min, max float64
}

var demos = []demoRange{
	{"TSLA", 240, 260},
	{"AAPL", 165, 175},
	{"BTC", 25000, 29000},
}

// DemoKeys lists the built-in demo datasets.
func DemoKeys() []string {
	keys := make([]string, len(demos))
	for i, d := range demos {
		keys[i] = d.key
	}
	return keys
}

// Demo builds a synthetic daily series for key. rng drives the noise; a nil
// rng uses a time seeded source.
func Demo(key string, rng *rand.Rand) (Series, error) {
	for _, d := range demos {
		if d.key == key {
			return New(key+" (demo)", makeDemo(d, rng)), nil
		}
	}

	return Series{}, errors.Wrapf(ErrUnknownDemo, "%q", key)
}

func makeDemo(d demoRange, rng *rand.Rand) []Sample {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	spread := d.max - d.min
	v := (d.min + d.max) / 2

	out := make([]Sample, 0, DemoPoints)

	for i := 1; i <= DemoPoints; i++ {
		drift := math.Sin(float64(i)/7) * spread / 180
		noise := (rng.Float64() - 0.5) * (spread / 40)

		v = math.Max(d.min, math.Min(d.max, v+drift+noise))

		out = append(out, Sample{
			Label: fmt.Sprintf("2024-08-%02d", i),
			Value: math.Round(v*100) / 100,
		})
	}

	return out
}
