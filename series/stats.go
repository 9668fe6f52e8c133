package series

import (
	"gonum.org/v1/gonum/stat"
)

// Signals are the summary scalars shown next to the chart.
type Signals struct {
	Trend      float64 // least squares slope, value per sample
	Volatility float64 // std dev of simple returns
	Momentum   float64 // percent change, first to last
}

// Up reports whether the series trends upward.
func (s Signals) Up() bool {
	return s.Trend >= 0
}

// Stats computes Signals for s. Series shorter than two samples give zeros.
func Stats(s Series) Signals {
	if s.Len() < 2 {
		return Signals{}
	}

	ys := s.Values()
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}

	var sig Signals

	_, sig.Trend = stat.LinearRegression(xs, ys, nil, false)

	returns := make([]float64, 0, len(ys)-1)
	for i := 1; i < len(ys); i++ {
		if ys[i-1] == 0 {
			continue
		}
		returns = append(returns, (ys[i]-ys[i-1])/ys[i-1])
	}

	if len(returns) > 1 {
		sig.Volatility = stat.StdDev(returns, nil)
	}

	if first := ys[0]; first != 0 {
		sig.Momentum = (ys[len(ys)-1] - first) / first * 100
	}

	return sig
}
