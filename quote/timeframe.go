package quote

import (
	"math"
	"strings"
	"time"

	"github.com/noriah/pitchline/series"
	"github.com/pkg/errors"
)

// Timeframe is a chart range.
type Timeframe string

// Timeframes
const (
	Day       Timeframe = "1D"
	FiveDays  Timeframe = "5D"
	Month     Timeframe = "1M"
	SixMonths Timeframe = "6M"
	YearToDay Timeframe = "YTD"
	Year      Timeframe = "1Y"
	FiveYears Timeframe = "5Y"
)

// Timeframes lists every Timeframe, shortest first.
var Timeframes = []Timeframe{Day, FiveDays, Month, SixMonths, YearToDay, Year, FiveYears}

const day = 24 * time.Hour

// ParseTimeframe parses a timeframe name, case insensitive.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Timeframes {
		if tf == known {
			return tf, nil
		}
	}

	return "", errors.Errorf("unknown timeframe %q", s)
}

// Query is a candle request range.
type Query struct {
	Resolution string // minutes per candle, or "D"
	From       time.Time
	To         time.Time
}

// Query returns the candle range of tf ending at now. Times are truncated to
// the second.
func (tf Timeframe) Query(now time.Time) Query {
	to := now.Truncate(time.Second)

	q := Query{Resolution: "D", To: to}

	switch tf {
	case Day:
		q.Resolution, q.From = "5", to.Add(-day)
	case FiveDays:
		q.Resolution, q.From = "15", to.Add(-5*day)
	case Month:
		q.Resolution, q.From = "60", to.Add(-30*day)
	case SixMonths:
		q.From = to.Add(-183 * day)
	case YearToDay:
		q.From = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case FiveYears:
		q.From = to.Add(-5 * 365 * day)
	default:
		q.From = to.Add(-365 * day)
	}

	return q
}

// Candles is a candle response. Only closes and times are kept.
type Candles struct {
	Close  []float64 `json:"c"`
	Time   []int64   `json:"t"` // unix seconds
	Status string    `json:"s"` // "ok" or "no_data"
}

// Series converts the candles into a series named name. Candles with a
// non-finite close are skipped.
func (cs Candles) Series(name string) (series.Series, error) {
	if cs.Status == "no_data" {
		return series.Series{}, ErrNoData
	}

	if cs.Status != "ok" {
		return series.Series{}, errors.Errorf("candle status %q", cs.Status)
	}

	n := len(cs.Close)
	if len(cs.Time) < n {
		n = len(cs.Time)
	}

	samples := make([]series.Sample, 0, n)
	for i := 0; i < n; i++ {
		v := cs.Close[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		samples = append(samples, series.Sample{
			Label: time.Unix(cs.Time[i], 0).UTC().Format(time.RFC3339),
			Value: v,
		})
	}

	if len(samples) == 0 {
		return series.Series{}, ErrNoData
	}

	return series.New(name, samples), nil
}
