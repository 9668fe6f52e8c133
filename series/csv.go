package series

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoUsableColumn is returned when a file does not carry at least two
// usable closing prices.
var ErrNoUsableColumn = errors.New("no usable close column found")

// header names tried, in order, for the label and value columns.
var (
	labelColumns = []string{"Date", "date", "Time", "time", "Timestamp", "timestamp"}
	valueColumns = []string{"Close", "close", "CLOSE", "AdjClose", "Adj Close"}
)

// ParseCSV reads samples from a headed CSV stream.
//
// Rows without a finite close value are skipped. Rows without a label get
// "row-N", N counting the samples kept so far.
func ParseCSV(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read csv header")
	}

	cols := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := cols[name]; !ok {
			cols[name] = idx
		}
	}

	var out []Sample

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv row")
		}

		if blank(record) {
			continue
		}

		raw := firstField(record, cols, valueColumns)
		if raw == "" {
			continue
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}

		label := firstField(record, cols, labelColumns)
		if label == "" {
			label = "row-" + strconv.Itoa(len(out)+1)
		}

		out = append(out, Sample{Label: label, Value: value})
	}

	return out, nil
}

// LoadCSV parses the file at path into a Series named after the file.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, errors.Wrap(err, "failed to open csv")
	}
	defer f.Close()

	samples, err := ParseCSV(f)
	if err != nil {
		return Series{}, errors.Wrapf(err, "failed to parse %s", path)
	}

	if len(samples) < 2 {
		return Series{}, ErrNoUsableColumn
	}

	return New(filepath.Base(path), samples), nil
}

// firstField returns the first non-empty field among names.
func firstField(record []string, cols map[string]int, names []string) string {
	for _, name := range names {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			continue
		}

		if v := strings.TrimSpace(record[idx]); v != "" {
			return v
		}
	}

	return ""
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
