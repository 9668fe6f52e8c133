package series

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	in := strings.Join([]string{
		"Date,Open,Close",
		"2024-01-02,10,11.5",
		"2024-01-03,11,NaN",
		"2024-01-04,11,",
		"",
		"2024-01-05,12,abc",
		",12,12.25",
		"2024-01-08,12,13",
	}, "\n")

	samples, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []Sample{
		{Label: "2024-01-02", Value: 11.5},
		{Label: "row-2", Value: 12.25},
		{Label: "2024-01-08", Value: 13},
	}, samples)
}

func TestParseCSVColumnFallbacks(t *testing.T) {
	in := "timestamp,Adj Close\n1700000000,101.5\n1700000060,102\n"

	samples, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "1700000000", samples[0].Label)
	assert.Equal(t, 102.0, samples[1].Value)
}

func TestParseCSVNoValueColumn(t *testing.T) {
	samples, err := ParseCSV(strings.NewReader("Date,Volume\n2024-01-02,100\n"))
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestParseCSVEmpty(t *testing.T) {
	samples, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "tsla.csv")
	require.NoError(t, os.WriteFile(good, []byte("Date,Close\na,1\nb,2\n"), 0o644))

	s, err := LoadCSV(good)
	require.NoError(t, err)
	assert.Equal(t, "tsla.csv", s.Name)
	assert.Equal(t, 2, s.Len())

	short := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(short, []byte("Date,Close\na,1\n"), 0o644))

	_, err = LoadCSV(short)
	assert.True(t, errors.Is(err, ErrNoUsableColumn))

	_, err = LoadCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
