// Package quote fetches prices from the Finnhub REST API and polls them as a
// live feed.
package quote

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the Finnhub API root.
	DefaultBaseURL = "https://finnhub.io/api/v1"
	// KeyEnv holds the API key when none is configured.
	KeyEnv = "FINNHUB_KEY"
	// Timeout bounds every request.
	Timeout = 10 * time.Second
)

var (
	// ErrMissingKey is returned when no API key is set.
	ErrMissingKey = errors.New("missing " + KeyEnv + " (Finnhub API key)")
	// ErrNoData is returned for an empty candle response.
	ErrNoData = errors.New("no data for range")
)

// Quote is the latest quote of a symbol.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Time          int64   `json:"t"` // unix seconds
}

// Client talks to the Finnhub API.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// NewClient returns a client using key. An empty key falls back to the
// FINNHUB_KEY environment variable, an empty baseURL to DefaultBaseURL.
func NewClient(baseURL, key string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if key == "" {
		key = os.Getenv(KeyEnv)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		httpClient: &http.Client{
			Timeout: Timeout,
		},
	}
}

// HasKey reports whether an API key is set.
func (c *Client) HasKey() bool {
	return c.key != ""
}

// Quote fetches the latest quote of a Finnhub symbol.
// Prices missing from the response are NaN.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	q := Quote{Current: math.NaN(), PrevClose: math.NaN()}

	params := url.Values{}
	params.Set("symbol", symbol)

	err := c.get(ctx, "/quote", params, "Finnhub quote", &q)
	return q, err
}

// Candles fetches the candles of a Finnhub symbol over q.
func (c *Client) Candles(ctx context.Context, symbol string, q Query) (Candles, error) {
	var cs Candles

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", q.Resolution)
	params.Set("from", strconv.FormatInt(q.From.Unix(), 10))
	params.Set("to", strconv.FormatInt(q.To.Unix(), 10))

	err := c.get(ctx, "/stock/candle", params, "Finnhub candle", &cs)
	return cs, err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, label string, out any) error {
	if !c.HasKey() {
		return ErrMissingKey
	}

	params.Set("token", c.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, label)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, label)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("%s failed (%d)", label, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "%s: decode", label)
	}

	return nil
}
