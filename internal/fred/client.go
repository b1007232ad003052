// Package fred downloads series from the Federal Reserve Bank of St. Louis
// FRED database via its graph CSV endpoint.
package fred

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/series"
)

// DefaultBaseURL is the public FRED site.
const DefaultBaseURL = "https://fred.stlouisfed.org"

const dateFormat = "2006-01-02"

// missingValue is how FRED marks an observation with no data.
const missingValue = "."

// Client fetches FRED series.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Client. Empty baseURL uses DefaultBaseURL and a nil
// httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, logger: logger}
}

// Series returns observations of id from start onwards. A zero start returns
// the full history.
func (c *Client) Series(ctx context.Context, id string, start time.Time) (model.Series, error) {
	q := url.Values{}
	q.Set("id", id)
	if !start.IsZero() {
		q.Set("cosd", start.Format(dateFormat))
	}
	u := c.baseURL + "/graph/fredgraph.csv?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Series{}, fmt.Errorf("building request for %s: %w", id, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetching %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Series{}, fmt.Errorf("fetching %s: unexpected status %s", id, resp.Status)
	}

	obs, err := ReadCSV(resp.Body)
	if err != nil {
		return model.Series{}, fmt.Errorf("parsing %s: %w", id, err)
	}
	if !start.IsZero() {
		obs = series.Since(obs, start)
	}
	c.logger.Debug("fetched FRED series",
		zap.String("id", id),
		zap.Int("observations", len(obs)))
	return model.Series{ID: id, Observations: obs}, nil
}

// ReadCSV parses a fredgraph CSV: a header row, then date,value rows.
func ReadCSV(r io.Reader) ([]model.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading FRED CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	obs := make([]model.Observation, 0, len(records)-1)
	for i, rec := range records[1:] {
		date, err := time.Parse(dateFormat, rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[0], err)
		}
		value := math.NaN()
		if cell := strings.TrimSpace(rec[1]); cell != missingValue && cell != "" {
			value, err = strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing value %q: %w", i+2, rec[1], err)
			}
		}
		obs = append(obs, model.Observation{Date: date, Value: value})
	}
	return obs, nil
}
