// Package worldbank reads country classifications and indicator values from
// the World Bank v2 API.
package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/panel"
)

// DefaultBaseURL is the public World Bank API.
const DefaultBaseURL = "https://api.worldbank.org/v2"

const perPage = 1000

// Client queries the World Bank API.
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

type pageInfo struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type apiMessage struct {
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

type ref struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type countryRecord struct {
	ID          string `json:"id"`
	ISO2Code    string `json:"iso2Code"`
	Name        string `json:"name"`
	IncomeLevel ref    `json:"incomeLevel"`
}

type indicatorRecord struct {
	Indicator       ref      `json:"indicator"`
	Country         ref      `json:"country"`
	CountryISO3Code string   `json:"countryiso3code"`
	Date            string   `json:"date"`
	Value           *float64 `json:"value"`
}

// IndicatorValue is one country-year observation of an indicator.
type IndicatorValue struct {
	Indicator string
	Country   string // ISO3
	Year      int
	Value     float64 // NaN when the API reports null
}

// Countries returns the countries classified at the given income level.
func (c *Client) Countries(ctx context.Context, level model.IncomeLevel) ([]model.Country, error) {
	q := url.Values{}
	q.Set("incomeLevel", string(level))

	var countries []model.Country
	err := c.pages(ctx, "/country", q, func(raw json.RawMessage) error {
		var recs []countryRecord
		if err := json.Unmarshal(raw, &recs); err != nil {
			return fmt.Errorf("decoding countries: %w", err)
		}
		for _, r := range recs {
			countries = append(countries, model.Country{
				ID:     r.ID,
				ISO2:   r.ISO2Code,
				Name:   r.Name,
				Income: model.IncomeLevel(r.IncomeLevel.ID),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s countries: %w", level, err)
	}
	c.logger.Debug("fetched World Bank countries",
		zap.String("income_level", string(level)),
		zap.Int("count", len(countries)))
	return countries, nil
}

// Indicators returns annual values of each indicator for the given countries
// (ISO3 codes; empty means all) between the years from and to inclusive.
// When either year is zero the full history is requested.
func (c *Client) Indicators(ctx context.Context, indicators, countries []string, from, to int) ([]IndicatorValue, error) {
	codes := "all"
	if len(countries) > 0 {
		codes = strings.Join(countries, ";")
	}
	q := url.Values{}
	if from != 0 && to != 0 {
		q.Set("date", fmt.Sprintf("%d:%d", from, to))
	}

	var values []IndicatorValue
	for _, ind := range indicators {
		path := "/country/" + codes + "/indicator/" + url.PathEscape(ind)
		err := c.pages(ctx, path, q, func(raw json.RawMessage) error {
			var recs []indicatorRecord
			if err := json.Unmarshal(raw, &recs); err != nil {
				return fmt.Errorf("decoding indicator values: %w", err)
			}
			for _, r := range recs {
				year, err := strconv.Atoi(r.Date)
				if err != nil {
					return fmt.Errorf("parsing date %q for %s: %w", r.Date, r.CountryISO3Code, err)
				}
				v := math.NaN()
				if r.Value != nil {
					v = *r.Value
				}
				country := r.CountryISO3Code
				if country == "" {
					country = r.Country.ID
				}
				values = append(values, IndicatorValue{Indicator: r.Indicator.ID, Country: country, Year: year, Value: v})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetching indicator %s: %w", ind, err)
		}
	}
	return values, nil
}

// pages walks every page of a paged endpoint, passing each page's data array to fn.
func (c *Client) pages(ctx context.Context, path string, q url.Values, fn func(json.RawMessage) error) error {
	for page := 1; ; page++ {
		pq := url.Values{}
		for k, v := range q {
			pq[k] = v
		}
		pq.Set("format", "json")
		pq.Set("per_page", strconv.Itoa(perPage))
		pq.Set("page", strconv.Itoa(page))

		info, data, err := c.get(ctx, c.baseURL+path+"?"+pq.Encode())
		if err != nil {
			return err
		}
		if data != nil {
			if err := fn(data); err != nil {
				return err
			}
		}
		if info.Page >= info.Pages {
			return nil
		}
	}
}

func (c *Client) get(ctx context.Context, u string) (pageInfo, json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return pageInfo{}, nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return pageInfo{}, nil, fmt.Errorf("requesting %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pageInfo{}, nil, fmt.Errorf("requesting %s: unexpected status %s", u, resp.Status)
	}

	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pageInfo{}, nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(envelope) == 0 {
		return pageInfo{}, nil, errors.New("empty response")
	}

	var msg apiMessage
	if err := json.Unmarshal(envelope[0], &msg); err == nil && len(msg.Message) > 0 {
		m := msg.Message[0]
		return pageInfo{}, nil, fmt.Errorf("api error %s: %s", m.ID, m.Value)
	}

	var info pageInfo
	if err := json.Unmarshal(envelope[0], &info); err != nil {
		return pageInfo{}, nil, fmt.Errorf("decoding page info: %w", err)
	}
	if len(envelope) < 2 || string(envelope[1]) == "null" {
		return info, nil, nil
	}
	return info, envelope[1], nil
}

// IndicatorPanel arranges the values of one indicator into a panel with a
// column named after the indicator.
func IndicatorPanel(values []IndicatorValue, indicator string) (*panel.Panel, error) {
	first, last := math.MaxInt, math.MinInt
	for _, v := range values {
		if v.Indicator != indicator {
			continue
		}
		first = min(first, v.Year)
		last = max(last, v.Year)
	}
	if first > last {
		return nil, fmt.Errorf("no values for indicator %s", indicator)
	}

	p, err := panel.New(first, last)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if v.Indicator != indicator {
			continue
		}
		p.AddCountry(v.Country)
		if err := p.Set(indicator, v.Country, v.Year, v.Value); err != nil {
			return nil, err
		}
	}
	return p, nil
}
