// Package graphs turns chart definitions into rendered FRED charts.
package graphs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dailygraphs/dailygraphs/internal/chart"
	"github.com/dailygraphs/dailygraphs/internal/config"
	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/recession"
	"github.com/dailygraphs/dailygraphs/internal/series"
)

// SeriesProvider returns a dated series from start onwards.
type SeriesProvider interface {
	Series(ctx context.Context, id string, start time.Time) (model.Series, error)
}

// Pipeline fetches, transforms and renders catalog charts.
type Pipeline struct {
	provider SeriesProvider
	spans    []model.Span
	logger   *zap.Logger
}

// NewPipeline creates a Pipeline shading the given recession spans.
func NewPipeline(provider SeriesProvider, spans []model.Span, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{provider: provider, spans: spans, logger: logger}
}

type request struct {
	id    string
	start time.Time
}

// requests lists every series the chart needs. Divisors and deflators are
// fetched from the same start date as the line they belong to.
func requests(c config.ChartConfig) ([]request, error) {
	seen := make(map[request]bool)
	var out []request
	add := func(id string, start time.Time) {
		r := request{id: id, start: start}
		if id == "" || seen[r] {
			return
		}
		seen[r] = true
		out = append(out, r)
	}
	for _, l := range c.Lines {
		start, err := parseDate(l.Start)
		if err != nil {
			return nil, fmt.Errorf("line %s start: %w", l.Series, err)
		}
		add(l.Series, start)
		add(l.DivideBy, start)
		add(l.DeflateBy, start)
	}
	return out, nil
}

func (p *Pipeline) fetch(ctx context.Context, reqs []request) (map[request][]model.Observation, error) {
	var mu sync.Mutex
	out := make(map[request][]model.Observation, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range reqs {
		g.Go(func() error {
			s, err := p.provider.Series(ctx, r.id, r.start)
			if err != nil {
				return err
			}
			mu.Lock()
			out[r] = s.Observations
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Figure fetches the chart's series and builds the figure to render.
func (p *Pipeline) Figure(ctx context.Context, c config.ChartConfig) (chart.Figure, error) {
	reqs, err := requests(c)
	if err != nil {
		return chart.Figure{}, fmt.Errorf("chart %s: %w", c.Name, err)
	}
	data, err := p.fetch(ctx, reqs)
	if err != nil {
		return chart.Figure{}, fmt.Errorf("chart %s: %w", c.Name, err)
	}
	since, err := parseDate(c.Since)
	if err != nil {
		return chart.Figure{}, fmt.Errorf("chart %s since: %w", c.Name, err)
	}

	fig := chart.Figure{
		Title:    c.Title,
		XLabel:   c.XLabel,
		YLabel:   c.YLabel,
		LogY:     c.LogY,
		TimeAxis: true,
		Legend:   len(c.Lines) > 1,
	}
	if c.YMin != nil && c.YMax != nil {
		fig.YRange = &chart.Range{Min: *c.YMin, Max: *c.YMax}
	}

	var first, last time.Time
	for i, l := range c.Lines {
		start, _ := parseDate(l.Start)
		obs, err := Transform(l,
			data[request{l.Series, start}],
			data[request{l.DivideBy, start}],
			data[request{l.DeflateBy, start}])
		if err != nil {
			return chart.Figure{}, fmt.Errorf("chart %s line %s: %w", c.Name, l.Series, err)
		}
		if !since.IsZero() {
			obs = series.Since(obs, since)
		}
		if len(obs) > 0 {
			if first.IsZero() || obs[0].Date.Before(first) {
				first = obs[0].Date
			}
			if obs[len(obs)-1].Date.After(last) {
				last = obs[len(obs)-1].Date
			}
		}
		fig.Lines = append(fig.Lines, chart.Line{
			Label:  l.DisplayLabel(),
			Points: chart.FromObservations(obs),
			Color:  chart.PaletteColor(i),
			Dashed: l.Dashed,
		})
		p.logger.Debug("prepared line",
			zap.String("chart", c.Name),
			zap.String("series", l.Series),
			zap.Int("points", len(obs)))
	}
	fig.Bands = recession.Between(p.spans, first, last)
	return fig, nil
}

// Render builds the chart and writes it under outDir, returning the path.
func (p *Pipeline) Render(ctx context.Context, c config.ChartConfig, outDir string) (string, error) {
	fig, err := p.Figure(ctx, c)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, c.OutputName())
	if err := chart.Render(fig, path); err != nil {
		return "", fmt.Errorf("chart %s: %w", c.Name, err)
	}
	p.logger.Info("rendered chart", zap.String("chart", c.Name), zap.String("path", path))
	return path, nil
}

// Select returns the named charts in the given order, or all charts when no
// names are given.
func Select(charts []config.ChartConfig, names []string) ([]config.ChartConfig, error) {
	if len(names) == 0 {
		return charts, nil
	}
	byName := make(map[string]config.ChartConfig, len(charts))
	for _, c := range charts {
		byName[c.Name] = c
	}
	out := make([]config.ChartConfig, 0, len(names))
	for _, n := range names {
		c, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownChart, n)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
