// Package groups classifies countries by World Bank income level.
package groups

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

// CountryLister returns the countries at one income level.
type CountryLister interface {
	Countries(ctx context.Context, level model.IncomeLevel) ([]model.Country, error)
}

// Service provides in-memory lookup of countries and their income levels.
type Service struct {
	countries []model.Country
	byID      map[string]model.Country
}

// NewService creates a Service from a slice of countries.
func NewService(countries []model.Country) *Service {
	byID := make(map[string]model.Country, len(countries))
	for _, c := range countries {
		byID[c.ID] = c
	}
	return &Service{countries: countries, byID: byID}
}

// FromLister queries each income level concurrently and merges the results
// in level order.
func FromLister(ctx context.Context, lister CountryLister, levels []model.IncomeLevel) (*Service, error) {
	results := make([][]model.Country, len(levels))
	g, ctx := errgroup.WithContext(ctx)
	for i, level := range levels {
		g.Go(func() error {
			cs, err := lister.Countries(ctx, level)
			if err != nil {
				return err
			}
			for j := range cs {
				if cs[j].Income == "" {
					cs[j].Income = level
				}
			}
			results[i] = cs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classifying countries: %w", err)
	}

	var all []model.Country
	for _, cs := range results {
		all = append(all, cs...)
	}
	return NewService(all), nil
}

// Load reads a countries CSV file.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening country groups: %w", err)
	}
	defer f.Close()

	countries, err := ReadCountries(f)
	if err != nil {
		return nil, fmt.Errorf("reading country groups: %w", err)
	}
	return NewService(countries), nil
}

// All returns all countries.
func (s *Service) All() []model.Country {
	return s.countries
}

// Get returns a country by ID.
func (s *Service) Get(id string) (model.Country, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// LevelOf returns the income level of a country.
func (s *Service) LevelOf(id string) (model.IncomeLevel, bool) {
	c, ok := s.byID[id]
	if !ok {
		return "", false
	}
	return c.Income, true
}

// ByLevel returns the IDs of all countries at the given level.
func (s *Service) ByLevel(level model.IncomeLevel) []string {
	var ids []string
	for _, c := range s.countries {
		if c.Income == level {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Save writes the countries to path as CSV.
func (s *Service) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating country groups dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating country groups file: %w", err)
	}
	defer f.Close()

	if err := WriteCountries(f, s.countries); err != nil {
		return fmt.Errorf("writing country groups: %w", err)
	}
	return nil
}
