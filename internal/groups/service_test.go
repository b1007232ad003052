package groups

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailygraphs/dailygraphs/internal/model"
)

type fakeLister struct {
	mu      sync.Mutex
	byLevel map[model.IncomeLevel][]model.Country
	fail    model.IncomeLevel
	asked   []model.IncomeLevel
}

func (f *fakeLister) Countries(_ context.Context, level model.IncomeLevel) ([]model.Country, error) {
	f.mu.Lock()
	f.asked = append(f.asked, level)
	f.mu.Unlock()
	if level == f.fail {
		return nil, errors.New("boom")
	}
	return f.byLevel[level], nil
}

func sampleCountries() []model.Country {
	return []model.Country{
		{ID: "KEN", ISO2: "KE", Name: "Kenya", Income: model.IncomeLow},
		{ID: "IND", ISO2: "IN", Name: "India", Income: model.IncomeLowerMiddle},
		{ID: "USA", ISO2: "US", Name: "United States", Income: model.IncomeHigh},
		{ID: "FRA", ISO2: "FR", Name: "France", Income: model.IncomeHigh},
	}
}

func TestLookup(t *testing.T) {
	svc := NewService(sampleCountries())

	level, ok := svc.LevelOf("IND")
	assert.True(t, ok)
	assert.Equal(t, model.IncomeLowerMiddle, level)

	_, ok = svc.LevelOf("ZZZ")
	assert.False(t, ok)

	c, ok := svc.Get("USA")
	assert.True(t, ok)
	assert.Equal(t, "United States", c.Name)

	assert.Equal(t, []string{"USA", "FRA"}, svc.ByLevel(model.IncomeHigh))
	assert.Empty(t, svc.ByLevel(model.IncomeUpperMiddle))
	assert.Len(t, svc.All(), 4)
}

func TestFromLister(t *testing.T) {
	lister := &fakeLister{byLevel: map[model.IncomeLevel][]model.Country{
		model.IncomeLow:  {{ID: "KEN"}},
		model.IncomeHigh: {{ID: "USA", Income: model.IncomeHigh}, {ID: "FRA"}},
	}}

	svc, err := FromLister(context.Background(), lister, model.IncomeLevels)
	require.NoError(t, err)
	assert.Len(t, lister.asked, 4)

	ids := make([]string, 0)
	for _, c := range svc.All() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"KEN", "USA", "FRA"}, ids, "merged in level order")

	level, ok := svc.LevelOf("FRA")
	assert.True(t, ok)
	assert.Equal(t, model.IncomeHigh, level, "level filled from the query")
}

func TestFromLister_Error(t *testing.T) {
	lister := &fakeLister{fail: model.IncomeUpperMiddle}
	_, err := FromLister(context.Background(), lister, model.IncomeLevels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCountries(&buf, sampleCountries()))
	assert.True(t, strings.HasPrefix(buf.String(), "id,iso2,name,income_level\n"))

	got, err := ReadCountries(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleCountries(), got)
}

func TestReadCountries_Errors(t *testing.T) {
	_, err := ReadCountries(strings.NewReader("id,iso2,name,income_level\n,KE,Kenya,LIC\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	_, err = ReadCountries(strings.NewReader("id,iso2,name\nKEN,KE,Kenya\n"))
	require.Error(t, err)

	cs, err := ReadCountries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, cs)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "countries.csv")
	require.NoError(t, NewService(sampleCountries()).Save(path))

	svc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCountries(), svc.All())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
