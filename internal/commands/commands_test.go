package commands_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dailygraphs/dailygraphs/internal/commands"
	"github.com/dailygraphs/dailygraphs/internal/config"
	"github.com/dailygraphs/dailygraphs/internal/runlog"
	"github.com/dailygraphs/dailygraphs/internal/solow"
)

// execute runs the root command in-process and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// newProject writes a config into a temp dir and returns its path.
func newProject(t *testing.T, mutate func(*config.Config)) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, config.Save(path, cfg))
	return dir, path
}

var wbCountries = map[string][]string{
	"LIC": {`{"id":"KEN","iso2Code":"KE","name":"Kenya","incomeLevel":{"id":"LIC","value":"Low income"}}`},
	"LMC": {`{"id":"IND","iso2Code":"IN","name":"India","incomeLevel":{"id":"LMC","value":"Lower middle income"}}`},
	"HIC": {`{"id":"USA","iso2Code":"US","name":"United States","incomeLevel":{"id":"HIC","value":"High income"}}`},
}

// worldBankServer fakes the country and indicator endpoints.
func worldBankServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/country":
			recs := wbCountries[r.URL.Query().Get("incomeLevel")]
			if len(recs) == 0 {
				fmt.Fprint(w, `[{"page":1,"pages":0,"per_page":"1000","total":0},null]`)
				return
			}
			fmt.Fprintf(w, `[{"page":1,"pages":1,"per_page":"1000","total":%d},[%s]]`, len(recs), strings.Join(recs, ","))
		case strings.HasPrefix(r.URL.Path, "/country/") && strings.HasSuffix(r.URL.Path, "/indicator/FP.CPI.TOTL.ZG"):
			var recs []string
			for _, c := range []string{"KEN", "IND", "USA"} {
				for year, v := range map[int]string{2000: "10.0", 2001: "5.8", 2002: "null"} {
					recs = append(recs, fmt.Sprintf(`{"indicator":{"id":"FP.CPI.TOTL.ZG"},"country":{"id":"%s"},"countryiso3code":"%s","date":"%d","value":%s}`, c[:2], c, year, v))
				}
			}
			fmt.Fprintf(w, `[{"page":1,"pages":1,"per_page":"1000","total":%d},[%s]]`, len(recs), strings.Join(recs, ","))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// fetched records the series ids a fake FRED server was asked for.
type fetched struct {
	mu  sync.Mutex
	ids []string
}

func (f *fetched) add(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
}

func (f *fetched) list() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

// fredServer serves a few quarterly points for any series id.
func fredServer(t *testing.T) (*httptest.Server, *fetched) {
	t.Helper()
	ids := &fetched{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graph/fredgraph.csv" {
			http.NotFound(w, r)
			return
		}
		id := r.URL.Query().Get("id")
		if id == "MISSING" {
			http.Error(w, "no such series", http.StatusBadRequest)
			return
		}
		ids.add(id)
		fmt.Fprintf(w, "DATE,%s\n2007-01-01,100\n2007-04-01,101\n2007-07-01,.\n2007-10-01,103\n2008-01-01,104\n2008-04-01,102\n", id)
	}))
	t.Cleanup(srv.Close)
	return srv, ids
}

func pwtSample(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "testdata", "pwt_sample.csv"))
	require.NoError(t, err)
	return path
}

func TestSolow_WritesArtifacts(t *testing.T) {
	wb := worldBankServer(t)
	dir, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.WorldBank.BaseURL = wb.URL
	})

	out, err := execute(t, "solow", "--config", cfgPath, "--pwt", pwtSample(t))
	require.NoError(t, err, out)

	outDir := filepath.Join(dir, "output")
	assert.Contains(t, out, filepath.Join(outDir, "2013-01-26-Solow-Residual-by-Income-Group.png"))
	for _, name := range []string{
		"2013-01-26-Solow-Residual-by-Income-Group.png",
		"solow-residuals.csv",
		"solow-residuals.xlsx",
	} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, "%s should exist", name)
		assert.Positive(t, info.Size())
	}

	entries, err := runlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "solow", entries[0].Command)
	assert.Contains(t, entries[0].Details, "h=10")
}

func TestSolow_CSVColumns(t *testing.T) {
	wb := worldBankServer(t)
	dir, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.WorldBank.BaseURL = wb.URL
	})

	_, err := execute(t, "solow", "--config", cfgPath, "--pwt", pwtSample(t), "--h", "3")
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "output", "solow-residuals.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	header := records[0]
	assert.Equal(t, []string{"country", "year"}, header[:2])
	assert.Contains(t, header, solow.ColTechnology)
	assert.Contains(t, header, solow.ColImputedK)
	// Three countries over the sample's fifteen years.
	assert.Len(t, records, 1+3*15)

	xf, err := excelize.OpenFile(filepath.Join(dir, "output", "solow-residuals.xlsx"))
	require.NoError(t, err)
	defer xf.Close()
	assert.Equal(t, solow.DerivedColumns, xf.GetSheetList())
}

func TestSolow_ReadsSavedCountries(t *testing.T) {
	wb := worldBankServer(t)
	dir, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.WorldBank.BaseURL = wb.URL
		c.Sources.WorldBank.Countries = "data/countries.csv"
	})

	_, err := execute(t, "countries", "--config", cfgPath, "--save", "data/countries.csv")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data", "countries.csv"))
	require.NoError(t, err)

	// With the list on disk the World Bank is not needed.
	wb.Close()
	out, err := execute(t, "solow", "--config", cfgPath, "--pwt", pwtSample(t))
	require.NoError(t, err, out)
}

func TestSolow_MissingCountryFile(t *testing.T) {
	_, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.WorldBank.Countries = "data/countries.csv"
	})

	_, err := execute(t, "solow", "--config", cfgPath, "--pwt", pwtSample(t))
	assert.Error(t, err)
}

func TestSolow_RejectsBadParams(t *testing.T) {
	_, cfgPath := newProject(t, nil)

	_, err := execute(t, "solow", "--config", cfgPath, "--pwt", pwtSample(t), "--h", "0")
	assert.Error(t, err)
}

func TestSolow_MissingPWT(t *testing.T) {
	dir, cfgPath := newProject(t, nil)

	_, err := execute(t, "solow", "--config", cfgPath, "--pwt", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestCountries_ListsByLevel(t *testing.T) {
	wb := worldBankServer(t)
	_, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.WorldBank.BaseURL = wb.URL
	})

	out, err := execute(t, "countries", "--config", cfgPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^LEVEL\s+ID\s+NAME$`, lines[0])
	assert.Regexp(t, `^LIC\s+KEN\s+Kenya$`, lines[1])
	assert.Regexp(t, `^LMC\s+IND\s+India$`, lines[2])
	assert.Regexp(t, `^HIC\s+USA\s+United States$`, lines[3])
}

func TestInflation_RendersChart(t *testing.T) {
	wb := worldBankServer(t)
	dir, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.WorldBank.BaseURL = wb.URL
		c.Sources.WorldBank.From = 2000
		c.Sources.WorldBank.To = 2002
	})

	out, err := execute(t, "inflation", "--config", cfgPath)
	require.NoError(t, err, out)

	path := filepath.Join(dir, "output", "2013-01-01-Global-Inflation-by-Income-Groups.png")
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	entries, err := runlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "indicator=FP.CPI.TOTL.ZG countries=3", entries[0].Details)
}

func renderCharts() []config.ChartConfig {
	return []config.ChartConfig{
		{
			Name:   "unemployment",
			Title:  "Unemployment",
			YLabel: "Percent",
			Lines:  []config.LineConfig{{Series: "UNRATE"}},
		},
		{
			Name:  "labor-share",
			Title: "Labor share",
			Lines: []config.LineConfig{
				{Series: "COE", DivideBy: "GDP", Label: "Compensation / GDP"},
				{Series: "W270RE1A156NBEA", Dashed: true},
			},
		},
	}
}

func TestRender_AllCharts(t *testing.T) {
	fred, ids := fredServer(t)
	dir, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.FRED.BaseURL = fred.URL
		c.Charts = renderCharts()
	})

	out, err := execute(t, "render", "--config", cfgPath)
	require.NoError(t, err, out)

	for _, name := range []string{"unemployment.png", "labor-share.png"} {
		_, err := os.Stat(filepath.Join(dir, "output", name))
		assert.NoError(t, err, "%s should be rendered", name)
	}
	assert.ElementsMatch(t, []string{"UNRATE", "COE", "GDP", "W270RE1A156NBEA"}, ids.list())

	entries, err := runlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "unemployment", entries[0].Details)
	assert.Equal(t, "labor-share", entries[1].Details)
}

func TestRender_NamedChart(t *testing.T) {
	fred, ids := fredServer(t)
	dir, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.FRED.BaseURL = fred.URL
		c.Charts = renderCharts()
	})

	_, err := execute(t, "render", "--config", cfgPath, "unemployment")
	require.NoError(t, err)

	assert.Equal(t, []string{"UNRATE"}, ids.list())
	_, err = os.Stat(filepath.Join(dir, "output", "labor-share.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRender_List(t *testing.T) {
	_, cfgPath := newProject(t, nil)

	out, err := execute(t, "render", "--config", cfgPath, "--list")
	require.NoError(t, err)

	for _, c := range config.DefaultCharts() {
		assert.Contains(t, out, c.Name)
		assert.Contains(t, out, c.OutputName())
	}
}

func TestRender_UnknownChart(t *testing.T) {
	_, cfgPath := newProject(t, nil)

	_, err := execute(t, "render", "--config", cfgPath, "no-such-chart")
	assert.ErrorIs(t, err, config.ErrUnknownChart)
}

func TestRender_FetchFailureKeepsLog(t *testing.T) {
	fred, _ := fredServer(t)
	dir, cfgPath := newProject(t, func(c *config.Config) {
		c.Sources.FRED.BaseURL = fred.URL
		c.Charts = append(renderCharts()[:1], config.ChartConfig{
			Name:  "broken",
			Lines: []config.LineConfig{{Series: "MISSING"}},
		})
	})

	_, err := execute(t, "render", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")

	entries, err := runlog.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unemployment", entries[0].Details)
}
