package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Solow.Delta = 0.06
	cfg.Sources.PWT.Path = "data/pwt71.csv"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Paths, got.Paths)
	assert.Equal(t, cfg.Solow, got.Solow)
	assert.Equal(t, cfg.Sources, got.Sources)
	assert.Equal(t, cfg.Charts, got.Charts)
	assert.Equal(t, filepath.Dir(path), got.Dir())
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "output", cfg.Paths.Output)
	assert.Equal(t, "rgdpl", cfg.Solow.RGDPPC)
	assert.Equal(t, "rgdpwok", cfg.Solow.RGDPPW)
	assert.InDelta(t, 0.02, cfg.Solow.G0, 1e-12)
	assert.InDelta(t, 0.05, cfg.Solow.Delta, 1e-12)
	assert.InDelta(t, 0.33, cfg.Solow.Alpha, 1e-12)
	assert.Equal(t, 10, cfg.Solow.H)
	assert.Equal(t, 71, cfg.Sources.PWT.Version)
	assert.Equal(t, "11302012", cfg.Sources.PWT.Date)
	assert.Equal(t, "FP.CPI.TOTL.ZG", cfg.Sources.WorldBank.Indicator)
	assert.Equal(t, time.Minute, cfg.Sources.Timeout)
	assert.NotEmpty(t, cfg.Charts)
	require.NoError(t, cfg.Validate())

	p := cfg.Solow.Params()
	require.NoError(t, p.Validate())
	assert.Equal(t, cfg.Solow.Alpha, p.Alpha)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "rgdppc: rgdpl")
	assert.Contains(t, contents, "delta: 0.05")
	assert.Contains(t, contents, "timeout: 1m0s")
	assert.Contains(t, contents, "series: USARGDPC")
	assert.Contains(t, contents, "deflate_at:")
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("solow:\n  rgdppc: rgdpch\n  rgdppw: rgdpwok\n  alpha: 0.3\n  delta: 0.05\n  h: 5\n  places: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rgdpch", cfg.Solow.RGDPPC)
	assert.Equal(t, 5, cfg.Solow.H)
	assert.Equal(t, "output", cfg.Paths.Output)
	assert.Equal(t, DefaultCharts(), cfg.Charts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	t.Setenv("DAILYGRAPHS_SOLOW_DELTA", "0.1")
	t.Setenv("DAILYGRAPHS_PATHS_OUTPUT", "/tmp/charts")
	t.Setenv("DAILYGRAPHS_SOURCES_FRED_BASE_URL", "http://localhost:9999")
	t.Setenv("DAILYGRAPHS_SOURCES_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, cfg.Solow.Delta, 1e-12)
	assert.Equal(t, "/tmp/charts", cfg.OutputDir())
	assert.Equal(t, "http://localhost:9999", cfg.Sources.FRED.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"delta out of range", func(c *Config) { c.Solow.Delta = 1 }, "solow.delta must be less than 1"},
		{"alpha zero", func(c *Config) { c.Solow.Alpha = 0 }, "solow.alpha must be greater than 0"},
		{"h too large", func(c *Config) { c.Solow.H = 11 }, "solow.h must be less than or equal to 10"},
		{"bad url", func(c *Config) { c.Sources.FRED.BaseURL = "not a url" }, "sources.fred.base_url must be a valid URL"},
		{"bad start", func(c *Config) { c.Charts[0].Lines[0].Start = "1960" }, "charts[0].lines[0].start must be a YYYY-MM-DD date"},
		{"bad resample", func(c *Config) { c.Charts[0].Lines[0].Resample = "weekly" }, "must be one of: monthly, annual"},
		{"deflate without date", func(c *Config) { c.Charts[0].Lines[0].DeflateBy = "CPIAUCSL" }, "charts[0].lines[0].deflate_at is required"},
		{"no lines", func(c *Config) { c.Charts[1].Lines = nil }, "charts[1].lines"},
		{"duplicate name", func(c *Config) { c.Charts[1].Name = c.Charts[0].Name }, "defined more than once"},
		{"commit without author", func(c *Config) { c.Git.AutoCommit = true; c.Git.AuthorName = "" }, "git.author_name is required when autocommit is true"},
		{"half y range", func(c *Config) { c.Charts[0].YMax = nil }, "y_min and y_max must be set together"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, Save(path, cfg))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "output", cfg.OutputDir(), "no dir leaves paths relative")

	cfg.SetDir("/work")
	assert.Equal(t, filepath.Join("/work", "output"), cfg.OutputDir())
	assert.Equal(t, filepath.Join("/work", "logs"), cfg.LogsDir())
	assert.Equal(t, "/abs/data", cfg.Resolve("/abs/data"))
	assert.Equal(t, "", cfg.Resolve(""))

	src := cfg.PWTSource()
	assert.Empty(t, src.Path)
	assert.Empty(t, src.ExtractDir)

	cfg.Sources.PWT.Extract = true
	cfg.Sources.PWT.Path = "pwt.csv"
	src = cfg.PWTSource()
	assert.Equal(t, filepath.Join("/work", "pwt.csv"), src.Path)
	assert.Equal(t, filepath.Join("/work", "data"), src.ExtractDir)
}

func TestChart(t *testing.T) {
	cfg := Default()
	ch, err := cfg.Chart("mankiw-figure-1-3")
	require.NoError(t, err)
	assert.Equal(t, "annual", ch.Lines[0].Resample)
	assert.Equal(t, "2013-01-02-Mankiw-Fig-1-3.png", ch.OutputName())

	_, err = cfg.Chart("nope")
	assert.ErrorIs(t, err, ErrUnknownChart)

	assert.Equal(t, "x.png", ChartConfig{Name: "x"}.OutputName())
	assert.Equal(t, "GDP", LineConfig{Series: "GDP"}.DisplayLabel())
}
