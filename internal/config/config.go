package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/dailygraphs/dailygraphs/internal/fred"
	"github.com/dailygraphs/dailygraphs/internal/pwt"
	"github.com/dailygraphs/dailygraphs/internal/solow"
	"github.com/dailygraphs/dailygraphs/internal/worldbank"
)

// FileName is the config file written by init and read by default.
const FileName = "dailygraphs.yaml"

// EnvPrefix prefixes environment overrides. Keys follow the struct path with
// words split by underscores, e.g. DAILYGRAPHS_SOURCES_FRED_BASE_URL.
const EnvPrefix = "DAILYGRAPHS"

// Config represents the top-level dailygraphs.yaml configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" split_words:"true"`
	Solow   SolowConfig   `yaml:"solow" split_words:"true"`
	Sources SourcesConfig `yaml:"sources" split_words:"true"`
	// Recessions points at an NBER dates file; empty uses the built-in table.
	Recessions string        `yaml:"recessions,omitempty" split_words:"true"`
	Git        GitConfig     `yaml:"git" split_words:"true"`
	Charts     []ChartConfig `yaml:"charts" ignored:"true" validate:"dive"`

	dir string
}

// PathsConfig locates generated files. Relative paths are resolved against
// the directory holding the config file.
type PathsConfig struct {
	Output string `yaml:"output" split_words:"true" validate:"required"`
	Data   string `yaml:"data" split_words:"true" validate:"required"`
	Logs   string `yaml:"logs" split_words:"true" validate:"required"`
}

// SolowConfig holds the capital stock imputation assumptions.
type SolowConfig struct {
	RGDPPC string  `yaml:"rgdppc" split_words:"true" validate:"required"`
	RGDPPW string  `yaml:"rgdppw" split_words:"true" validate:"required"`
	G0     float64 `yaml:"g0" split_words:"true"`
	Delta  float64 `yaml:"delta" split_words:"true" validate:"gte=0,lt=1"`
	Alpha  float64 `yaml:"alpha" split_words:"true" validate:"gt=0,lt=1"`
	H      int     `yaml:"h" split_words:"true" validate:"gte=1,lte=10"`
	// Places is the number of decimals written to the CSV export.
	Places int `yaml:"places" split_words:"true" validate:"gte=0,lte=15"`
}

// SourcesConfig configures the data providers.
type SourcesConfig struct {
	Timeout   time.Duration   `yaml:"timeout" split_words:"true"`
	FRED      FREDConfig      `yaml:"fred" split_words:"true"`
	WorldBank WorldBankConfig `yaml:"world_bank" split_words:"true"`
	PWT       PWTConfig       `yaml:"pwt" split_words:"true"`
}

// FREDConfig configures the FRED provider.
type FREDConfig struct {
	BaseURL string `yaml:"base_url" split_words:"true" validate:"required,url"`
}

// WorldBankConfig configures the World Bank provider and the inflation chart.
type WorldBankConfig struct {
	BaseURL   string `yaml:"base_url" split_words:"true" validate:"required,url"`
	Indicator string `yaml:"inflation_indicator" split_words:"true" validate:"required"`
	From      int    `yaml:"from,omitempty" split_words:"true" validate:"gte=0"`
	To        int    `yaml:"to,omitempty" split_words:"true" validate:"omitempty,gtefield=From"`
	// Countries is a country list written by `countries --save`; empty asks
	// the World Bank on every run.
	Countries string `yaml:"countries,omitempty" split_words:"true"`
}

// PWTConfig locates the Penn World Table. Path wins over the download.
type PWTConfig struct {
	Path    string `yaml:"path,omitempty" split_words:"true"`
	BaseURL string `yaml:"base_url" split_words:"true" validate:"required,url"`
	Version int    `yaml:"version" split_words:"true" validate:"gt=0"`
	Date    string `yaml:"date" split_words:"true" validate:"required,numeric"`
	Extract bool   `yaml:"extract,omitempty" split_words:"true"`
}

// GitConfig commits each run's artifacts when the project is inside a git
// work tree.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" split_words:"true"`
	AuthorName  string `yaml:"author_name" split_words:"true" validate:"required_if=AutoCommit true"`
	AuthorEmail string `yaml:"author_email" split_words:"true" validate:"required_if=AutoCommit true"`
}

// Load reads a dailygraphs.yaml file from disk on top of the defaults,
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Output: "output",
			Data:   "data",
			Logs:   "logs",
		},
		Solow: SolowConfig{
			RGDPPC: "rgdpl",
			RGDPPW: "rgdpwok",
			G0:     0.02,
			Delta:  0.05,
			Alpha:  0.33,
			H:      solow.DefaultH,
			Places: 6,
		},
		Sources: SourcesConfig{
			Timeout: 60 * time.Second,
			FRED: FREDConfig{
				BaseURL: fred.DefaultBaseURL,
			},
			WorldBank: WorldBankConfig{
				BaseURL:   worldbank.DefaultBaseURL,
				Indicator: "FP.CPI.TOTL.ZG",
			},
			PWT: PWTConfig{
				BaseURL: pwt.DefaultBaseURL,
				Version: 71,
				Date:    "11302012",
			},
		},
		Git: GitConfig{
			AuthorName:  "dailygraphs",
			AuthorEmail: "dailygraphs@users.noreply.github.com",
		},
		Charts: DefaultCharts(),
	}
}

// Dir is the directory relative paths are resolved against.
func (c *Config) Dir() string { return c.dir }

// SetDir changes the directory relative paths are resolved against.
func (c *Config) SetDir(dir string) { c.dir = dir }

// Resolve makes p absolute relative to the config directory. Empty and
// absolute paths are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// OutputDir is where charts and exports are written.
func (c *Config) OutputDir() string { return c.Resolve(c.Paths.Output) }

// DataDir is where downloaded and cached data lives.
func (c *Config) DataDir() string { return c.Resolve(c.Paths.Data) }

// LogsDir holds the run log.
func (c *Config) LogsDir() string { return c.Resolve(c.Paths.Logs) }

// Params converts the Solow settings to imputer parameters.
func (s SolowConfig) Params() solow.Params {
	return solow.Params{
		RGDPPC: s.RGDPPC,
		RGDPPW: s.RGDPPW,
		G0:     s.G0,
		Delta:  s.Delta,
		Alpha:  s.Alpha,
		H:      s.H,
	}
}

// PWTSource converts the PWT settings to a loader source.
func (c *Config) PWTSource() pwt.Source {
	src := pwt.Source{
		Path:    c.Resolve(c.Sources.PWT.Path),
		BaseURL: c.Sources.PWT.BaseURL,
		Version: c.Sources.PWT.Version,
		Date:    c.Sources.PWT.Date,
	}
	if c.Sources.PWT.Extract {
		src.ExtractDir = c.DataDir()
	}
	return src
}

// Chart returns the chart definition with the given name.
func (c *Config) Chart(name string) (ChartConfig, error) {
	for _, ch := range c.Charts {
		if ch.Name == name {
			return ch, nil
		}
	}
	return ChartConfig{}, fmt.Errorf("%w: %s", ErrUnknownChart, name)
}

// ErrUnknownChart is returned for chart names missing from the catalog.
var ErrUnknownChart = errors.New("unknown chart")
