package config

// ChartConfig defines one FRED chart: the series to fetch, how to transform
// them and how to label the figure.
type ChartConfig struct {
	Name   string   `yaml:"name" validate:"required"`
	Title  string   `yaml:"title"`
	XLabel string   `yaml:"x_label,omitempty"`
	YLabel string   `yaml:"y_label,omitempty"`
	LogY   bool     `yaml:"log_y,omitempty"`
	YMin   *float64 `yaml:"y_min,omitempty"`
	YMax   *float64 `yaml:"y_max,omitempty"`
	// Since trims every line to dates on or after it.
	Since string `yaml:"since,omitempty" validate:"omitempty,isodate"`
	// Output is the file name under the output dir; the extension picks the
	// format. Defaults to <name>.png.
	Output string       `yaml:"output,omitempty"`
	Lines  []LineConfig `yaml:"lines" validate:"required,min=1,dive"`
}

// LineConfig is one plotted series. Transforms apply in the order resample,
// divide, deflate, percent change, scale.
type LineConfig struct {
	Series    string  `yaml:"series" validate:"required"`
	Label     string  `yaml:"label,omitempty"`
	Start     string  `yaml:"start,omitempty" validate:"omitempty,isodate"`
	Resample  string  `yaml:"resample,omitempty" validate:"omitempty,oneof=monthly annual"`
	DivideBy  string  `yaml:"divide_by,omitempty"`
	DeflateBy string  `yaml:"deflate_by,omitempty"`
	DeflateAt string  `yaml:"deflate_at,omitempty" validate:"required_with=DeflateBy,omitempty,isodate"`
	PctChange int     `yaml:"pct_change,omitempty" validate:"gte=0"`
	Scale     float64 `yaml:"scale,omitempty"`
	Dashed    bool    `yaml:"dashed,omitempty"`
}

// OutputName is the chart's file name.
func (c ChartConfig) OutputName() string {
	if c.Output != "" {
		return c.Output
	}
	return c.Name + ".png"
}

// DisplayLabel is the legend text for the line.
func (l LineConfig) DisplayLabel() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Series
}

func float(v float64) *float64 { return &v }

const (
	blsSource = "Source: U.S. Department of Labor, BLS (via FRED)"
	beaSource = "Source: U.S. Department of Commerce, BEA (via FRED)"
)

// DefaultCharts is the catalog written by init.
func DefaultCharts() []ChartConfig {
	return []ChartConfig{
		{
			Name:   "mankiw-figure-1-1",
			Title:  "Real GDP per Capita in the United States (USARGDPC)\n" + blsSource,
			YLabel: "2010 U.S. Dollars",
			LogY:   true,
			YMin:   float(8000),
			YMax:   float(64000),
			Output: "2012-12-19-Mankiw-Figure-1-1.png",
			Lines:  []LineConfig{{Series: "USARGDPC", Start: "1960-01-01"}},
		},
		{
			Name:   "mankiw-figure-1-2",
			Title:  "Measures of historical inflation in the U.S.\n" + blsSource,
			YLabel: "Inflation (% change from a year ago)",
			Output: "2012-12-28-Mankiw-Figure-1-2.png",
			Lines: []LineConfig{
				{Series: "CPIAUCNS", Start: "1913-01-01", PctChange: 12, Scale: 100},
				{Series: "CPIAUCSL", Start: "1947-01-01", PctChange: 12, Scale: 100},
				{Series: "GDPDEF", Start: "1947-01-01", PctChange: 4, Scale: 100},
			},
		},
		{
			Name:   "mankiw-figure-1-3",
			Title:  "Civilian unemployment rate (UNRATE), Seasonally adjusted\n" + blsSource,
			XLabel: "Year",
			YLabel: "Percent",
			YMin:   float(0),
			YMax:   float(10),
			Output: "2013-01-02-Mankiw-Fig-1-3.png",
			Lines:  []LineConfig{{Series: "UNRATE", Start: "1948-01-01", Resample: "annual"}},
		},
		{
			Name:   "coe-share",
			Title:  "Employee compensation share of U.S. GDP\n" + beaSource,
			YLabel: "COE Share",
			Output: "2012-12-31-Declining-COE-Share-of-GDP.png",
			Lines:  []LineConfig{{Series: "COE", Label: "COE / GDP", Start: "1947-01-01", DivideBy: "GDP"}},
		},
		{
			Name:   "coe-share-since-1973",
			Title:  "Employee compensation share of U.S. GDP\n" + beaSource,
			YLabel: "COE Share",
			Since:  "1973-01-01",
			Output: "2012-12-31-Krugmans-Plot.png",
			Lines:  []LineConfig{{Series: "COE", Label: "COE / GDP", Start: "1947-01-01", DivideBy: "GDP"}},
		},
		{
			Name:   "coe-share-full-scale",
			Title:  "Employee compensation share of U.S. GDP\n" + beaSource,
			YLabel: "COE Share",
			YMin:   float(0),
			YMax:   float(1),
			Output: "2012-12-31-Constant-COE-Share-of-GDP.png",
			Lines:  []LineConfig{{Series: "COE", Label: "COE / GDP", Start: "1947-01-01", DivideBy: "GDP"}},
		},
		{
			Name:   "sp500-nominal",
			Title:  "Historical S&P 500 Index (Monthly Avg.)",
			YLabel: "Close",
			LogY:   true,
			Output: "2012-12-23-Nominal-SP500-Monthly-log-scale.png",
			Lines:  []LineConfig{{Series: "SP500", Start: "1950-01-01", Resample: "monthly"}},
		},
		{
			Name:   "sp500-real",
			Title:  "Historical S&P 500 Index (Monthly Avg.)",
			YLabel: "Close (Nov. 2012 Dollars)",
			LogY:   true,
			Output: "2012-12-23-Real-SP500-Monthly-log-scale.png",
			Lines: []LineConfig{{
				Series:    "SP500",
				Label:     "S&P 500 (real)",
				Start:     "1950-01-01",
				Resample:  "monthly",
				DeflateBy: "CPIAUCSL",
				DeflateAt: "2012-11-01",
			}},
		},
	}
}
