package commands

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/chart"
	"github.com/dailygraphs/dailygraphs/internal/export"
	"github.com/dailygraphs/dailygraphs/internal/groups"
	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/panel"
	"github.com/dailygraphs/dailygraphs/internal/pwt"
	"github.com/dailygraphs/dailygraphs/internal/runlog"
	"github.com/dailygraphs/dailygraphs/internal/solow"
)

// Artifacts written by the solow command, relative to the output dir.
const (
	solowChartFile = "2013-01-26-Solow-Residual-by-Income-Group.png"
	solowCSVFile   = "solow-residuals.csv"
	solowXLSXFile  = "solow-residuals.xlsx"
)

func newSolowCommand(a *app) *cobra.Command {
	var pwtPath string
	var g0, delta, alpha float64
	var h int

	cmd := &cobra.Command{
		Use:   "solow",
		Short: "Impute capital stocks and plot Solow residuals by income group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			params := cfg.Solow.Params()
			flags := cmd.Flags()
			if flags.Changed("g0") {
				params.G0 = g0
			}
			if flags.Changed("delta") {
				params.Delta = delta
			}
			if flags.Changed("alpha") {
				params.Alpha = alpha
			}
			if flags.Changed("h") {
				params.H = h
			}

			im, err := solow.NewImputer(params, a.logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client := httpClient(cfg)

			src := cfg.PWTSource()
			if pwtPath != "" {
				src.Path = pwtPath
			}
			p, err := pwt.NewLoader(client, a.logger).Load(ctx, src)
			if err != nil {
				return err
			}

			tr, err := im.Impute(p)
			if err != nil {
				return err
			}
			a.logger.Info("imputed capital stocks",
				zap.Int("countries", len(p.Countries())),
				zap.Int("seeded", tr.Count(solow.Seeded)),
				zap.Int("recursed", tr.Count(solow.Recursed)),
				zap.Int("missing", tr.Count(solow.Missing)))

			svc, err := a.incomeGroups(ctx, cfg, client)
			if err != nil {
				return err
			}

			outDir := cfg.OutputDir()
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			rec := runlog.NewRecorder("solow")
			details := fmt.Sprintf("g0=%g delta=%g alpha=%g h=%d", params.G0, params.Delta, params.Alpha, params.H)

			chartPath := filepath.Join(outDir, solowChartFile)
			if err := chart.Render(technologyFigure(p, svc, params), chartPath); err != nil {
				return err
			}
			rec.Add(chartPath, details)

			cols := append([]string{params.RGDPPC, params.RGDPPW, solow.ColPopulation, solow.ColInvestment}, solow.DerivedColumns...)
			csvPath := filepath.Join(outDir, solowCSVFile)
			if err := writeCSVFile(csvPath, p, cols, cfg.Solow.Places); err != nil {
				return err
			}
			rec.Add(csvPath, details)

			xlsxPath := filepath.Join(outDir, solowXLSXFile)
			if err := export.WriteXLSX(xlsxPath, p, solow.DerivedColumns); err != nil {
				return err
			}
			rec.Add(xlsxPath, details)

			for _, e := range rec.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", e.Artifact)
			}
			return a.finish(ctx, cfg, rec)
		},
	}

	cmd.Flags().StringVar(&pwtPath, "pwt", "", "read the Penn World Table from this CSV instead of the configured source")
	cmd.Flags().Float64Var(&g0, "g0", 0, "steady-state technology growth (overrides config)")
	cmd.Flags().Float64Var(&delta, "delta", 0, "depreciation rate (overrides config)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "capital share (overrides config)")
	cmd.Flags().IntVar(&h, "h", 0, "smoothing lookahead in years (overrides config)")

	return cmd
}

// technologyFigure plots every classified country's technology level on a
// log scale, coloured by income group and labelled at the final year.
func technologyFigure(p *panel.Panel, svc *groups.Service, params solow.Params) chart.Figure {
	fig := chart.Figure{
		Title:  fmt.Sprintf("Technology by income group (g0=%.2f, delta=%.2f, alpha=%.2f)", params.G0, params.Delta, params.Alpha),
		XLabel: "Year",
		YLabel: "Technology, A",
		LogY:   true,
		Legend: true,
		Width:  chart.DefaultWidth,
		Height: chart.DefaultWidth,
	}

	labelled := make(map[model.IncomeLevel]bool)
	years := p.Years()
	for _, c := range p.Countries() {
		level, ok := svc.LevelOf(c)
		if !ok {
			continue
		}
		tech, err := p.Column(solow.ColTechnology, c)
		if err != nil {
			continue
		}
		line := chart.Line{Points: chart.FromYears(years, tech), Color: chart.IncomeColor(level)}
		if !labelled[level] {
			line.Label = level.Label()
			labelled[level] = true
		}
		fig.Lines = append(fig.Lines, line)

		if last := tech[len(tech)-1]; !math.IsNaN(last) {
			fig.Labels = append(fig.Labels, chart.Label{X: float64(p.LastYear()), Y: last, Text: c})
		}
	}
	return fig
}

func writeCSVFile(path string, p *panel.Panel, cols []string, places int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteCSV(f, p, cols, places); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
