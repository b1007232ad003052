package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dailygraphs/dailygraphs/internal/chart"
	"github.com/dailygraphs/dailygraphs/internal/groups"
	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/panel"
	"github.com/dailygraphs/dailygraphs/internal/runlog"
	"github.com/dailygraphs/dailygraphs/internal/worldbank"
)

const inflationChartFile = "2013-01-01-Global-Inflation-by-Income-Groups.png"

func newInflationCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inflation",
		Short: "Plot World Bank consumer price inflation by income group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client := httpClient(cfg)

			svc, err := a.incomeGroups(ctx, cfg, client)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(svc.All()))
			for _, c := range svc.All() {
				ids = append(ids, c.ID)
			}

			wbCfg := cfg.Sources.WorldBank
			wb := worldbank.NewClient(wbCfg.BaseURL, client, a.logger)
			values, err := wb.Indicators(ctx, []string{wbCfg.Indicator}, ids, wbCfg.From, wbCfg.To)
			if err != nil {
				return err
			}
			p, err := worldbank.IndicatorPanel(values, wbCfg.Indicator)
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.OutputDir(), inflationChartFile)
			if err := chart.Render(inflationFigure(p, svc, wbCfg.Indicator), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			rec := runlog.NewRecorder("inflation")
			rec.Add(path, fmt.Sprintf("indicator=%s countries=%d", wbCfg.Indicator, len(p.Countries())))
			return a.finish(ctx, cfg, rec)
		},
	}
}

// inflationFigure draws one translucent line per country, grouped by income
// level in ascending order so that richer countries are drawn on top.
func inflationFigure(p *panel.Panel, svc *groups.Service, indicator string) chart.Figure {
	fig := chart.Figure{
		Title:  "Global Inflation by Income Group\nSource: World Bank, WDI",
		XLabel: "Year",
		YLabel: "Inflation, consumer prices (annual %)",
		YRange: &chart.Range{Min: -200, Max: 1000},
		Legend: true,
	}
	years := p.Years()
	for _, level := range model.IncomeLevels {
		label := level.Label()
		for _, id := range svc.ByLevel(level) {
			if !p.HasCountry(id) {
				continue
			}
			vals, err := p.Column(indicator, id)
			if err != nil {
				continue
			}
			fig.Lines = append(fig.Lines, chart.Line{
				Label:  label,
				Points: chart.FromYears(years, vals),
				Color:  chart.IncomeColor(level),
			})
			label = ""
		}
	}
	return fig
}
