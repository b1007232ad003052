package commands

import (
	"fmt"
	"image/color"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/chart"
	"github.com/dailygraphs/dailygraphs/internal/runlog"
	"github.com/dailygraphs/dailygraphs/internal/simulate"
)

var (
	pathColor     = color.NRGBA{A: 13}
	singleColor   = color.NRGBA{A: 191}
	recordedColor = color.NRGBA{R: 255, A: 255}
)

func newSimulateCommand(a *app) *cobra.Command {
	simCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run simulation experiments",
	}
	simCmd.AddCommand(newKerrichCommand(a))
	return simCmd
}

type kerrichOptions struct {
	seed   uint64
	flips  int
	trials int
	tosses string
}

func newKerrichCommand(a *app) *cobra.Command {
	var opts kerrichOptions

	cmd := &cobra.Command{
		Use:   "kerrich",
		Short: "Replicate Kerrich's coin tossing experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.flips <= 0 || opts.trials <= 0 {
				return fmt.Errorf("flips and trials must be positive")
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			var recorded []simulate.Toss
			if opts.tosses != "" {
				f, err := os.Open(opts.tosses)
				if err != nil {
					return fmt.Errorf("opening tosses: %w", err)
				}
				recorded, err = simulate.ReadTosses(f)
				f.Close()
				if err != nil {
					return err
				}
			}

			figs, err := kerrichFigures(cmd, opts, recorded)
			if err != nil {
				return err
			}

			rec := runlog.NewRecorder("simulate kerrich")
			details := fmt.Sprintf("seed=%d flips=%d trials=%d", opts.seed, opts.flips, opts.trials)
			for _, name := range slices.Sorted(maps.Keys(figs)) {
				path := filepath.Join(cfg.OutputDir(), name)
				if err := chart.Render(figs[name], path); err != nil {
					return err
				}
				rec.Add(path, details)
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			a.logger.Debug("simulated coin flips", zap.Int("trials", opts.trials), zap.Int("flips", opts.flips))
			return a.finish(cmd.Context(), cfg, rec)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 42, "random seed")
	cmd.Flags().IntVar(&opts.flips, "flips", 10000, "flips per run")
	cmd.Flags().IntVar(&opts.trials, "trials", 100, "number of simulated runs")
	cmd.Flags().StringVar(&opts.tosses, "tosses", "", "CSV of a recorded experiment (toss count, Heads) to overlay")

	return cmd
}

func kerrichFigures(cmd *cobra.Command, opts kerrichOptions, recorded []simulate.Toss) (map[string]chart.Figure, error) {
	ctx := cmd.Context()
	diffs, err := simulate.Paths(ctx, opts.seed, opts.trials, opts.flips, simulate.HeadsMinusExpected)
	if err != nil {
		return nil, err
	}
	means, err := simulate.Paths(ctx, opts.seed+uint64(opts.trials), opts.trials, opts.flips, simulate.RunningMean)
	if err != nil {
		return nil, err
	}

	var recDiff, recFrac []chart.XY
	for _, t := range recorded {
		recDiff = append(recDiff, chart.XY{X: float64(t.Tosses), Y: t.Difference()})
		recFrac = append(recFrac, chart.XY{X: float64(t.Tosses), Y: t.Fraction()})
	}
	recordedLine := func(pts []chart.XY, label string) []chart.Line {
		if len(pts) == 0 {
			return nil
		}
		return []chart.Line{{Label: label, Points: pts, Color: recordedColor}}
	}

	const diffLabel = "Observed heads - expected heads"
	figs := map[string]chart.Figure{
		"2012-12-24-Replication-of-Kerrich-experiment.png": {
			Title:  "A single replication of Kerrich's experiment",
			XLabel: "Index",
			YLabel: diffLabel,
			LogX:   true,
			Legend: len(recorded) > 0,
			Lines: append([]chart.Line{{Points: indexed(diffs[0]), Color: singleColor}},
				recordedLine(recDiff, "Kerrich data")...),
		},
		"2012-12-24-Simulation-of-Differences.png": {
			Title:  "Kerrich's result was typical",
			XLabel: "Index",
			YLabel: diffLabel,
			LogX:   true,
			Legend: len(recorded) > 0,
			Lines:  append(pathLines(diffs), recordedLine(recDiff, "Kerrich data")...),
		},
	}

	mean := chart.Line{
		Label:  "mu = 0.5",
		Points: []chart.XY{{X: 1, Y: 0.5}, {X: float64(opts.flips), Y: 0.5}},
		Color:  color.Black,
		Dashed: true,
	}
	figs["2012-12-24-Demonstration-of-LLN.png"] = chart.Figure{
		Title:  "Average number of heads converges to mu = 0.5",
		XLabel: "Index",
		YLabel: "Fraction of heads",
		LogX:   true,
		Legend: true,
		YRange: &chart.Range{Min: 0, Max: 1},
		Lines:  append(append(pathLines(means), recordedLine(recFrac, "Kerrich data")...), mean),
	}

	if len(recorded) > 0 {
		figs["2012-12-24-Kerrich-difference-btw-observed-expected-heads.png"] = chart.Figure{
			Title:  "Divergence between observed heads and expected heads?",
			XLabel: "Index",
			YLabel: diffLabel,
			LogX:   true,
			Legend: true,
			Lines:  recordedLine(recDiff, "Kerrich data"),
		}
	}
	return figs, nil
}

// indexed places values at x = 1, 2, 3, ...
func indexed(values []float64) []chart.XY {
	pts := make([]chart.XY, len(values))
	for i, v := range values {
		pts[i] = chart.XY{X: float64(i + 1), Y: v}
	}
	return pts
}

func pathLines(paths [][]float64) []chart.Line {
	lines := make([]chart.Line, len(paths))
	for i, p := range paths {
		lines[i] = chart.Line{Points: indexed(p), Color: pathColor}
	}
	return lines
}
