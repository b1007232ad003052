package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dailygraphs/dailygraphs/internal/fred"
	"github.com/dailygraphs/dailygraphs/internal/graphs"
	"github.com/dailygraphs/dailygraphs/internal/recession"
	"github.com/dailygraphs/dailygraphs/internal/runlog"
)

func newRenderCommand(a *app) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "render [chart...]",
		Short: "Render FRED charts from the catalog (all when none are named)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			charts, err := graphs.Select(cfg.Charts, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if list {
				for _, c := range charts {
					fmt.Fprintf(out, "%-24s %s\n", c.Name, c.OutputName())
				}
				return nil
			}

			spans, err := recession.Load(cfg.Resolve(cfg.Recessions))
			if err != nil {
				return err
			}
			provider := fred.NewClient(cfg.Sources.FRED.BaseURL, httpClient(cfg), a.logger)
			pipeline := graphs.NewPipeline(provider, spans, a.logger)

			rec := runlog.NewRecorder("render")
			for _, c := range charts {
				path, err := pipeline.Render(cmd.Context(), c, cfg.OutputDir())
				if err != nil {
					// Keep the log of what was rendered before the failure.
					_ = rec.Flush(cfg.LogsDir())
					return err
				}
				rec.Add(path, c.Name)
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
			return a.finish(cmd.Context(), cfg, rec)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list the catalog instead of rendering")

	return cmd
}
