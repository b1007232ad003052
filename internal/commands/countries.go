package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/groups"
	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/worldbank"
)

func newCountriesCommand(a *app) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries by World Bank income group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			var svc *groups.Service
			if save != "" {
				// Saving always asks the World Bank so the file reflects the
				// current classification.
				wb := worldbank.NewClient(cfg.Sources.WorldBank.BaseURL, httpClient(cfg), a.logger)
				if svc, err = groups.FromLister(cmd.Context(), wb, model.IncomeLevels); err != nil {
					return err
				}
				path := cfg.Resolve(save)
				if err := svc.Save(path); err != nil {
					return err
				}
				a.logger.Info("saved country groups", zap.String("path", path), zap.Int("countries", len(svc.All())))
			} else if svc, err = a.incomeGroups(cmd.Context(), cfg, httpClient(cfg)); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LEVEL\tID\tNAME")
			for _, level := range model.IncomeLevels {
				for _, id := range svc.ByLevel(level) {
					c, _ := svc.Get(id)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", level, c.ID, c.Name)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "write the fetched list to this CSV (set sources.world_bank.countries to read it back)")

	return cmd
}
