package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/dailygraphs/dailygraphs/internal/recession"
)

func newRecessionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recessions",
		Short: "List the NBER recession dates used for shading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a project the built-in table is still useful.
			path := ""
			cfg, err := a.loadConfig()
			switch {
			case err == nil:
				path = cfg.Resolve(cfg.Recessions)
			case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
			default:
				return err
			}

			spans, err := recession.Load(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range spans {
				months := (s.Trough.Year()-s.Peak.Year())*12 + int(s.Trough.Month()-s.Peak.Month())
				fmt.Fprintf(out, "%s  %s  %3d months\n", s.Peak.Format(time.DateOnly), s.Trough.Format(time.DateOnly), months)
			}
			return nil
		},
	}
}
