package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/buildinfo"
	"github.com/dailygraphs/dailygraphs/internal/config"
	"github.com/dailygraphs/dailygraphs/internal/logging"
)

// app carries the global flags and the logger built from them.
type app struct {
	configPath string
	verbose    bool
	commit     bool
	logger     *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "dailygraphs",
		Short:   "Macroeconomic graph of the day charts",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.FileName, "path to "+config.FileName)
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.commit, "commit", false, "commit written artifacts to the enclosing git repository")

	rootCmd.AddCommand(
		newInitCommand(a),
		newSolowCommand(a),
		newRenderCommand(a),
		newInflationCommand(a),
		newCountriesCommand(a),
		newSimulateCommand(a),
		newRecessionsCommand(a),
	)

	return rootCmd
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded config", zap.String("path", a.configPath))
	return cfg, nil
}

func httpClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Sources.Timeout}
}
