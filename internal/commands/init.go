package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dailygraphs/dailygraphs/internal/config"
	"github.com/dailygraphs/dailygraphs/internal/gitops"
	"github.com/dailygraphs/dailygraphs/internal/recession"
	"github.com/dailygraphs/dailygraphs/internal/runlog"
)

// recessionsFile is where init copies the built-in NBER table.
var recessionsFile = filepath.Join("data", "nber-dates.csv")

func newInitCommand(a *app) *cobra.Command {
	var force, useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new dailygraphs project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(cmd.Context(), absDir, force, useGit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized dailygraphs project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing "+config.FileName)
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit artifacts after each run")

	return cmd
}

func runInit(ctx context.Context, dir string, force, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Recessions = recessionsFile
	cfg.Git.AutoCommit = useGit

	// Create directory structure.
	for _, d := range []string{cfg.Paths.Output, cfg.Paths.Data, cfg.Paths.Logs} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write dailygraphs.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the NBER dates so they can be edited as new recessions are dated.
	if err := os.WriteFile(filepath.Join(dir, recessionsFile), recession.DefaultCSV(), 0o644); err != nil {
		return fmt.Errorf("writing recession dates: %w", err)
	}

	logsDir := filepath.Join(dir, cfg.Paths.Logs)
	rec := runlog.NewRecorder("init")
	rec.Add(config.FileName, "")
	rec.Add(recessionsFile, "")
	if err := rec.Flush(logsDir); err != nil {
		return err
	}
	if !useGit {
		return nil
	}

	if !gitops.IsRepo(ctx, dir) {
		if err := gitops.Init(ctx, dir); err != nil {
			return err
		}
	}
	paths := []string{config.FileName, recessionsFile, filepath.Join(cfg.Paths.Logs, runlog.FileName)}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	if _, err := gitops.CommitPaths(ctx, dir, paths, "dailygraphs init", author); err != nil && !errors.Is(err, gitops.ErrNothingToCommit) {
		return err
	}
	return nil
}
