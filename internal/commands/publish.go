package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/config"
	"github.com/dailygraphs/dailygraphs/internal/gitops"
	"github.com/dailygraphs/dailygraphs/internal/runlog"
)

// finish appends the recorded artifacts to the run log and, when committing
// is enabled, commits them together with the log.
func (a *app) finish(ctx context.Context, cfg *config.Config, rec *runlog.Recorder) error {
	entries := rec.Entries()
	if err := rec.Flush(cfg.LogsDir()); err != nil {
		return err
	}
	if !a.commit && !cfg.Git.AutoCommit {
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	dir := cfg.Dir()
	if dir == "" {
		dir = "."
	}
	if !gitops.IsRepo(ctx, dir) {
		return fmt.Errorf("cannot commit artifacts: %s is not inside a git repository", dir)
	}

	paths := []string{filepath.Join(cfg.LogsDir(), runlog.FileName)}
	for _, e := range entries {
		paths = append(paths, cfg.Resolve(e.Artifact))
	}
	msg := fmt.Sprintf("dailygraphs %s: %d artifact(s)", rec.Command, len(entries))
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}

	hash, err := gitops.CommitPaths(ctx, dir, paths, msg, author)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		a.logger.Info("artifacts unchanged, nothing committed")
		return nil
	}
	if err != nil {
		return err
	}
	a.logger.Info("committed artifacts", zap.String("commit", hash), zap.Int("files", len(paths)))
	return nil
}
