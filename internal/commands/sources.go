package commands

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/config"
	"github.com/dailygraphs/dailygraphs/internal/groups"
	"github.com/dailygraphs/dailygraphs/internal/model"
	"github.com/dailygraphs/dailygraphs/internal/worldbank"
)

// incomeGroups reads the configured country file, or asks the World Bank
// when none is configured.
func (a *app) incomeGroups(ctx context.Context, cfg *config.Config, client *http.Client) (*groups.Service, error) {
	if path := cfg.Resolve(cfg.Sources.WorldBank.Countries); path != "" {
		svc, err := groups.Load(path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("loaded country groups", zap.String("path", path), zap.Int("countries", len(svc.All())))
		return svc, nil
	}

	wb := worldbank.NewClient(cfg.Sources.WorldBank.BaseURL, client, a.logger)
	return groups.FromLister(ctx, wb, model.IncomeLevels)
}
