package backtest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"covered-call-lab/internal/domain"
)

// Compare runs every configuration over the same price series in
// parallel and returns the results in input order. Each run owns its
// full state, so concurrent runs cannot influence one another; the
// series itself is shared read-only.
func Compare(ctx context.Context, configs []domain.StrategyConfig, bars []domain.PriceBar) ([]*domain.BacktestResult, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("%w: no configurations to compare", domain.ErrInvalidInput)
	}

	results := make([]*domain.BacktestResult, len(configs))

	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range configs {
		g.Go(func() error {
			res, err := NewEngine(cfg).Run(ctx, bars)
			if err != nil {
				return fmt.Errorf("config %d (%s): %w", i, cfg.Label, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
