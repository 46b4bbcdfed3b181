package main

import (
	"context"
	"fmt"
	"time"

	"github.com/milk9111/piratesim/config"
	"github.com/milk9111/piratesim/sim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many ticks run between cancellation checks.
const ctxCheckInterval = 100

type result struct {
	Seed        int64
	Fingerprint string
	Checksum    uint64
	Stats       sim.Stats
	Elapsed     time.Duration
}

// runSeeds runs one headless simulation per seed concurrently. Results keep
// the order of seeds.
func runSeeds(ctx context.Context, base *config.Config, seeds []int64, ticks int, log *zap.Logger) ([]result, error) {
	results := make([]result, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		g.Go(func() error {
			res, err := runOne(ctx, base, seed, ticks, log.With(zap.Int64("seed", seed)))
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
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

func runOne(ctx context.Context, base *config.Config, seed int64, ticks int, log *zap.Logger) (result, error) {
	cfg := *base
	cfg.Simulation.Seed = seed

	s, err := sim.New(&cfg, sim.WithLogger(log))
	if err != nil {
		return result{}, err
	}
	if _, err := s.SpawnPlanets(cfg.Simulation.Planets); err != nil {
		return result{}, err
	}
	if _, err := s.SpawnAgents(cfg.Simulation.Pirates); err != nil {
		return result{}, err
	}

	start := time.Now()
	for i := 0; i < ticks; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return result{}, err
			}
		}
		if err := s.FixedUpdate(s.FixedDelta()); err != nil {
			return result{}, err
		}
	}

	res := result{
		Seed:        seed,
		Fingerprint: s.Fingerprint(),
		Checksum:    s.Checksum(),
		Stats:       s.Stats(),
		Elapsed:     time.Since(start),
	}
	log.Debug("run finished",
		zap.Uint64("tick", res.Stats.Tick),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}
