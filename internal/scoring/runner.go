// Package scoring drives resumable batch scoring runs against an AI scorer
// and keeps the persisted results ranked.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/ai"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/filtering"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/ranking"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultBatchSize  = 10
	defaultBatchDelay = 2 * time.Second
	defaultCooldown   = 30 * time.Second
)

// waitFor is swapped out in tests.
var waitFor = utils.WaitFor

// Store persists scored occupations between runs.
type Store interface {
	Load() (*onet.Results, error)
	Append(rows []*onet.ScoredOccupation) error
	Rewrite(results *onet.Results) error
}

// Config tunes a scoring run.
type Config struct {
	BatchSize  int
	BatchDelay time.Duration
	Cooldown   time.Duration
}

// Runner scores a catalog batch by batch, appending each scored batch to the
// store so an interrupted run can resume where it stopped.
type Runner struct {
	scorer ai.Scorer
	store  Store
	ranker *ranking.Ranker
	config Config
	logger *zap.Logger
}

func NewRunner(scorer ai.Scorer, store Store, ranker *ranking.Ranker, config Config, logger *zap.Logger) *Runner {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.BatchDelay <= 0 {
		config.BatchDelay = defaultBatchDelay
	}
	if config.Cooldown <= 0 {
		config.Cooldown = defaultCooldown
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		scorer: scorer,
		store:  store,
		ranker: ranker,
		config: config,
		logger: logger,
	}
}

// Plan describes the work left for a scoring run.
type Plan struct {
	Remaining     *onet.Occupations
	Batches       []*onet.Occupations
	AlreadyScored int
}

// Plan diffs the catalog against the store and splits what is left into
// batches.
func (r *Runner) Plan(occupations *onet.Occupations) (*Plan, error) {
	existing, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	scored := existing.Codes()
	steps := []filtering.Filter{
		filtering.NewScoreable(),
		filtering.NewAlreadyScored(scored),
	}

	remaining, err := filtering.Run(steps, occupations, r.logger)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Remaining:     remaining,
		Batches:       remaining.Batches(r.config.BatchSize),
		AlreadyScored: len(scored),
	}, nil
}

// Summary reports what a scoring run accomplished.
type Summary struct {
	Scored        int
	FailedBatches int
	Ranked        int
}

// Run scores every planned batch, then recomputes the ranking over the full
// result set. A batch the model answers with unusable output is skipped; a
// rate-limited batch is skipped after a cooldown. Either way the run moves on
// to the next batch, so one bad batch never loses the rest.
func (r *Runner) Run(ctx context.Context, plan *Plan, rubric string) (*Summary, error) {
	summary := &Summary{}

	for i, batch := range plan.Batches {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		batchLogger := r.logger.With(
			zap.Int("batch", i+1),
			zap.Int("batches", len(plan.Batches)),
			zap.Int("size", batch.Len()),
		)

		batchLogger.Info("scoring batch")

		results, err := r.scorer.ScoreBatch(ctx, rubric, batch)
		if err != nil {
			summary.FailedBatches++

			switch {
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return summary, err
			case errors.Is(err, ai.ErrMalformedResponse):
				batchLogger.Warn("skipping batch", zap.Error(err))
			case errors.Is(err, ai.ErrRateLimited):
				batchLogger.Warn("rate limited, cooling down",
					zap.Duration("cooldown", r.config.Cooldown),
					zap.Error(err),
				)
				if err := waitFor(ctx, r.config.Cooldown); err != nil {
					return summary, err
				}
			default:
				batchLogger.Warn("batch failed, cooling down",
					zap.Duration("cooldown", r.config.Cooldown),
					zap.Error(err),
				)
				if err := waitFor(ctx, r.config.Cooldown); err != nil {
					return summary, err
				}
			}

			continue
		}

		rows := merge(batch, results, batchLogger)
		if len(rows) == 0 {
			batchLogger.Warn("batch returned no usable results")
			continue
		}

		if err := r.store.Append(rows); err != nil {
			return summary, fmt.Errorf("append results: %w", err)
		}
		summary.Scored += len(rows)

		low, high := scoreRange(rows)
		batchLogger.Info("batch scored",
			zap.Int("scored", len(rows)),
			zap.Float64("lowest_score", low),
			zap.Float64("highest_score", high),
		)

		if i < len(plan.Batches)-1 {
			if err := waitFor(ctx, r.config.BatchDelay); err != nil {
				return summary, err
			}
		}
	}

	ranked, err := Rerank(r.store, r.ranker, r.logger)
	if err != nil {
		return summary, err
	}
	summary.Ranked = ranked

	return summary, nil
}

// merge pairs the model's results with the batch that produced them. Entries
// for codes outside the batch and scores outside the rubric range are
// dropped; when the model answers the same code twice, the last entry wins.
func merge(batch *onet.Occupations, results []ai.Result, logger *zap.Logger) []*onet.ScoredOccupation {
	byCode := make(map[string]ai.Result, len(results))
	for _, result := range results {
		if batch.FindByCode(result.Code) == nil {
			logger.Warn("model returned unknown occupation code", zap.String("code", result.Code))
			continue
		}

		if !result.ScoreInRange() {
			logger.Warn("model returned score out of range",
				zap.String("code", result.Code),
				zap.Float64("score", result.Score),
			)
			continue
		}

		byCode[result.Code] = result
	}

	rows := make([]*onet.ScoredOccupation, 0, batch.Len())
	for _, occ := range batch.Items {
		result, ok := byCode[occ.Code]
		if !ok {
			logger.Warn("model omitted occupation", zap.String("code", occ.Code))
			continue
		}

		rows = append(rows, &onet.ScoredOccupation{
			Occupation: *occ,
			Score:      strconv.FormatFloat(result.Score, 'f', -1, 64),
			Drivers:    result.Drivers,
		})
	}

	return rows
}

func scoreRange(rows []*onet.ScoredOccupation) (float64, float64) {
	low, high := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		v, ok := row.ScoreValue()
		if !ok {
			continue
		}
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}

	if low > high {
		return 0, 0
	}

	return low, high
}

// Rerank recomputes every final ranking from the full persisted result set
// and rewrites the store in descending ranking order.
func Rerank(store Store, ranker *ranking.Ranker, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results, err := store.Load()
	if err != nil {
		return 0, fmt.Errorf("load results: %w", err)
	}

	if results.Len() == 0 {
		logger.Info("nothing to rank yet")
		return 0, nil
	}

	ranker.Rank(results)

	if err := store.Rewrite(results); err != nil {
		return 0, fmt.Errorf("rewrite results: %w", err)
	}

	logger.Info("ranking complete", zap.Int("occupations", results.Len()))

	for i, row := range results.Items {
		if i >= 10 {
			break
		}
		logger.Info("top occupation",
			zap.Int("rank", i+1),
			zap.Float64("final_ranking", row.FinalRanking),
			zap.String("score", row.Score),
			zap.String("occupation", row.Name),
		)
	}

	return results.Len(), nil
}
