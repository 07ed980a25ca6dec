package ai

import (
	"context"
	"errors"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
)

// Bounds for ai_proof_score: 1.0 means the occupation is fully exposed to
// automation, 5.0 means it is essentially untouchable.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Result is one scored occupation as returned by the scoring provider. Field
// names mirror the JSON wire format.
type Result struct {
	Code    string  `json:"onet_code"`
	Score   float64 `json:"ai_proof_score"`
	Drivers string  `json:"key_drivers"`
}

// ScoreInRange reports whether the score falls inside the contract bounds.
func (r Result) ScoreInRange() bool {
	return r.Score >= MinScore && r.Score <= MaxScore
}

// Scorer scores a batch of occupations against a rubric document. Responses
// are best-effort: entries may be missing, reordered or duplicated, so
// callers merge them back by code.
type Scorer interface {
	ScoreBatch(ctx context.Context, rubric string, batch *onet.Occupations) ([]Result, error)
}

// ErrRateLimited marks a provider quota rejection. The affected batch is
// skipped for this run and retried on the next one.
var ErrRateLimited = errors.New("scoring provider rate limited")

// ErrMalformedResponse marks a response that could not be parsed into
// results. The affected batch stays unscored and is retried on the next run.
var ErrMalformedResponse = errors.New("malformed scoring response")
