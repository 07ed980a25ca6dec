package ranking

import (
	"math"
	"sort"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/ai"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
)

const (
	// Occupations that are both AI-exposed (score below the ceiling) and in
	// projected decline are capped at the bottom tier regardless of openings
	// volume.
	declineScoreCeiling = 2.0
	declineCap          = 0.20

	// A high score paired with one of the two fastest growth labels earns a
	// small boost.
	boostScoreFloor = 4.0
	growthBoost     = 0.05

	maxRanking = 1.0
)

// Weights controls how much each signal contributes to the composite.
type Weights struct {
	Resilience float64
	Growth     float64
	Openings   float64
}

// DefaultWeights returns the standard signal weighting.
func DefaultWeights() Weights {
	return Weights{Resilience: 0.50, Growth: 0.30, Openings: 0.20}
}

func (w Weights) sum() float64 {
	return w.Resilience + w.Growth + w.Openings
}

// Ranker computes final rankings over a full result set.
type Ranker struct {
	weights Weights
}

func NewRanker(weights Weights) *Ranker {
	if weights.sum() <= 0 {
		weights = DefaultWeights()
	}

	return &Ranker{weights: weights}
}

// Rank recomputes the final ranking for every row and sorts the set in
// descending order, ties keeping their prior order. Rankings always derive
// from the full current set: the openings scale spans every row, so adding
// one row can shift its neighbors' values.
func (r *Ranker) Rank(results *onet.Results) {
	scale := NewOpeningsScale(results.OpeningsValues())

	for _, row := range results.Items {
		row.FinalRanking = r.composite(row, scale)
	}

	sort.SliceStable(results.Items, func(i, j int) bool {
		return results.Items[i].FinalRanking > results.Items[j].FinalRanking
	})
}

// composite blends the available signals into one [0,1] value. Missing
// signals are dropped from the weighted average rather than read as zero:
// the sum renormalizes over the weights actually present, then rescales to
// the full weight sum so sparse rows stay comparable with complete ones. A
// row with no signal at all ranks 0.
func (r *Ranker) composite(row *onet.ScoredOccupation, scale *OpeningsScale) float64 {
	var weighted, present float64

	score, hasScore := row.ScoreValue()
	if hasScore {
		norm := (score - ai.MinScore) / (ai.MaxScore - ai.MinScore)
		weighted += norm * r.weights.Resilience
		present += r.weights.Resilience
	}

	if g, ok := GrowthValue(row.Growth); ok {
		weighted += g * r.weights.Growth
		present += r.weights.Growth
	}

	if o, ok := scale.Normalize(row.Openings); ok {
		weighted += o * r.weights.Openings
		present += r.weights.Openings
	}

	if present == 0 {
		return 0
	}

	composite := weighted / present * r.weights.sum()

	// The two adjustments are mutually exclusive: a score cannot sit below
	// the decline ceiling and at the boost floor at once.
	adjusted := composite
	if hasScore && score < declineScoreCeiling && row.Growth == GrowthDecline {
		adjusted = math.Min(composite, declineCap)
	}
	if hasScore && score >= boostScoreFloor && (row.Growth == GrowthFaster || row.Growth == GrowthMuchFaster) {
		adjusted = math.Min(composite+growthBoost, maxRanking)
	}

	return round3(adjusted)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
