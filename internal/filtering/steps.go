package filtering

import (
	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
)

type scoreableFilter struct{}

// NewScoreable creates a filter that keeps only occupations eligible for
// scoring: a concrete Job Zone and full data coverage.
func NewScoreable() Filter {
	return &scoreableFilter{}
}

func (f *scoreableFilter) Name() string { return "scoreable" }

func (f *scoreableFilter) Apply(occupations *onet.Occupations) (*onet.Occupations, Step, error) {
	initial := occupations.Len()

	kept := make([]*onet.Occupation, 0, initial)
	for _, occ := range occupations.Items {
		if occ.Scoreable() {
			kept = append(kept, occ)
		}
	}

	next := &onet.Occupations{Items: kept}

	return next, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type alreadyScoredFilter struct {
	scored map[string]struct{}
}

// NewAlreadyScored creates a filter that removes occupations whose codes
// already appear in the results file, which is what makes runs resumable.
func NewAlreadyScored(scored map[string]struct{}) Filter {
	return &alreadyScoredFilter{scored: scored}
}

func (f *alreadyScoredFilter) Name() string { return "already_scored" }

func (f *alreadyScoredFilter) Apply(occupations *onet.Occupations) (*onet.Occupations, Step, error) {
	initial := occupations.Len()

	kept := make([]*onet.Occupation, 0, initial)
	for _, occ := range occupations.Items {
		if _, ok := f.scored[occ.Code]; ok {
			continue
		}
		kept = append(kept, occ)
	}

	next := &onet.Occupations{Items: kept}

	return next, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
