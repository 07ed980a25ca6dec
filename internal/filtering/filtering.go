// Package filtering narrows a catalog down to the occupations a scoring run
// still has to handle.
package filtering

import (
	"fmt"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"

	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to occupations.
type Filter interface {
	Name() string
	Apply(occupations *onet.Occupations) (*onet.Occupations, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially, returning the remaining
// occupations.
func Run(steps []Filter, occupations *onet.Occupations, logger *zap.Logger) (*onet.Occupations, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		next, info, err := step.Apply(occupations)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		occupations = next
	}

	return occupations, nil
}
