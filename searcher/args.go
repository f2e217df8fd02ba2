package searcher

import (
	"fmt"

	"multiagent/experiments/metrics"
	"multiagent/game"
)

// Defaults for every strategy

const DefaultDepth = 2

const DefaultEvaluation = game.ScoreBased

// DefaultReflexEvaluation replaces DefaultEvaluation for the reflex strategy
const DefaultReflexEvaluation = game.ReflexBased

// CustomEvaluation labels metrics of searchers built WithEvaluationFn
const CustomEvaluation = "custom"

type Option func(s *settings)

type settings struct {
	depth      int
	evaluation game.EvaluationName
	evaluate   game.Evaluate
	metrics    metrics.Collector
	seed       uint64
}

// WithDepth sets the number of plies (full rounds of all agents) to look ahead
func WithDepth(depth int) Option {
	return func(s *settings) {
		s.depth = depth
	}
}

// WithEvaluation selects a registered evaluation function by name. An empty
// name keeps the strategy default.
func WithEvaluation(name game.EvaluationName) Option {
	return func(s *settings) {
		s.evaluation = name
		s.evaluate = nil
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *settings) {
		if evaluate != nil {
			s.evaluation = CustomEvaluation
			s.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

// WithSeed seeds the tie-breaking randomness of the reflex strategy
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

func newSettings(evaluation game.EvaluationName, options []Option) (settings, error) {
	s := settings{ // Default values
		depth:      DefaultDepth,
		evaluation: evaluation,
		metrics:    metrics.NewDummyCollector(),
		seed:       1,
	}
	for _, option := range options {
		option(&s)
	}
	if s.evaluation == "" {
		s.evaluation = evaluation
	}

	if s.depth < 1 {
		return s, fmt.Errorf("%w: depth must be at least 1, got %d", ErrConfiguration, s.depth)
	}
	return s, nil
}

// stateEvaluation resolves the evaluation of leaves
func (s *settings) stateEvaluation() (game.Evaluate, error) {
	if s.evaluate != nil {
		return s.evaluate, nil
	}
	evaluate, err := game.LookupEvaluation(s.evaluation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return evaluate, nil
}

// moveEvaluation resolves the evaluation of single moves
func (s *settings) moveEvaluation() (game.ActionEvaluate, error) {
	if s.evaluate != nil {
		return s.evaluate.Successor(), nil
	}
	evaluate, err := game.LookupActionEvaluation(s.evaluation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return evaluate, nil
}
