package searcher

import (
	"context"
	"fmt"

	"multiagent/experiments/metrics"
	"multiagent/game"

	"github.com/rs/zerolog/log"
)

type Result struct {
	Action game.Action // nil if the controlled agent has no legal actions
	Value  float64
}

// Tree searches the game tree to a fixed depth. Minimax, alpha-beta and
// expectimax only differ by the policy folding adversary nodes.
type Tree struct {
	strategy Strategy
	policy   policy
	settings
}

// NewMinimax assumes every adversary minimizes the controlled agent's value
func NewMinimax(options ...Option) (*Tree, error) {
	return newTree(StrategyMinimax, minimaxPolicy{}, options)
}

// NewAlphaBeta returns the same actions as NewMinimax while skipping branches
// that cannot change them
func NewAlphaBeta(options ...Option) (*Tree, error) {
	return newTree(StrategyAlphaBeta, alphaBetaPolicy{}, options)
}

// NewExpectimax assumes every adversary picks uniformly among its legal actions
func NewExpectimax(options ...Option) (*Tree, error) {
	return newTree(StrategyExpectimax, expectimaxPolicy{}, options)
}

func newTree(strategy Strategy, p policy, options []Option) (*Tree, error) {
	s, err := newSettings(DefaultEvaluation, options)
	if err == nil {
		s.evaluate, err = s.stateEvaluation()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strategy, err)
	}
	return &Tree{strategy: strategy, policy: p, settings: s}, nil
}

func (t *Tree) Strategy() Strategy {
	return t.strategy
}

func (t *Tree) Depth() int {
	return t.depth
}

// Search returns the controlled agent's action at the root of state and its
// value. It stops with ctx's error if ctx is done before the search completes.
func (t *Tree) Search(ctx context.Context, state game.State) (Result, error) {
	if state.NumAgents() < 1 {
		return Result{}, fmt.Errorf("%s: %w", t.strategy, ErrNoAgents)
	}

	tr := traversal{
		maxDepth: t.depth,
		evaluate: t.evaluate,
		policy:   t.policy,
		metrics:  t.metrics,
	}
	value, action, err := tr.value(ctx, state, 0, game.Controlled, fullWindow())
	if err != nil {
		return Result{}, fmt.Errorf("%s search: %w", t.strategy, err)
	}

	log.Debug().
		Str("strategy", string(t.strategy)).
		Int("depth", t.depth).
		Stringer("action", action).
		Float64("value", value).
		Msg("search-complete")

	return Result{Action: action, Value: value}, nil
}

func (t *Tree) FindNextAction(ctx context.Context, state game.State) (game.Action, metrics.SearchMetric, error) {
	t.metrics.Start(string(t.strategy), t.depth, string(t.evaluation))
	result, err := t.Search(ctx, state)
	metric := t.metrics.Complete()
	if err != nil {
		return nil, metric, err
	}
	return result.Action, metric, nil
}
