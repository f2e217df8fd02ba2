package searcher

import (
	"context"
	"fmt"
	"math"

	"multiagent/experiments/metrics"
	"multiagent/game"

	"golang.org/x/exp/rand"
)

// Reflex looks one move ahead: it scores each move of the controlled agent
// and picks uniformly among the best ones. Adversary replies are not
// considered and the depth option is ignored. Moves are scored by
// DefaultReflexEvaluation unless another evaluation is chosen.
type Reflex struct {
	settings
	evaluateMove game.ActionEvaluate
	rng          *rand.Rand
}

func NewReflex(options ...Option) (*Reflex, error) {
	s, err := newSettings(DefaultReflexEvaluation, options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StrategyReflex, err)
	}
	evaluateMove, err := s.moveEvaluation()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StrategyReflex, err)
	}
	return &Reflex{settings: s, evaluateMove: evaluateMove, rng: rand.New(rand.NewSource(s.seed))}, nil
}

func (r *Reflex) FindNextAction(ctx context.Context, state game.State) (game.Action, metrics.SearchMetric, error) {
	r.metrics.Start(string(StrategyReflex), 1, string(r.evaluation))
	action, err := r.choose(ctx, state)
	return action, r.metrics.Complete(), err
}

func (r *Reflex) choose(ctx context.Context, state game.State) (game.Action, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s search: %w", StrategyReflex, err)
	}
	r.metrics.AddNode()

	bestScore := math.Inf(-1)
	var best []game.Action
	for _, action := range state.LegalActions(game.Controlled) {
		successor, err := state.GenerateSuccessor(game.Controlled, action)
		if err != nil {
			return nil, fmt.Errorf("%s search: agent %d playing %v: %w", StrategyReflex, game.Controlled, action, err)
		}
		r.metrics.AddNode()
		r.metrics.AddEvaluation()
		score := r.evaluateMove(state, action, successor)
		switch {
		case score > bestScore:
			bestScore = score
			best = []game.Action{action}
		case score == bestScore:
			best = append(best, action)
		}
	}

	if len(best) == 0 {
		return nil, nil
	}
	return best[r.rng.Intn(len(best))], nil
}
