package searcher

import (
	"context"
	"errors"
	"fmt"

	"multiagent/experiments/metrics"
	"multiagent/game"
)

var (
	ErrConfiguration = errors.New("invalid search configuration")
	ErrNoAgents      = errors.New("state has no agents")
)

type Searcher interface {
	// FindNextAction returns the action chosen for the controlled agent and the
	// search metrics (empty unless collected). The action is nil when the
	// controlled agent has no legal actions.
	FindNextAction(ctx context.Context, state game.State) (game.Action, metrics.SearchMetric, error)
}

type Strategy string

const (
	StrategyMinimax    Strategy = "minimax"
	StrategyAlphaBeta  Strategy = "alphabeta"
	StrategyExpectimax Strategy = "expectimax"
	StrategyReflex     Strategy = "reflex"
)

func Strategies() []Strategy {
	return []Strategy{StrategyMinimax, StrategyAlphaBeta, StrategyExpectimax, StrategyReflex}
}

// New builds the searcher for strategy
func New(strategy Strategy, options ...Option) (Searcher, error) {
	switch strategy {
	case StrategyMinimax:
		return NewMinimax(options...)
	case StrategyAlphaBeta:
		return NewAlphaBeta(options...)
	case StrategyExpectimax:
		return NewExpectimax(options...)
	case StrategyReflex:
		return NewReflex(options...)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q (known: %v)", ErrConfiguration, strategy, Strategies())
	}
}

// NextTurn returns the agent to move after agent and the depth it moves at.
// Depth grows by one each time control returns to the controlled agent.
func NextTurn(agent, depth, numAgents int) (nextAgent, nextDepth int) {
	nextAgent = (agent + 1) % numAgents
	if nextAgent == game.Controlled {
		return nextAgent, depth + 1
	}
	return nextAgent, depth
}
