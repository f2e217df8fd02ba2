package engine

import (
	"context"

	"multiagent/experiments/metrics"
	"multiagent/game"
)

// MaxTurns bounds a game, a turn being one move of every agent
const MaxTurns = 500

const (
	WinnerControlled  = "controlled"
	WinnerAdversaries = "adversaries"
)

// Agent chooses the action of one player. A nil action means no preference
// and the engine plays the first legal action instead.
type Agent interface {
	FindAction(ctx context.Context, state game.State, agent int) (game.Action, metrics.SearchMetric, error)
}

// Hasher is implemented by states that can be recorded in the game history
type Hasher interface {
	Hash() game.StateHash
}

type Update struct {
	Agent  int
	Action game.Action
	Hash   game.StateHash // 0 if the state is not a Hasher
}
