package game

import (
	"errors"
	"fmt"
)

// Win and Lose are the values of terminal states. Every heuristic must stay
// strictly inside (Lose, Win) so that search prefers an immediate win over any
// heuristic score and avoids an immediate loss whenever it can.
const (
	Win  = 99999.0
	Lose = -Win
)

// Controlled is the index of the maximizing agent
const Controlled = 0

var ErrInvalidAction = errors.New("invalid action")

type Action interface {
	fmt.Stringer
}

type StateHash uint64

// State should be immutable - GenerateSuccessor always returns a new state and
// never modifies the receiver
type State interface {
	// LegalActions returns the actions available to agent, in a deterministic
	// order. An empty slice is allowed.
	LegalActions(agent int) []Action
	// GenerateSuccessor returns the state after agent plays action, or an error
	// wrapping ErrInvalidAction if the action is not currently legal.
	GenerateSuccessor(agent int, action Action) (State, error)
	IsWin() bool
	IsLose() bool
	NumAgents() int
	Score() float64
}

// Evaluate scores a state from the controlled agent's perspective. Higher is
// better.
type Evaluate func(State) float64

// IsTerminal reports whether the state is won or lost
func IsTerminal(s State) bool {
	return s.IsWin() || s.IsLose()
}
