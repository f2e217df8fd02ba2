package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"multiagent/experiments/metrics"
	"multiagent/game"

	"github.com/rs/zerolog/log"
)

type Engine struct {
	State       game.State
	Agents      []Agent // indexed by agent, Agents[0] plays the controlled agent
	MoveTimeout time.Duration
	MaxTurns    int
	updates     []Update
}

func LocalEngine(state game.State, agents []Agent, moveTimeout time.Duration) *Engine {
	if len(agents) != state.NumAgents() {
		panic(fmt.Sprintf("number of agents %d does not match the game's %d", len(agents), state.NumAgents()))
	}

	return &Engine{
		State:       state,
		Agents:      agents,
		MoveTimeout: moveTimeout,
		MaxTurns:    MaxTurns,
	}
}

// Updates returns the moves played so far
func (e *Engine) Updates() []Update {
	return e.updates
}

// Run plays the game until it is won, lost or MaxTurns is reached. It only
// returns an error if ctx is done or if no legal action can be played.
func (e *Engine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("starting game with %d agents", len(e.Agents))

	step := 0
	for gameMetric.Turns < e.MaxTurns && !game.IsTerminal(e.State) {
		for agent := range e.Agents {
			if game.IsTerminal(e.State) {
				break
			}
			step++

			metric, err := e.move(ctx, agent)
			if err != nil {
				return gameMetric, moveMetrics, fmt.Errorf("step %d: %w", step, err)
			}
			moveMetrics = append(moveMetrics, metrics.MoveMetric{
				Step:         step,
				Agent:        agent,
				SearchMetric: metric,
			})
		}
		gameMetric.Turns++
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Score = e.State.Score()
	switch {
	case e.State.IsWin():
		gameMetric.Winner = WinnerControlled
	case e.State.IsLose():
		gameMetric.Winner = WinnerAdversaries
	}

	log.Debug().Msgf("game ended after %d turns with winner %q and score %.0f", gameMetric.Turns, gameMetric.Winner, gameMetric.Score)
	return gameMetric, moveMetrics, nil
}

// move asks agent for an action and plays it, falling back to the first legal
// action if the agent fails, times out or picks an invalid action
func (e *Engine) move(ctx context.Context, agent int) (metrics.SearchMetric, error) {
	legal := e.State.LegalActions(agent)
	if len(legal) == 0 {
		log.Debug().Msgf("agent %d has no legal actions, skipping", agent)
		return metrics.SearchMetric{}, nil
	}

	moveCtx, cancel := e.moveContext(ctx)
	action, metric, err := e.Agents[agent].FindAction(moveCtx, e.State, agent)
	cancel()
	if ctx.Err() != nil {
		return metric, ctx.Err()
	}

	next, err := e.play(agent, action, err)
	if err != nil {
		log.Warn().Err(err).Msgf("agent %d failed to choose an action, playing %v", agent, legal[0])
		action = legal[0]
		next, err = e.State.GenerateSuccessor(agent, action)
		if err != nil {
			return metric, fmt.Errorf("agent %d fallback: %w", agent, err)
		}
	}

	u := Update{Agent: agent, Action: action}
	if h, ok := next.(Hasher); ok {
		u.Hash = h.Hash()
	}
	e.updates = append(e.updates, u)
	e.State = next
	return metric, nil
}

var errNoAction = errors.New("no action chosen")

func (e *Engine) play(agent int, action game.Action, findErr error) (game.State, error) {
	if findErr != nil {
		return nil, findErr
	}
	if action == nil {
		return nil, errNoAction
	}
	return e.State.GenerateSuccessor(agent, action)
}

func (e *Engine) moveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.MoveTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.MoveTimeout)
}
