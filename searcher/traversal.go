package searcher

import (
	"context"
	"fmt"
	"math"

	"multiagent/experiments/metrics"
	"multiagent/game"
)

// traversal is the depth-limited recursion shared by every tree strategy
type traversal struct {
	maxDepth int
	evaluate game.Evaluate
	policy   policy
	metrics  metrics.Collector
}

// value returns the value of state with agent to move. For controlled nodes it
// also returns the first action reaching that value; adversary nodes and
// cutoffs return a nil action.
func (t *traversal) value(ctx context.Context, state game.State, depth, agent int, b bounds) (float64, game.Action, error) {
	select {
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	default:
	}
	t.metrics.AddNode()

	if depth >= t.maxDepth || game.IsTerminal(state) {
		return t.leaf(state), nil, nil
	}
	actions := state.LegalActions(agent)
	if len(actions) == 0 {
		return t.leaf(state), nil, nil
	}

	nextAgent, nextDepth := NextTurn(agent, depth, state.NumAgents())
	if agent == game.Controlled {
		return t.maximize(ctx, state, actions, nextAgent, nextDepth, b)
	}
	v, err := t.aggregate(ctx, state, agent, actions, nextAgent, nextDepth, b)
	return v, nil, err
}

func (t *traversal) maximize(ctx context.Context, state game.State, actions []game.Action,
	nextAgent, nextDepth int, b bounds) (float64, game.Action, error) {

	best := math.Inf(-1)
	bestAction := actions[0]
	for i, action := range actions {
		v, err := t.child(ctx, state, game.Controlled, action, nextAgent, nextDepth, b)
		if err != nil {
			return 0, nil, err
		}
		// Strictly greater keeps the earliest of equally valued actions
		if v > best {
			best = v
			bestAction = action
		}
		if t.policy.maxCutoff(best, &b) {
			if i < len(actions)-1 {
				t.metrics.AddPrune()
			}
			return best, bestAction, nil
		}
	}
	return best, bestAction, nil
}

func (t *traversal) aggregate(ctx context.Context, state game.State, agent int, actions []game.Action,
	nextAgent, nextDepth int, b bounds) (float64, error) {

	agg := t.policy.adversary(len(actions), &b)
	for i, action := range actions {
		v, err := t.child(ctx, state, agent, action, nextAgent, nextDepth, b)
		if err != nil {
			return 0, err
		}
		if agg.add(v) {
			if i < len(actions)-1 {
				t.metrics.AddPrune()
			}
			break
		}
	}
	return agg.value(), nil
}

func (t *traversal) child(ctx context.Context, state game.State, agent int, action game.Action,
	nextAgent, nextDepth int, b bounds) (float64, error) {

	successor, err := state.GenerateSuccessor(agent, action)
	if err != nil {
		return 0, fmt.Errorf("agent %d playing %v: %w", agent, action, err)
	}
	v, _, err := t.value(ctx, successor, nextDepth, nextAgent, b)
	return v, err
}

func (t *traversal) leaf(state game.State) float64 {
	t.metrics.AddEvaluation()
	return t.evaluate(state)
}
