package engine

import (
	"context"
	"fmt"

	"multiagent/experiments/metrics"
	"multiagent/game"
	"multiagent/searcher"

	"golang.org/x/exp/rand"
)

// SearchAgent plays the controlled agent with a searcher
type SearchAgent struct {
	Searcher searcher.Searcher
}

func (a *SearchAgent) FindAction(ctx context.Context, state game.State, agent int) (game.Action, metrics.SearchMetric, error) {
	if agent != game.Controlled {
		return nil, metrics.SearchMetric{}, fmt.Errorf("search agent can only play agent %d, asked to play %d", game.Controlled, agent)
	}
	return a.Searcher.FindNextAction(ctx, state)
}

// RandomAgent picks uniformly among the legal actions, the adversary model
// expectimax assumes
type RandomAgent struct {
	rng *rand.Rand
}

func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent) FindAction(ctx context.Context, state game.State, agent int) (game.Action, metrics.SearchMetric, error) {
	actions := state.LegalActions(agent)
	if len(actions) == 0 {
		return nil, metrics.SearchMetric{Strategy: "random"}, nil
	}
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{Strategy: "random"}, nil
}
