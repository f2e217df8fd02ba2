package searcher

import (
	"fmt"

	"multiagent/game"

	"golang.org/x/exp/rand"
)

type mockAction string

func (a mockAction) String() string { return string(a) }

// mockState is a node of an explicit game tree. The tree shape encodes the
// turn order, so LegalActions ignores the agent argument.
type mockState struct {
	name     string
	agents   int
	value    float64
	win      bool
	lose     bool
	actions  []game.Action
	children map[game.Action]*mockState
}

type edge struct {
	action mockAction
	child  *mockState
}

func to(action string, child *mockState) edge {
	return edge{action: mockAction(action), child: child}
}

func leaf(name string, value float64) *mockState {
	return &mockState{name: name, value: value}
}

func node(name string, edges ...edge) *mockState {
	s := &mockState{name: name, children: map[game.Action]*mockState{}}
	for _, e := range edges {
		s.actions = append(s.actions, e.action)
		s.children[e.action] = e.child
	}
	return s
}

// withAgents sets the number of agents on every node of the tree
func withAgents(agents int, root *mockState) *mockState {
	root.agents = agents
	for _, child := range root.children {
		withAgents(agents, child)
	}
	return root
}

func (s *mockState) LegalActions(int) []game.Action {
	return s.actions
}

func (s *mockState) GenerateSuccessor(agent int, action game.Action) (game.State, error) {
	child, ok := s.children[action]
	if !ok {
		return nil, fmt.Errorf("%w: %v from %s", game.ErrInvalidAction, action, s.name)
	}
	return child, nil
}

func (s *mockState) IsWin() bool    { return s.win }
func (s *mockState) IsLose() bool   { return s.lose }
func (s *mockState) NumAgents() int { return s.agents }
func (s *mockState) Score() float64 { return s.value }
func (s *mockState) String() string { return s.name }

// recorder wraps an evaluation function and remembers the states it scored
type recorder struct {
	evaluated []string
}

func (r *recorder) evaluate(s game.State) float64 {
	r.evaluated = append(r.evaluated, s.(*mockState).name)
	return s.Score()
}

// exampleTree is the depth-1 two-agent tree A -> {3, 5}, B -> {1, 9}
func exampleTree() *mockState {
	return withAgents(2, node("root",
		to("A", node("A", to("a1", leaf("A3", 3)), to("a2", leaf("A5", 5)))),
		to("B", node("B", to("b1", leaf("B1", 1)), to("b2", leaf("B9", 9)))),
	))
}

// randomTree builds a tree of depth plies for agents agents where each node
// has between 1 and maxBranching children. Leaf values are distinct.
func randomTree(rng *rand.Rand, agents, plies, maxBranching int) *mockState {
	next := 0
	values := rng.Perm(1000)
	var build func(name string, agent, depth int) *mockState
	build = func(name string, agent, depth int) *mockState {
		if depth == plies {
			v := float64(values[next])
			next++
			return leaf(name, v)
		}
		nextAgent, nextDepth := NextTurn(agent, depth, agents)
		branching := 1 + rng.Intn(maxBranching)
		edges := make([]edge, 0, branching)
		for i := 0; i < branching; i++ {
			childName := fmt.Sprintf("%s/%d.%d", name, agent, i)
			edges = append(edges, to(childName, build(childName, nextAgent, nextDepth)))
		}
		return node(name, edges...)
	}
	return withAgents(agents, build("root", game.Controlled, 0))
}

// fullTree builds a tree of depth plies for agents agents where every node has
// branching children and every leaf is worth value
func fullTree(agents, plies, branching int, value float64) *mockState {
	var build func(name string, agent, depth int) *mockState
	build = func(name string, agent, depth int) *mockState {
		if depth == plies {
			return leaf(name, value)
		}
		nextAgent, nextDepth := NextTurn(agent, depth, agents)
		edges := make([]edge, 0, branching)
		for i := 0; i < branching; i++ {
			childName := fmt.Sprintf("%s/%d.%d", name, agent, i)
			edges = append(edges, to(childName, build(childName, nextAgent, nextDepth)))
		}
		return node(name, edges...)
	}
	return withAgents(agents, build("root", game.Controlled, 0))
}
