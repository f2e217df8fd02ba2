package maze

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"multiagent/game"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"
)

// Scoring and timing rules
const (
	MoveCost       = 1.0
	FoodReward     = 10.0
	ClearReward    = 500.0
	CaptureReward  = 200.0
	CaughtPenalty  = 500.0
	ScaredDuration = 40
)

type Direction int

const (
	Stop Direction = iota
	North
	South
	East
	West
)

var moves = []Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return "Stop"
	}
}

func (d Direction) IsStop() bool { return d == Stop }

func (d Direction) Reverse() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return Stop
	}
}

func (d Direction) apply(p game.Position) game.Position {
	switch d {
	case North:
		p.Y--
	case South:
		p.Y++
	case East:
		p.X++
	case West:
		p.X--
	}
	return p
}

type agent struct {
	position  game.Position
	direction Direction // last move, Stop before the first one
	scared    int
	respawned bool // captured and back at its start, harmless until it moves
}

// State is an immutable snapshot of a maze game. Agent 0 is the controlled
// agent, agents 1..n are the adversaries in layout order.
type State struct {
	layout   *Layout
	agents   []agent
	food     []bool // indexed like the layout walls
	foodLeft int
	capsules []game.Position
	score    float64
	win      bool
	lose     bool
}

var (
	_ game.Features = (*State)(nil)
	_ game.Stopper  = Stop
)

func NewState(layout *Layout) *State {
	s := &State{
		layout:   layout,
		agents:   make([]agent, 0, layout.NumAgents()),
		food:     make([]bool, layout.Width*layout.Height),
		foodLeft: len(layout.Food),
		capsules: slices.Clone(layout.Capsules),
	}
	s.agents = append(s.agents, agent{position: layout.Controlled})
	for _, p := range layout.Adversaries {
		s.agents = append(s.agents, agent{position: p})
	}
	for _, p := range layout.Food {
		s.food[layout.index(p)] = true
	}
	return s
}

func (s *State) Layout() *Layout {
	return s.layout
}

// LegalActions returns the moves into non-wall cells, followed by Stop for
// the controlled agent. Adversaries never stop and only turn back at dead
// ends.
func (s *State) LegalActions(agentIndex int) []game.Action {
	if s.IsWin() || s.IsLose() || agentIndex < 0 || agentIndex >= len(s.agents) {
		return nil
	}
	a := s.agents[agentIndex]
	open := lo.Filter(moves, func(d Direction, _ int) bool {
		return !s.layout.IsWall(d.apply(a.position))
	})

	if agentIndex == game.Controlled {
		return toActions(append(open, Stop))
	}
	if forward := lo.Without(open, a.direction.Reverse()); len(forward) > 0 {
		return toActions(forward)
	}
	return toActions(open)
}

func toActions(directions []Direction) []game.Action {
	return lo.Map(directions, func(d Direction, _ int) game.Action { return d })
}

// GenerateSuccessor moves agentIndex in the given direction and resolves food,
// capsules and collisions
func (s *State) GenerateSuccessor(agentIndex int, action game.Action) (game.State, error) {
	d, ok := action.(Direction)
	if !ok || !slices.Contains(s.LegalActions(agentIndex), action) {
		return nil, fmt.Errorf("%w: agent %d cannot play %v", game.ErrInvalidAction, agentIndex, action)
	}

	next := s.copy()
	a := &next.agents[agentIndex]
	a.position = d.apply(a.position)
	a.direction = d

	if agentIndex == game.Controlled {
		next.score -= MoveCost
		next.consume(a.position)
		for i := 1; i < len(next.agents); i++ {
			next.collide(i)
		}
	} else {
		a.respawned = false
		if a.scared > 0 {
			a.scared--
		}
		next.collide(agentIndex)
	}
	return next, nil
}

func (s *State) copy() *State {
	next := *s
	next.agents = slices.Clone(s.agents)
	return &next
}

func (s *State) consume(p game.Position) {
	i := s.layout.index(p)
	if s.food[i] {
		s.food = slices.Clone(s.food)
		s.food[i] = false
		s.foodLeft--
		s.score += FoodReward
		if s.foodLeft == 0 {
			s.score += ClearReward
			s.win = true
		}
	}

	if j := slices.Index(s.capsules, p); j >= 0 {
		s.capsules = slices.Delete(slices.Clone(s.capsules), j, j+1)
		for k := 1; k < len(s.agents); k++ {
			s.agents[k].scared = ScaredDuration
		}
	}
}

// collide resolves a meeting between the controlled agent and adversary i.
// A game that is already won cannot be lost.
func (s *State) collide(i int) {
	if s.agents[i].respawned || s.agents[i].position != s.agents[game.Controlled].position {
		return
	}
	if s.agents[i].scared > 0 {
		s.score += CaptureReward
		s.agents[i] = agent{position: s.layout.Adversaries[i-1], respawned: true}
		return
	}
	if !s.win {
		s.score -= CaughtPenalty
		s.lose = true
	}
}

func (s *State) IsWin() bool    { return s.win }
func (s *State) IsLose() bool   { return s.lose }
func (s *State) NumAgents() int { return len(s.agents) }
func (s *State) Score() float64 { return s.score }

func (s *State) ControlledPosition() game.Position {
	return s.agents[game.Controlled].position
}

// Objectives lists the remaining food, row by row
func (s *State) Objectives() []game.Position {
	objectives := make([]game.Position, 0, s.foodLeft)
	for i, ok := range s.food {
		if ok {
			objectives = append(objectives, game.Position{X: i % s.layout.Width, Y: i / s.layout.Width})
		}
	}
	return objectives
}

func (s *State) PowerUps() []game.Position {
	return s.capsules
}

func (s *State) Adversaries() []game.Adversary {
	return lo.Map(s.agents[1:], func(a agent, _ int) game.Adversary {
		return game.Adversary{Position: a.position, ScaredTimer: a.scared}
	})
}

func (s *State) Hash() game.StateHash {
	hasher := xxhash.New()

	// Hash agents
	for _, a := range s.agents {
		var respawned int64
		if a.respawned {
			respawned = 1
		}
		binary.Write(hasher, binary.LittleEndian, [5]int64{
			int64(a.position.X), int64(a.position.Y), int64(a.direction), int64(a.scared), respawned,
		})
	}

	// Hash remaining food and capsules
	for _, p := range s.Objectives() {
		binary.Write(hasher, binary.LittleEndian, [2]int64{int64(p.X), int64(p.Y)})
	}
	binary.Write(hasher, binary.LittleEndian, int64(-1))
	for _, p := range s.capsules {
		binary.Write(hasher, binary.LittleEndian, [2]int64{int64(p.X), int64(p.Y)})
	}

	binary.Write(hasher, binary.LittleEndian, s.score)
	return game.StateHash(hasher.Sum64())
}

// String draws the maze. Adversaries are drawn as G, or g while scared.
func (s *State) String() string {
	var b strings.Builder
	for y := 0; y < s.layout.Height; y++ {
		for x := 0; x < s.layout.Width; x++ {
			b.WriteByte(s.cell(game.Position{X: x, Y: y}))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "score: %.0f", s.score)
	return b.String()
}

func (s *State) cell(p game.Position) byte {
	if p == s.ControlledPosition() {
		return controlledCell
	}
	for _, a := range s.agents[1:] {
		if a.position == p {
			if a.scared > 0 {
				return 'g'
			}
			return adversaryCell
		}
	}
	switch {
	case s.layout.IsWall(p):
		return wallCell
	case s.food[s.layout.index(p)]:
		return foodCell
	case slices.Contains(s.capsules, p):
		return capsuleCell
	default:
		return emptyCell
	}
}
