package game

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// Weights of the features heuristic
const (
	ObjectiveDistanceWeight = -1.5
	AdversaryWeight         = 2.0
	ObjectiveCountWeight    = -4.0
	PowerUpCountWeight      = -20.0
)

// Weights of the reflex heuristic
const (
	ReflexObjectiveWeight = 10.0
	ReflexDangerDistance  = 4.0 // Summed adversary term below which the move is risky
	ReflexDangerPenalty   = -50.0
	ReflexStopPenalty     = -10.0
	ReflexObjectiveBonus  = 30.0
)

type EvaluationName string

const (
	ScoreBased  EvaluationName = "score-based"
	Better      EvaluationName = "better"
	ReflexBased EvaluationName = "reflex" // Scores moves rather than states
)

var ErrUnknownEvaluation = errors.New("unknown evaluation function")

var evaluations = map[EvaluationName]Evaluate{
	ScoreBased: EvaluateScore,
	Better:     EvaluateFeatures,
}

var actionEvaluations = map[EvaluationName]ActionEvaluate{
	ReflexBased: EvaluateReflex,
}

// ActionEvaluate scores the move of the controlled agent playing action in
// prev and reaching next. Higher is better.
type ActionEvaluate func(prev State, action Action, next State) float64

// Successor scores a move by the state it reaches
func (e Evaluate) Successor() ActionEvaluate {
	return func(_ State, _ Action, next State) float64 {
		return e(next)
	}
}

// LookupEvaluation resolves a state evaluation function by name
func LookupEvaluation(name EvaluationName) (Evaluate, error) {
	evaluate, ok := evaluations[name]
	if !ok {
		if _, ok := actionEvaluations[name]; ok {
			return nil, fmt.Errorf("%w: %q scores single moves and cannot score states", ErrUnknownEvaluation, name)
		}
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownEvaluation, name, EvaluationNames())
	}
	return evaluate, nil
}

// LookupActionEvaluation resolves a move evaluation function by name. State
// evaluations are accepted too and score the reached state.
func LookupActionEvaluation(name EvaluationName) (ActionEvaluate, error) {
	if evaluate, ok := actionEvaluations[name]; ok {
		return evaluate, nil
	}
	evaluate, err := LookupEvaluation(name)
	if err != nil {
		return nil, err
	}
	return evaluate.Successor(), nil
}

// EvaluationNames returns the registered evaluation names in sorted order
func EvaluationNames() []EvaluationName {
	names := append(lo.Keys(evaluations), lo.Keys(actionEvaluations)...)
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

type Position struct {
	X, Y int
}

func (p Position) Distance(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

type Adversary struct {
	Position    Position
	ScaredTimer int // Moves left until the adversary is threatening again, 0 if threatening
}

// Stopper is implemented by actions that may leave the agent where it is
type Stopper interface {
	IsStop() bool
}

// Features is implemented by states that expose the positional information
// needed by EvaluateFeatures
type Features interface {
	State
	ControlledPosition() Position
	Objectives() []Position
	PowerUps() []Position
	Adversaries() []Adversary
}

// EvaluateScore returns the intrinsic score of the state
func EvaluateScore(s State) float64 {
	return s.Score()
}

// EvaluateFeatures combines the state score with the distance to the nearest
// objective, the distance to the nearest adversary (or a bonus for a scared
// one), and penalties for the remaining objectives and power-ups. States that
// do not implement Features are scored by EvaluateScore.
func EvaluateFeatures(s State) float64 {
	if s.IsWin() {
		return Win
	}
	if s.IsLose() {
		return Lose
	}
	fs, ok := s.(Features)
	if !ok {
		return EvaluateScore(s)
	}

	position := fs.ControlledPosition()
	objectives := fs.Objectives()

	score := fs.Score() +
		ObjectiveDistanceWeight*nearestDistance(position, objectives) +
		AdversaryWeight*adversaryTerm(position, fs.Adversaries()) +
		ObjectiveCountWeight*float64(len(objectives)) +
		PowerUpCountWeight*float64(len(fs.PowerUps()))

	// Keep heuristic values strictly inside the terminal sentinels
	return math.Max(Lose+1, math.Min(Win-1, score))
}

// EvaluateReflex scores a single move: closeness to the nearest objective, the
// summed standing against every adversary, a penalty when that sum is low or
// when the agent stops, and a bonus when the move reaches an objective. Moves
// into states that do not implement Features are scored by EvaluateScore.
func EvaluateReflex(prev State, action Action, next State) float64 {
	if next.IsWin() {
		return Win
	}
	if next.IsLose() {
		return Lose
	}
	fs, ok := next.(Features)
	if !ok {
		return EvaluateScore(next)
	}

	position := fs.ControlledPosition()
	objective := 1.0
	if d := nearestDistance(position, fs.Objectives()); d > 0 {
		objective = 1 / d
	}
	danger := lo.SumBy(fs.Adversaries(), func(a Adversary) float64 {
		if a.ScaredTimer > 0 {
			return 1/float64(max(position.Distance(a.Position), 1)) + float64(a.ScaredTimer)
		}
		return float64(position.Distance(a.Position))
	})

	score := ReflexObjectiveWeight*objective + danger
	if danger < ReflexDangerDistance {
		score += ReflexDangerPenalty
	}
	if stopper, ok := action.(Stopper); ok && stopper.IsStop() {
		score += ReflexStopPenalty
	}
	if before, ok := prev.(Features); ok && len(fs.Objectives()) < len(before.Objectives()) {
		score += ReflexObjectiveBonus
	}
	return math.Max(Lose+1, math.Min(Win-1, score))
}

// nearestDistance is 0 when there is nothing left to reach
func nearestDistance(from Position, targets []Position) float64 {
	if len(targets) == 0 {
		return 0
	}
	nearest := lo.MinBy(targets, func(a, b Position) bool {
		return from.Distance(a) < from.Distance(b)
	})
	return float64(from.Distance(nearest))
}

// adversaryTerm rewards closing in on the nearest scared adversary (more so the
// longer it stays scared), otherwise it rewards distance from the nearest
// threatening one
func adversaryTerm(from Position, adversaries []Adversary) float64 {
	scared := lo.Filter(adversaries, func(a Adversary, _ int) bool { return a.ScaredTimer > 0 })
	if len(scared) > 0 {
		nearest := lo.MinBy(scared, func(a, b Adversary) bool {
			return from.Distance(a.Position) < from.Distance(b.Position)
		})
		d := max(from.Distance(nearest.Position), 1)
		return 1/float64(d) + float64(nearest.ScaredTimer)
	}
	if len(adversaries) == 0 {
		return 0
	}
	return nearestDistance(from, lo.Map(adversaries, func(a Adversary, _ int) Position { return a.Position }))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
