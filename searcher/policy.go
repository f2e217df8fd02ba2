package searcher

import "math"

// bounds are only read by the alpha-beta policy. Every node owns its copy.
type bounds struct {
	alpha float64 // Best value the controlled agent can already guarantee
	beta  float64 // Best value the adversaries can already guarantee
}

func fullWindow() bounds {
	return bounds{alpha: math.Inf(-1), beta: math.Inf(1)}
}

// aggregate folds the values of an adversary node's children
type aggregate interface {
	// add folds the next child value and reports whether the remaining
	// children can be skipped
	add(value float64) (cutoff bool)
	value() float64
}

// policy is what distinguishes minimax, alpha-beta and expectimax
type policy interface {
	// maxCutoff is called after each child of a controlled node with the
	// running best value and reports whether the remaining children can be
	// skipped
	maxCutoff(best float64, b *bounds) bool
	// adversary starts the aggregation of an adversary node with n children
	adversary(n int, b *bounds) aggregate
}

type minimaxPolicy struct{}

func (minimaxPolicy) maxCutoff(float64, *bounds) bool { return false }

func (minimaxPolicy) adversary(int, *bounds) aggregate {
	return &minimum{best: math.Inf(1)}
}

// alphaBetaPolicy cuts off on strict inequalities only (fail-soft)
type alphaBetaPolicy struct{}

func (alphaBetaPolicy) maxCutoff(best float64, b *bounds) bool {
	if best > b.beta {
		return true
	}
	b.alpha = math.Max(b.alpha, best)
	return false
}

func (alphaBetaPolicy) adversary(_ int, b *bounds) aggregate {
	return &minimum{best: math.Inf(1), bounds: b}
}

type minimum struct {
	best   float64
	bounds *bounds // nil disables pruning
}

func (m *minimum) add(value float64) bool {
	m.best = math.Min(m.best, value)
	if m.bounds == nil {
		return false
	}
	if m.best < m.bounds.alpha {
		return true
	}
	m.bounds.beta = math.Min(m.bounds.beta, m.best)
	return false
}

func (m *minimum) value() float64 {
	return m.best
}

// expectimaxPolicy models every adversary as moving uniformly at random
type expectimaxPolicy struct{}

func (expectimaxPolicy) maxCutoff(float64, *bounds) bool { return false }

func (expectimaxPolicy) adversary(n int, _ *bounds) aggregate {
	return &mean{weight: 1 / float64(n)}
}

type mean struct {
	weight float64
	sum    float64
}

func (m *mean) add(value float64) bool {
	m.sum += m.weight * value
	return false
}

func (m *mean) value() float64 {
	return m.sum
}
