package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Strategy    string
	Depth       int
	Evaluation  string
	Duration    time.Duration
	Nodes       int // Nodes entered, leaves included
	Evaluations int // Calls to the evaluation function
	Prunes      int // Nodes that skipped remaining siblings
}

type MoveMetric struct {
	Step  int
	Agent int // Agent index
	SearchMetric
}

type GameMetric struct {
	Winner    string // "controlled", "adversaries" or "" if the turn limit was hit
	Score     float64
	Turns     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start(strategy string, depth int, evaluation string)
	AddNode()
	AddEvaluation()
	AddPrune()
	Complete() SearchMetric
}

type collector struct {
	strategy    string
	depth       int
	evaluation  string
	startTime   time.Time
	nodes       atomic.Int64
	evaluations atomic.Int64
	prunes      atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(strategy string, depth int, evaluation string) {
	m.startTime = time.Now()
	m.strategy = strategy
	m.depth = depth
	m.evaluation = evaluation
	m.nodes.Store(0)
	m.evaluations.Store(0)
	m.prunes.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) AddPrune() {
	m.prunes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Strategy:    m.strategy,
		Depth:       m.depth,
		Evaluation:  m.evaluation,
		Duration:    time.Since(m.startTime),
		Nodes:       int(m.nodes.Load()),
		Evaluations: int(m.evaluations.Load()),
		Prunes:      int(m.prunes.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(strategy string, depth int, evaluation string) {}
func (m *dummyCollector) AddNode()                                            {}
func (m *dummyCollector) AddEvaluation()                                      {}
func (m *dummyCollector) AddPrune()                                           {}
func (m *dummyCollector) Complete() SearchMetric                              { return SearchMetric{} }
