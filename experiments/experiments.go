package experiments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"multiagent/engine"
	"multiagent/experiments/metrics"
	"multiagent/game"
	"multiagent/maze"
	"multiagent/searcher"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const (
	NumGames    = 30 // Per agent config
	MoveTimeout = time.Second
)

var ErrInvalidExperiment = errors.New("invalid experiment")

// Tree strategies with the features heuristic at the default depth, and the
// reflex agent with its move heuristic
var strategyConfigs = []metrics.AgentConfig{
	{ID: 1, Strategy: string(searcher.StrategyMinimax), Depth: 2, Evaluation: string(game.Better)},
	{ID: 2, Strategy: string(searcher.StrategyAlphaBeta), Depth: 2, Evaluation: string(game.Better)},
	{ID: 3, Strategy: string(searcher.StrategyExpectimax), Depth: 2, Evaluation: string(game.Better)},
	{ID: 4, Strategy: string(searcher.StrategyReflex), Depth: 1, Evaluation: string(game.ReflexBased)},
}

// Alpha-beta at increasing depths with both heuristics
var depthConfigs = []metrics.AgentConfig{
	{ID: 1, Strategy: string(searcher.StrategyAlphaBeta), Depth: 1, Evaluation: string(game.ScoreBased)},
	{ID: 2, Strategy: string(searcher.StrategyAlphaBeta), Depth: 2, Evaluation: string(game.ScoreBased)},
	{ID: 3, Strategy: string(searcher.StrategyAlphaBeta), Depth: 3, Evaluation: string(game.ScoreBased)},
	{ID: 4, Strategy: string(searcher.StrategyAlphaBeta), Depth: 1, Evaluation: string(game.Better)},
	{ID: 5, Strategy: string(searcher.StrategyAlphaBeta), Depth: 2, Evaluation: string(game.Better)},
	{ID: 6, Strategy: string(searcher.StrategyAlphaBeta), Depth: 3, Evaluation: string(game.Better)},
}

var presets = map[string][]metrics.AgentConfig{
	"strategies": strategyConfigs,
	"depths":     depthConfigs,
}

// LookupPreset returns the agent configs of a named experiment
func LookupPreset(name string) ([]metrics.AgentConfig, error) {
	configs, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown experiment %q (known: %v)", ErrInvalidExperiment, name, PresetNames())
	}
	return configs, nil
}

func PresetNames() []string {
	names := lo.Keys(presets)
	sort.Strings(names)
	return names
}

// Experiment plays Games games for every agent config against random
// adversaries on the same layout
type Experiment struct {
	Name        string
	Layout      *maze.Layout
	Agents      []metrics.AgentConfig
	Games       int
	Seed        uint64
	Parallelism int           // Games played at once, 1 if unset
	MoveTimeout time.Duration // No timeout if unset
	OutputDir   string        // CSV files are skipped if empty
}

type Summary struct {
	Agent     metrics.AgentConfig
	Games     int
	Wins      int
	WinRate   float64
	MeanScore float64
	StdScore  float64 // 0 with fewer than two games
	MeanTurns float64
}

type Result struct {
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
	Summaries []Summary
	Dir       string // Where the CSV files were written
}

func Run(ctx context.Context, exp Experiment) (Result, error) {
	if err := exp.validate(); err != nil {
		return Result{}, err
	}

	log.Info().Msgf("starting %s experiment with %d agents and %d games each...", exp.Name, len(exp.Agents), exp.Games)

	numGames := len(exp.Agents) * exp.Games
	games := make([]metrics.GameRecord, numGames)
	moves := make([][]metrics.MoveRecord, numGames)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(exp.Parallelism, 1))
	for ai, config := range exp.Agents {
		config := config
		for i := 0; i < exp.Games; i++ {
			index := ai*exp.Games + i
			id := index + 1
			seed := exp.Seed + uint64(id)
			g.Go(func() error {
				gameMetric, moveMetrics, err := exp.runGame(ctx, config, seed)
				if err != nil {
					return fmt.Errorf("game %d with agent %d: %w", id, config.ID, err)
				}

				games[index] = metrics.GameRecord{ID: id, Agent: config.ID, Seed: seed, GameMetric: gameMetric}
				moves[index] = lo.Map(moveMetrics, func(m metrics.MoveMetric, _ int) metrics.MoveRecord {
					return metrics.MoveRecord{Game: id, MoveMetric: m}
				})

				log.Debug().Msgf("completed game %d with agent %d, winner: %q", id, config.ID, gameMetric.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("%s experiment: %w", exp.Name, err)
	}

	result := Result{
		Games:     games,
		Moves:     lo.Flatten(moves),
		Summaries: Summarize(exp.Agents, games),
	}
	for _, s := range result.Summaries {
		log.Info().Msgf("agent %d (%s depth %d %s): won %d of %d, score %.1f ± %.1f",
			s.Agent.ID, s.Agent.Strategy, s.Agent.Depth, s.Agent.Evaluation, s.Wins, s.Games, s.MeanScore, s.StdScore)
	}

	if exp.OutputDir != "" {
		dir, err := exp.write(result)
		if err != nil {
			return result, err
		}
		result.Dir = dir
	}

	log.Info().Msgf("completed %s experiment", exp.Name)
	return result, nil
}

func (exp Experiment) validate() error {
	if exp.Layout == nil {
		return fmt.Errorf("%w: no layout", ErrInvalidExperiment)
	}
	if len(exp.Agents) == 0 {
		return fmt.Errorf("%w: no agents", ErrInvalidExperiment)
	}
	if exp.Games < 1 {
		return fmt.Errorf("%w: games must be at least 1, got %d", ErrInvalidExperiment, exp.Games)
	}
	// Fail before any game starts
	for _, config := range exp.Agents {
		if _, err := newSearcher(config, 0); err != nil {
			return fmt.Errorf("agent %d: %w", config.ID, err)
		}
	}
	return nil
}

// runGame plays a single game between the configured agent and random
// adversaries seeded from seed
func (exp Experiment) runGame(ctx context.Context, config metrics.AgentConfig, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	s, err := newSearcher(config, seed)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}

	agents := []engine.Agent{&engine.SearchAgent{Searcher: s}}
	for k := range exp.Layout.Adversaries {
		agents = append(agents, engine.NewRandomAgent(seed*31+uint64(k)))
	}

	e := engine.LocalEngine(maze.NewState(exp.Layout), agents, exp.MoveTimeout)
	return e.Run(ctx)
}

func newSearcher(config metrics.AgentConfig, seed uint64) (searcher.Searcher, error) {
	return searcher.New(searcher.Strategy(config.Strategy),
		searcher.WithDepth(config.Depth),
		searcher.WithEvaluation(game.EvaluationName(config.Evaluation)),
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	)
}

// Summarize computes the win rate and score statistics of every agent config
func Summarize(configs []metrics.AgentConfig, games []metrics.GameRecord) []Summary {
	byAgent := lo.GroupBy(games, func(r metrics.GameRecord) int { return r.Agent })

	return lo.Map(configs, func(config metrics.AgentConfig, _ int) Summary {
		records := byAgent[config.ID]
		s := Summary{Agent: config, Games: len(records)}
		if len(records) == 0 {
			return s
		}

		s.Wins = lo.CountBy(records, func(r metrics.GameRecord) bool { return r.Winner == engine.WinnerControlled })
		s.WinRate = float64(s.Wins) / float64(len(records))
		scores := lo.Map(records, func(r metrics.GameRecord, _ int) float64 { return r.Score })
		s.MeanScore = stat.Mean(scores, nil)
		if len(scores) > 1 {
			_, s.StdScore = stat.MeanStdDev(scores, nil)
		}
		s.MeanTurns = float64(lo.SumBy(records, func(r metrics.GameRecord) int { return r.Turns })) / float64(len(records))
		return s
	})
}

func (exp Experiment) write(result Result) (string, error) {
	writer, err := metrics.NewWriter(exp.OutputDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(exp.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(result.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}
