package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"multiagent/engine"
	"multiagent/experiments/metrics"
	"multiagent/game"
	"multiagent/maze"
	"multiagent/searcher"

	"github.com/stretchr/testify/require"
)

func testLayout(t *testing.T) *maze.Layout {
	t.Helper()
	l, err := maze.LookupLayout("testClassic")
	require.NoError(t, err)
	return l
}

func TestRun(t *testing.T) {
	t.Run("playing every game and writing the records", func(t *testing.T) {
		configs := []metrics.AgentConfig{
			{ID: 1, Strategy: string(searcher.StrategyAlphaBeta), Depth: 1, Evaluation: string(game.Better)},
			{ID: 2, Strategy: string(searcher.StrategyReflex), Depth: 1, Evaluation: string(game.ScoreBased)},
		}
		exp := Experiment{
			Name:        "test",
			Layout:      testLayout(t),
			Agents:      configs,
			Games:       3,
			Seed:        5,
			Parallelism: 2,
			OutputDir:   t.TempDir(),
		}

		result, err := Run(context.Background(), exp)

		require.NoError(t, err)
		require.Len(t, result.Games, 6)
		for i, g := range result.Games {
			require.Equal(t, i+1, g.ID)
			require.Equal(t, configs[i/3].ID, g.Agent)
			require.Equal(t, exp.Seed+uint64(g.ID), g.Seed)
		}
		require.NotEmpty(t, result.Moves)
		require.Equal(t, 1, result.Moves[0].Game)
		require.Len(t, result.Summaries, 2)
		require.Equal(t, 3, result.Summaries[0].Games)

		for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(result.Dir, file))
			require.NoError(t, err, file)
		}
	})

	t.Run("same seed, same games", func(t *testing.T) {
		exp := Experiment{
			Name:        "seeded",
			Layout:      testLayout(t),
			Agents:      []metrics.AgentConfig{{ID: 1, Strategy: string(searcher.StrategyExpectimax), Depth: 1, Evaluation: string(game.Better)}},
			Games:       2,
			Seed:        9,
			Parallelism: 2,
		}

		first, err := Run(context.Background(), exp)
		require.NoError(t, err)
		second, err := Run(context.Background(), exp)
		require.NoError(t, err)

		for i := range first.Games {
			require.Equal(t, first.Games[i].Score, second.Games[i].Score)
			require.Equal(t, first.Games[i].Turns, second.Games[i].Turns)
		}
		require.Empty(t, first.Dir)
	})

	t.Run("rejecting invalid agents before playing", func(t *testing.T) {
		exp := Experiment{
			Name:   "invalid",
			Layout: testLayout(t),
			Agents: []metrics.AgentConfig{{ID: 1, Strategy: string(searcher.StrategyMinimax), Depth: 2, Evaluation: "clairvoyant"}},
			Games:  1,
		}

		_, err := Run(context.Background(), exp)

		require.ErrorIs(t, err, searcher.ErrConfiguration)
	})

	t.Run("rejecting incomplete experiments", func(t *testing.T) {
		for _, exp := range []Experiment{
			{Name: "no layout", Agents: strategyConfigs, Games: 1},
			{Name: "no agents", Layout: testLayout(t), Games: 1},
			{Name: "no games", Layout: testLayout(t), Agents: strategyConfigs},
		} {
			_, err := Run(context.Background(), exp)

			require.ErrorIs(t, err, ErrInvalidExperiment, exp.Name)
		}
	})

	t.Run("stopping when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, Experiment{Name: "cancelled", Layout: testLayout(t), Agents: strategyConfigs, Games: 1})

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSummarize(t *testing.T) {
	configs := []metrics.AgentConfig{{ID: 1}, {ID: 2}, {ID: 3}}
	games := []metrics.GameRecord{
		{ID: 1, Agent: 1, GameMetric: metrics.GameMetric{Winner: engine.WinnerControlled, Score: 500, Turns: 10}},
		{ID: 2, Agent: 1, GameMetric: metrics.GameMetric{Winner: engine.WinnerAdversaries, Score: -300, Turns: 20}},
		{ID: 3, Agent: 2, GameMetric: metrics.GameMetric{Winner: engine.WinnerControlled, Score: 42, Turns: 7}},
	}

	summaries := Summarize(configs, games)

	require.Len(t, summaries, 3)

	require.Equal(t, 2, summaries[0].Games)
	require.Equal(t, 1, summaries[0].Wins)
	require.Equal(t, 0.5, summaries[0].WinRate)
	require.Equal(t, 100.0, summaries[0].MeanScore)
	require.InDelta(t, 565.685, summaries[0].StdScore, 1e-3)
	require.Equal(t, 15.0, summaries[0].MeanTurns)

	require.Equal(t, 1.0, summaries[1].WinRate)
	require.Zero(t, summaries[1].StdScore, "A single game has no spread")

	require.Zero(t, summaries[2].Games)
}

func TestLookupPreset(t *testing.T) {
	for _, name := range PresetNames() {
		configs, err := LookupPreset(name)
		require.NoError(t, err)
		require.NotEmpty(t, configs)
	}

	_, err := LookupPreset("tournament")
	require.ErrorIs(t, err, ErrInvalidExperiment)
}
