package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"multiagent/game"
	"multiagent/searcher"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := Load(nil)

		require.NoError(t, err)
		require.Equal(t, searcher.StrategyAlphaBeta, c.Strategy)
		require.Equal(t, 2, c.Depth)
		require.Empty(t, c.Evaluation, "Each strategy picks its own evaluation")
		require.Equal(t, "smallClassic", c.Layout)
		require.Equal(t, uint64(1), c.Seed)
		require.Equal(t, time.Second, c.MoveTimeout)
		require.Empty(t, c.Experiment)
	})

	t.Run("flags", func(t *testing.T) {
		c, err := Load([]string{"-strategy", "expectimax", "-depth", "3", "-evaluation", "better", "-move-timeout", "250ms", "-seed", "7"})

		require.NoError(t, err)
		require.Equal(t, searcher.StrategyExpectimax, c.Strategy)
		require.Equal(t, 3, c.Depth)
		require.Equal(t, game.Better, c.Evaluation)
		require.Equal(t, 250*time.Millisecond, c.MoveTimeout)
		require.Equal(t, uint64(7), c.Seed)
	})

	t.Run("environment overrides defaults but not flags", func(t *testing.T) {
		t.Setenv("MULTIAGENT_DEPTH", "4")
		t.Setenv("MULTIAGENT_STRATEGY", "minimax")

		c, err := Load([]string{"-strategy", "reflex"})

		require.NoError(t, err)
		require.Equal(t, 4, c.Depth)
		require.Equal(t, searcher.StrategyReflex, c.Strategy)
	})

	t.Run("config file", func(t *testing.T) {
		path := writeFile(t, "multiagent.yaml", "depth: 5\nevaluation: better\nlayout: openDuel\n")

		c, err := Load([]string{"-config", path, "-depth", "1"})

		require.NoError(t, err)
		require.Equal(t, 1, c.Depth, "Flags should win over the file")
		require.Equal(t, game.Better, c.Evaluation)
		require.Equal(t, "openDuel", c.Layout)
	})

	t.Run("layouts file", func(t *testing.T) {
		path := writeFile(t, "layouts.yaml", "tiny: |\n  %%%%\n  %P.%\n  %G %\n  %%%%\n")

		c, err := Load([]string{"-layouts-file", path, "-layout", "tiny"})
		require.NoError(t, err)
		l, err := c.LoadLayout()

		require.NoError(t, err)
		require.Equal(t, "tiny", l.Name)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})

		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		want error
	}{
		{name: "depth zero", args: []string{"-depth", "0"}, want: searcher.ErrConfiguration},
		{name: "unknown evaluation", args: []string{"-evaluation", "clairvoyant"}, want: searcher.ErrConfiguration},
		{name: "move evaluation for a tree strategy", args: []string{"-strategy", "minimax", "-evaluation", "reflex"}, want: searcher.ErrConfiguration},
		{name: "unknown strategy", args: []string{"-strategy", "negamax"}, want: searcher.ErrConfiguration},
		{name: "unknown layout", args: []string{"-layout", "mediumClassic"}, want: ErrInvalidConfig},
		{name: "unknown experiment", args: []string{"-experiment", "tournament"}, want: ErrInvalidConfig},
		{name: "no games", args: []string{"-games", "0"}, want: ErrInvalidConfig},
		{name: "no parallelism", args: []string{"-parallelism", "0"}, want: ErrInvalidConfig},
		{name: "bad log level", args: []string{"-log-level", "loud"}, want: ErrInvalidConfig},
		{name: "negative timeout", args: []string{"-move-timeout", "-1s"}, want: ErrInvalidConfig},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args)

			require.ErrorIs(t, err, tc.want)
		})
	}
}
