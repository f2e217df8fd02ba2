package maze

import (
	"strings"
	"testing"

	"multiagent/game"

	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	t.Run("reading every kind of cell", func(t *testing.T) {
		l, err := ParseLayout("tiny", `
%%%%%%
%P.oG%
%%%%%%
`)

		require.NoError(t, err)
		require.Equal(t, 6, l.Width)
		require.Equal(t, 3, l.Height)
		require.Equal(t, game.Position{X: 1, Y: 1}, l.Controlled)
		require.Equal(t, []game.Position{{X: 2, Y: 1}}, l.Food)
		require.Equal(t, []game.Position{{X: 3, Y: 1}}, l.Capsules)
		require.Equal(t, []game.Position{{X: 4, Y: 1}}, l.Adversaries)
		require.Equal(t, 2, l.NumAgents())
		require.True(t, l.IsWall(game.Position{X: 0, Y: 0}))
		require.False(t, l.IsWall(game.Position{X: 2, Y: 1}))
		require.True(t, l.IsWall(game.Position{X: -1, Y: 1}), "Outside the maze counts as a wall")
	})

	for _, tc := range []struct {
		name string
		text string
	}{
		{name: "empty", text: "\n\n"},
		{name: "ragged rows", text: "%%%%\n%P.%\n%%%"},
		{name: "no controlled agent", text: "%%%%\n%..%\n%%%%"},
		{name: "two controlled agents", text: "%%%%%\n%PP.%\n%%%%%"},
		{name: "no food", text: "%%%%\n%PG%\n%%%%"},
		{name: "unknown cell", text: "%%%%%\n%P.X%\n%%%%%"},
	} {
		t.Run("rejecting "+tc.name, func(t *testing.T) {
			_, err := ParseLayout(tc.name, tc.text)

			require.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestBuiltinLayouts(t *testing.T) {
	t.Run("all built-in layouts parse", func(t *testing.T) {
		for _, name := range LayoutNames() {
			l, err := LookupLayout(name)

			require.NoError(t, err, name)
			require.Equal(t, name, l.Name)
		}
	})

	t.Run("unknown layout", func(t *testing.T) {
		_, err := LookupLayout("mediumClassic")

		require.ErrorIs(t, err, ErrInvalidLayout)
	})
}

func TestLoadLayouts(t *testing.T) {
	t.Run("named layouts", func(t *testing.T) {
		layouts, err := LoadLayouts(strings.NewReader(`
corridor: |
  %%%%%%%
  %P...G%
  %%%%%%%
box: |
  %%%%
  %P.%
  %G %
  %%%%
`))

		require.NoError(t, err)
		require.Len(t, layouts, 2)
		require.Len(t, layouts["corridor"].Food, 3)
		require.Equal(t, 4, layouts["box"].Height)
	})

	t.Run("invalid layout in the file", func(t *testing.T) {
		_, err := LoadLayouts(strings.NewReader("broken: \"%%%\\n%P%\\n%%%\"\n"))

		require.ErrorIs(t, err, ErrInvalidLayout)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadLayouts(strings.NewReader("- just\n- a list\n"))

		require.Error(t, err)
	})
}
