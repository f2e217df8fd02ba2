package maze

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"multiagent/game"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	wallCell       = '%'
	foodCell       = '.'
	capsuleCell    = 'o'
	controlledCell = 'P'
	adversaryCell  = 'G'
	emptyCell      = ' '
)

var ErrInvalidLayout = errors.New("invalid layout")

// Layout is the static part of a maze: its walls and the initial placement of
// food, capsules and agents. X grows to the east and Y to the south.
type Layout struct {
	Name        string
	Width       int
	Height      int
	walls       []bool // indexed by y*Width + x
	Food        []game.Position
	Capsules    []game.Position
	Controlled  game.Position
	Adversaries []game.Position
}

// ParseLayout reads an ASCII maze. Rows must all have the same width, there
// must be exactly one controlled agent and at least one food pellet.
func ParseLayout(name, text string) (*Layout, error) {
	rows := lo.Filter(strings.Split(text, "\n"), func(row string, _ int) bool {
		return strings.TrimSpace(row) != ""
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w %q: empty", ErrInvalidLayout, name)
	}

	l := &Layout{Name: name, Width: len(rows[0]), Height: len(rows)}
	l.walls = make([]bool, l.Width*l.Height)
	controlled := 0
	for y, row := range rows {
		if len(row) != l.Width {
			return nil, fmt.Errorf("%w %q: row %d has width %d, expected %d", ErrInvalidLayout, name, y, len(row), l.Width)
		}
		for x, cell := range row {
			p := game.Position{X: x, Y: y}
			switch cell {
			case wallCell:
				l.walls[l.index(p)] = true
			case foodCell:
				l.Food = append(l.Food, p)
			case capsuleCell:
				l.Capsules = append(l.Capsules, p)
			case controlledCell:
				l.Controlled = p
				controlled++
			case adversaryCell:
				l.Adversaries = append(l.Adversaries, p)
			case emptyCell:
			default:
				return nil, fmt.Errorf("%w %q: unknown cell %q at %d,%d", ErrInvalidLayout, name, cell, x, y)
			}
		}
	}

	if controlled != 1 {
		return nil, fmt.Errorf("%w %q: expected one controlled agent, found %d", ErrInvalidLayout, name, controlled)
	}
	if len(l.Food) == 0 {
		return nil, fmt.Errorf("%w %q: no food", ErrInvalidLayout, name)
	}
	return l, nil
}

// NumAgents counts the controlled agent and every adversary
func (l *Layout) NumAgents() int {
	return 1 + len(l.Adversaries)
}

func (l *Layout) IsWall(p game.Position) bool {
	if p.X < 0 || p.Y < 0 || p.X >= l.Width || p.Y >= l.Height {
		return true
	}
	return l.walls[l.index(p)]
}

func (l *Layout) index(p game.Position) int {
	return p.Y*l.Width + p.X
}

var builtins = map[string]string{
	"testClassic": `
%%%%%
% . %
%.G.%
% . %
%. .%
%   %
%  .%
%   %
%P .%
%%%%%`,
	"smallClassic": `
%%%%%%%%%%%%%%%%%%%%
%......%G  G%......%
%.%%...%%  %%...%%.%
%.%o.%........%.o%.%
%.%%.%.%%%%%%.%.%%.%
%........P.........%
%%%%%%%%%%%%%%%%%%%%`,
	"trappedClassic": `
%%%%%%%%
%   P G%
%G%%%%%%
%....  %
%%%%%%%%`,
	"openDuel": `
%%%%%%%%%%
%P   .  o%
%  .   . %
% .  G  .%
%o   .   %
%%%%%%%%%%`,
}

// LookupLayout returns a built-in layout by name
func LookupLayout(name string) (*Layout, error) {
	text, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown layout %q (known: %v)", ErrInvalidLayout, name, LayoutNames())
	}
	return ParseLayout(name, text)
}

// LayoutNames lists the built-in layouts in sorted order
func LayoutNames() []string {
	names := lo.Keys(builtins)
	sort.Strings(names)
	return names
}

// LoadLayouts reads a YAML mapping from layout names to ASCII mazes:
//
//	tiny: |
//	  %%%%
//	  %P.%
//	  %%%%
func LoadLayouts(r io.Reader) (map[string]*Layout, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding layouts: %w", err)
	}

	layouts := make(map[string]*Layout, len(raw))
	for name, text := range raw {
		l, err := ParseLayout(name, text)
		if err != nil {
			return nil, err
		}
		layouts[name] = l
	}
	return layouts, nil
}
