package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"multiagent/experiments"
	"multiagent/game"
	"multiagent/maze"
	"multiagent/searcher"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding the defaults, e.g.
// MULTIAGENT_DEPTH=3 or MULTIAGENT_MOVE_TIMEOUT=500ms
const EnvPrefix = "MULTIAGENT"

const (
	keyConfig      = "config"
	keyStrategy    = "strategy"
	keyDepth       = "depth"
	keyEvaluation  = "evaluation"
	keyLayout      = "layout"
	keyLayoutsFile = "layouts-file"
	keyGames       = "games"
	keyParallelism = "parallelism"
	keySeed        = "seed"
	keyMoveTimeout = "move-timeout"
	keyOutputDir   = "output-dir"
	keyLogLevel    = "log-level"
	keyExperiment  = "experiment"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Strategy    searcher.Strategy
	Depth       int
	Evaluation  game.EvaluationName // Empty for the strategy default
	Layout      string // Built-in layout, or one from LayoutsFile
	LayoutsFile string
	Games       int
	Parallelism int
	Seed        uint64
	MoveTimeout time.Duration
	OutputDir   string
	LogLevel    string
	Experiment  string // Preset to run instead of a single game, if set
}

// Load parses args. Flags given explicitly take precedence over environment
// variables, which take precedence over the config file and the defaults.
func Load(args []string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := flag.NewFlagSet("multiagent", flag.ContinueOnError)
	fs.String(keyConfig, "", "config file (yaml, json or toml) with the same keys as the flags")
	fs.String(keyStrategy, string(searcher.StrategyAlphaBeta), fmt.Sprintf("search strategy, one of %v", searcher.Strategies()))
	fs.Int(keyDepth, searcher.DefaultDepth, "plies to look ahead")
	fs.String(keyEvaluation, "", fmt.Sprintf("evaluation function, one of %v, empty for the strategy default", game.EvaluationNames()))
	fs.String(keyLayout, "smallClassic", fmt.Sprintf("maze layout, built-in ones are %v", maze.LayoutNames()))
	fs.String(keyLayoutsFile, "", "yaml file of extra named layouts")
	fs.Int(keyGames, experiments.NumGames, "games per agent in an experiment")
	fs.Int(keyParallelism, 4, "games played at once in an experiment")
	fs.Uint64(keySeed, 1, "seed of the adversaries and tie-breaks")
	fs.Duration(keyMoveTimeout, experiments.MoveTimeout, "time limit per move, 0 for none")
	fs.String(keyOutputDir, "results", "directory of the experiment csv files")
	fs.String(keyLogLevel, zerolog.LevelInfoValue, "log level")
	fs.String(keyExperiment, "", fmt.Sprintf("experiment to run instead of a single game, one of %v", experiments.PresetNames()))
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.VisitAll(func(f *flag.Flag) {
		v.SetDefault(f.Name, f.DefValue)
	})
	fs.Visit(func(f *flag.Flag) {
		v.Set(f.Name, f.Value.String())
	})

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	c := &Config{
		Strategy:    searcher.Strategy(v.GetString(keyStrategy)),
		Depth:       v.GetInt(keyDepth),
		Evaluation:  game.EvaluationName(v.GetString(keyEvaluation)),
		Layout:      v.GetString(keyLayout),
		LayoutsFile: v.GetString(keyLayoutsFile),
		Games:       v.GetInt(keyGames),
		Parallelism: v.GetInt(keyParallelism),
		Seed:        v.GetUint64(keySeed),
		MoveTimeout: v.GetDuration(keyMoveTimeout),
		OutputDir:   v.GetString(keyOutputDir),
		LogLevel:    v.GetString(keyLogLevel),
		Experiment:  v.GetString(keyExperiment),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the config before any game starts. Search options are
// checked by building the searcher they describe.
func (c *Config) Validate() error {
	if _, err := c.Searcher(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q: %w", ErrInvalidConfig, c.LogLevel, err)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be at least 1, got %d", ErrInvalidConfig, c.Games)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidConfig, c.Parallelism)
	}
	if c.MoveTimeout < 0 {
		return fmt.Errorf("%w: negative move timeout %v", ErrInvalidConfig, c.MoveTimeout)
	}
	if c.Experiment != "" {
		if _, err := experiments.LookupPreset(c.Experiment); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if _, err := c.LoadLayout(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Searcher builds the searcher of the controlled agent
func (c *Config) Searcher(options ...searcher.Option) (searcher.Searcher, error) {
	options = append([]searcher.Option{
		searcher.WithDepth(c.Depth),
		searcher.WithEvaluation(c.Evaluation),
		searcher.WithSeed(c.Seed),
	}, options...)
	return searcher.New(c.Strategy, options...)
}

// LoadLayout returns the layout named c.Layout, looking into LayoutsFile first
func (c *Config) LoadLayout() (*maze.Layout, error) {
	if c.LayoutsFile == "" {
		return maze.LookupLayout(c.Layout)
	}

	f, err := os.Open(c.LayoutsFile)
	if err != nil {
		return nil, fmt.Errorf("opening layouts: %w", err)
	}
	defer f.Close()

	layouts, err := maze.LoadLayouts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.LayoutsFile, err)
	}
	if l, ok := layouts[c.Layout]; ok {
		return l, nil
	}
	return maze.LookupLayout(c.Layout)
}
