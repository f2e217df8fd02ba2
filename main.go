package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"multiagent/config"
	"multiagent/engine"
	"multiagent/experiments"
	"multiagent/maze"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Experiment != "" {
		err = runExperiment(ctx, cfg)
	} else {
		err = runGame(ctx, cfg)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func runExperiment(ctx context.Context, cfg *config.Config) error {
	agents, err := experiments.LookupPreset(cfg.Experiment)
	if err != nil {
		return err
	}
	layout, err := cfg.LoadLayout()
	if err != nil {
		return err
	}

	result, err := experiments.Run(ctx, experiments.Experiment{
		Name:        cfg.Experiment,
		Layout:      layout,
		Agents:      agents,
		Games:       cfg.Games,
		Seed:        cfg.Seed,
		Parallelism: cfg.Parallelism,
		MoveTimeout: cfg.MoveTimeout,
		OutputDir:   cfg.OutputDir,
	})
	if err != nil {
		return err
	}
	log.Info().Msgf("results written to %s", result.Dir)
	return nil
}

// runGame plays one game of the configured searcher against random adversaries
func runGame(ctx context.Context, cfg *config.Config) error {
	layout, err := cfg.LoadLayout()
	if err != nil {
		return err
	}
	s, err := cfg.Searcher()
	if err != nil {
		return err
	}

	agents := []engine.Agent{&engine.SearchAgent{Searcher: s}}
	for k := range layout.Adversaries {
		agents = append(agents, engine.NewRandomAgent(cfg.Seed+uint64(k)+1))
	}
	state := maze.NewState(layout)
	e := engine.LocalEngine(state, agents, cfg.MoveTimeout)

	log.Info().Msgf("%s depth %d (%s) on %s\n%s", cfg.Strategy, cfg.Depth, cfg.Evaluation, layout.Name, state)

	gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}

	winner := gameMetric.Winner
	if winner == "" {
		winner = "nobody"
	}
	log.Info().Msgf("final state:\n%s", e.State)
	log.Info().Msgf("winner: %s, score %.0f after %d turns in %v", winner, gameMetric.Score, gameMetric.Turns, gameMetric.Duration)
	return nil
}
