package main

import (
	"github.com/HeXi037/cross-sport-tracker/internal/config"
	"github.com/HeXi037/cross-sport-tracker/internal/database"
	"github.com/HeXi037/cross-sport-tracker/internal/match"
	"github.com/HeXi037/cross-sport-tracker/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker/internal/rating"
	"github.com/HeXi037/cross-sport-tracker/internal/ruleset"
	"github.com/HeXi037/cross-sport-tracker/internal/scheduler"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
	"github.com/HeXi037/cross-sport-tracker/internal/standings"
)

// app wires the tracker's components against one database connection.
type app struct {
	matches   *match.Service
	ratings   rating.Store
	stages    scheduler.StageStore
	scheduler *scheduler.Scheduler
	standings *standings.Aggregator
	teardown  func()
}

func openApp() (*app, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBName = dbPath
	}
	if migrationsDir != "" {
		cfg.MigrationsDir = migrationsDir
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		return nil, err
	}

	m := metrics.NewService()
	registry := scoring.DefaultRegistry()
	matchStore := match.NewStore(db)
	rulesetStore := ruleset.NewStore(db)
	ratingStore := rating.NewStore(db)
	agg := standings.New(db, m)
	ratingEngine := rating.New(ratingStore, matchStore, m)
	matchService := match.NewService(matchStore, rulesetStore, registry, ratingEngine, agg, m)
	stageStore := scheduler.NewStageStore(db)
	sched := scheduler.New(stageStore, matchStore, rulesetStore, registry, agg, m)

	return &app{
		matches:   matchService,
		ratings:   ratingStore,
		stages:    stageStore,
		scheduler: sched,
		standings: agg,
		teardown:  teardown,
	}, nil
}
