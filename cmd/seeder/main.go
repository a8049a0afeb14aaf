package main

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/HeXi037/cross-sport-tracker/internal/config"
	"github.com/HeXi037/cross-sport-tracker/internal/database"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

type seedRuleset struct {
	id      string
	sportID string
	config  scoring.Config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	for _, sport := range scoring.DefaultRegistry().Sports() {
		name := displayName(sport)
		if _, err := db.Exec("INSERT OR IGNORE INTO sports (id, name) VALUES (?, ?)", sport, name); err != nil {
			log.Fatalf("Failed to insert sport %s: %s", sport, err)
		}
	}
	log.Info("Ensured sports exist.")

	rulesets := []seedRuleset{
		{"table-tennis-default", scoring.SportTableTennis, scoring.Config{"pointsTo": 11, "winBy": 2, "bestOf": 5}},
		{"pickleball-default", scoring.SportPickleball, scoring.Config{"pointsTo": 11, "winBy": 2, "bestOf": 3}},
		{"badminton-default", scoring.SportBadminton, scoring.Config{"pointsTo": 21, "winBy": 2, "cap": 30, "bestOf": 3}},
		{"tennis-best-of-3", scoring.SportTennis, scoring.Config{"sets": 3, "gamesTo": 6, "tiebreakTo": 7}},
		{"padel-best-of-3", scoring.SportPadel, scoring.Config{"sets": 3, "gamesTo": 6, "tiebreakTo": 7}},
		{"disc-golf-18", scoring.SportDiscGolf, scoring.Config{"holes": 18}},
		{"bowling-standard", scoring.SportBowling, scoring.Config{}},
	}
	for _, r := range rulesets {
		blob, err := json.Marshal(r.config)
		if err != nil {
			log.Fatalf("Failed to marshal ruleset %s: %s", r.id, err)
		}
		_, err = db.Exec("INSERT OR IGNORE INTO rulesets (id, sport_id, config_json) VALUES (?, ?, ?)",
			r.id, r.sportID, string(blob))
		if err != nil {
			log.Fatalf("Failed to insert ruleset %s: %s", r.id, err)
		}
	}
	log.Info("Ensured default rulesets exist.", "count", len(rulesets))

	demoPlayers := []struct{ id, name string }{
		{"player-1", "Seeder Player A"},
		{"player-2", "Seeder Player B"},
		{"player-3", "Seeder Player C"},
		{"player-4", "Seeder Player D"},
		{"player-5", "Seeder Player E"},
		{"player-6", "Seeder Player F"},
		{"player-7", "Seeder Player G"},
		{"player-8", "Seeder Player H"},
	}
	for _, p := range demoPlayers {
		if _, err := db.Exec("INSERT OR IGNORE INTO players (id, name) VALUES (?, ?)", p.id, p.name); err != nil {
			log.Fatalf("Failed to insert player %s: %s", p.name, err)
		}
	}
	log.Info("Ensured demo players exist.", "count", len(demoPlayers))
}

// displayName turns a sport id like "table_tennis" into "Table Tennis".
func displayName(sportID string) string {
	words := strings.Split(sportID, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
