package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath        string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:   "tracker-cli",
	Short: "A CLI to score matches and run tournaments",
	Long: `A command-line interface for the cross-sport tracker: schedule
tournament stages, score matches event by event, and inspect standings
and leaderboards against a local database.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "tracker.db", "Path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "migrations", "Path to the migrations directory")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
