package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HeXi037/cross-sport-tracker/internal/match"
	"github.com/HeXi037/cross-sport-tracker/internal/scheduler"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

var (
	schedulePlayers string
	scheduleRuleset string
	scheduleType    string

	recordSideA    string
	recordSideB    string
	recordSets     string
	recordFriendly bool
	recordLocation string

	appendType    string
	appendSide    string
	appendHole    int
	appendStrokes int
	appendPins    int

	archiveFile string
)

func init() {
	scheduleCmd.Flags().StringVar(&schedulePlayers, "players", "", "Comma-separated player ids")
	scheduleCmd.Flags().StringVar(&scheduleRuleset, "ruleset", "", "Explicit ruleset id (defaults to the sport's first ruleset)")
	scheduleCmd.Flags().StringVar(&scheduleType, "type", scheduler.StageAmericano, "Stage type to create when the stage does not exist yet")

	recordCmd.Flags().StringVar(&recordSideA, "side-a", "", "Comma-separated player ids for side A")
	recordCmd.Flags().StringVar(&recordSideB, "side-b", "", "Comma-separated player ids for side B")
	recordCmd.Flags().StringVar(&recordSets, "sets", "", "Final set scores, e.g. 6-4,6-2")
	recordCmd.Flags().BoolVar(&recordFriendly, "friendly", false, "Exclude the match from ranked leaderboards")
	recordCmd.Flags().StringVar(&recordLocation, "location", "", "Free-form location")

	appendCmd.Flags().StringVar(&appendType, "type", string(scoring.EventPoint), "Event type: POINT, ROLL, HOLE or UNDO")
	appendCmd.Flags().StringVar(&appendSide, "side", "", "Side the event belongs to: A or B")
	appendCmd.Flags().IntVar(&appendHole, "hole", 0, "Hole number for HOLE events")
	appendCmd.Flags().IntVar(&appendStrokes, "strokes", 0, "Stroke count for HOLE events")
	appendCmd.Flags().IntVar(&appendPins, "pins", 0, "Pin count for ROLL events")

	exportCmd.Flags().StringVar(&archiveFile, "out", "tracker-archive.msgpack", "Archive file to write")
	importCmd.Flags().StringVar(&archiveFile, "in", "tracker-archive.msgpack", "Archive file to read")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(appendCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(sportsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear <match-id>",
	Short: "Soft-delete a match and rebuild its stage standings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		if err := a.matches.DeleteMatch(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted match %s\n", args[0])
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <stage-id> <sport>",
	Short: "Generate a stage's matches from a roster",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		stageID, sport := args[0], args[1]
		if _, err := a.stages.Get(stageID); err != nil {
			if err := a.stages.Create(scheduler.Stage{ID: stageID, Type: scheduleType}); err != nil {
				return err
			}
		}

		scheduled, err := a.scheduler.ScheduleStage(stageID, sport, splitIDs(schedulePlayers), scheduleRuleset)
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled %d matches for stage %s\n", len(scheduled), stageID)
		for _, sm := range scheduled {
			fmt.Printf("  %s: %v vs %v\n", sm.Match.ID,
				sm.Participants[0].PlayerIDs, sm.Participants[1].PlayerIDs)
		}
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <sport>",
	Short: "Record a finished match from final set scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		sets, err := parseSets(recordSets)
		if err != nil {
			return err
		}
		m, sum, err := a.matches.RecordMatch(match.CreateMatchInput{
			SportID:    args[0],
			SideA:      splitIDs(recordSideA),
			SideB:      splitIDs(recordSideB),
			IsFriendly: recordFriendly,
			Location:   recordLocation,
		}, sets)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded match %s\n", m.ID)
		return printJSON(sum)
	},
}

var appendCmd = &cobra.Command{
	Use:   "append <match-id>",
	Short: "Append one score event and print the new summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		sum, err := a.matches.AppendEvent(args[0], scoring.Event{
			Type:    scoring.EventType(strings.ToUpper(appendType)),
			Side:    scoring.Side(strings.ToUpper(appendSide)),
			Hole:    appendHole,
			Strokes: appendStrokes,
			Pins:    appendPins,
		})
		if err != nil {
			return err
		}
		return printJSON(sum)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <match-id>",
	Short: "Recompute and print a match summary from its event log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		sum, err := a.matches.GetSummary(args[0])
		if err != nil {
			return err
		}
		return printJSON(sum)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings <stage-id>",
	Short: "Rebuild and print the standings table for a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		rows, err := a.standings.Recompute(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %3s %3s %3s %3s %5s %5s %4s\n",
			"PLAYER", "P", "W", "L", "D", "+/-", "SETS", "PTS")
		for _, r := range rows {
			fmt.Printf("%-12s %3d %3d %3d %3d %5d %2d-%-2d %4d\n",
				r.PlayerID, r.MatchesPlayed, r.Wins, r.Losses, r.Draws,
				r.PointsDiff, r.SetsWon, r.SetsLost, r.Points)
		}
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <sport>",
	Short: "Print the ranked leaderboard for a sport",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		entries, err := a.ratings.Leaderboard(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%-4s %-20s %8s %8s %6s\n", "#", "PLAYER", "ELO", "GLICKO", "RD")
		for i, e := range entries {
			fmt.Printf("%-4d %-20s %8.1f %8.1f %6.1f\n",
				i+1, e.PlayerName, e.EloRating, e.GlickoRating, e.GlickoRD)
		}
		return nil
	},
}

var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "List the sports with a registered scoring engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, sport := range scoring.DefaultRegistry().Sports() {
			fmt.Println(sport)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all matches with their event logs to an archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		data, err := a.matches.Export()
		if err != nil {
			return err
		}
		if err := os.WriteFile(archiveFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(data), archiveFile)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import matches from an archive, skipping existing ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.teardown()

		data, err := os.ReadFile(archiveFile)
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}
		imported, err := a.matches.Import(data)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d matches from %s\n", imported, archiveFile)
		return nil
	},
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseSets(s string) ([][2]int, error) {
	if s == "" {
		return nil, fmt.Errorf("no set scores given, use --sets 6-4,6-2")
	}
	var out [][2]int
	for _, part := range strings.Split(s, ",") {
		scores := strings.Split(strings.TrimSpace(part), "-")
		if len(scores) != 2 {
			return nil, fmt.Errorf("malformed set score %q", part)
		}
		a, err := strconv.Atoi(scores[0])
		if err != nil {
			return nil, fmt.Errorf("malformed set score %q: %w", part, err)
		}
		b, err := strconv.Atoi(scores[1])
		if err != nil {
			return nil, fmt.Errorf("malformed set score %q: %w", part, err)
		}
		out = append(out, [2]int{a, b})
	}
	return out, nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
