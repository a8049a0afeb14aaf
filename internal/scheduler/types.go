package scheduler

import (
	"errors"

	"github.com/HeXi037/cross-sport-tracker/internal/match"
)

// Stage types.
const (
	StageRoundRobin = "round_robin"
	StageSingleElim = "single_elim"
	StageAmericano  = "americano"
)

var (
	// ErrUnknownStage is returned when the stage id does not exist.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrUnsupportedStageType is returned for stage types without a
	// scheduling strategy.
	ErrUnsupportedStageType = errors.New("unsupported stage type")
	// ErrStageAlreadyScheduled is returned when the stage already has
	// matches; re-scheduling is rejected rather than merged.
	ErrStageAlreadyScheduled = errors.New("stage already scheduled")
	// ErrRosterSize is returned when the roster does not fit the stage
	// type's shape requirements.
	ErrRosterSize = errors.New("invalid roster size")
)

// Stage is one phase of a tournament.
type Stage struct {
	ID           string `json:"id"`
	TournamentID string `json:"tournamentId,omitempty"`
	Type         string `json:"type"`
}

// ScheduledMatch pairs a generated match with its participants.
type ScheduledMatch struct {
	Match        match.Match         `json:"match"`
	Participants []match.Participant `json:"participants"`
}

// StageStore provides access to tournament stages.
type StageStore interface {
	Create(st Stage) error
	Get(id string) (Stage, error)
}
