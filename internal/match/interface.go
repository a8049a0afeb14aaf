package match

import (
	"errors"

	"github.com/HeXi037/cross-sport-tracker/internal/rating"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

var (
	// ErrMatchNotFound is returned for unknown or soft-deleted matches.
	ErrMatchNotFound = errors.New("match not found")
	// ErrInvalidRoster is returned when a match's participants violate
	// the two-sides invariant or reference unknown players.
	ErrInvalidRoster = errors.New("invalid roster")
)

// Store owns persistence of matches, participants and score events.
type Store interface {
	CreateMatch(m Match, participants []Participant) error
	CreateMatches(matches []Match, participants [][]Participant) error
	GetMatch(id string) (Match, error)
	GetParticipants(matchID string) ([]Participant, error)
	ListByStage(stageID string) ([]Match, error)
	ListAll() ([]Match, error)
	CountByStage(stageID string) (int, error)
	UpdateDetails(matchID string, summary scoring.Summary) error
	SoftDelete(matchID string) error

	AppendEvent(matchID string, eventType scoring.EventType, payload any) (StoredEvent, error)
	ListEvents(matchID string) ([]StoredEvent, error)

	CreatePlayer(p Player) error
	ListPlayers(ids []string) (map[string]bool, error)

	rating.AuditLog
}
