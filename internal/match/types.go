package match

import (
	"encoding/json"
	"time"

	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

// Match is one contest. Details holds the last-computed Summary and is
// always derivable from the event log, so it is a cache, never an input.
type Match struct {
	ID         string           `json:"id"`
	SportID    string           `json:"sportId"`
	StageID    string           `json:"stageId,omitempty"`
	RulesetID  string           `json:"rulesetId,omitempty"`
	BestOf     int              `json:"bestOf,omitempty"`
	PlayedAt   *time.Time       `json:"playedAt,omitempty"`
	Location   string           `json:"location,omitempty"`
	IsFriendly bool             `json:"isFriendly"`
	Details    *scoring.Summary `json:"details,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	DeletedAt  *time.Time       `json:"deletedAt,omitempty"`
}

// Participant is one side of a match with its ordered player ids.
type Participant struct {
	ID        string       `json:"id"`
	MatchID   string       `json:"matchId"`
	Side      scoring.Side `json:"side"`
	PlayerIDs []string     `json:"playerIds"`
}

// StoredEvent is one row of a match's append-only event log. Payload
// decodes to a scoring.Event for scoring types and to a rating audit
// record for RATING events.
type StoredEvent struct {
	ID        int64             `json:"id"`
	MatchID   string            `json:"matchId"`
	Type      scoring.EventType `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ScoringEvent decodes the payload into a scoring event. Callers must
// not use this for RATING events.
func (e StoredEvent) ScoringEvent() (scoring.Event, error) {
	var ev scoring.Event
	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return scoring.Event{}, err
		}
	}
	ev.Type = e.Type
	return ev, nil
}

// Player is a roster entry. Matches reference players by id only.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
