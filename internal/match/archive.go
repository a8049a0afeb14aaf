package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const archiveVersion = 1

// ErrArchiveVersion is returned when an archive was written by an
// incompatible format version.
var ErrArchiveVersion = errors.New("unsupported archive version")

// ArchivedMatch is one match with everything needed to restore it:
// participants and the full event log.
type ArchivedMatch struct {
	Match        Match         `msgpack:"match"`
	Participants []Participant `msgpack:"participants"`
	Events       []StoredEvent `msgpack:"events"`
}

// Archive is a msgpack snapshot of every non-deleted match.
type Archive struct {
	Version    int             `msgpack:"version"`
	ExportedAt time.Time       `msgpack:"exportedAt"`
	Matches    []ArchivedMatch `msgpack:"matches"`
}

// Export serializes all non-deleted matches with their participants
// and event logs.
func (s *Service) Export() ([]byte, error) {
	matches, err := s.store.ListAll()
	if err != nil {
		return nil, err
	}

	archive := Archive{Version: archiveVersion, ExportedAt: time.Now()}
	for _, m := range matches {
		parts, err := s.store.GetParticipants(m.ID)
		if err != nil {
			return nil, err
		}
		events, err := s.store.ListEvents(m.ID)
		if err != nil {
			return nil, err
		}
		archive.Matches = append(archive.Matches, ArchivedMatch{
			Match:        m,
			Participants: parts,
			Events:       events,
		})
	}

	data, err := msgpack.Marshal(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archive: %w", err)
	}
	log.Info("exported match archive", "matches", len(archive.Matches), "bytes", len(data))
	return data, nil
}

// Import restores matches from an archive, skipping matches that
// already exist. Event logs are replayed into fresh summaries rather
// than trusting the archived details. Returns the number of matches
// imported.
func (s *Service) Import(data []byte) (int, error) {
	var archive Archive
	if err := msgpack.Unmarshal(data, &archive); err != nil {
		return 0, fmt.Errorf("failed to unmarshal archive: %w", err)
	}
	if archive.Version != archiveVersion {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrArchiveVersion, archive.Version, archiveVersion)
	}

	imported := 0
	for _, am := range archive.Matches {
		if _, err := s.store.GetMatch(am.Match.ID); err == nil {
			continue
		} else if !errors.Is(err, ErrMatchNotFound) {
			return imported, err
		}

		if err := s.store.CreateMatch(am.Match, am.Participants); err != nil {
			return imported, err
		}
		for _, ev := range am.Events {
			if _, err := s.store.AppendEvent(am.Match.ID, ev.Type, json.RawMessage(ev.Payload)); err != nil {
				return imported, err
			}
		}
		summary, err := s.replay(am.Match, am.Events)
		if err != nil {
			return imported, err
		}
		if err := s.store.UpdateDetails(am.Match.ID, summary); err != nil {
			return imported, err
		}
		imported++
	}
	log.Info("imported match archive", "matches", imported, "skipped", len(archive.Matches)-imported)
	return imported, nil
}
