package ruleset

import "errors"

var (
	// ErrUnknownRuleset is returned when a ruleset id does not exist.
	ErrUnknownRuleset = errors.New("unknown ruleset")
	// ErrRulesetMismatch is returned when an explicit ruleset belongs
	// to a different sport than the one being scheduled or scored.
	ErrRulesetMismatch = errors.New("ruleset does not belong to sport")
	// ErrNoRulesetConfigured is returned when a sport has no rulesets
	// at all and none was supplied explicitly.
	ErrNoRulesetConfigured = errors.New("no ruleset configured for sport")
)

// Store provides access to ruleset configurations.
type Store interface {
	Create(r Ruleset) error
	Get(id string) (Ruleset, error)
	ListBySport(sportID string) ([]Ruleset, error)
	// Resolve picks the ruleset for a sport. An explicit id must name a
	// ruleset of that sport; with no id, the lexicographically-first
	// ruleset for the sport is used.
	Resolve(sportID, rulesetID string) (Ruleset, error)
}
