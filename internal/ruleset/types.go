package ruleset

import (
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

// Ruleset binds a scoring configuration to a sport. The config is an
// open set of options interpreted by the sport's engine; unknown keys
// are ignored there, so rulesets can carry forward-compatible extras.
type Ruleset struct {
	ID      string         `json:"id"`
	SportID string         `json:"sportId"`
	Config  scoring.Config `json:"config"`
}
