package scoring

// Side identifies one of the two sides of a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Valid reports whether the side is one of the two recognized sides.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// EventType discriminates score event payloads.
type EventType string

const (
	EventPoint  EventType = "POINT"
	EventRoll   EventType = "ROLL"
	EventHole   EventType = "HOLE"
	EventUndo   EventType = "UNDO"
	EventRating EventType = "RATING"
)

// Event is the decoded payload of a single score event. It is a tagged
// struct: Type selects which of the remaining fields are meaningful and
// each engine validates the shape it expects.
type Event struct {
	Type    EventType `json:"type"`
	Side    Side      `json:"side,omitempty"`
	Hole    int       `json:"hole,omitempty"`
	Strokes int       `json:"strokes,omitempty"`
	Pins    int       `json:"pins,omitempty"`
}

// Config is a ruleset configuration object. Each sport reads the keys
// it recognizes and ignores the rest; missing keys fall back to
// sport-specific defaults.
type Config map[string]any

// intOption reads an integer option, tolerating the numeric types JSON
// decoding produces.
func (c Config) intOption(key string, fallback int) int {
	v, ok := c[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

// intsOption reads a list-of-integers option.
func (c Config) intsOption(key string) []int {
	v, ok := c[key]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []int:
		out := make([]int, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]int, 0, len(list))
		for _, item := range list {
			switch n := item.(type) {
			case int:
				out = append(out, n)
			case int64:
				out = append(out, int(n))
			case float64:
				out = append(out, int(n))
			default:
				return nil
			}
		}
		return out
	default:
		return nil
	}
}

// Summary is the derived scoreboard for a match at some point in its
// event history. Only the fields applicable to the sport are set.
type Summary struct {
	Sport    string         `json:"sport"`
	Points   map[Side]int   `json:"points,omitempty"`
	Games    map[Side]int   `json:"games,omitempty"`
	Sets     map[Side]int   `json:"sets,omitempty"`
	Tiebreak bool           `json:"tiebreak,omitempty"`
	Total    map[Side]int   `json:"total,omitempty"`
	Holes    map[Side][]int `json:"holes,omitempty"`
	Pars     []int          `json:"pars,omitempty"`
	ToPar    map[Side]int   `json:"toPar,omitempty"`
	Decided  bool           `json:"decided,omitempty"`
	Winner   Side           `json:"winner,omitempty"`
}
