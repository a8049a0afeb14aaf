package rating

import (
	"math"
	"time"
)

const glickoQ = math.Ln10 / 400

// Deviation widening with inactivity: rd grows with the square root of
// elapsed days, capped at the default deviation.
const widenPerSqrtDay = 8.0

func gFactor(rd float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*glickoQ*glickoQ*rd*rd/(math.Pi*math.Pi))
}

func glickoExpected(rating, oppRating, oppRD float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, -gFactor(oppRD)*(rating-oppRating)/400))
}

// widen returns the pre-match deviation after inactivity decay. A zero
// UpdatedAt (never played) leaves the stored deviation untouched.
func widen(g GlickoRating, now time.Time) float64 {
	if g.UpdatedAt.IsZero() || !now.After(g.UpdatedAt) {
		return g.RD
	}
	days := now.Sub(g.UpdatedAt).Hours() / 24
	rd := math.Sqrt(g.RD*g.RD + widenPerSqrtDay*widenPerSqrtDay*days)
	return math.Min(rd, DefaultGlickoRD)
}

// GlickoUpdate applies one match result against the opposing side's
// average rating and deviation. actual is 1/0/0.5 as for Elo. The
// returned deviation always shrinks relative to the pre-match value and
// never falls below the configured floor.
func GlickoUpdate(g GlickoRating, oppRating, oppRD, actual float64, now time.Time) GlickoRating {
	rd := widen(g, now)

	gOpp := gFactor(oppRD)
	expected := glickoExpected(g.Rating, oppRating, oppRD)
	dSquared := 1.0 / (glickoQ * glickoQ * gOpp * gOpp * expected * (1 - expected))
	denom := 1.0/(rd*rd) + 1.0/dSquared

	g.Rating += glickoQ / denom * gOpp * (actual - expected)
	g.RD = math.Max(math.Sqrt(1.0/denom), GlickoRDFloor)
	g.UpdatedAt = now
	return g
}
