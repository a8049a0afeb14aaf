package rating

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWiden_InactivityGrowsDeviation(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("grows with the square root of elapsed days", func(t *testing.T) {
		g := GlickoRating{Rating: 1500, RD: 100, UpdatedAt: now.AddDate(0, 0, -9)}
		want := math.Sqrt(100*100 + widenPerSqrtDay*widenPerSqrtDay*9)
		assert.InDelta(t, want, widen(g, now), 1e-9)
		assert.Greater(t, widen(g, now), g.RD)
	})

	t.Run("longer gaps widen further", func(t *testing.T) {
		g := GlickoRating{Rating: 1500, RD: 100}
		g.UpdatedAt = now.AddDate(0, 0, -9)
		short := widen(g, now)
		g.UpdatedAt = now.AddDate(0, 0, -100)
		long := widen(g, now)
		assert.Greater(t, long, short)
	})

	t.Run("caps at the default deviation", func(t *testing.T) {
		g := GlickoRating{Rating: 1500, RD: 200, UpdatedAt: now.AddDate(-5, 0, 0)}
		assert.Equal(t, DefaultGlickoRD, widen(g, now))
	})

	t.Run("never-played rating is untouched", func(t *testing.T) {
		g := GlickoRating{Rating: 1500, RD: 75}
		assert.Equal(t, 75.0, widen(g, now))
	})

	t.Run("ahead-of-now timestamp is untouched", func(t *testing.T) {
		g := GlickoRating{Rating: 1500, RD: 75, UpdatedAt: now.Add(time.Hour)}
		assert.Equal(t, 75.0, widen(g, now))
	})
}

func TestGlickoUpdate_ShrinksWidenedDeviation(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := GlickoRating{Rating: 1500, RD: 100, UpdatedAt: now.AddDate(0, 0, -30)}

	updated := GlickoUpdate(g, 1500, 100, 1, now)
	assert.Less(t, updated.RD, widen(g, now), "a played match always tightens the pre-match deviation")
	assert.GreaterOrEqual(t, updated.RD, GlickoRDFloor)
	assert.Equal(t, now, updated.UpdatedAt)
}
