package rating

import "math"

// ExpectedScore returns the logistic Elo win probability for a player
// against an opponent rating, base 400.
func ExpectedScore(rating, opponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponent-rating)/400))
}

// KFactor returns the K-factor for a player with the given number of
// recorded matches in the sport; experienced players get half the
// default.
func KFactor(matchesPlayed int) float64 {
	if matchesPlayed > ExperiencedMatches {
		return DefaultK / 2
	}
	return DefaultK
}

// EloDelta computes the rating change for one player against the
// opposing side's average rating. actual is 1 for a win, 0 for a loss
// and 0.5 for a draw.
func EloDelta(rating, opponentAvg, actual, k float64) float64 {
	return k * (actual - ExpectedScore(rating, opponentAvg))
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
