package scoring

// SeriesContribution resolves a player's per-series contribution from their
// per-match results within that series.
//
// Short series must not under-reward a sweep relative to a full-length one,
// so two specific format/count combinations are normalized to a per-game
// average scaled to a fixed series weight:
//
//	bo3 with exactly 3 games played: (sum/3) * 2
//	bo5 with 3 or fewer games played: (sum/n) * 3
//
// Every other combination uses the raw sum. The thresholds are intentional
// and exact; they are not generalized to arbitrary match counts.
func SeriesContribution(bestOf int, results []float64) float64 {
	if len(results) == 0 {
		return 0
	}

	sum := 0.0
	for _, value := range results {
		sum += value
	}
	played := len(results)

	switch {
	case bestOf == 3 && played == 3:
		return Round2(sum / 3 * 2)
	case bestOf == 5 && played <= 3:
		return Round2(sum / float64(played) * 3)
	default:
		return Round2(sum)
	}
}
