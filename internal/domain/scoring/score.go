package scoring

import (
	"math"

	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

// TotalKey is the reserved breakdown key carrying the final total. Stat names
// from the upstream payload are lowercase, so the key cannot collide.
const TotalKey = "TOTAL"

// Stun duration and healing are unbounded in raw form and would dominate the
// score, so their contribution is capped after per-entry rounding.
const cappedStatMax = 5.0

var cappedStats = map[string]struct{}{
	StatStuns:       {},
	StatHeroHealing: {},
}

const winBonusRate = 0.1

// Breakdown maps stat name to its point contribution, plus the final total
// under TotalKey. Keeping the per-stat lines is what makes scores auditable.
type Breakdown map[string]float64

func (b Breakdown) Total() float64 {
	return b[TotalKey]
}

// MatchResult is the derived per-match result payload: one breakdown per
// scored player, keyed by the upstream account id.
type MatchResult map[int64]Breakdown

// ScorePlayerMatch converts one player's raw match stats into a point
// breakdown. Pure: identical input always yields the identical breakdown.
// Missing stats count as zero; each entry is rounded to two decimals before
// summing; a winning player gets a 10% bonus on the absolute running total.
func ScorePlayerMatch(stats map[string]float64, class player.RoleClass, formula Formula, won bool) Breakdown {
	out := make(Breakdown, formula.Len()+2)

	total := 0.0
	for _, name := range formula.Stats() {
		entry, _ := formula.Entry(name)
		value := stats[name] * entry.coefficient(class)
		if entry.Sign == SignMinus {
			value = -value
		}
		value = Round2(value)
		if _, capped := cappedStats[name]; capped && value > cappedStatMax {
			value = cappedStatMax
		}
		out[name] = value
		total += value
	}
	total = Round2(total)

	if won {
		bonus := Round2(math.Abs(total) * winBonusRate)
		out[WinBonusKey] = bonus
		total = Round2(total + bonus)
	}

	out[TotalKey] = total
	return out
}

// WinBonusKey records the bonus line in the breakdown for auditability.
const WinBonusKey = "win_bonus"

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
