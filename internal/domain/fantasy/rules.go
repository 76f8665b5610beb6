package fantasy

import (
	"errors"
	"time"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

var (
	ErrEditingClosed  = errors.New("tour editing window is closed")
	ErrExceededBudget = errors.New("pick exceeds roster budget")
)

// Rules holds the roster-editing constraints. BudgetCap is fixed-point with
// two decimals, matching player.Player.Cost.
type Rules struct {
	BudgetCap int64
}

func DefaultRules() Rules {
	return Rules{BudgetCap: 5000} // 50.00
}

// CanPickPlayer checks whether candidate may replace the same-role portion of
// the current roster. The allowance is the free budget plus the cost already
// spent on players sharing the candidate's role, so swapping within a role
// never penalizes a full roster.
func (r Rules) CanPickPlayer(tour competition.Tour, roster []player.Player, candidate player.Player, now time.Time) error {
	if !tour.IsEditingAllowed(now) {
		return ErrEditingClosed
	}

	var rosterCost, sameRoleCost int64
	for _, item := range roster {
		rosterCost += item.Cost
		if item.Role == candidate.Role {
			sameRoleCost += item.Cost
		}
	}

	allowable := r.BudgetCap - rosterCost + sameRoleCost
	if candidate.Cost > allowable {
		return ErrExceededBudget
	}
	return nil
}
