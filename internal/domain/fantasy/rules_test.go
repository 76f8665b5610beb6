package fantasy

import (
	"errors"
	"testing"
	"time"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

func openTour() competition.Tour {
	return competition.Tour{
		ID:             1,
		EditingStartAt: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		EditingEndAt:   time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestCanPickPlayer_RejectsOutsideEditingWindow(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	err := rules.CanPickPlayer(openTour(), nil, player.Player{ID: 1, Role: player.RoleCarry, Cost: 100}, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrEditingClosed) {
		t.Fatalf("expected ErrEditingClosed, got %v", err)
	}
}

func TestCanPickPlayer_AllowsWithinBudget(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	roster := []player.Player{
		{ID: 1, Role: player.RoleCarry, Cost: 1500},
		{ID: 2, Role: player.RoleMid, Cost: 1200},
	}
	candidate := player.Player{ID: 3, Role: player.RoleSupport5, Cost: 700}

	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if err := rules.CanPickPlayer(openTour(), roster, candidate, now); err != nil {
		t.Fatalf("expected pick within budget to pass, got %v", err)
	}
}

func TestCanPickPlayer_RejectsOverBudget(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	roster := []player.Player{
		{ID: 1, Role: player.RoleCarry, Cost: 1500},
		{ID: 2, Role: player.RoleMid, Cost: 1300},
		{ID: 3, Role: player.RoleHard, Cost: 1100},
		{ID: 4, Role: player.RoleSupport4, Cost: 800},
	}
	candidate := player.Player{ID: 5, Role: player.RoleSupport5, Cost: 400}

	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if err := rules.CanPickPlayer(openTour(), roster, candidate, now); !errors.Is(err, ErrExceededBudget) {
		t.Fatalf("expected ErrExceededBudget, got %v", err)
	}
}

func TestCanPickPlayer_SameRoleSwapDoesNotDoubleCount(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	roster := []player.Player{
		{ID: 1, Role: player.RoleCarry, Cost: 1500},
		{ID: 2, Role: player.RoleMid, Cost: 1300},
		{ID: 3, Role: player.RoleHard, Cost: 1100},
		{ID: 4, Role: player.RoleSupport4, Cost: 600},
		{ID: 5, Role: player.RoleSupport5, Cost: 500},
	}
	// Full roster; replacing the carry with a pricier one still fits because
	// the incumbent carry's cost is released.
	candidate := player.Player{ID: 6, Role: player.RoleCarry, Cost: 1490}

	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if err := rules.CanPickPlayer(openTour(), roster, candidate, now); err != nil {
		t.Fatalf("expected same-role swap to pass, got %v", err)
	}
}
