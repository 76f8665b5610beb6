package player

import "strings"

// Role is the fine-grained in-game role assigned to a player.
type Role string

const (
	RoleCarry    Role = "CARRY"
	RoleMid      Role = "MID"
	RoleHard     Role = "HARD"
	RoleSupport4 Role = "SUPPORT_4"
	RoleSupport5 Role = "SUPPORT_5"
)

// RoleClass reduces the role set to the two coefficient buckets used by the
// scoring formula.
type RoleClass string

const (
	ClassCore    RoleClass = "CORE"
	ClassSupport RoleClass = "SUPPORT"
)

func NormalizeRole(value string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(value)))
}

func (r Role) Valid() bool {
	switch r {
	case RoleCarry, RoleMid, RoleHard, RoleSupport4, RoleSupport5:
		return true
	default:
		return false
	}
}

// Class maps carry/mid/hard to CORE; everything else is SUPPORT.
func (r Role) Class() RoleClass {
	switch r {
	case RoleCarry, RoleMid, RoleHard:
		return ClassCore
	default:
		return ClassSupport
	}
}

// Player is reference data for one professional player. Cost is fixed-point
// with two decimals (12.50 stored as 1250) and feeds the roster budget rule.
type Player struct {
	ID         int64
	ExternalID int64
	Nickname   string
	Role       Role
	TeamID     *int64
	Cost       int64
}

// MatchResult is one row of the durable scoring ledger: a player's final
// fantasy total for one match. Unique per (PlayerID, MatchID).
type MatchResult struct {
	PlayerID int64
	MatchID  int64
	Result   float64
}
