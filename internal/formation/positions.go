// Package formation maps formation position keys to on-field roles.
package formation

import "strings"

// Role is the coarse on-field role a position belongs to.
type Role string

const (
	RoleGoalie     Role = "goalie"
	RoleDefender   Role = "defender"
	RoleMidfielder Role = "midfielder"
	RoleAttacker   Role = "attacker"
)

// positionRoles covers the position keys the formation editor can produce.
// Bench slots ("substitute_1", ...) are deliberately absent: a player parked
// there is not on the field.
var positionRoles = map[string]Role{
	"goalie":           RoleGoalie,
	"goalkeeper":       RoleGoalie,
	"leftDefender":     RoleDefender,
	"rightDefender":    RoleDefender,
	"centerDefender":   RoleDefender,
	"sweeper":          RoleDefender,
	"leftMidfielder":   RoleMidfielder,
	"rightMidfielder":  RoleMidfielder,
	"centerMidfielder": RoleMidfielder,
	"leftAttacker":     RoleAttacker,
	"rightAttacker":    RoleAttacker,
	"centerAttacker":   RoleAttacker,
	"striker":          RoleAttacker,
}

// RoleForPosition resolves a formation position key to its role. The second
// return is false for bench slots and unrecognized keys.
func RoleForPosition(position string) (Role, bool) {
	role, ok := positionRoles[position]
	return role, ok
}

// RoleFromLabel parses a role label carried in an event payload (e.g.
// SUBSTITUTION.newRoles values). Labels are matched case-insensitively.
func RoleFromLabel(label string) (Role, bool) {
	switch strings.ToLower(label) {
	case "goalie", "goalkeeper":
		return RoleGoalie, true
	case "defender":
		return RoleDefender, true
	case "midfielder":
		return RoleMidfielder, true
	case "attacker", "forward", "striker":
		return RoleAttacker, true
	}
	return "", false
}

// IsBenchPosition reports whether the position key is a bench slot.
func IsBenchPosition(position string) bool {
	return strings.HasPrefix(position, "substitute_") || position == "substitute"
}
