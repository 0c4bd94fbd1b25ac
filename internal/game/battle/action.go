package battle

import (
	"fmt"
	"strings"
)

// Action identifies what a fighter does on its turn.
// The zero value (ActionUnknown) is intentionally invalid.
type Action int

const (
	ActionUnknown Action = iota
	ActionAttack
)

// Actions lists every action a fighter may choose, in menu order.
var Actions = []Action{ActionAttack}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// String returns the machine name of the action.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Label returns the player-facing button label.
func (a Action) Label() string {
	switch a {
	case ActionAttack:
		return "Attack"
	default:
		return "?"
	}
}

// Emoji returns the emoji shown on the action button.
func (a Action) Emoji() string {
	switch a {
	case ActionAttack:
		return "👊"
	default:
		return "❔"
	}
}

// ParseAction converts a machine name, case-insensitively, into an Action.
//
// Postcondition: Returns ErrInvalidAction (wrapped) iff name matches no action.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions {
		if strings.EqualFold(a.String(), name) {
			return a, nil
		}
	}
	return ActionUnknown, fmt.Errorf("%w: %q", ErrInvalidAction, name)
}
