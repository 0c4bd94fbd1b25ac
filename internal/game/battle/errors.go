package battle

import "errors"

var (
	// ErrInsufficientFighters is returned by New when fewer than two living fighters are given.
	ErrInsufficientFighters = errors.New("battle needs at least two living fighters")
	// ErrInvalidAction is returned by RunAction for an action type the battle does not know.
	ErrInvalidAction = errors.New("invalid battle action")
	// ErrBattleResolved is returned by RunAction once a winner is set.
	ErrBattleResolved = errors.New("battle already resolved")
	// ErrActionTimeout is returned by the controller when no action arrived in time.
	ErrActionTimeout = errors.New("timed out waiting for battle action")
	// ErrTurnLimit is returned by the controller when a battle exceeds its turn budget.
	ErrTurnLimit = errors.New("battle exceeded turn limit")
)
