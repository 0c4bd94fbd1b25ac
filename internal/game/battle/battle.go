// Package battle implements the turn-based combat state machine, the
// controller that drives it against action providers, and the anomaly AI.
package battle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
)

const noWinner = -1

// Battle is the turn-based combat state machine.
//
// A Battle is Active until exactly one fighter has health left, then
// Resolved. It owns its fighters; accessors return copies and RunAction is
// the only mutation.
//
// Invariant: fighters[i].TargetIndex == (i+1) % len(fighters).
// Invariant: winner is set at most once.
//
// A Battle is not safe for concurrent use.
type Battle struct {
	id       uuid.UUID
	fighters []Fighter
	current  int
	winner   int
	rounds   []Round
}

// New creates a battle between fighters in the given turn order and assigns
// ring targeting: fighter i targets fighter (i+1) mod n. The fighters are
// copied.
//
// Postcondition: Returns ErrInsufficientFighters iff fewer than two fighters
// are given or fewer than two of them are alive.
func New(fighters []Fighter) (*Battle, error) {
	n := len(fighters)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientFighters, n)
	}
	alive := 0
	for _, f := range fighters {
		if f.Alive() {
			alive++
		}
	}
	if alive < 2 {
		return nil, fmt.Errorf("%w: %d of %d alive", ErrInsufficientFighters, alive, n)
	}

	b := &Battle{
		id:       uuid.New(),
		fighters: make([]Fighter, n),
		winner:   noWinner,
	}
	copy(b.fighters, fighters)
	for i := range b.fighters {
		b.fighters[i].TargetIndex = (i + 1) % n
	}
	if !b.fighters[0].Alive() {
		b.current = b.nextLiving(0)
	}
	return b, nil
}

// ID returns the battle's unique identifier.
func (b *Battle) ID() uuid.UUID { return b.id }

// Len returns the number of fighters.
func (b *Battle) Len() int { return len(b.fighters) }

// Resolved reports whether a winner has been set.
func (b *Battle) Resolved() bool { return b.winner != noWinner }

// Fighters returns a copy of every fighter in turn order.
func (b *Battle) Fighters() []Fighter {
	return append([]Fighter(nil), b.fighters...)
}

// Fighter returns a copy of fighter i.
func (b *Battle) Fighter(i int) (Fighter, bool) {
	if i < 0 || i >= len(b.fighters) {
		return Fighter{}, false
	}
	return b.fighters[i], true
}

// CurrentIndex returns the index of the fighter whose turn it is.
func (b *Battle) CurrentIndex() int { return b.current }

// Current returns a copy of the fighter whose turn it is.
func (b *Battle) Current() Fighter { return b.fighters[b.current] }

// TargetIndex returns the index the current fighter will hit.
func (b *Battle) TargetIndex() int { return b.resolveTarget(b.current) }

// Target returns a copy of the fighter the current fighter will hit.
func (b *Battle) Target() Fighter { return b.fighters[b.TargetIndex()] }

// Winner returns a copy of the winner once the battle is resolved.
func (b *Battle) Winner() (Fighter, bool) {
	if !b.Resolved() {
		return Fighter{}, false
	}
	return b.fighters[b.winner], true
}

// Rounds returns a copy of the round log, oldest first.
func (b *Battle) Rounds() []Round {
	out := make([]Round, len(b.rounds))
	for i, r := range b.rounds {
		out[i] = r.clone()
	}
	return out
}

// LastRound returns the most recent round.
func (b *Battle) LastRound() (Round, bool) {
	if len(b.rounds) == 0 {
		return Round{}, false
	}
	return b.rounds[len(b.rounds)-1].clone(), true
}

// RunAction resolves one action by the current fighter against its target.
//
// The dodge roll is drawn first, then the critical roll, independently. A
// dodge negates all damage. After the action the battle checks for a winner
// and passes the turn to the next fighter.
//
// Precondition: src must be non-nil.
// Postcondition: Returns ErrBattleResolved or ErrInvalidAction (wrapped)
// without changing any state; otherwise exactly one Round is appended and
// returned.
func (b *Battle) RunAction(action Action, src dice.Source) (Round, error) {
	if b.Resolved() {
		return Round{}, ErrBattleResolved
	}
	if !action.Valid() {
		return Round{}, fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
	}

	ai := b.current
	ti := b.resolveTarget(ai)
	attacker := b.fighters[ai]
	target := &b.fighters[ti]

	dodged := target.CalculateDodgeChance(attacker).Roll(src)
	critical := attacker.CalculateCriticalChance(*target).Roll(src)

	round := Round{
		Number:      len(b.rounds) + 1,
		Action:      action,
		ActorIndex:  ai,
		TargetIndex: ti,
		Actor:       attacker,
		Dodged:      dodged,
		Critical:    critical,
	}

	switch action {
	case ActionAttack:
		damage := 0
		if !dodged {
			damage = attacker.CalculateDamage(src, critical)
		}
		round.Damage = damage
		round.Effects = []Effect{{Kind: EffectDamage, Target: ti, Amount: damage}}
		msg := fmt.Sprintf("**%s** attacked **%s** with a simple strike, dealing **%d** damage.", attacker.Name, target.Name, damage)
		if critical {
			msg += "\n(**CRITICAL HIT!** 💥)"
		}
		round.Messages = append(round.Messages, msg)
		if dodged {
			round.Messages = append(round.Messages, fmt.Sprintf("🪶 **%s** dodged!", target.Name))
		} else {
			target.TakeDamage(damage)
		}
	}
	round.Target = *target

	b.rounds = append(b.rounds, round)
	b.checkWinner()
	b.advance()
	return round.clone(), nil
}

// Result returns the outcome of a resolved battle.
func (b *Battle) Result() (Result, bool) {
	winner, ok := b.Winner()
	if !ok {
		return Result{}, false
	}
	res := Result{
		Winner:      winner,
		AllFighters: b.Fighters(),
		Rounds:      b.Rounds(),
	}
	for _, f := range b.fighters {
		if f.Health.Value == 0 {
			res.Defeated = append(res.Defeated, f)
		}
	}
	return res, true
}

// Snapshot returns a read-only view of the battle for action providers and renderers.
func (b *Battle) Snapshot() Snapshot {
	return Snapshot{
		ID:       b.id,
		Fighters: b.Fighters(),
		Current:  b.current,
		Target:   b.resolveTarget(b.current),
		Round:    len(b.rounds) + 1,
		Resolved: b.Resolved(),
	}
}

// resolveTarget returns fighter i's ring target, or, when that target is
// dead, the first living fighter clockwise from i. With two fighters this is
// always the ring target.
func (b *Battle) resolveTarget(i int) int {
	t := b.fighters[i].TargetIndex
	if b.fighters[t].Alive() {
		return t
	}
	n := len(b.fighters)
	for k := 1; k < n; k++ {
		j := (i + k) % n
		if b.fighters[j].Alive() {
			return j
		}
	}
	return t
}

func (b *Battle) checkWinner() {
	last, alive := noWinner, 0
	for i, f := range b.fighters {
		if f.Alive() {
			last = i
			alive++
		}
	}
	if alive == 1 {
		b.winner = last
	}
}

// advance passes the turn to the next fighter. While the battle is active,
// dead fighters are skipped.
func (b *Battle) advance() {
	next := (b.current + 1) % len(b.fighters)
	if !b.Resolved() && !b.fighters[next].Alive() {
		next = b.nextLiving(b.current)
	}
	b.current = next
}

func (b *Battle) nextLiving(from int) int {
	n := len(b.fighters)
	for k := 1; k <= n; k++ {
		j := (from + k) % n
		if b.fighters[j].Alive() {
			return j
		}
	}
	return (from + 1) % n
}

// Snapshot is a copy of a battle's state at one point in time.
type Snapshot struct {
	ID       uuid.UUID
	Fighters []Fighter
	// Current is the index of the fighter to act; Target is who it will hit.
	Current  int
	Target   int
	Round    int
	Resolved bool
}

// Actor returns the fighter to act.
func (s Snapshot) Actor() Fighter { return s.Fighters[s.Current] }

// Targeted returns the fighter the actor will hit.
func (s Snapshot) Targeted() Fighter { return s.Fighters[s.Target] }

// Result is the outcome of a resolved battle.
type Result struct {
	Winner      Fighter
	AllFighters []Fighter
	// Defeated holds every fighter whose health reached zero.
	Defeated []Fighter
	Rounds   []Round
}

// FighterFor returns the player fighter controlled by playerID.
func (r Result) FighterFor(playerID string) (Fighter, bool) {
	for _, f := range r.AllFighters {
		if f.IsPlayer() && f.PlayerID == playerID {
			return f, true
		}
	}
	return Fighter{}, false
}
