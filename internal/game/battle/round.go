package battle

// EffectKind identifies what an Effect did.
type EffectKind int

const (
	EffectDamage EffectKind = iota
	EffectRemoveMana
)

// Effect is one state change caused by a round.
type Effect struct {
	Kind EffectKind
	// Target is the index of the affected fighter.
	Target int
	Amount int
}

// Round is the immutable record of one resolved action.
type Round struct {
	// Number counts rounds from 1.
	Number int
	Action Action

	ActorIndex  int
	TargetIndex int
	// Actor is the acting fighter before the action; Target is the targeted
	// fighter after it.
	Actor  Fighter
	Target Fighter

	Damage   int
	Dodged   bool
	Critical bool

	Messages []string
	Effects  []Effect
}

func (r Round) clone() Round {
	r.Messages = append([]string(nil), r.Messages...)
	r.Effects = append([]Effect(nil), r.Effects...)
	return r
}

// LastMessage returns the final narrative line of the round, or "" if it has none.
func (r Round) LastMessage() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}
