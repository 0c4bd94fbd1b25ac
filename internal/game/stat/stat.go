// Package stat provides the bounded current/max resource used for health and mana.
package stat

import "fmt"

// Stat is a clamped numeric resource.
//
// Invariant: 0 <= Value <= Max.
type Stat struct {
	Value int `json:"value" yaml:"value"`
	Max   int `json:"max" yaml:"max"`
}

// New returns a Stat whose Value equals its Max.
//
// Precondition: value >= 0.
// Postcondition: Value == Max == value.
func New(value int) Stat {
	if value < 0 {
		value = 0
	}
	return Stat{Value: value, Max: value}
}

// Restore refills Value to Max.
func (s *Stat) Restore() {
	s.Value = s.Max
}

// SetValue sets Value to amount clamped to [0, Max].
//
// Postcondition: 0 <= Value <= Max.
func (s *Stat) SetValue(amount int) {
	s.Value = clamp(amount, 0, s.Max)
}

// AddValue increases Value by amount, capped at Max.
//
// Postcondition: 0 <= Value <= Max.
func (s *Stat) AddValue(amount int) {
	s.Value = clamp(s.Value+amount, 0, s.Max)
}

// SubtractValue decreases Value by amount, floored at zero.
//
// Postcondition: 0 <= Value <= Max.
func (s *Stat) SubtractValue(amount int) {
	s.Value = clamp(s.Value-amount, 0, s.Max)
}

// AddMaxValue grows the pool: Max and Value both increase by amount.
//
// Postcondition: Max' == Max + amount (floored at 0); Value' == min(Value + amount, Max').
func (s *Stat) AddMaxValue(amount int) {
	s.Max += amount
	if s.Max < 0 {
		s.Max = 0
	}
	s.AddValue(amount)
}

// SubtractMaxValue shrinks Max by amount, floored at zero, and re-clamps Value
// to the new Max. Value is otherwise left untouched.
//
// Postcondition: Max' == max(Max - amount, 0); Value' == min(Value, Max').
func (s *Stat) SubtractMaxValue(amount int) {
	s.Max -= amount
	if s.Max < 0 {
		s.Max = 0
	}
	s.Value = clamp(s.Value, 0, s.Max)
}

// Percentage returns Value as a whole percentage of Max, truncated toward zero.
//
// Postcondition: Returns 0 when Max == 0.
func (s Stat) Percentage() int {
	if s.Max <= 0 {
		return 0
	}
	return s.Value * 100 / s.Max
}

// IsEmpty reports whether Value has reached zero.
func (s Stat) IsEmpty() bool { return s.Value <= 0 }

// String renders the stat as "value/max".
func (s Stat) String() string {
	return fmt.Sprintf("%d/%d", s.Value, s.Max)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
