package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged random draws.
// All draws are logged at debug level with the kind of draw and its result.
// Roller itself satisfies Source, so it can be handed to any formula or battle.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the result.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice draw",
		zap.String("kind", "intn"),
		zap.Int("n", n),
		zap.Int("result", v),
	)
	return v
}

// Float64 draws from the wrapped Source and logs the result.
func (r *Roller) Float64() float64 {
	v := r.src.Float64()
	r.logger.Debug("dice draw",
		zap.String("kind", "float64"),
		zap.Float64("result", v),
	)
	return v
}

// Check rolls a percentage chance and logs the labelled outcome.
//
// Precondition: percent is in [0, 100]; values outside are clamped.
// Postcondition: Returns true with probability percent/100.
func (r *Roller) Check(label string, percent int) bool {
	ok := Chance(r.src, float64(percent)/100)
	r.logger.Debug("dice check",
		zap.String("label", label),
		zap.Int("percent", percent),
		zap.Bool("success", ok),
	)
	return ok
}
