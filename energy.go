package superski

// Energy is the jet/ski resource of one body. Current always stays in
// [0, Max()].
type Energy struct {
	Current float32

	cfg *EnergyTunables
}

// NewEnergy starts full. cfg is read on every call so live tuning applies.
func NewEnergy(cfg *EnergyTunables) *Energy {
	return &Energy{Current: cfg.Max, cfg: cfg}
}

func (e *Energy) Max() float32 { return e.cfg.Max }

// Apply adds delta and clamps the result.
func (e *Energy) Apply(delta float32) {
	e.Current += delta
	if e.Current >= e.cfg.Max {
		e.Current = e.cfg.Max
	}
	if e.Current <= 0 {
		e.Current = 0
	}
}

func (e *Energy) Regen(dt float32, grounded bool) {
	rate := e.cfg.AirRegen
	if grounded {
		rate = e.cfg.GroundRegen
	}
	e.Apply(rate * e.cfg.RegenFactor * dt)
}

// Drain removes rate*dt.
func (e *Energy) Drain(rate, dt float32) {
	e.Apply(-rate * dt)
}

// Available reports whether jet and ski forces may be applied.
func (e *Energy) Available() bool {
	return e.Current > e.cfg.Epsilon
}

func (e *Energy) Percentage() float32 {
	if e.cfg.Max <= 0 {
		return 0
	}
	return e.Current / e.cfg.Max
}

// Reset refills, as on respawn.
func (e *Energy) Reset() {
	e.Current = e.cfg.Max
}
