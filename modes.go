package superski

import "github.com/go-gl/mathgl/mgl32"

// Mode is the state machine view of a ModeFlags value.
type Mode int

const (
	ModeGroundedIdle Mode = iota
	ModeRunning
	ModeAirborne
	ModeSkiing
	ModeSkiingUpJet
	ModeSkiingDownJet
)

func (m Mode) String() string {
	switch m {
	case ModeGroundedIdle:
		return "grounded-idle"
	case ModeRunning:
		return "running"
	case ModeAirborne:
		return "airborne"
	case ModeSkiing:
		return "skiing"
	case ModeSkiingUpJet:
		return "skiing+up-jet"
	case ModeSkiingDownJet:
		return "skiing+down-jet"
	}
	return "unknown"
}

// ModeFlags are derived each tick and never persisted. The jet flags follow
// held input even when Powered is false; the composer gates the thrust.
type ModeFlags struct {
	// Move is the world-space move intent, not normalized.
	Move mgl32.Vec3

	IsMoving      bool
	IsSkiing      bool
	IsUpJetting   bool
	IsDownJetting bool
	IsJetting     bool
	IsRunning     bool
	IsJumping     bool

	Grounded bool
	Powered  bool
}

func (m ModeFlags) Mode() Mode {
	switch {
	case m.IsSkiing && m.IsUpJetting:
		return ModeSkiingUpJet
	case m.IsSkiing && m.IsDownJetting:
		return ModeSkiingDownJet
	case m.IsSkiing:
		return ModeSkiing
	case m.IsRunning:
		return ModeRunning
	case m.Grounded:
		return ModeGroundedIdle
	}
	return ModeAirborne
}

type ModeSelector struct {
	Tunables *Tunables
}

// Select derives the mode flags from this tick's input. It owns the ski
// toggle and jump latch edge detection stored in st.
func (ms ModeSelector) Select(st *LocomotionState, in InputSnapshot, energy float32) ModeFlags {
	if risingEdge(&st.prevSkiToggle, in.SkiToggle) {
		st.SkiToggle = !st.SkiToggle
	}
	if risingEdge(&st.prevJump, in.JumpJet) {
		st.JumpLatch = true
	}

	local := mgl32.Vec3{in.Move[0], 0, in.Move[1]}
	m := ModeFlags{
		Move:     mgl32.Rotate3DY(st.Facing).Mul3x1(local),
		Grounded: st.Grounded,
		Powered:  energy > ms.Tunables.Energy.Epsilon,
	}
	m.IsMoving = local.Len() > 0
	m.IsSkiing = in.Ski || st.SkiToggle
	m.IsUpJetting = m.IsSkiing && in.JumpJet
	m.IsDownJetting = m.IsSkiing && in.DownJet
	m.IsJetting = m.IsUpJetting || m.IsDownJetting
	m.IsRunning = st.Grounded && m.IsMoving && !m.IsSkiing
	m.IsJumping = st.JumpLatch && st.Grounded && st.Velocity[1] <= ms.Tunables.MaxJumpSpeed
	return m
}
