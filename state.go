package superski

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	worldUp = mgl32.Vec3{0, 1, 0}
	inf     = float32(math.Inf(1))
)

// LocomotionState is owned by one Controller and mutated every tick.
type LocomotionState struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	// Facing is the body yaw in radians.
	Facing float32

	Grounded     bool
	PrevGrounded bool
	// SinceGrounded is the time spent outside the tight grounded distance
	// while grounded was retained.
	SinceGrounded float32

	SurfaceNormal mgl32.Vec3
	SurfacePoint  mgl32.Vec3
	// Distance is +Inf when no surface is known.
	Distance   float32
	LastNormal mgl32.Vec3

	SkiToggle bool
	JumpLatch bool

	// MoveIntent is the smoothed local move direction for animation.
	MoveIntent mgl32.Vec3

	prevSkiToggle bool
	prevJump      bool
}

func NewLocomotionState(pos mgl32.Vec3, facing float32) LocomotionState {
	return LocomotionState{
		Position:      pos,
		Facing:        facing,
		SurfaceNormal: worldUp,
		LastNormal:    worldUp,
		Distance:      inf,
	}
}
