package superski

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ResistFactor scales a self-propulsion force by how fast the body already
// moves in that direction: 1 below resistSpeed, falling linearly to 0 at
// maxSpeed. Callers guarantee resistSpeed < maxSpeed (see Tunables.Validate).
func ResistFactor(speed, resistSpeed, maxSpeed float32) float32 {
	if speed <= resistSpeed {
		return 1
	}
	f := 1 - (speed-resistSpeed)/(maxSpeed-resistSpeed)
	return mgl32.Clamp(f, 0, 1)
}

// Factor is ResistFactor for the curve.
func (c ResistCurve) Factor(speed float32) float32 {
	return ResistFactor(speed, c.ResistSpeed, c.MaxSpeed)
}

// Factor returns the multiplier for summed thrust on one axis. Unlike
// ResistFactor it grows superlinearly and never drops below 1-MaxResistance.
func (a AxisResist) Factor(speed float32) float32 {
	if speed <= a.ResistSpeed {
		return 1
	}
	over := (speed - a.ResistSpeed) / (a.MaxSpeed - a.ResistSpeed)
	resistance := float32(math.Pow(float64(over), float64(a.Exponent)))
	if resistance > a.MaxResistance {
		resistance = a.MaxResistance
	}
	return 1 - resistance
}

// VelocityCap pulls a speed that exceeds ceiling back toward it by rate per
// second. It never pulls below the ceiling and leaves slower speeds alone.
func VelocityCap(speed, ceiling, rate, dt float32) float32 {
	if speed <= ceiling {
		return speed
	}
	pull := rate * dt
	if pull > 1 {
		pull = 1
	}
	return speed - (speed-ceiling)*pull
}

// capVelocity applies VelocityCap to the horizontal magnitude and to the
// vertical component of v, each with its own rate.
func capVelocity(v mgl32.Vec3, t *Tunables, dt float32) mgl32.Vec3 {
	lateral := mgl32.Vec3{v[0], 0, v[2]}
	if speed := lateral.Len(); speed > t.HorizontalCeiling {
		lateral = lateral.Mul(VelocityCap(speed, t.HorizontalCeiling, t.HorizontalCapRate, dt) / speed)
	}
	y := v[1]
	if y > 0 {
		y = VelocityCap(y, t.VerticalCeiling, t.VerticalCapRate, dt)
	} else {
		y = -VelocityCap(-y, t.VerticalCeiling, t.VerticalCapRate, dt)
	}
	return mgl32.Vec3{lateral[0], y, lateral[2]}
}
