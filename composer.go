package superski

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// sinkCorrection is the share of into-surface velocity removed per tick
// while running.
const sinkCorrection = 0.5

// Contributions records how one tick's velocity delta was built. Accelerations
// are in m/s², impulses are velocity changes.
type Contributions struct {
	AirControl     mgl32.Vec3
	Run            mgl32.Vec3
	Hover          mgl32.Vec3
	SkiThrust      mgl32.Vec3
	VerticalThrust float32

	Jump       mgl32.Vec3
	Correction mgl32.Vec3

	HorizontalResist float32
	VerticalResist   float32
	Gravity          float32
	Cap              mgl32.Vec3

	Jumped bool
	Delta  mgl32.Vec3
}

// Lateral is the summed self-propelled acceleration before the resistance
// pass.
func (c Contributions) Lateral() mgl32.Vec3 {
	return c.AirControl.Add(c.Run).Add(c.SkiThrust)
}

type ForceComposer struct {
	Tunables *Tunables
}

// Compose returns the velocity change for one tick. Steps 1-5 only read the
// velocity snapshot v and add up; resistance, gravity and the velocity cap
// are applied to the sum.
func (fc ForceComposer) Compose(m ModeFlags, s SurfaceEstimate, v mgl32.Vec3, energy *Energy, dt float32) (mgl32.Vec3, Contributions) {
	var c Contributions
	if dt <= 0 {
		return mgl32.Vec3{}, c
	}
	t := fc.Tunables
	powered := energy.Available()
	moveDir := safeNormalize(horizontal(m.Move), mgl32.Vec3{})

	if !s.Grounded && !m.IsJetting && !m.IsSkiing && m.IsMoving {
		c.AirControl = fc.airControl(moveDir, v)
	}
	if m.IsRunning {
		c.Run, c.Correction = fc.run(m.Move, s.Normal, v, dt)
	}
	if m.IsJumping && s.Grounded && v[1] <= t.MaxJumpSpeed {
		c.Jump = fc.jump(s.Normal, v)
		c.Jumped = true
	}
	if m.IsSkiing && powered {
		c.Hover = fc.hover(s, v)
		c.SkiThrust, c.VerticalThrust = fc.jet(m, moveDir, s, v, energy, dt)
	}

	lateral := c.Lateral()
	c.HorizontalResist = 1
	if l := lateral.Len(); l > 0 {
		c.HorizontalResist = t.HorizontalResist.Factor(v.Dot(lateral.Mul(1 / l)))
		lateral = lateral.Mul(c.HorizontalResist)
	}
	vertical := c.VerticalThrust
	c.VerticalResist = 1
	if vertical > 0 {
		c.VerticalResist = t.VerticalResist.Factor(v[1])
	} else if vertical < 0 {
		c.VerticalResist = t.VerticalResist.Factor(-v[1])
	}
	vertical *= c.VerticalResist

	accel := lateral.Add(c.Hover).Add(worldUp.Mul(vertical))
	delta := accel.Mul(dt).Add(c.Jump).Add(c.Correction)

	c.Gravity = -t.Gravity * dt
	delta[1] += c.Gravity

	next := v.Add(delta)
	c.Cap = capVelocity(next, t, dt).Sub(next)
	delta = delta.Add(c.Cap)

	c.Delta = delta
	return delta, c
}

func (fc ForceComposer) airControl(moveDir, v mgl32.Vec3) mgl32.Vec3 {
	t := fc.Tunables
	accel := t.AirControlFraction * t.RunAcceleration() * t.AirControl.Factor(v.Dot(moveDir))
	return moveDir.Mul(accel)
}

// run accelerates the tangential velocity toward the run target, at most
// the run acceleration, and bleeds off velocity driving into the surface.
func (fc ForceComposer) run(move, normal, v mgl32.Vec3, dt float32) (mgl32.Vec3, mgl32.Vec3) {
	t := fc.Tunables
	along := safeNormalize(move.Sub(normal.Mul(move.Dot(normal))), mgl32.Vec3{})
	strength := move.Len()
	if strength > 1 {
		strength = 1
	}
	target := along.Mul(t.Run.MaxSpeed * strength)
	tangential := v.Sub(normal.Mul(v.Dot(normal)))

	want := target.Sub(tangential)
	limit := t.RunAcceleration() * dt * t.Run.Factor(tangential.Dot(along))
	if l := want.Len(); l > limit {
		want = want.Mul(limit / l)
	}

	var correction mgl32.Vec3
	if into := v.Dot(normal); into < 0 {
		correction = normal.Mul(-into * sinkCorrection)
	}
	return want.Mul(1 / dt), correction
}

// jump scales the jump impulse down as upward speed approaches MaxJumpSpeed.
// The impulse is always fully vertical; surfaces flatter than
// MaxJumpSurfaceAngle add a share of it along their downhill direction.
func (fc ForceComposer) jump(normal, v mgl32.Vec3) mgl32.Vec3 {
	t := fc.Tunables
	dv := t.JumpImpulse / t.Mass * ResistFactor(v[1], t.MinJumpSpeed, t.MaxJumpSpeed)
	impulse := worldUp.Mul(dv)
	cos := float64(mgl32.Clamp(normal.Dot(worldUp), -1, 1))
	if mgl32.RadToDeg(float32(math.Acos(cos))) <= t.MaxJumpSurfaceAngle {
		impulse = impulse.Add(horizontal(normal).Mul(t.JumpNormalBlend * dv))
	}
	return impulse
}

// hover returns the surface assist: lift against gravity plus a push along
// the horizontal part of the normal, doubled downhill and halved uphill.
func (fc ForceComposer) hover(s SurfaceEstimate, v mgl32.Vec3) mgl32.Vec3 {
	t := fc.Tunables
	h := mgl32.Clamp(1-(s.Distance-t.HoverHeight)/t.HoverHeight, 0, 1) * t.HoverOvershoot
	g := t.Gravity

	lateralDir := safeNormalize(horizontal(v), mgl32.Vec3{})
	downhill := horizontal(s.Normal)
	slope := s.Normal.Dot(lateralDir)

	var push mgl32.Vec3
	if slope >= 0 {
		push = downhill.Mul(h * g * t.DownhillBoost)
	} else {
		// brake is the part of the downhill direction opposing the motion,
		// glide the part across it. A straight climb gets half the downhill
		// push.
		brake := lateralDir.Mul(slope)
		glide := downhill.Sub(brake)
		push = glide.Add(brake.Mul(2)).Mul(h * g * t.UphillScale)
	}
	return push.Add(worldUp.Mul(h * g))
}

// jet returns the lateral ski thrust and the vertical jet thrust, draining
// energy for each active action.
func (fc ForceComposer) jet(m ModeFlags, moveDir mgl32.Vec3, s SurfaceEstimate, v mgl32.Vec3, energy *Energy, dt float32) (mgl32.Vec3, float32) {
	t := fc.Tunables
	var lateral mgl32.Vec3
	if m.IsMoving && horizontal(v).Len() < t.JetLateralCeiling {
		speed := v.Dot(moveDir)
		thrust := t.SkiStrength * t.Ski.Factor(speed)
		if m.IsJetting && speed < t.KickStartSpeed {
			thrust *= t.KickStartBoost
		}
		lateral = moveDir.Mul(thrust)
		energy.Drain(t.Energy.SkiDrain, dt)
	}

	var vertical float32
	if m.IsUpJetting {
		vertical += t.UpJetStrength * t.UpJet.Factor(v[1])
		energy.Drain(t.Energy.UpJetDrain, dt)
	}
	if m.IsDownJetting {
		vertical -= t.DownJetStrength * t.DownJet.Factor(-v[1])
		energy.Drain(t.Energy.DownJetDrain, dt)
	}
	var cushion float32
	if t.AirCushionHeight > 0 {
		cushion = 0.5 * mgl32.Clamp(1-s.Distance/t.AirCushionHeight, 0, 1)
	}
	return lateral, vertical * (1 + cushion)
}
