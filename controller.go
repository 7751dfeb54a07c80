package superski

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// intentRate is how fast MoveIntent follows the raw intent, per second.
const intentRate = 10

// Controller owns the locomotion and energy state of one body and runs the
// per-tick pipeline: surface resolve, mode select, force compose.
type Controller struct {
	ID       uuid.UUID
	Tunables *Tunables
	State    LocomotionState
	Energy   *Energy

	// Modes and Last describe the most recent tick.
	Modes ModeFlags
	Last  Contributions

	body     PhysicsBody
	resolver SurfaceResolver
	selector ModeSelector
	composer ForceComposer
	sink     TelemetrySink
	spawn    mgl32.Vec3
	facing   float32
	ticks    uint64
	log      *log.Entry
}

type ControllerOption func(*Controller)

func WithTelemetrySink(sink TelemetrySink) ControllerOption {
	return func(c *Controller) { c.sink = sink }
}

// WithFacing sets the initial yaw in radians.
func WithFacing(yaw float32) ControllerOption {
	return func(c *Controller) { c.facing = yaw }
}

func WithID(id uuid.UUID) ControllerOption {
	return func(c *Controller) { c.ID = id }
}

// NewController validates t and takes its own copy of it.
func NewController(body PhysicsBody, t Tunables, opts ...ControllerOption) (*Controller, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	tp := &t
	c := &Controller{
		ID:       uuid.New(),
		Tunables: tp,
		Energy:   NewEnergy(&tp.Energy),
		body:     body,
		resolver: SurfaceResolver{Tunables: tp},
		selector: ModeSelector{Tunables: tp},
		composer: ForceComposer{Tunables: tp},
		spawn:    body.Position(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.State = NewLocomotionState(c.spawn, c.facing)
	c.log = log.WithField("body", c.ID.String())
	c.log.WithField("pos", c.spawn).Info("Spawned")
	return c, nil
}

// Tick runs one fixed step. The velocity change is applied to the body once,
// at the end.
func (c *Controller) Tick(in InputSnapshot, dt float32) {
	if dt <= 0 {
		return
	}
	st := &c.State
	st.Position = c.body.Position()
	st.Velocity = c.body.Velocity()
	c.look(in.Look, dt)

	wasPowered := c.Energy.Available()
	surface := c.resolver.Resolve(st, c.body.Contacts(), c.body.Raycast, c.body.Collider(), dt)
	modes := c.selector.Select(st, in, c.Energy.Current)
	delta, parts := c.composer.Compose(modes, surface, st.Velocity, c.Energy, dt)

	st.JumpLatch = false
	if parts.Jumped {
		c.resolver.Launch(st)
		c.log.WithField("vel", st.Velocity).Debug("Jump")
	}
	c.body.ApplyVelocityChange(delta)
	c.Energy.Regen(dt, st.Grounded)

	if tuner, ok := c.body.(SurfaceTuner); ok {
		drag := c.Tunables.Drag
		if surface.Distance <= c.Tunables.AirCushionHeight {
			drag = c.Tunables.AirCushionDrag
		}
		tuner.SetDrag(drag)
		tuner.SetSkiing(modes.IsSkiing)
	}

	if from, to := c.Modes.Mode(), modes.Mode(); c.ticks > 0 && from != to {
		c.log.WithFields(log.Fields{"from": from, "to": to}).Debug("Mode change")
	}
	if wasPowered && !c.Energy.Available() {
		c.log.Debug("Energy exhausted")
	}

	c.smoothIntent(in, modes, dt)
	c.Modes, c.Last = modes, parts
	c.ticks++

	if c.sink != nil {
		c.sink.Publish(c.Telemetry())
	}
}

// look turns the body by the horizontal look input, at most LookLimit
// degrees per tick.
func (c *Controller) look(amount, dt float32) {
	if amount == 0 {
		return
	}
	lim := c.Tunables.LookLimit
	deg := mgl32.Clamp(amount*c.Tunables.LookSpeed*dt, -lim, lim)
	c.State.Facing += mgl32.DegToRad(deg)
}

func (c *Controller) smoothIntent(in InputSnapshot, m ModeFlags, dt float32) {
	target := safeNormalize(mgl32.Vec3{in.Move[0], 0, in.Move[1]}, mgl32.Vec3{})
	switch {
	case m.IsDownJetting:
		target[1] = -1
	case m.IsUpJetting:
		target[1] = 1
	}
	f := mgl32.Clamp(dt*intentRate, 0, 1)
	c.State.MoveIntent = c.State.MoveIntent.Mul(1 - f).Add(target.Mul(f))
}

// Respawn puts the body back at its spawn point with fresh state and full
// energy.
func (c *Controller) Respawn() {
	c.State = NewLocomotionState(c.spawn, c.facing)
	c.Modes, c.Last = ModeFlags{}, Contributions{}
	c.Energy.Reset()
	if tp, ok := c.body.(Teleporter); ok {
		tp.Teleport(c.spawn)
	}
	c.log.WithField("pos", c.spawn).Info("Respawned")
}

func (c *Controller) EnergyPercentage() float32 {
	return c.Energy.Percentage()
}

// Ticks is the number of completed ticks.
func (c *Controller) Ticks() uint64 { return c.ticks }

func (c *Controller) Telemetry() Telemetry {
	st := &c.State
	t := Telemetry{
		Body:          c.ID,
		Tick:          c.ticks,
		Position:      st.Position,
		Velocity:      st.Velocity,
		Speed:         st.Velocity.Len(),
		Direction:     safeNormalize(st.Velocity, mgl32.Vec3{}),
		MoveIntent:    st.MoveIntent,
		SurfaceNormal: st.SurfaceNormal,
		SurfacePoint:  st.SurfacePoint,
		Distance:      st.Distance,
		Grounded:      st.Grounded,
		Running:       c.Modes.IsRunning,
		Skiing:        c.Modes.IsSkiing,
		UpJetting:     c.Modes.IsUpJetting,
		DownJetting:   c.Modes.IsDownJetting,
		Mode:          c.Modes.Mode().String(),
		Energy:        c.Energy.Percentage(),
	}
	t.VerticalVelocity = t.Direction[1]
	return t
}

// Tuning builds the live tuning table over this controller's tunables.
func (c *Controller) Tuning() *TuningTable {
	return NewTuningTable(c.Tunables)
}
