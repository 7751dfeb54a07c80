package superski

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// retainSlack absorbs float accumulation when comparing elapsed retention
// time against GroundedRetain.
const retainSlack = 1e-4

type SurfaceEstimate struct {
	Normal   mgl32.Vec3
	Point    mgl32.Vec3
	Distance float32
	Grounded bool
	// Walkable is false for misses and for hits steeper than the slope limit.
	Walkable bool
}

// SurfaceResolver turns contacts and probe rays into one surface estimate per
// tick, with grounded hysteresis and a breakaway check.
type SurfaceResolver struct {
	Tunables *Tunables
}

// Resolve computes this tick's estimate and stores it in st.
func (sr SurfaceResolver) Resolve(st *LocomotionState, contacts []Contact, probe RaycastFunc, shape Capsule, dt float32) SurfaceEstimate {
	var (
		est   SurfaceEstimate
		found bool
	)
	if len(contacts) > 0 {
		est, found = sr.fromContacts(contacts, probe, shape), true
	} else {
		est, found = sr.fromFallback(st.LastNormal, probe, shape)
	}

	cfg := sr.Tunables.Surface
	slopeCos := float32(math.Cos(float64(mgl32.DegToRad(cfg.SlopeLimit))))
	est.Walkable = found && est.Normal.Dot(worldUp) > slopeCos
	est.Grounded = sr.debounce(st, est, dt)

	st.PrevGrounded = st.Grounded
	st.Grounded = est.Grounded
	st.SurfaceNormal = est.Normal
	st.SurfacePoint = est.Point
	st.Distance = est.Distance

	if est.Normal.Sub(st.LastNormal).Len() > cfg.NormalEpsilon {
		// Far from the surface the remembered normal eases toward up so the
		// fallback probe ends up pointing straight down.
		f := mgl32.Clamp((est.Distance-1)/10, 0, 1)
		blended := est.Normal.Mul(1 - f).Add(worldUp.Mul(f))
		st.LastNormal = safeNormalize(blended, worldUp)
	}
	return est
}

// Launch expires the grounded retention so a jump is not re-grounded by
// hysteresis.
func (sr SurfaceResolver) Launch(st *LocomotionState) {
	st.SinceGrounded = sr.Tunables.Surface.GroundedRetain + 1
	st.Grounded = false
}

func (sr SurfaceResolver) debounce(st *LocomotionState, est SurfaceEstimate, dt float32) bool {
	cfg := sr.Tunables.Surface
	tight := est.Walkable && est.Distance <= cfg.GroundedDistance

	switch {
	case st.Velocity[1] > cfg.BreakawaySpeed:
		st.SinceGrounded = cfg.GroundedRetain + 1
		return false
	case tight:
		st.SinceGrounded = 0
		return true
	case st.Grounded:
		st.SinceGrounded += dt
		return st.SinceGrounded <= cfg.GroundedRetain+retainSlack
	}
	return false
}

// fromContacts averages the contact manifold, then sharpens it with a fan of
// probes cast against the averaged normal from along the body's height.
func (sr SurfaceResolver) fromContacts(contacts []Contact, probe RaycastFunc, shape Capsule) SurfaceEstimate {
	var normal, point mgl32.Vec3
	for _, c := range contacts {
		normal = normal.Add(c.Normal)
		point = point.Add(c.Point.Sub(c.Normal.Mul(c.Separation)))
	}
	inv := 1 / float32(len(contacts))
	normal = safeNormalize(normal.Mul(inv), worldUp)
	point = point.Mul(inv)

	best := SurfaceEstimate{Normal: normal, Point: point, Distance: shape.SurfaceDistance(point)}
	if probe == nil {
		return best
	}

	cfg := sr.Tunables.Surface
	dir := normal.Mul(-1)
	reach := shape.Radius + cfg.ProbeReach
	step := 2 * shape.HalfHeight / float32(cfg.ProbeCount-1)
	closest := inf
	for i := 0; i < cfg.ProbeCount; i++ {
		origin := shape.Center.Add(worldUp.Mul(-shape.HalfHeight + step*float32(i)))
		hit, ok := probe(origin, dir, reach, cfg.LayerMask)
		if !ok {
			continue
		}
		if d := shape.SurfaceDistance(hit.Point); d < closest {
			closest = d
			best = SurfaceEstimate{Normal: safeNormalize(hit.Normal, normal), Point: hit.Point, Distance: d}
		}
	}
	return best
}

// fromFallback probes from the body center against the last known normal.
func (sr SurfaceResolver) fromFallback(lastNormal mgl32.Vec3, probe RaycastFunc, shape Capsule) (SurfaceEstimate, bool) {
	void := SurfaceEstimate{Normal: worldUp, Distance: inf}
	if probe == nil {
		return void, false
	}
	cfg := sr.Tunables.Surface
	dir := safeNormalize(lastNormal, worldUp).Mul(-1)
	hit, ok := probe(shape.Center, dir, cfg.FallbackReach, cfg.LayerMask)
	if !ok {
		return void, false
	}
	return SurfaceEstimate{
		Normal:   safeNormalize(hit.Normal, worldUp),
		Point:    hit.Point,
		Distance: shape.SurfaceDistance(hit.Point),
	}, true
}
