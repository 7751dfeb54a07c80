package superski

import "github.com/go-gl/mathgl/mgl32"

// Collision layers used in raycast masks.
const (
	LayerTerrain uint32 = 1 << 0
	LayerBody    uint32 = 1 << 1
)

// Contact is one contact point reported by the physics engine since the last
// tick. Normal points out of the touched surface; Separation is negative
// while penetrating.
type Contact struct {
	Point      mgl32.Vec3
	Normal     mgl32.Vec3
	Separation float32
}

type Hit struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

// RaycastFunc casts a ray against every collider in mask. A miss is a
// normal outcome, not an error.
type RaycastFunc func(origin, dir mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool)

// Capsule is an upright capsule collider. HalfHeight includes the caps.
type Capsule struct {
	Center     mgl32.Vec3
	Radius     float32
	HalfHeight float32
}

func (c Capsule) segment() (mgl32.Vec3, mgl32.Vec3) {
	h := c.HalfHeight - c.Radius
	if h < 0 {
		h = 0
	}
	return c.Center.Sub(worldUp.Mul(h)), c.Center.Add(worldUp.Mul(h))
}

// SurfaceDistance is the distance from p to the capsule surface, 0 when p
// is inside.
func (c Capsule) SurfaceDistance(p mgl32.Vec3) float32 {
	a, b := c.segment()
	ab := b.Sub(a)
	t := float32(0)
	if l2 := ab.Dot(ab); l2 > 0 {
		t = mgl32.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	}
	d := p.Sub(a.Add(ab.Mul(t))).Len() - c.Radius
	if d < 0 {
		return 0
	}
	return d
}

// PhysicsBody is the rigid-body collaborator for one controlled body.
type PhysicsBody interface {
	Position() mgl32.Vec3
	Velocity() mgl32.Vec3
	Collider() Capsule
	// Contacts returns the touching contacts from the last physics step.
	Contacts() []Contact
	Raycast(origin, dir mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool)
	ApplyVelocityChange(dv mgl32.Vec3)
}

// SurfaceTuner is implemented by bodies whose drag and friction material
// follow the locomotion mode.
type SurfaceTuner interface {
	SetDrag(drag float32)
	SetSkiing(skiing bool)
}

// Teleporter is implemented by bodies that can be respawned.
type Teleporter interface {
	Teleport(pos mgl32.Vec3)
}

func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 {
		return fallback
	}
	return v.Mul(1 / l)
}

func horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], 0, v[2]}
}
