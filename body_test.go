package superski

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	testRadius     = 0.4
	testHalfHeight = 0.9
	testDt         = float32(1.0 / 60.0)
)

// plane is an infinite terrain plane for probe tests.
type plane struct {
	point  mgl32.Vec3
	normal mgl32.Vec3
}

func flatGround() *plane {
	return &plane{normal: worldUp}
}

// tiltedGround is a plane through the origin whose normal leans deg degrees
// from up toward +X, so +X is downhill.
func tiltedGround(deg float32) *plane {
	r := mgl32.DegToRad(deg)
	return &plane{normal: mgl32.Vec3{sin(r), cos(r), 0}}
}

func sin(r float32) float32 { return float32(math.Sin(float64(r))) }
func cos(r float32) float32 { return float32(math.Cos(float64(r))) }

func (p *plane) raycast(origin, dir mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool) {
	if p == nil || mask&LayerTerrain == 0 {
		return Hit{}, false
	}
	denom := dir.Dot(p.normal)
	if denom > -1e-6 {
		return Hit{}, false
	}
	d := p.point.Sub(origin).Dot(p.normal) / denom
	if d < 0 || d > maxDistance {
		return Hit{}, false
	}
	return Hit{Point: origin.Add(dir.Mul(d)), Normal: p.normal, Distance: d}, true
}

// restingCenter is the capsule center of a body resting on p at contact.
func (p *plane) restingCenter(contact mgl32.Vec3) mgl32.Vec3 {
	return contact.Add(p.normal.Mul(testRadius)).Add(worldUp.Mul(testHalfHeight - testRadius))
}

// fakeBody integrates its own position and reports one resting contact while
// its bottom is within touching range of the ground plane.
type fakeBody struct {
	pos, vel mgl32.Vec3
	ground   *plane

	applied   int
	drag      float32
	skiing    bool
	teleports int
}

func newFakeBody(pos mgl32.Vec3, ground *plane) *fakeBody {
	return &fakeBody{pos: pos, ground: ground}
}

func (b *fakeBody) Position() mgl32.Vec3 { return b.pos }
func (b *fakeBody) Velocity() mgl32.Vec3 { return b.vel }
func (b *fakeBody) Collider() Capsule {
	return Capsule{Center: b.pos, Radius: testRadius, HalfHeight: testHalfHeight}
}

func (b *fakeBody) Contacts() []Contact {
	if b.ground == nil {
		return nil
	}
	hit, ok := b.ground.raycast(b.pos, b.ground.normal.Mul(-1), testHalfHeight+0.01, LayerTerrain)
	if !ok {
		return nil
	}
	return []Contact{{Point: hit.Point, Normal: hit.Normal}}
}

func (b *fakeBody) Raycast(origin, dir mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool) {
	return b.ground.raycast(origin, dir, maxDistance, mask)
}

func (b *fakeBody) ApplyVelocityChange(dv mgl32.Vec3) {
	b.vel = b.vel.Add(dv)
	b.applied++
}

func (b *fakeBody) SetDrag(drag float32)  { b.drag = drag }
func (b *fakeBody) SetSkiing(skiing bool) { b.skiing = skiing }
func (b *fakeBody) Teleport(pos mgl32.Vec3) {
	b.pos = pos
	b.vel = mgl32.Vec3{}
	b.teleports++
}

// Step moves the body and keeps it out of the ground, removing the velocity
// into the ground like a rigid-body solver would.
func (b *fakeBody) Step(dt float32) {
	b.pos = b.pos.Add(b.vel.Mul(dt))
	if b.ground == nil {
		return
	}
	bottom := b.pos.Sub(worldUp.Mul(testHalfHeight))
	if depth := b.ground.point.Sub(bottom).Dot(b.ground.normal); depth > 0 {
		b.pos = b.pos.Add(worldUp.Mul(depth / b.ground.normal.Dot(worldUp)))
		if into := b.vel.Dot(b.ground.normal); into < 0 {
			b.vel = b.vel.Sub(b.ground.normal.Mul(into))
		}
	}
}

// vecNear compares component-wise against an absolute tolerance.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestCapsuleSurfaceDistance(t *testing.T) {
	c := Capsule{Center: mgl32.Vec3{0, 1, 0}, Radius: 0.5, HalfHeight: 1}
	var tests = []struct {
		p    mgl32.Vec3
		want float32
	}{
		{mgl32.Vec3{0, 1, 0}, 0},
		{mgl32.Vec3{0, 0, 0}, 0},
		{mgl32.Vec3{0, -1, 0}, 1},
		{mgl32.Vec3{2, 1, 0}, 1.5},
		{mgl32.Vec3{0, 3.5, 0}, 1.5},
		{mgl32.Vec3{0, 1, -0.25}, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v is %.2f away", tt.p, tt.want), func(t *testing.T) {
			got := c.SurfaceDistance(tt.p)
			if !mgl32.FloatEqualThreshold(got, tt.want, 1e-5) {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSafeNormalize(t *testing.T) {
	if got := safeNormalize(mgl32.Vec3{}, worldUp); got != worldUp {
		t.Errorf("zero vector: got %v, want fallback", got)
	}
	if got := safeNormalize(mgl32.Vec3{3, 0, 4}, worldUp); !vecNear(got, mgl32.Vec3{0.6, 0, 0.8}, 1e-6) {
		t.Errorf("got %v", got)
	}
}

func TestPlaneRaycastMask(t *testing.T) {
	g := flatGround()
	if _, ok := g.raycast(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}, 10, LayerBody); ok {
		t.Errorf("hit terrain through a body-only mask")
	}
	hit, ok := g.raycast(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}, 10, LayerTerrain)
	if !ok || !mgl32.FloatEqual(hit.Distance, 5) {
		t.Errorf("got %+v %v", hit, ok)
	}
}
