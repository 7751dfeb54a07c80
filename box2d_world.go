package superski

import (
	"math"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	normalFriction = 0.6
	skiFriction    = 0

	velocityIterations = 8
	positionIterations = 3
)

// Box2DWorld is a side-view physics world: world X and Y map to Box2D X and
// Y, Z is dropped. Gravity is left to the force composer, so the Box2D world
// itself has none.
type Box2DWorld struct {
	World  box2d.B2World
	Ground *box2d.B2Body
}

// NewBox2DWorld builds a terrain polyline from heights sampled every spacing
// metres, starting at x=0.
func NewBox2DWorld(heights []float32, spacing float32) *Box2DWorld {
	w := &Box2DWorld{World: box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))}

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_staticBody
	w.Ground = w.World.CreateBody(&bd)

	verts := make([]box2d.B2Vec2, len(heights))
	for i, h := range heights {
		verts[i] = box2d.MakeB2Vec2(float64(float32(i)*spacing), float64(h))
	}
	chain := box2d.MakeB2ChainShape()
	chain.CreateChain(verts, len(verts))

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &chain
	fd.Friction = normalFriction
	fd.Filter.CategoryBits = uint16(LayerTerrain)
	w.Ground.CreateFixtureFromDef(&fd)
	return w
}

func (w *Box2DWorld) Step(dt float32) {
	w.World.Step(float64(dt), velocityIterations, positionIterations)
}

// Raycast returns the closest hit on a fixture whose category is in mask.
func (w *Box2DWorld) Raycast(origin, dir mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool) {
	d := mgl32.Vec2{dir[0], dir[1]}
	if d.Len() < 1e-6 || maxDistance <= 0 {
		return Hit{}, false
	}
	if math.IsInf(float64(maxDistance), 1) {
		maxDistance = 1e6
	}
	p1 := box2d.MakeB2Vec2(float64(origin[0]), float64(origin[1]))
	end := mgl32.Vec2{origin[0], origin[1]}.Add(d.Mul(maxDistance))
	p2 := box2d.MakeB2Vec2(float64(end[0]), float64(end[1]))

	var (
		hit   Hit
		found bool
	)
	w.World.RayCast(func(fixture *box2d.B2Fixture, point, normal box2d.B2Vec2, fraction float64) float64 {
		if uint32(fixture.GetFilterData().CategoryBits)&mask == 0 {
			return -1
		}
		p := mgl32.Vec3{float32(point.X), float32(point.Y), origin[2]}
		hit = Hit{
			Point:    p,
			Normal:   mgl32.Vec3{float32(normal.X), float32(normal.Y), 0},
			Distance: p.Sub(origin).Len(),
		}
		found = true
		return fraction
	}, p1, p2)
	return hit, found
}

// Box2DBody is a capsule body, built from two circles, that implements
// PhysicsBody, SurfaceTuner and Teleporter.
type Box2DBody struct {
	world *Box2DWorld
	body  *box2d.B2Body
	shape Capsule
}

func (w *Box2DWorld) NewBody(pos mgl32.Vec2, radius, halfHeight, mass float32) *Box2DBody {
	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position = box2d.MakeB2Vec2(float64(pos[0]), float64(pos[1]))
	bd.FixedRotation = true
	bd.Bullet = true
	body := w.World.CreateBody(&bd)

	offset := halfHeight - radius
	if offset < 0 {
		offset = 0
	}
	area := 2 * math.Pi * float64(radius) * float64(radius)
	for _, y := range []float32{-offset, offset} {
		circle := box2d.MakeB2CircleShape()
		circle.M_radius = float64(radius)
		circle.M_p = box2d.MakeB2Vec2(0, float64(y))

		fd := box2d.MakeB2FixtureDef()
		fd.Shape = &circle
		fd.Density = float64(mass) / area
		fd.Friction = normalFriction
		fd.Filter.CategoryBits = uint16(LayerBody)
		body.CreateFixtureFromDef(&fd)
	}
	return &Box2DBody{
		world: w,
		body:  body,
		shape: Capsule{Radius: radius, HalfHeight: halfHeight},
	}
}

func toVec3(v box2d.B2Vec2) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), 0}
}

func (b *Box2DBody) Position() mgl32.Vec3 { return toVec3(b.body.GetPosition()) }
func (b *Box2DBody) Velocity() mgl32.Vec3 { return toVec3(b.body.GetLinearVelocity()) }

func (b *Box2DBody) Collider() Capsule {
	c := b.shape
	c.Center = b.Position()
	return c
}

// Contacts reads the touching contacts of the last world step. Normals are
// flipped where needed so they point out of the other body, toward this one.
func (b *Box2DBody) Contacts() []Contact {
	var out []Contact
	for ce := b.body.GetContactList(); ce != nil; ce = ce.Next {
		c := ce.Contact
		if !c.IsTouching() {
			continue
		}
		var wm box2d.B2WorldManifold
		c.GetWorldManifold(&wm)
		n := toVec3(wm.Normal)
		if c.GetFixtureA().GetBody() == b.body {
			n = n.Mul(-1)
		}
		for i := 0; i < c.GetManifold().PointCount; i++ {
			out = append(out, Contact{
				Point:      toVec3(wm.Points[i]),
				Normal:     n,
				Separation: float32(wm.Separations[i]),
			})
		}
	}
	return out
}

func (b *Box2DBody) Raycast(origin, dir mgl32.Vec3, maxDistance float32, mask uint32) (Hit, bool) {
	return b.world.Raycast(origin, dir, maxDistance, mask)
}

func (b *Box2DBody) ApplyVelocityChange(dv mgl32.Vec3) {
	v := b.body.GetLinearVelocity()
	b.body.SetLinearVelocity(box2d.MakeB2Vec2(v.X+float64(dv[0]), v.Y+float64(dv[1])))
	b.body.SetAwake(true)
}

func (b *Box2DBody) SetDrag(drag float32) {
	b.body.SetLinearDamping(float64(drag))
}

// SetSkiing switches between the frictionless ski material and the normal
// one, including on contacts that already exist.
func (b *Box2DBody) SetSkiing(skiing bool) {
	f := float64(normalFriction)
	if skiing {
		f = skiFriction
	}
	for fx := b.body.GetFixtureList(); fx != nil; fx = fx.GetNext() {
		fx.SetFriction(f)
	}
	for ce := b.body.GetContactList(); ce != nil; ce = ce.Next {
		ce.Contact.ResetFriction()
	}
}

func (b *Box2DBody) Teleport(pos mgl32.Vec3) {
	b.body.SetTransform(box2d.MakeB2Vec2(float64(pos[0]), float64(pos[1])), 0)
	b.body.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
}
