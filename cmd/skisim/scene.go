package main

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/ScottBrooks/superski"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

const (
	terrainSpacing = 2
	terrainSamples = 400

	bodyRadius     = 0.4
	bodyHalfHeight = 0.9
)

// terrainHeight is a long downhill run with rolling bumps.
func terrainHeight(x float32) float32 {
	return -0.25*x + 3*float32(math.Sin(float64(x)/15))
}

func terrain() []float32 {
	heights := make([]float32, terrainSamples)
	for i := range heights {
		heights[i] = terrainHeight(float32(i) * terrainSpacing)
	}
	return heights
}

// RunTimerSystem respawns the skier when it leaves the course and ends the
// run after Duration seconds.
type RunTimerSystem struct {
	Skier    *superski.Skier
	Duration float32
	MaxX     float32
	MinY     float32
	OnDone   func()

	elapsed float32
	done    bool
}

func (*RunTimerSystem) Remove(ecs.BasicEntity) {}
func (rt *RunTimerSystem) Update(dt float32) {
	pos := rt.Skier.Controller.State.Position
	if pos[0] > rt.MaxX || pos[1] < rt.MinY {
		log.WithField("pos", pos).Info("Left the course")
		rt.Skier.Controller.Respawn()
	}

	rt.elapsed += dt
	if rt.done || rt.elapsed < rt.Duration {
		return
	}
	rt.done = true
	if rt.OnDone != nil {
		rt.OnDone()
	}
	engo.Exit()
}

// SimScene runs one bot-driven skier down a Box2D course.
type SimScene struct {
	Tunables superski.Tunables
	Duration float32
	Seed     int64
	Hub      *superski.TelemetryHub

	world  *superski.Box2DWorld
	skier  *superski.Skier
	report superski.Report
}

func (*SimScene) Preload() {}
func (ss *SimScene) Setup(u engo.Updater) {
	w, _ := u.(*ecs.World)

	heights := terrain()
	ss.world = superski.NewBox2DWorld(heights, terrainSpacing)

	startX := float32(4)
	body := ss.world.NewBody(mgl32.Vec2{startX, terrainHeight(startX) + 2}, bodyRadius, bodyHalfHeight, ss.Tunables.Mass)
	bot := superski.NewBotInput(ss.Seed, nil)

	sink := superski.TelemetrySinkFunc(func(t superski.Telemetry) {
		engo.Mailbox.Dispatch(superski.TelemetryMessage{Telemetry: t})
	})
	skier, err := superski.NewSkier(body, ss.Tunables, bot,
		superski.WithFacing(math.Pi/2),
		superski.WithTelemetrySink(sink),
	)
	if err != nil {
		log.WithError(err).Fatal("Unable to create skier")
	}
	ss.skier = skier
	bot.Speed = func() float32 {
		return skier.Controller.State.Velocity.Len()
	}

	ls := &superski.LocomotionSystem{Physics: ss.world}
	skier.AddTo(ls)

	courseEnd := float32(terrainSamples-1) * terrainSpacing
	w.AddSystem(ls)
	w.AddSystem(&RunTimerSystem{
		Skier:    skier,
		Duration: ss.Duration,
		MaxX:     courseEnd,
		MinY:     terrainHeight(courseEnd) - 50,
		OnDone:   func() { ss.report.Log() },
	})

	engo.Mailbox.Listen(superski.TelemetryMessage{}.Type(), func(msg engo.Message) {
		tm, ok := msg.(superski.TelemetryMessage)
		if !ok {
			return
		}
		ss.report.Add(tm.Telemetry)
		if ss.Hub != nil {
			ss.Hub.Broadcast(tm.Telemetry)
		}
	})
}
func (*SimScene) Type() string { return "SkiSim" }
