package superski

import (
	"math"

	"github.com/EngoEngine/ecs"
	log "github.com/sirupsen/logrus"
)

// DefaultFixedStep is the physics tick, 60 Hz.
const DefaultFixedStep = float32(1.0 / 60.0)

// Stepper advances the physics world by one fixed step.
type Stepper interface {
	Step(dt float32)
}

type locomotionEntity struct {
	*ecs.BasicEntity
	ctrl  *Controller
	input InputSource
}

// LocomotionSystem runs every controller at a fixed step regardless of the
// frame dt it is updated with. Each tick samples input, ticks the
// controllers, then steps Physics.
type LocomotionSystem struct {
	FixedStep         float32
	MaxTicksPerUpdate int
	Physics           Stepper

	Entities []locomotionEntity

	accumulator float32
	ticks       uint64
}

func (ls *LocomotionSystem) Add(ent *ecs.BasicEntity, ctrl *Controller, input InputSource) {
	ls.Entities = append(ls.Entities, locomotionEntity{ent, ctrl, input})
}

func (ls *LocomotionSystem) Remove(ent ecs.BasicEntity) {
	idx := -1
	for i, e := range ls.Entities {
		if ent.ID() == e.ID() {
			idx = i
		}
	}
	if idx != -1 {
		ls.Entities = append(ls.Entities[:idx], ls.Entities[idx+1:]...)
	}
}

func (ls *LocomotionSystem) Update(dt float32) {
	step := ls.FixedStep
	if step <= 0 {
		step = DefaultFixedStep
	}
	max := ls.MaxTicksPerUpdate
	if max <= 0 {
		max = 8
	}

	ls.accumulator += dt
	n := 0
	for ls.accumulator+1e-6 >= step && n < max {
		for _, e := range ls.Entities {
			var in InputSnapshot
			if e.input != nil {
				in = e.input.Sample(step)
			}
			e.ctrl.Tick(in, step)
		}
		if ls.Physics != nil {
			ls.Physics.Step(step)
		}
		ls.accumulator -= step
		ls.ticks++
		n++
	}
	if ls.accumulator >= step {
		dropped := ls.accumulator
		ls.accumulator = float32(math.Mod(float64(ls.accumulator), float64(step)))
		log.WithField("dropped", dropped-ls.accumulator).Debug("Locomotion fell behind")
	}
	if ls.accumulator < 0 {
		ls.accumulator = 0
	}
}

// Ticks is the number of fixed steps run so far.
func (ls *LocomotionSystem) Ticks() uint64 { return ls.ticks }
