package superski

import (
	"github.com/EngoEngine/ecs"
)

// Skier is the controlled body entity.
type Skier struct {
	ecs.BasicEntity

	Controller *Controller
	Input      InputSource
}

func NewSkier(body PhysicsBody, t Tunables, input InputSource, opts ...ControllerOption) (*Skier, error) {
	ctrl, err := NewController(body, t, opts...)
	if err != nil {
		return nil, err
	}
	return &Skier{
		BasicEntity: ecs.NewBasic(),
		Controller:  ctrl,
		Input:       input,
	}, nil
}

// AddTo registers the skier with a locomotion system.
func (s *Skier) AddTo(ls *LocomotionSystem) {
	ls.Add(&s.BasicEntity, s.Controller, s.Input)
}
