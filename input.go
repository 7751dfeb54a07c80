package superski

import "github.com/go-gl/mathgl/mgl32"

// InputSnapshot is the raw input of one tick. Move is x right, y forward and
// is not normalized.
type InputSnapshot struct {
	Move      mgl32.Vec2
	Look      float32
	Ski       bool
	SkiToggle bool
	JumpJet   bool
	DownJet   bool
}

// InputSource is polled once per fixed tick.
type InputSource interface {
	Sample(dt float32) InputSnapshot
}

// InputFunc adapts a function to InputSource.
type InputFunc func(dt float32) InputSnapshot

func (f InputFunc) Sample(dt float32) InputSnapshot { return f(dt) }

// risingEdge reports a false->true transition and remembers now.
func risingEdge(prev *bool, now bool) bool {
	edge := now && !*prev
	*prev = now
	return edge
}
