package superski

import (
	"encoding/json"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Telemetry is the read-only per-tick view for animation, HUD and debug
// overlays.
type Telemetry struct {
	Body uuid.UUID `json:"body"`
	Tick uint64    `json:"tick"`

	Position  mgl32.Vec3 `json:"position"`
	Velocity  mgl32.Vec3 `json:"velocity"`
	Speed     float32    `json:"speed"`
	Direction mgl32.Vec3 `json:"direction"`
	// VerticalVelocity is the Y of the normalized velocity.
	VerticalVelocity float32    `json:"vertical_velocity"`
	MoveIntent       mgl32.Vec3 `json:"move_intent"`

	SurfaceNormal mgl32.Vec3 `json:"surface_normal"`
	SurfacePoint  mgl32.Vec3 `json:"surface_point"`
	Distance      float32    `json:"-"`

	Grounded    bool   `json:"grounded"`
	Running     bool   `json:"running"`
	Skiing      bool   `json:"skiing"`
	UpJetting   bool   `json:"up_jetting"`
	DownJetting bool   `json:"down_jetting"`
	Mode        string `json:"mode"`

	Energy float32 `json:"energy"`
}

// MarshalJSON encodes an unknown distance as null.
func (t Telemetry) MarshalJSON() ([]byte, error) {
	type plain Telemetry
	out := struct {
		plain
		Distance *float32 `json:"distance"`
	}{plain: plain(t)}
	if !math.IsInf(float64(t.Distance), 0) && !math.IsNaN(float64(t.Distance)) {
		d := t.Distance
		out.Distance = &d
	}
	return json.Marshal(out)
}

// TelemetryMessage satisfies engo.Message so telemetry can ride the engo
// mailbox.
type TelemetryMessage struct {
	Telemetry
}

func (TelemetryMessage) Type() string { return "TelemetryMessage" }

type TelemetrySink interface {
	Publish(Telemetry)
}

type TelemetrySinkFunc func(Telemetry)

func (f TelemetrySinkFunc) Publish(t Telemetry) { f(t) }
