package superski

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTunables is the cause of every validation failure.
var ErrInvalidTunables = errors.New("invalid tunables")

// ResistCurve is a linear resistance band: full force below ResistSpeed,
// falling to zero at MaxSpeed.
type ResistCurve struct {
	ResistSpeed float32 `yaml:"resist_speed"`
	MaxSpeed    float32 `yaml:"max_speed"`
}

// AxisResist shapes the summed self-propulsion on one axis. Resistance grows
// with ((speed-ResistSpeed)/(MaxSpeed-ResistSpeed))^Exponent and never removes
// more than MaxResistance of the thrust.
type AxisResist struct {
	ResistSpeed   float32 `yaml:"resist_speed"`
	MaxSpeed      float32 `yaml:"max_speed"`
	Exponent      float32 `yaml:"exponent"`
	MaxResistance float32 `yaml:"max_resistance"`
}

type EnergyTunables struct {
	Max          float32 `yaml:"max"`
	AirRegen     float32 `yaml:"air_regen"`
	GroundRegen  float32 `yaml:"ground_regen"`
	RegenFactor  float32 `yaml:"regen_factor"`
	UpJetDrain   float32 `yaml:"up_jet_drain"`
	DownJetDrain float32 `yaml:"down_jet_drain"`
	SkiDrain     float32 `yaml:"ski_drain"`
	Epsilon      float32 `yaml:"epsilon"`
}

type SurfaceTunables struct {
	GroundedDistance float32 `yaml:"grounded_distance"`
	// GroundedRetain is how long (seconds) grounded survives after the body
	// leaves GroundedDistance.
	GroundedRetain float32 `yaml:"grounded_retain"`
	BreakawaySpeed float32 `yaml:"breakaway_speed"`
	// SlopeLimit in degrees from world-up; steeper hits are never ground.
	SlopeLimit    float32 `yaml:"slope_limit"`
	ProbeCount    int     `yaml:"probe_count"`
	ProbeReach    float32 `yaml:"probe_reach"`
	FallbackReach float32 `yaml:"fallback_reach"`
	NormalEpsilon float32 `yaml:"normal_epsilon"`
	LayerMask     uint32  `yaml:"layer_mask"`
}

// Tunables holds every constant of one body type. Speeds are m/s,
// accelerations m/s², angles degrees, times seconds.
type Tunables struct {
	Mass             float32 `yaml:"mass"`
	Gravity          float32 `yaml:"gravity"`
	Drag             float32 `yaml:"drag"`
	AirCushionDrag   float32 `yaml:"air_cushion_drag"`
	AirCushionHeight float32 `yaml:"air_cushion_height"`

	LookSpeed float32 `yaml:"look_speed"`
	LookLimit float32 `yaml:"look_limit"`

	RunForce           float32     `yaml:"run_force"`
	Run                ResistCurve `yaml:"run"`
	AirControlFraction float32     `yaml:"air_control_fraction"`
	AirControl         ResistCurve `yaml:"air_control"`

	JumpImpulse         float32 `yaml:"jump_impulse"`
	MinJumpSpeed        float32 `yaml:"min_jump_speed"`
	MaxJumpSpeed        float32 `yaml:"max_jump_speed"`
	JumpNormalBlend     float32 `yaml:"jump_normal_blend"`
	MaxJumpSurfaceAngle float32 `yaml:"max_jump_surface_angle"`

	HoverHeight    float32 `yaml:"hover_height"`
	HoverOvershoot float32 `yaml:"hover_overshoot"`
	DownhillBoost  float32 `yaml:"downhill_boost"`
	UphillScale    float32 `yaml:"uphill_scale"`

	SkiStrength float32     `yaml:"ski_strength"`
	Ski         ResistCurve `yaml:"ski"`

	UpJetStrength     float32     `yaml:"up_jet_strength"`
	UpJet             ResistCurve `yaml:"up_jet"`
	DownJetStrength   float32     `yaml:"down_jet_strength"`
	DownJet           ResistCurve `yaml:"down_jet"`
	JetLateralCeiling float32     `yaml:"jet_lateral_ceiling"`
	KickStartSpeed    float32     `yaml:"kick_start_speed"`
	KickStartBoost    float32     `yaml:"kick_start_boost"`

	HorizontalResist AxisResist `yaml:"horizontal_resist"`
	VerticalResist   AxisResist `yaml:"vertical_resist"`

	HorizontalCeiling float32 `yaml:"horizontal_ceiling"`
	VerticalCeiling   float32 `yaml:"vertical_ceiling"`
	// HorizontalCapRate and VerticalCapRate are the per-second share of the
	// overshoot removed once speed passes a ceiling.
	HorizontalCapRate float32 `yaml:"horizontal_cap_rate"`
	VerticalCapRate   float32 `yaml:"vertical_cap_rate"`

	Energy  EnergyTunables  `yaml:"energy"`
	Surface SurfaceTunables `yaml:"surface"`
}

func DefaultTunables() Tunables {
	return Tunables{
		Mass:             75,
		Gravity:          9.81,
		Drag:             0.004,
		AirCushionDrag:   0.00275,
		AirCushionHeight: 10,

		LookSpeed: 20,
		LookLimit: 100,

		RunForce:           3000,
		Run:                ResistCurve{ResistSpeed: 18, MaxSpeed: 20},
		AirControlFraction: 0.3,
		AirControl:         ResistCurve{ResistSpeed: 18, MaxSpeed: 20},

		JumpImpulse:         600,
		MinJumpSpeed:        0,
		MaxJumpSpeed:        8,
		JumpNormalBlend:     0.3,
		MaxJumpSurfaceAngle: 50,

		HoverHeight:    0.02,
		HoverOvershoot: 1.1,
		DownhillBoost:  2.0,
		UphillScale:    0.5,

		SkiStrength: 30,
		Ski:         ResistCurve{ResistSpeed: 20, MaxSpeed: 40},

		UpJetStrength:     40,
		UpJet:             ResistCurve{ResistSpeed: 60, MaxSpeed: 120},
		DownJetStrength:   40,
		DownJet:           ResistCurve{ResistSpeed: 60, MaxSpeed: 120},
		JetLateralCeiling: 80,
		KickStartSpeed:    10,
		KickStartBoost:    2,

		HorizontalResist: AxisResist{ResistSpeed: 25, MaxSpeed: 50, Exponent: 1.8, MaxResistance: 0.9},
		VerticalResist:   AxisResist{ResistSpeed: 50, MaxSpeed: 120, Exponent: 1.8, MaxResistance: 0.9},

		HorizontalCeiling: 120,
		VerticalCeiling:   360,
		HorizontalCapRate: 2,
		VerticalCapRate:   2,

		Energy: EnergyTunables{
			Max:          100,
			AirRegen:     6.875,
			GroundRegen:  12.5,
			RegenFactor:  1,
			UpJetDrain:   20,
			DownJetDrain: 20,
			SkiDrain:     5,
			Epsilon:      0.1,
		},
		Surface: SurfaceTunables{
			GroundedDistance: 0.15,
			GroundedRetain:   8.0 / 60.0,
			BreakawaySpeed:   2,
			SlopeLimit:       50,
			ProbeCount:       15,
			ProbeReach:       2,
			FallbackReach:    500,
			NormalEpsilon:    1e-5,
			LayerMask:        LayerTerrain,
		},
	}
}

// RunAcceleration is the run force divided by mass.
func (t *Tunables) RunAcceleration() float32 {
	return t.RunForce / t.Mass
}

// LoadTunables overlays the YAML file at path onto the defaults and validates
// the result.
func LoadTunables(path string) (Tunables, error) {
	t := DefaultTunables()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return t, errors.Wrapf(err, "read tunables %s", path)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, errors.Wrapf(err, "parse tunables %s", path)
	}
	if err := t.Validate(); err != nil {
		return t, errors.Wrapf(err, "tunables %s", path)
	}
	return t, nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidTunables, format, args...)
}

func checkCurve(name string, c ResistCurve) error {
	if c.ResistSpeed >= c.MaxSpeed {
		return invalid("%s: resist speed %.3f must be below max speed %.3f", name, c.ResistSpeed, c.MaxSpeed)
	}
	return nil
}

func checkAxis(name string, a AxisResist) error {
	if err := checkCurve(name, ResistCurve{a.ResistSpeed, a.MaxSpeed}); err != nil {
		return err
	}
	if a.Exponent < 1 {
		return invalid("%s: exponent %.3f must be at least 1", name, a.Exponent)
	}
	if a.MaxResistance < 0 || a.MaxResistance >= 1 {
		return invalid("%s: max resistance %.3f must be in [0,1)", name, a.MaxResistance)
	}
	return nil
}

// Validate rejects tunable sets that would make the resistance model
// degenerate or the integration meaningless.
func (t *Tunables) Validate() error {
	curves := []struct {
		name  string
		curve ResistCurve
	}{
		{"run", t.Run},
		{"air_control", t.AirControl},
		{"ski", t.Ski},
		{"up_jet", t.UpJet},
		{"down_jet", t.DownJet},
		{"jump", ResistCurve{t.MinJumpSpeed, t.MaxJumpSpeed}},
	}
	for _, c := range curves {
		if err := checkCurve(c.name, c.curve); err != nil {
			return err
		}
	}
	if err := checkAxis("horizontal_resist", t.HorizontalResist); err != nil {
		return err
	}
	if err := checkAxis("vertical_resist", t.VerticalResist); err != nil {
		return err
	}

	switch {
	case t.Mass <= 0:
		return invalid("mass %.3f must be positive", t.Mass)
	case t.Gravity < 0:
		return invalid("gravity %.3f must not be negative", t.Gravity)
	case t.HoverHeight <= 0:
		return invalid("hover height %.3f must be positive", t.HoverHeight)
	case t.AirCushionHeight <= 0:
		return invalid("air cushion height %.3f must be positive", t.AirCushionHeight)
	case t.Energy.Max <= 0:
		return invalid("max energy %.3f must be positive", t.Energy.Max)
	case t.Energy.Epsilon < 0:
		return invalid("energy epsilon %.3f must not be negative", t.Energy.Epsilon)
	case t.Surface.SlopeLimit <= 0 || t.Surface.SlopeLimit >= 90:
		return invalid("slope limit %.3f must be in (0,90)", t.Surface.SlopeLimit)
	case t.Surface.ProbeCount < 2:
		return invalid("probe count %d must be at least 2", t.Surface.ProbeCount)
	case t.Surface.GroundedRetain < 0:
		return invalid("grounded retain %.3f must not be negative", t.Surface.GroundedRetain)
	case t.HorizontalCeiling <= 0 || t.VerticalCeiling <= 0:
		return invalid("velocity ceilings must be positive")
	case t.HorizontalCapRate < 0:
		return invalid("horizontal cap rate %.3f must not be negative", t.HorizontalCapRate)
	case t.VerticalCapRate < 0:
		return invalid("vertical cap rate %.3f must not be negative", t.VerticalCapRate)
	}
	return nil
}
