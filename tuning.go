package superski

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// TuningOption is one live-tunable value.
type TuningOption struct {
	Name  string
	Label string
	// Dev options only show up in a dev-mode menu.
	Dev bool
	Min float32
	Max float32
	Get func() float32
	Set func(float32) error
}

// TuningMenu is the debug/pause menu collaborator.
type TuningMenu interface {
	AddOption(label string, value, min, max float32, set func(float32) error)
	DevMode() bool
}

// TuningTable is the static list of tunables exposed to a menu. It is built
// once; setters clamp to [Min,Max] and roll back writes that fail
// validation.
type TuningTable struct {
	options []TuningOption
	byName  map[string]int
	t       *Tunables
}

type tuningEntry struct {
	name, label string
	dev         bool
	min, max    float32
	field       *float32
}

func NewTuningTable(t *Tunables) *TuningTable {
	tt := &TuningTable{byName: map[string]int{}, t: t}
	entries := []tuningEntry{
		{"look_speed", "Horizontal Look", false, 0, 100, &t.LookSpeed},
		{"ski_strength", "Ski Force", true, 0, 300, &t.SkiStrength},
		{"ski_resist_speed", "Skiing Resist Speed", true, 0, 300, &t.Ski.ResistSpeed},
		{"ski_max_speed", "Skiing Max Speed", true, 0, 300, &t.Ski.MaxSpeed},
		{"up_jet_strength", "Up Jet Force", true, 0, 300, &t.UpJetStrength},
		{"up_jet_resist_speed", "Up Jetting Resist Speed", true, 0, 300, &t.UpJet.ResistSpeed},
		{"up_jet_max_speed", "Up Jetting Max Speed", true, 0, 300, &t.UpJet.MaxSpeed},
		{"down_jet_strength", "Down Jet Force", true, 0, 300, &t.DownJetStrength},
		{"down_jet_resist_speed", "Down Jetting Resist Speed", true, 0, 300, &t.DownJet.ResistSpeed},
		{"down_jet_max_speed", "Down Jetting Max Speed", true, 0, 300, &t.DownJet.MaxSpeed},
		{"up_jet_drain", "Jetting Energy Drain", true, 0, 100, &t.Energy.UpJetDrain},
		{"run_force", "Run Force", true, 0, 10000, &t.RunForce},
		{"run_resist_speed", "Running Resist Speed", true, 0, 50, &t.Run.ResistSpeed},
		{"run_max_speed", "Running Max Speed", true, 0, 50, &t.Run.MaxSpeed},
		{"jump_impulse", "Jump Force", true, 0, 3000, &t.JumpImpulse},
		{"air_control_fraction", "Air Control Force", true, 0, 1, &t.AirControlFraction},
		{"air_control_resist_speed", "Air Control Resist Speed", true, 0, 50, &t.AirControl.ResistSpeed},
		{"air_control_max_speed", "Air Control Max Speed", true, 0, 50, &t.AirControl.MaxSpeed},
	}
	for _, e := range entries {
		tt.add(e)
	}
	return tt
}

func (tt *TuningTable) add(e tuningEntry) {
	field := e.field
	opt := TuningOption{
		Name:  e.name,
		Label: e.label,
		Dev:   e.dev,
		Min:   e.min,
		Max:   e.max,
		Get:   func() float32 { return *field },
	}
	opt.Set = func(v float32) error {
		old := *field
		*field = mgl32.Clamp(v, opt.Min, opt.Max)
		if err := tt.t.Validate(); err != nil {
			*field = old
			log.WithField("option", opt.Name).WithError(err).Warn("Rejected tuning write")
			return err
		}
		return nil
	}
	tt.byName[e.name] = len(tt.options)
	tt.options = append(tt.options, opt)
}

func (tt *TuningTable) Options() []TuningOption {
	return tt.options
}

func (tt *TuningTable) Lookup(name string) (TuningOption, bool) {
	i, ok := tt.byName[name]
	if !ok {
		return TuningOption{}, false
	}
	return tt.options[i], true
}

// Set writes the named option.
func (tt *TuningTable) Set(name string, v float32) error {
	opt, ok := tt.Lookup(name)
	if !ok {
		return errors.Errorf("unknown tunable %q", name)
	}
	return opt.Set(v)
}

// Register adds the options to menu. Dev options are prefixed and skipped
// outside dev mode.
func (tt *TuningTable) Register(menu TuningMenu) int {
	n := 0
	for _, opt := range tt.options {
		label := opt.Label
		if opt.Dev {
			if !menu.DevMode() {
				continue
			}
			label = "dev - " + label
		}
		menu.AddOption(label, opt.Get(), opt.Min, opt.Max, opt.Set)
		n++
	}
	return n
}
