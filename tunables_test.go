package superski

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestDefaultTunablesValid(t *testing.T) {
	tun := DefaultTunables()
	if err := tun.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if got := tun.RunAcceleration(); got != 40 {
		t.Errorf("run acceleration %f, want 40", got)
	}
}

func TestValidateRejects(t *testing.T) {
	var tests = []struct {
		name   string
		mutate func(*Tunables)
	}{
		{"ski curve inverted", func(t *Tunables) { t.Ski.ResistSpeed = t.Ski.MaxSpeed }},
		{"run curve inverted", func(t *Tunables) { t.Run.MaxSpeed = 1 }},
		{"jump speeds inverted", func(t *Tunables) { t.MinJumpSpeed = 10 }},
		{"axis exponent", func(t *Tunables) { t.HorizontalResist.Exponent = 0.5 }},
		{"axis max resistance", func(t *Tunables) { t.VerticalResist.MaxResistance = 1 }},
		{"mass", func(t *Tunables) { t.Mass = 0 }},
		{"gravity", func(t *Tunables) { t.Gravity = -1 }},
		{"hover height", func(t *Tunables) { t.HoverHeight = 0 }},
		{"energy max", func(t *Tunables) { t.Energy.Max = 0 }},
		{"slope limit", func(t *Tunables) { t.Surface.SlopeLimit = 90 }},
		{"probe count", func(t *Tunables) { t.Surface.ProbeCount = 1 }},
		{"retain", func(t *Tunables) { t.Surface.GroundedRetain = -1 }},
		{"ceiling", func(t *Tunables) { t.VerticalCeiling = 0 }},
		{"horizontal cap rate", func(t *Tunables) { t.HorizontalCapRate = -1 }},
		{"vertical cap rate", func(t *Tunables) { t.VerticalCapRate = -1 }},
		{"air cushion height", func(t *Tunables) { t.AirCushionHeight = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tun := DefaultTunables()
			tt.mutate(&tun)
			err := tun.Validate()
			if err == nil {
				t.Fatalf("accepted")
			}
			if errors.Cause(err) != ErrInvalidTunables {
				t.Errorf("cause %v, want ErrInvalidTunables", errors.Cause(err))
			}
		})
	}
}

func writeTunables(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tunables.yaml")
	if err := ioutil.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTunablesOverlaysDefaults(t *testing.T) {
	path := writeTunables(t, `
ski_strength: 45
ski:
  resist_speed: 25
  max_speed: 60
surface:
  probe_count: 9
  slope_limit: 40
energy:
  ground_regen: 20
`)
	tun, err := LoadTunables(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultTunables()
	if tun.SkiStrength != 45 || tun.Ski.ResistSpeed != 25 || tun.Ski.MaxSpeed != 60 {
		t.Errorf("ski not loaded: %v %+v", tun.SkiStrength, tun.Ski)
	}
	if tun.Surface.ProbeCount != 9 || tun.Surface.SlopeLimit != 40 {
		t.Errorf("surface not loaded: %+v", tun.Surface)
	}
	if tun.Surface.GroundedRetain != def.Surface.GroundedRetain {
		t.Errorf("unset surface field lost its default")
	}
	if tun.Energy.GroundRegen != 20 || tun.Energy.AirRegen != def.Energy.AirRegen {
		t.Errorf("energy %+v", tun.Energy)
	}
	if tun.Mass != def.Mass || tun.UpJet != def.UpJet {
		t.Errorf("unset fields changed")
	}
}

func TestLoadTunablesErrors(t *testing.T) {
	if _, err := LoadTunables(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing file accepted")
	}

	_, err := LoadTunables(writeTunables(t, "ski_strength: [nope\n"))
	if err == nil {
		t.Errorf("bad yaml accepted")
	} else if errors.Cause(err) == ErrInvalidTunables {
		t.Errorf("parse error reported as invalid tunables")
	}

	_, err = LoadTunables(writeTunables(t, "ski:\n  resist_speed: 50\n  max_speed: 10\n"))
	if errors.Cause(err) != ErrInvalidTunables {
		t.Errorf("got %v, want ErrInvalidTunables", err)
	}
}
