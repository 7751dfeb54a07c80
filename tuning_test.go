package superski

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

type fakeMenu struct {
	dev    bool
	labels []string
	sets   []func(float32) error
}

func (m *fakeMenu) AddOption(label string, value, min, max float32, set func(float32) error) {
	m.labels = append(m.labels, label)
	m.sets = append(m.sets, set)
}

func (m *fakeMenu) DevMode() bool { return m.dev }

func TestTuningSetClamps(t *testing.T) {
	tun := DefaultTunables()
	tt := NewTuningTable(&tun)

	if err := tt.Set("ski_strength", 1000); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tun.SkiStrength != 300 {
		t.Errorf("ski strength %f, want clamp to 300", tun.SkiStrength)
	}
	if err := tt.Set("look_speed", -5); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tun.LookSpeed != 0 {
		t.Errorf("look speed %f, want 0", tun.LookSpeed)
	}
}

func TestTuningRollsBackInvalidWrites(t *testing.T) {
	tun := DefaultTunables()
	tt := NewTuningTable(&tun)

	err := tt.Set("ski_max_speed", tun.Ski.ResistSpeed-1)
	if errors.Cause(err) != ErrInvalidTunables {
		t.Fatalf("got %v, want ErrInvalidTunables", err)
	}
	if tun.Ski.MaxSpeed != DefaultTunables().Ski.MaxSpeed {
		t.Errorf("max speed %f not rolled back", tun.Ski.MaxSpeed)
	}
}

func TestTuningUnknownOption(t *testing.T) {
	tun := DefaultTunables()
	if err := NewTuningTable(&tun).Set("warp_factor", 9); err == nil {
		t.Errorf("unknown option accepted")
	}
}

func TestTuningLookup(t *testing.T) {
	tun := DefaultTunables()
	tt := NewTuningTable(&tun)
	opt, ok := tt.Lookup("jump_impulse")
	if !ok {
		t.Fatalf("jump_impulse missing")
	}
	if opt.Get() != tun.JumpImpulse || !opt.Dev {
		t.Errorf("got %+v", opt)
	}
	tun.JumpImpulse = 900
	if opt.Get() != 900 {
		t.Errorf("getter does not read live tunables")
	}
}

func TestTuningRegister(t *testing.T) {
	tun := DefaultTunables()
	tt := NewTuningTable(&tun)

	player := &fakeMenu{}
	if n := tt.Register(player); n != 1 || player.labels[0] != "Horizontal Look" {
		t.Errorf("player menu got %d options: %v", n, player.labels)
	}

	dev := &fakeMenu{dev: true}
	n := tt.Register(dev)
	if n != len(tt.Options()) {
		t.Errorf("dev menu got %d of %d options", n, len(tt.Options()))
	}
	for i, l := range dev.labels {
		if i > 0 && !strings.HasPrefix(l, "dev - ") {
			t.Errorf("dev option %q not prefixed", l)
		}
	}

	if err := dev.sets[1](55); err != nil || tun.SkiStrength != 55 {
		t.Errorf("menu setter: %v, ski strength %f", err, tun.SkiStrength)
	}
}
