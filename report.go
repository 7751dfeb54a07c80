package superski

import (
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report collects per-tick telemetry for the end of run summary.
type Report struct {
	Speeds   []float64
	Energy   []float64
	Grounded int
	Modes    map[string]int
}

func (r *Report) Add(t Telemetry) {
	if r.Modes == nil {
		r.Modes = map[string]int{}
	}
	r.Speeds = append(r.Speeds, float64(t.Speed))
	r.Energy = append(r.Energy, float64(t.Energy))
	if t.Grounded {
		r.Grounded++
	}
	r.Modes[t.Mode]++
}

func (r *Report) Ticks() int { return len(r.Speeds) }

// Summary returns the aggregate fields logged by Log. It is empty before the
// first tick.
func (r *Report) Summary() log.Fields {
	n := len(r.Speeds)
	if n == 0 {
		return log.Fields{}
	}
	mean, std := stat.MeanStdDev(r.Speeds, nil)
	f := log.Fields{
		"ticks":        n,
		"mean_speed":   mean,
		"speed_stddev": std,
		"max_speed":    floats.Max(r.Speeds),
		"mean_energy":  stat.Mean(r.Energy, nil),
		"min_energy":   floats.Min(r.Energy),
		"grounded":     float64(r.Grounded) / float64(n),
	}
	for mode, count := range r.Modes {
		f["mode."+mode] = float64(count) / float64(n)
	}
	return f
}

func (r *Report) Log() {
	if r.Ticks() == 0 {
		log.Warn("No telemetry recorded")
		return
	}
	log.WithFields(r.Summary()).Info("Run summary")
}
