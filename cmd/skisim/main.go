package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/ScottBrooks/superski"
	colorable "github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
)

func main() {
	tunablesPath := flag.String("tunables", "", "YAML file overlaid on the default tunables")
	duration := flag.Duration("duration", 30*time.Second, "how long to run before printing the summary")
	listen := flag.String("listen", "", "serve telemetry websockets on this address, e.g. :8080")
	seed := flag.Int64("seed", time.Now().Unix(), "bot input seed")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(colorable.NewColorableStdout())
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	t := superski.DefaultTunables()
	if *tunablesPath != "" {
		var err error
		t, err = superski.LoadTunables(*tunablesPath)
		if err != nil {
			log.WithError(err).Fatal("Unable to load tunables")
		}
	}

	ss := SimScene{
		Tunables: t,
		Duration: float32(duration.Seconds()),
		Seed:     *seed,
	}
	if *listen != "" {
		ss.Hub = superski.NewTelemetryHub()
		go func() {
			log.WithField("addr", *listen).Info("Serving telemetry")
			if err := http.ListenAndServe(*listen, ss.Hub.Router()); err != nil {
				log.WithError(err).Error("Telemetry server stopped")
			}
		}()
	}

	opts := engo.RunOptions{
		Title:        "SuperSki",
		HeadlessMode: true,
		FPSLimit:     60,
	}
	engo.Run(opts, &ss)
}
