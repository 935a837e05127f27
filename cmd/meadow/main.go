package main

import (
	"flag"
	"runtime"

	"github.com/gekko3d/meadow"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	config := flag.String("config", "", "YAML settings file")
	debug := flag.Bool("debug", false, "Show the debug overlay and verbose logs")
	tune := flag.String("tune", "", "Serve the tuning websocket on this address, e.g. :8090")
	seed := flag.Int64("seed", 0, "Random seed for the grass field (0 keeps the default)")
	flag.Parse()

	builder := meadow.NewAppBuilder().
		UseModule(
			meadow.LoggingModule{Prefix: "meadow", Debug: *debug},
			meadow.TimeModule{},
			meadow.SettingsModule{Path: *config},
		)
	if *tune != "" {
		builder.UseModule(meadow.TuningModule{Addr: *tune})
	}
	builder.UseModule(
		meadow.PlatformWindowModule{Width: 1280, Height: 720, Title: "Meadow"},
		meadow.InputModule{},
		meadow.GrassRtModule{Debug: *debug, Seed: *seed},
	)

	builder.Build().Run()
}
