package main

import (
	"flag"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/meadow"
	"github.com/gekko3d/meadow/grassrt/rt/app"
	"github.com/gekko3d/meadow/grassrt/rt/core"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Show the debug overlay")
	count := flag.Int("count", core.MaxInstances, "Number of grass blades")
	radius := flag.Float64("radius", 5, "Radius of the grass disk")
	flag.Parse()

	settings := core.DefaultSettings()
	settings.GrassCount = *count
	settings.CircleRadius = float32(*radius)
	if err := settings.Validate(); err != nil {
		panic(err)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "GrassRT Go", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, core.NewSettingsStage(settings), meadow.NewDefaultLogger("grassrt", *debug))
	application.DebugMode = *debug
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Release()
	application.BindWindow(window)

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
}
