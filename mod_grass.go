package meadow

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/meadow/grassrt/rt/app"
	"github.com/gekko3d/meadow/grassrt/rt/core"
)

// GrassRtModule drives the grass runtime from the frame loop: input in
// Update before the simulation step, drawing in Render. It attaches to the
// WindowState and Input resources, installing them when missing, and must be
// installed from the main OS thread.
type GrassRtModule struct {
	Width  int
	Height int
	Title  string
	Debug  bool
	Seed   int64
}

// GrassRuntime is the resource holding the runtime.
type GrassRuntime struct {
	App *app.App

	width, height int
}

func (m GrassRtModule) Install(a *App, cmd *Commands) {
	logger := a.Logger()
	stage := settingsStage(a, cmd)

	PlatformWindowModule{Width: m.Width, Height: m.Height, Title: m.Title}.Install(a, cmd)
	ws, _ := Resource[WindowState](a)
	if _, ok := Resource[Input](a); !ok {
		InputModule{}.Install(a, cmd)
	}

	rt := app.NewApp(ws.Window, stage, logger)
	rt.DebugMode = m.Debug
	if m.Seed != 0 {
		rt.Seed = m.Seed
	}
	if err := rt.Init(); err != nil {
		panic(err)
	}
	width, height := ws.Window.GetFramebufferSize()

	cmd.AddResources(&GrassRuntime{App: rt, width: width, height: height})
	cmd.UseSystem(System(grassInputSystem).InStage(Update))
	cmd.UseSystem(System(grassUpdateSystem).InStage(Update))
	cmd.UseSystem(System(grassRenderSystem).InStage(Render))
	cmd.OnShutdown(rt.Release)
}

// grassActionKeys are forwarded to the runtime's key handler on press.
var grassActionKeys = [...]int{KeyR, KeyB, KeyF1}

func grassInputSystem(ws *WindowState, input *Input, rt *GrassRuntime, cmd *Commands) {
	if ws.Window.ShouldClose() || input.JustPressed[KeyEscape] {
		cmd.Quit()
		return
	}

	if input.FramebufferWidth != rt.width || input.FramebufferHeight != rt.height {
		rt.width, rt.height = input.FramebufferWidth, input.FramebufferHeight
		rt.App.Resize(rt.width, rt.height)
	}

	for _, key := range grassActionKeys {
		if input.JustPressed[key] {
			rt.App.HandleKey(keyToGlfw[key], glfw.Press)
		}
	}

	switch {
	case input.JustPressed[MouseButtonLeft]:
		rt.App.HandleMouseButton(glfw.MouseButtonLeft, glfw.Press, input.MouseX, input.MouseY)
	case input.JustReleased[MouseButtonLeft]:
		rt.App.HandleMouseButton(glfw.MouseButtonLeft, glfw.Release, input.MouseX, input.MouseY)
	default:
		rt.App.HandleCursor(input.MouseX, input.MouseY)
	}

	// Keyboard zoom mirrors one wheel notch.
	scroll := input.Scroll
	if input.JustPressed[KeyEqual] {
		scroll++
	}
	if input.JustPressed[KeyMinus] {
		scroll--
	}
	if scroll != 0 {
		rt.App.HandleScroll(scroll)
	}
}

func grassUpdateSystem(rt *GrassRuntime) {
	rt.App.Update()
}

func grassRenderSystem(rt *GrassRuntime) {
	rt.App.Render()
}

// settingsStage returns the staged settings installed by SettingsModule,
// installing defaults when there are none.
func settingsStage(a *App, cmd *Commands) *core.SettingsStage {
	if stage, ok := Resource[core.SettingsStage](a); ok {
		return stage
	}
	stage := core.NewSettingsStage(core.DefaultSettings())
	cmd.AddResources(stage)
	return stage
}
