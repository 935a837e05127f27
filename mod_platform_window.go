package meadow

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState is the shared GLFW window. Renderers attach their surface to it.
type WindowState struct {
	Window *glfw.Window
	Width  int
	Height int
	Title  string
}

// PlatformWindowModule provides the single WindowState resource. Install is a
// no-op when one already exists. It must run on the main OS thread.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); ok {
		return
	}
	cmd.AddResources(createWindowState(m.Width, m.Height, m.Title))
	cmd.OnShutdown(func() {
		if ws, ok := Resource[WindowState](app); ok {
			ws.Window.Destroy()
		}
		glfw.Terminate()
	})
}

func createWindowState(width, height int, title string) *WindowState {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Meadow"
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		panic(err)
	}
	return &WindowState{Window: win, Width: width, Height: height, Title: title}
}

// windowState returns the installed window, opening one with defaults if needed.
func windowState(app *App, cmd *Commands) *WindowState {
	PlatformWindowModule{}.Install(app, cmd)
	ws, _ := Resource[WindowState](app)
	return ws
}
