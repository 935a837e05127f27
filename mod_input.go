package meadow

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyB int = iota
	KeyR
	KeyEscape
	KeyF1
	KeyEqual
	KeyMinus
	MouseButtonLeft
	MouseButtonRight
	inputCount
)

var keyToGlfw = map[int]glfw.Key{
	KeyB:      glfw.KeyB,
	KeyR:      glfw.KeyR,
	KeyEscape: glfw.KeyEscape,
	KeyF1:     glfw.KeyF1,
	KeyEqual:  glfw.KeyEqual,
	KeyMinus:  glfw.KeyMinus,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}

// Input is the polled keyboard and mouse state of the current frame.
type Input struct {
	Pressed      [inputCount]bool
	JustPressed  [inputCount]bool
	JustReleased [inputCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	// Scroll accumulates wheel notches since the previous frame.
	Scroll float64

	FramebufferWidth, FramebufferHeight int

	pendingScroll float64
	seenMouse     bool
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	ws := windowState(app, cmd)
	input := &Input{}
	ws.Window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		input.pendingScroll += yoff
	})
	cmd.AddResources(input)
	cmd.UseSystem(System(inputSystem).InStage(PreUpdate).RunAlways())
}

func inputSystem(ws *WindowState, input *Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		input.set(key, ws.Window.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.set(btn, ws.Window.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.moveMouse(ws.Window.GetCursorPos())
	input.Scroll, input.pendingScroll = input.pendingScroll, 0
	input.FramebufferWidth, input.FramebufferHeight = ws.Window.GetFramebufferSize()
}

func (input *Input) set(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

func (input *Input) moveMouse(x, y float64) {
	if input.seenMouse {
		input.MouseDeltaX = x - input.MouseX
		input.MouseDeltaY = y - input.MouseY
	}
	input.MouseX, input.MouseY = x, y
	input.seenMouse = true
}
