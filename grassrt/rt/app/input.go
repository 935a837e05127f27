package app

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// HandleKey maps R to regenerate, B to the billboard toggle and F1 to the debug overlay.
func (a *App) HandleKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyR:
		a.Field.Stage.RequestRegenerate()
	case glfw.KeyB:
		a.Field.Billboard = !a.Field.Billboard
		a.Logger.Infof("billboarding %v", a.Field.Billboard)
	case glfw.KeyF1:
		a.DebugMode = !a.DebugMode
	}
}

// HandleMouseButton starts and stops an orbit drag with the left button.
func (a *App) HandleMouseButton(button glfw.MouseButton, action glfw.Action, x, y float64) {
	if button != glfw.MouseButtonLeft {
		return
	}
	a.dragging = action == glfw.Press
	a.lastX, a.lastY = x, y
}

// HandleCursor orbits the camera while dragging.
func (a *App) HandleCursor(x, y float64) {
	if !a.dragging {
		return
	}
	cam := a.Field.Camera
	dx, dy := float32(x-a.lastX), float32(y-a.lastY)
	a.lastX, a.lastY = x, y
	cam.Orbit(-dx*cam.Sensitivity, dy*cam.Sensitivity)
}

// HandleScroll zooms one step per notch; scrolling up moves closer.
func (a *App) HandleScroll(yoff float64) {
	cam := a.Field.Camera
	cam.Zoom(float32(math.Pow(float64(cam.ZoomSpeed), -yoff)))
}

// BindWindow routes the window's resize and input callbacks to the app.
// Escape closes the window.
func (a *App) BindWindow(w *glfw.Window) {
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		a.Resize(width, height)
	})
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		a.HandleKey(key, action)
	})
	w.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		a.HandleMouseButton(button, action, x, y)
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		a.HandleCursor(x, y)
	})
	w.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		a.HandleScroll(yoff)
	})
}
