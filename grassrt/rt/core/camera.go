package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is an orbit camera around Target with Y up.
type CameraState struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FovDegrees float32
	Near       float32
	Far        float32

	Sensitivity float32
	ZoomSpeed   float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{15, 11, 7},
		Target:      mgl32.Vec3{0, 0, 0},
		Up:          mgl32.Vec3{0, 1, 0},
		FovDegrees:  60,
		Near:        0.1,
		Far:         500,
		Sensitivity: 0.005,
		ZoomSpeed:   1.1,
	}
}

// Forward is the unit view direction, or -Z when Position sits on Target.
func (c *CameraState) Forward() mgl32.Vec3 {
	f := c.Target.Sub(c.Position)
	if f.LenSqr() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// GetProjectionMatrix maps depth to WebGPU's [0, 1] clip range.
func (c *CameraState) GetProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return depthRemap.Mul4(mgl32.Perspective(mgl32.DegToRad(c.FovDegrees), aspect, c.Near, c.Far))
}

// depthRemap takes GL's [-1, 1] clip depth to [0, 1].
var depthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Orbit rotates the eye around Target by yaw/pitch deltas in radians.
// Pitch stays inside (-89°, 89°) so the view never lines up with Up.
func (c *CameraState) Orbit(dYaw, dPitch float32) {
	offset := c.Position.Sub(c.Target)
	dist := offset.Len()
	if dist == 0 {
		return
	}

	yaw := math.Atan2(float64(offset.X()), float64(offset.Z()))
	pitch := math.Asin(float64(offset.Y() / dist))

	yaw += float64(dYaw)
	pitch += float64(dPitch)
	limit := float64(mgl32.DegToRad(89))
	if pitch > limit {
		pitch = limit
	}
	if pitch < -limit {
		pitch = -limit
	}

	c.Position = c.Target.Add(mgl32.Vec3{
		dist * float32(math.Cos(pitch)*math.Sin(yaw)),
		dist * float32(math.Sin(pitch)),
		dist * float32(math.Cos(pitch)*math.Cos(yaw)),
	})
}

// Zoom scales the eye distance; factor > 1 moves away from Target.
func (c *CameraState) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	offset := c.Position.Sub(c.Target).Mul(factor)
	dist := offset.Len()
	if dist < c.Near*2 || dist > c.Far {
		return
	}
	c.Position = c.Target.Add(offset)
}
