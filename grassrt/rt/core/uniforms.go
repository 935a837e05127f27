package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform block sizes in bytes.
const (
	FrameUniformSize = 144
	WindUniformSize  = 32
	DrawUniformSize  = 64
)

// FrameTimeStep is how far the shader clock advances every frame.
const FrameTimeStep = 0.001

// FrameUniform is the per-frame block.
//
//	struct FrameData {
//	  proj: mat4x4<f32>;  -- 64
//	  view: mat4x4<f32>;  -- 128
//	  time: f32;          -- 132
//	  _pad: vec3<f32>;    -- 144
//	}
type FrameUniform struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Time       float32
}

// WindUniform is the per-wind block.
//
//	struct WindData {
//	  direction: vec3<f32>; -- 12
//	  strength: f32;        -- 16
//	  phase: f32;           -- 20
//	  _pad: vec3<f32>;      -- 32
//	}
type WindUniform struct {
	Direction mgl32.Vec3
	Strength  float32
	Phase     float32
}

// DrawUniform is the per-draw block used by the floor.
type DrawUniform struct {
	MVP mgl32.Mat4
}

// Matrices are written in mgl32's column-major storage, which is what WGSL expects.
func putMat(buf []byte, offset int, m mgl32.Mat4) {
	for i, v := range m {
		putFloat(buf, offset+i*4, v)
	}
}

func putFloat(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
}

func (u FrameUniform) Bytes() []byte {
	buf := make([]byte, FrameUniformSize)
	putMat(buf, 0, u.Projection)
	putMat(buf, 64, u.View)
	putFloat(buf, 128, u.Time)
	return buf
}

func (u WindUniform) Bytes() []byte {
	buf := make([]byte, WindUniformSize)
	putFloat(buf, 0, u.Direction.X())
	putFloat(buf, 4, u.Direction.Y())
	putFloat(buf, 8, u.Direction.Z())
	putFloat(buf, 12, u.Strength)
	putFloat(buf, 16, u.Phase)
	return buf
}

func (u DrawUniform) Bytes() []byte {
	buf := make([]byte, DrawUniformSize)
	putMat(buf, 0, u.MVP)
	return buf
}

// FloorModel places the floor quad: rotated a quarter turn about X and lowered below the blades.
func FloorModel() mgl32.Mat4 {
	return mgl32.Translate3D(0, -0.9, 0).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(90)))
}
