package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceRecordSize is the byte size of one InstanceGPURecord on the GPU.
// struct GrassInstance { model: mat4x4<f32>; color: vec4<f32>; } -> 80 bytes
const InstanceRecordSize = 80

// InstanceGPURecord matches the WGSL layout in grass.wgsl.
// Model is stored in the backend's column-major order.
type InstanceGPURecord struct {
	Model mgl32.Mat4
	Color mgl32.Vec4
}

// Put writes the record into dst, which must hold InstanceRecordSize bytes.
func (r *InstanceGPURecord) Put(dst []byte) {
	_ = dst[InstanceRecordSize-1]
	for i, v := range r.Model {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
	for i, v := range r.Color {
		binary.LittleEndian.PutUint32(dst[64+i*4:], math.Float32bits(v))
	}
}

// EncodeInstances packs records tightly into dst and returns the number of bytes written.
// dst must be at least len(records)*InstanceRecordSize long.
func EncodeInstances(dst []byte, records []InstanceGPURecord) int {
	for i := range records {
		records[i].Put(dst[i*InstanceRecordSize:])
	}
	return len(records) * InstanceRecordSize
}
