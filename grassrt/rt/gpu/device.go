package gpu

// Buffer is a GPU-visible, CPU-writable buffer.
type Buffer interface {
	Size() uint64
	// Map grants exclusive write access with discard semantics: the returned
	// memory does not hold the previous contents and must be fully rewritten.
	Map() ([]byte, error)
	Unmap() error
	Destroy()
}

// ResourceView is a read-only, shader-visible view over a Buffer.
type ResourceView interface {
	Release()
}

// Device creates instance buffers and their views.
type Device interface {
	CreateInstanceBuffer(label string, size uint64) (Buffer, error)
	CreateInstanceView(buf Buffer) (ResourceView, error)
}

// Handles consumed by the render submitter. Backends type-assert them back to
// their concrete resources.
type (
	Program interface {
		Label() string
	}
	Mesh interface {
		Label() string
		IndexCount() uint32
	}
	// Material carries a texture together with the sampler that reads it.
	Material interface {
		Label() string
	}
	// UniformSet carries the per-frame, per-draw and per-wind blocks.
	UniformSet interface {
		Label() string
	}
)

// RenderPass is the draw-submission surface of a backend.
type RenderPass interface {
	SetProgram(p Program) error
	// SetUniforms binds the blocks to both the vertex and fragment stages.
	SetUniforms(u UniformSet) error
	SetMaterial(m Material) error
	SetInstanceView(slot uint32, v ResourceView) error
	SetMesh(m Mesh) error
	DrawIndexedInstanced(indexCount, instanceCount uint32) error
}
