package gpu

import (
	"image"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meadow/grassrt/rt/core"
)

// WgpuProgram is a render pipeline.
type WgpuProgram struct {
	Name     string
	Pipeline *wgpu.RenderPipeline
}

func (p *WgpuProgram) Label() string { return p.Name }

// WgpuMesh holds an uploaded vertex/index pair.
type WgpuMesh struct {
	Name       string
	VertexBuf  *wgpu.Buffer
	IndexBuf   *wgpu.Buffer
	indexCount uint32
}

func (m *WgpuMesh) Label() string      { return m.Name }
func (m *WgpuMesh) IndexCount() uint32 { return m.indexCount }

func (m *WgpuMesh) Release() {
	if m.VertexBuf != nil {
		m.VertexBuf.Release()
	}
	if m.IndexBuf != nil {
		m.IndexBuf.Release()
	}
}

// NewWgpuMesh uploads a quad mesh.
func NewWgpuMesh(device *wgpu.Device, name string, mesh core.QuadMesh) (*WgpuMesh, error) {
	vertexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Vertices[0])), len(mesh.Vertices)*core.MeshVertexSize)
	vertexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name + " Vertex Buffer",
		Contents: vertexBytes,
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}

	// Index data is padded to 4 bytes.
	indices := mesh.Indices
	if len(indices)%2 != 0 {
		indices = append(append([]uint16{}, indices...), 0)
	}
	indexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name + " Index Buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertexBuf.Release()
		return nil, err
	}

	return &WgpuMesh{
		Name:       name,
		VertexBuf:  vertexBuf,
		IndexBuf:   indexBuf,
		indexCount: mesh.IndexCount(),
	}, nil
}

// MeshVertexLayout describes core.MeshVertex to a pipeline.
func MeshVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: core.MeshVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// WgpuMaterial binds a texture and its sampler in MaterialGroup.
type WgpuMaterial struct {
	Name      string
	Texture   *wgpu.Texture
	View      *wgpu.TextureView
	BindGroup *wgpu.BindGroup
}

func (m *WgpuMaterial) Label() string { return m.Name }

func (m *WgpuMaterial) Release() {
	if m.BindGroup != nil {
		m.BindGroup.Release()
	}
	if m.View != nil {
		m.View.Release()
	}
	if m.Texture != nil {
		m.Texture.Release()
	}
}

// NewWgpuMaterial uploads img as an RGBA8 texture and binds it with sampler.
func NewWgpuMaterial(device *wgpu.Device, layout *wgpu.BindGroupLayout, name string, img *image.RGBA, sampler *wgpu.Sampler) (*WgpuMaterial, error) {
	w, h := uint32(img.Bounds().Dx()), uint32(img.Bounds().Dy())
	extent := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         name + " Texture",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	err = device.GetQueue().WriteTexture(
		tex.AsImageCopy(),
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: h,
		},
		&extent,
	)
	if err != nil {
		tex.Release()
		return nil, err
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  name + " Material",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return &WgpuMaterial{Name: name, Texture: tex, View: view, BindGroup: bg}, nil
}

// WgpuUniforms holds the three uniform blocks and their bind group.
type WgpuUniforms struct {
	Name      string
	FrameBuf  *wgpu.Buffer
	DrawBuf   *wgpu.Buffer
	WindBuf   *wgpu.Buffer
	BindGroup *wgpu.BindGroup
}

func (u *WgpuUniforms) Label() string { return u.Name }

func NewWgpuUniforms(device *wgpu.Device, layout *wgpu.BindGroupLayout, name string) (*WgpuUniforms, error) {
	u := &WgpuUniforms{Name: name}

	create := func(label string, size uint64) (*wgpu.Buffer, error) {
		return device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name + " " + label,
			Size:  size,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
	}

	var err error
	if u.FrameBuf, err = create("PerFrame", core.FrameUniformSize); err != nil {
		return nil, err
	}
	if u.DrawBuf, err = create("PerDraw", core.DrawUniformSize); err != nil {
		u.Release()
		return nil, err
	}
	if u.WindBuf, err = create("PerWind", core.WindUniformSize); err != nil {
		u.Release()
		return nil, err
	}

	u.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  name + " Uniforms",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: u.FrameBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: u.DrawBuf, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: u.WindBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		u.Release()
		return nil, err
	}
	return u, nil
}

// Write pushes the blocks through the queue.
func (u *WgpuUniforms) Write(queue *wgpu.Queue, frame core.FrameUniform, draw core.DrawUniform, wind core.WindUniform) error {
	if err := queue.WriteBuffer(u.FrameBuf, 0, frame.Bytes()); err != nil {
		return err
	}
	if err := queue.WriteBuffer(u.DrawBuf, 0, draw.Bytes()); err != nil {
		return err
	}
	return queue.WriteBuffer(u.WindBuf, 0, wind.Bytes())
}

func (u *WgpuUniforms) Release() {
	if u.BindGroup != nil {
		u.BindGroup.Release()
	}
	for _, b := range []*wgpu.Buffer{u.FrameBuf, u.DrawBuf, u.WindBuf} {
		if b != nil {
			b.Release()
		}
	}
}

// Layouts are the explicit bind group layouts shared by both programs.
type Layouts struct {
	Uniforms  *wgpu.BindGroupLayout
	Material  *wgpu.BindGroupLayout
	Instances *wgpu.BindGroupLayout
}

func NewLayouts(device *wgpu.Device) (*Layouts, error) {
	uniforms, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, core.FrameUniformSize),
			uniformEntry(1, core.DrawUniformSize),
			uniformEntry(2, core.WindUniformSize),
		},
	})
	if err != nil {
		return nil, err
	}

	material, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Material Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		uniforms.Release()
		return nil, err
	}

	instances, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Instance Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: core.InstanceRecordSize,
				},
			},
		},
	})
	if err != nil {
		material.Release()
		uniforms.Release()
		return nil, err
	}

	return &Layouts{Uniforms: uniforms, Material: material, Instances: instances}, nil
}

func uniformEntry(binding uint32, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

func (l *Layouts) Release() {
	l.Instances.Release()
	l.Material.Release()
	l.Uniforms.Release()
}
