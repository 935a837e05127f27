package app

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meadow/grassrt/rt/core"
	"github.com/gekko3d/meadow/grassrt/rt/shaders"
)

// Overlay draws the debug text on top of the scene.
type Overlay struct {
	Font *core.OverlayFont

	Pipeline    *wgpu.RenderPipeline
	AtlasTex    *wgpu.Texture
	AtlasView   *wgpu.TextureView
	BindGroup   *wgpu.BindGroup
	VertexBuf   *wgpu.Buffer
	VertexCount uint32

	device *wgpu.Device
	queue  *wgpu.Queue
}

func NewOverlay(device *wgpu.Device, format wgpu.TextureFormat, sampler *wgpu.Sampler) (*Overlay, error) {
	font, err := core.NewOverlayFont(14)
	if err != nil {
		return nil, err
	}
	o := &Overlay{Font: font, device: device, queue: device.GetQueue()}

	w, h := uint32(font.Atlas.Bounds().Dx()), uint32(font.Atlas.Bounds().Dy())
	extent := wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	o.AtlasTex, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Overlay Atlas",
		Size:          extent,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	err = o.queue.WriteTexture(o.AtlasTex.AsImageCopy(), font.Atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(font.Atlas.Stride),
		RowsPerImage: h,
	}, &extent)
	if err != nil {
		o.Release()
		return nil, err
	}
	if o.AtlasView, err = o.AtlasTex.CreateView(nil); err != nil {
		o.Release()
		return nil, err
	}

	mod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Overlay Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.OverlayWGSL},
	})
	if err != nil {
		o.Release()
		return nil, err
	}
	defer mod.Release()

	o.Pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Overlay Pipeline",
		Vertex: wgpu.VertexState{
			Module:     mod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: core.OverlayVertexSize,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     mod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		DepthStencil: depthState(false),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		o.Release()
		return nil, err
	}

	o.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Overlay Bind Group",
		Layout: o.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: o.AtlasView},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		o.Release()
		return nil, err
	}
	return o, nil
}

// SetText lays out lines and streams the vertices, growing the buffer as needed.
func (o *Overlay) SetText(lines []core.OverlayLine, screenW, screenH int) error {
	vertices := o.Font.Build(lines, screenW, screenH)
	o.VertexCount = uint32(len(vertices))
	if len(vertices) == 0 {
		return nil
	}

	size := uint64(len(vertices) * core.OverlayVertexSize)
	if o.VertexBuf == nil || o.VertexBuf.GetSize() < size {
		if o.VertexBuf != nil {
			o.VertexBuf.Release()
		}
		var err error
		o.VertexBuf, err = o.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Overlay VB",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			o.VertexBuf = nil
			o.VertexCount = 0
			return err
		}
	}
	return o.queue.WriteBuffer(o.VertexBuf, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size))
}

func (o *Overlay) Draw(pass *wgpu.RenderPassEncoder) {
	if o.VertexCount == 0 || o.VertexBuf == nil {
		return
	}
	pass.SetPipeline(o.Pipeline)
	pass.SetBindGroup(0, o.BindGroup, nil)
	pass.SetVertexBuffer(0, o.VertexBuf, 0, wgpu.WholeSize)
	pass.Draw(o.VertexCount, 1, 0, 0)
}

func (o *Overlay) Release() {
	if o.BindGroup != nil {
		o.BindGroup.Release()
	}
	if o.Pipeline != nil {
		o.Pipeline.Release()
	}
	if o.VertexBuf != nil {
		o.VertexBuf.Release()
	}
	if o.AtlasView != nil {
		o.AtlasView.Release()
	}
	if o.AtlasTex != nil {
		o.AtlasTex.Release()
	}
}
