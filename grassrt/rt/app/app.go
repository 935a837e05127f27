package app

import (
	"fmt"
	"math/rand"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/meadow/grassrt/rt/core"
	"github.com/gekko3d/meadow/grassrt/rt/gpu"
	"github.com/gekko3d/meadow/grassrt/rt/shaders"
)

const (
	depthFormat = wgpu.TextureFormatDepth24Plus

	bladeQuadSize = 1
	floorQuadSize = 1500
)

var clearColor = wgpu.Color{R: 0.45, G: 0.62, B: 0.85, A: 1}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Layouts       *gpu.Layouts
	Backend       *gpu.WgpuDevice
	GrassProgram  *gpu.WgpuProgram
	FloorProgram  *gpu.WgpuProgram
	BladeMesh     *gpu.WgpuMesh
	FloorMesh     *gpu.WgpuMesh
	BladeMaterial *gpu.WgpuMaterial
	FloorMaterial *gpu.WgpuMaterial
	GrassUniforms *gpu.WgpuUniforms
	FloorUniforms *gpu.WgpuUniforms
	Sampler       *wgpu.Sampler
	DepthTexture  *wgpu.Texture
	DepthView     *wgpu.TextureView
	Overlay       *Overlay

	Field     *Field
	Submitter gpu.RenderSubmitter

	Stage  *core.SettingsStage
	Seed   int64
	Logger core.Logger

	DebugMode bool

	dragging     bool
	lastX, lastY float64

	LastRenderTime float64
	FrameCount     int
	FPS            float64
	FPSTime        float64
}

func NewApp(window *glfw.Window, stage *core.SettingsStage, logger core.Logger) *App {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	if stage == nil {
		stage = core.NewSettingsStage(core.DefaultSettings())
	}
	return &App{
		Window: window,
		Stage:  stage,
		Seed:   1,
		Logger: logger,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if a.Layouts, err = gpu.NewLayouts(a.Device); err != nil {
		return fmt.Errorf("bind group layouts: %w", err)
	}
	a.Backend = gpu.NewWgpuDevice(a.Device, a.Layouts.Instances)

	a.Field, err = NewField(a.Backend, a.Stage, rand.New(rand.NewSource(a.Seed)), a.Logger)
	if err != nil {
		return err
	}

	if err := a.setupPrograms(); err != nil {
		return err
	}
	if err := a.setupResources(); err != nil {
		return err
	}
	a.setupDepth(width, height)

	a.Overlay, err = NewOverlay(a.Device, a.Config.Format, a.Sampler)
	if err != nil {
		a.Logger.Warnf("debug overlay disabled: %v", err)
	}

	a.Logger.Infof("grass runtime ready: %d blades, %dx%d", a.Field.Instances.Count(), width, height)
	return nil
}

func (a *App) setupPrograms() error {
	var err error
	a.GrassProgram, err = a.createProgram("Grass", shaders.GrassWGSL,
		a.Layouts.Uniforms, a.Layouts.Material, a.Layouts.Instances)
	if err != nil {
		return err
	}
	a.FloorProgram, err = a.createProgram("Floor", shaders.FloorWGSL,
		a.Layouts.Uniforms, a.Layouts.Material)
	return err
}

// Blades and the floor are flat quads seen from both sides, so nothing is culled.
func (a *App) createProgram(name, code string, layouts ...*wgpu.BindGroupLayout) (*gpu.WgpuProgram, error) {
	mod, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", name, err)
	}
	defer mod.Release()

	layout, err := a.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            name + " Pipeline Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline layout: %w", name, err)
	}
	defer layout.Release()

	pipeline, err := a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  name + " Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     mod,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{gpu.MeshVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     mod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthState(true),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", name, err)
	}
	return &gpu.WgpuProgram{Name: name, Pipeline: pipeline}, nil
}

func depthState(write bool) *wgpu.DepthStencilState {
	compare := wgpu.CompareFunctionLess
	if !write {
		compare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

func (a *App) setupResources() error {
	var err error
	a.Sampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	if a.BladeMesh, err = gpu.NewWgpuMesh(a.Device, "Blade", core.NewQuadXY(bladeQuadSize)); err != nil {
		return fmt.Errorf("blade mesh: %w", err)
	}
	if a.FloorMesh, err = gpu.NewWgpuMesh(a.Device, "Floor", core.NewQuadXY(floorQuadSize)); err != nil {
		return fmt.Errorf("floor mesh: %w", err)
	}

	a.BladeMaterial, err = gpu.NewWgpuMaterial(a.Device, a.Layouts.Material, "Blade", BladeTexture(64, 256), a.Sampler)
	if err != nil {
		return fmt.Errorf("blade material: %w", err)
	}
	a.FloorMaterial, err = gpu.NewWgpuMaterial(a.Device, a.Layouts.Material, "Floor", FloorTexture(64, a.Seed), a.Sampler)
	if err != nil {
		return fmt.Errorf("floor material: %w", err)
	}

	if a.GrassUniforms, err = gpu.NewWgpuUniforms(a.Device, a.Layouts.Uniforms, "Grass"); err != nil {
		return fmt.Errorf("grass uniforms: %w", err)
	}
	if a.FloorUniforms, err = gpu.NewWgpuUniforms(a.Device, a.Layouts.Uniforms, "Floor"); err != nil {
		return fmt.Errorf("floor uniforms: %w", err)
	}
	return nil
}

func (a *App) setupDepth(w, h int) {
	if w == 0 || h == 0 {
		return
	}
	if a.DepthView != nil {
		a.DepthView.Release()
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
	}

	var err error
	a.DepthTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	a.DepthView, err = a.DepthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		a.setupDepth(w, h)
	}
}

func (a *App) aspect() float32 {
	if a.Config.Height == 0 {
		return 1
	}
	return float32(a.Config.Width) / float32(a.Config.Height)
}

// Update runs the CPU frame and writes the uniform blocks.
func (a *App) Update() {
	a.Field.Profiler.BeginScope("update")
	defer a.Field.Profiler.EndScope("update")

	if err := a.Field.Step(); err != nil {
		a.Logger.Errorf("grass frame: %v", err)
		if a.Field.Streaming.Buffer() == nil {
			a.recoverInstanceBuffer()
		}
	}

	frame, floor, wind := a.Field.Uniforms(a.aspect())
	if err := a.GrassUniforms.Write(a.Queue, frame, core.DrawUniform{MVP: frame.Projection.Mul4(frame.View)}, wind); err != nil {
		a.Logger.Errorf("grass uniforms: %v", err)
	}
	if err := a.FloorUniforms.Write(a.Queue, frame, floor, wind); err != nil {
		a.Logger.Errorf("floor uniforms: %v", err)
	}

	if a.DebugMode && a.Overlay != nil {
		text := fmt.Sprintf("FPS %.1f  %s\n%s", a.FPS, a.Field.Status(), a.Field.Profiler.Stats())
		lines := []core.OverlayLine{{Text: text, X: 10, Y: 10, Color: [4]float32{1, 1, 0.2, 1}}}
		if err := a.Overlay.SetText(lines, int(a.Config.Width), int(a.Config.Height)); err != nil {
			a.Logger.Warnf("overlay: %v", err)
		}
	}
}

// recoverInstanceBuffer retries the allocation after a failed resize so the
// next frame can draw again.
func (a *App) recoverInstanceBuffer() {
	if err := a.Field.Streaming.Create(a.Field.Instances.Count()); err != nil {
		a.Logger.Errorf("instance buffer: %v", err)
	}
}

func (a *App) Render() {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	a.Field.Profiler.BeginScope("render")
	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass := &gpu.WgpuPass{Encoder: rPass}

	err = a.Submitter.DrawFloor(pass, gpu.FloorCall{
		Program:  a.FloorProgram,
		Mesh:     a.FloorMesh,
		Material: a.FloorMaterial,
		Uniforms: a.FloorUniforms,
	})
	if err != nil {
		a.Logger.Errorf("floor draw: %v", err)
	}

	if instances := a.Field.Streaming.View(); instances != nil {
		err = a.Submitter.Draw(pass, gpu.DrawCall{
			Program:   a.GrassProgram,
			Mesh:      a.BladeMesh,
			Material:  a.BladeMaterial,
			Uniforms:  a.GrassUniforms,
			Instances: instances,
			Count:     a.Field.Instances.Count(),
		})
		if err != nil {
			a.Logger.Errorf("grass draw: %v", err)
		}
	}

	if a.DebugMode && a.Overlay != nil {
		a.Overlay.Draw(rPass)
	}

	if err := rPass.End(); err != nil {
		a.Logger.Errorf("render pass End failed: %v", err)
	}
	a.Field.Profiler.EndScope("render")

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Logger.Errorf("encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

func (a *App) Release() {
	if a.Overlay != nil {
		a.Overlay.Release()
	}
	if a.Field != nil {
		a.Field.Release()
	}
	for _, u := range []*gpu.WgpuUniforms{a.GrassUniforms, a.FloorUniforms} {
		if u != nil {
			u.Release()
		}
	}
	for _, m := range []*gpu.WgpuMaterial{a.BladeMaterial, a.FloorMaterial} {
		if m != nil {
			m.Release()
		}
	}
	for _, m := range []*gpu.WgpuMesh{a.BladeMesh, a.FloorMesh} {
		if m != nil {
			m.Release()
		}
	}
	for _, p := range []*gpu.WgpuProgram{a.GrassProgram, a.FloorProgram} {
		if p != nil && p.Pipeline != nil {
			p.Pipeline.Release()
		}
	}
	if a.DepthView != nil {
		a.DepthView.Release()
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
	}
	if a.Sampler != nil {
		a.Sampler.Release()
	}
	if a.Layouts != nil {
		a.Layouts.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}
