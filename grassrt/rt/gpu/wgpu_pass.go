package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// WgpuPass adapts a wgpu render pass encoder to RenderPass.
type WgpuPass struct {
	Encoder *wgpu.RenderPassEncoder
}

func (p *WgpuPass) SetProgram(prog Program) error {
	wp, ok := prog.(*WgpuProgram)
	if !ok || wp.Pipeline == nil {
		return fmt.Errorf("unexpected program %T", prog)
	}
	p.Encoder.SetPipeline(wp.Pipeline)
	return nil
}

func (p *WgpuPass) SetUniforms(u UniformSet) error {
	wu, ok := u.(*WgpuUniforms)
	if !ok || wu.BindGroup == nil {
		return fmt.Errorf("unexpected uniform set %T", u)
	}
	p.Encoder.SetBindGroup(UniformGroup, wu.BindGroup, nil)
	return nil
}

func (p *WgpuPass) SetMaterial(m Material) error {
	wm, ok := m.(*WgpuMaterial)
	if !ok || wm.BindGroup == nil {
		return fmt.Errorf("unexpected material %T", m)
	}
	p.Encoder.SetBindGroup(MaterialGroup, wm.BindGroup, nil)
	return nil
}

func (p *WgpuPass) SetInstanceView(slot uint32, v ResourceView) error {
	wv, ok := v.(*WgpuView)
	if !ok || wv.BindGroup == nil {
		return fmt.Errorf("unexpected instance view %T", v)
	}
	p.Encoder.SetBindGroup(slot, wv.BindGroup, nil)
	return nil
}

func (p *WgpuPass) SetMesh(m Mesh) error {
	wm, ok := m.(*WgpuMesh)
	if !ok || wm.VertexBuf == nil || wm.IndexBuf == nil {
		return fmt.Errorf("unexpected mesh %T", m)
	}
	p.Encoder.SetVertexBuffer(0, wm.VertexBuf, 0, wgpu.WholeSize)
	p.Encoder.SetIndexBuffer(wm.IndexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	return nil
}

func (p *WgpuPass) DrawIndexedInstanced(indexCount, instanceCount uint32) error {
	p.Encoder.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
	return nil
}
