package gpu

import "fmt"

// InstanceViewSlot is the shader-visible slot the instance view is bound to.
const InstanceViewSlot = 2

// DrawCall describes one instanced grass draw.
type DrawCall struct {
	Program   Program
	Mesh      Mesh
	Material  Material
	Uniforms  UniformSet
	Instances ResourceView
	Count     int
}

// FloorCall describes the non-instanced floor draw.
type FloorCall struct {
	Program  Program
	Mesh     Mesh
	Material Material
	Uniforms UniformSet
}

// RenderSubmitter binds the grass state and issues the draw. It keeps no state
// between calls.
type RenderSubmitter struct{}

// Draw issues one indexed, instanced draw of Count instances.
func (RenderSubmitter) Draw(pass RenderPass, call DrawCall) error {
	if call.Count <= 0 {
		return nil
	}
	if call.Instances == nil {
		return ErrNoBuffer
	}
	if err := bindCommon(pass, call.Program, call.Uniforms, call.Material); err != nil {
		return err
	}
	if err := pass.SetInstanceView(InstanceViewSlot, call.Instances); err != nil {
		return fmt.Errorf("bind instance view: %w", err)
	}
	if err := pass.SetMesh(call.Mesh); err != nil {
		return fmt.Errorf("bind mesh %s: %w", call.Mesh.Label(), err)
	}
	return pass.DrawIndexedInstanced(call.Mesh.IndexCount(), uint32(call.Count))
}

// DrawFloor issues the single floor draw using the per-draw block.
func (RenderSubmitter) DrawFloor(pass RenderPass, call FloorCall) error {
	if err := bindCommon(pass, call.Program, call.Uniforms, call.Material); err != nil {
		return err
	}
	if err := pass.SetMesh(call.Mesh); err != nil {
		return fmt.Errorf("bind mesh %s: %w", call.Mesh.Label(), err)
	}
	return pass.DrawIndexedInstanced(call.Mesh.IndexCount(), 1)
}

func bindCommon(pass RenderPass, p Program, u UniformSet, m Material) error {
	if err := pass.SetProgram(p); err != nil {
		return fmt.Errorf("bind program %s: %w", p.Label(), err)
	}
	if err := pass.SetUniforms(u); err != nil {
		return fmt.Errorf("bind uniforms %s: %w", u.Label(), err)
	}
	if err := pass.SetMaterial(m); err != nil {
		return fmt.Errorf("bind material %s: %w", m.Label(), err)
	}
	return nil
}
