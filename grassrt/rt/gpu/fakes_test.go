package gpu

import (
	"errors"
	"fmt"
)

var errMapBusy = errors.New("map busy")

type fakeBuffer struct {
	label     string
	data      []byte
	pending   []byte
	mapped    bool
	destroyed bool
	failMap   bool
	failUnmap bool
}

func (b *fakeBuffer) Size() uint64 { return uint64(len(b.data)) }

func (b *fakeBuffer) Map() ([]byte, error) {
	if b.failMap {
		return nil, errMapBusy
	}
	if b.destroyed {
		return nil, fmt.Errorf("map destroyed buffer %s", b.label)
	}
	b.mapped = true
	// Discard semantics: writes land in fresh memory copied back on Unmap.
	b.pending = make([]byte, len(b.data))
	return b.pending, nil
}

func (b *fakeBuffer) Unmap() error {
	if !b.mapped {
		return errors.New("not mapped")
	}
	b.mapped = false
	if b.failUnmap {
		b.pending = nil
		return errMapBusy
	}
	copy(b.data, b.pending)
	b.pending = nil
	return nil
}

func (b *fakeBuffer) Destroy() { b.destroyed = true }

type fakeView struct {
	buf      *fakeBuffer
	released bool
}

func (v *fakeView) Release() { v.released = true }

type fakeDevice struct {
	buffers      []*fakeBuffer
	views        []*fakeView
	failBuffer   bool
	failView     bool
	maxBytes     uint64
	createdSizes []uint64
}

func (d *fakeDevice) CreateInstanceBuffer(label string, size uint64) (Buffer, error) {
	if d.failBuffer || (d.maxBytes > 0 && size > d.maxBytes) {
		return nil, errors.New("out of memory")
	}
	b := &fakeBuffer{label: label, data: make([]byte, size)}
	d.buffers = append(d.buffers, b)
	d.createdSizes = append(d.createdSizes, size)
	return b, nil
}

func (d *fakeDevice) CreateInstanceView(buf Buffer) (ResourceView, error) {
	if d.failView {
		return nil, errors.New("view failed")
	}
	v := &fakeView{buf: buf.(*fakeBuffer)}
	d.views = append(d.views, v)
	return v, nil
}

func (d *fakeDevice) live() (bufs, views int) {
	for _, b := range d.buffers {
		if !b.destroyed {
			bufs++
		}
	}
	for _, v := range d.views {
		if !v.released {
			views++
		}
	}
	return bufs, views
}

type fakeHandle struct {
	label   string
	indices uint32
}

func (h fakeHandle) Label() string      { return h.label }
func (h fakeHandle) IndexCount() uint32 { return h.indices }

type fakePass struct {
	calls  []string
	slot   uint32
	view   ResourceView
	draws  [][2]uint32
	failOn string
}

func (p *fakePass) record(name string) error {
	p.calls = append(p.calls, name)
	if p.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (p *fakePass) SetProgram(Program) error     { return p.record("program") }
func (p *fakePass) SetUniforms(UniformSet) error { return p.record("uniforms") }
func (p *fakePass) SetMaterial(Material) error   { return p.record("material") }
func (p *fakePass) SetMesh(Mesh) error           { return p.record("mesh") }

func (p *fakePass) SetInstanceView(slot uint32, v ResourceView) error {
	p.slot = slot
	p.view = v
	return p.record("instances")
}

func (p *fakePass) DrawIndexedInstanced(indexCount, instanceCount uint32) error {
	p.draws = append(p.draws, [2]uint32{indexCount, instanceCount})
	return p.record("draw")
}
