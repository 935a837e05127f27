package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/meadow/grassrt/rt/core"
)

// Bind group slots shared by grass.wgsl and floor.wgsl.
const (
	UniformGroup  = 0
	MaterialGroup = 1
)

// WgpuDevice implements Device on top of a wgpu device. Instance buffers are
// storage buffers written through the queue, which never waits on in-flight
// reads of the previous contents.
type WgpuDevice struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	InstanceLayout *wgpu.BindGroupLayout
}

func NewWgpuDevice(device *wgpu.Device, instanceLayout *wgpu.BindGroupLayout) *WgpuDevice {
	return &WgpuDevice{
		Device:         device,
		Queue:          device.GetQueue(),
		InstanceLayout: instanceLayout,
	}
}

type wgpuBuffer struct {
	queue     *wgpu.Queue
	buf       *wgpu.Buffer
	staging   []byte
	mapped    bool
	destroyed bool
}

func (d *WgpuDevice) CreateInstanceBuffer(label string, size uint64) (Buffer, error) {
	// Storage bindings must be a multiple of 4 bytes; records are 80 bytes so this holds.
	buf, err := d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{
		queue:   d.Queue,
		buf:     buf,
		staging: make([]byte, size),
	}, nil
}

func (d *WgpuDevice) CreateInstanceView(b Buffer) (ResourceView, error) {
	wb, ok := b.(*wgpuBuffer)
	if !ok || wb.destroyed {
		return nil, fmt.Errorf("instance view needs a live wgpu buffer, got %T", b)
	}
	if d.InstanceLayout == nil {
		return nil, fmt.Errorf("instance bind group layout not set")
	}
	bg, err := d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Grass Instance View",
		Layout: d.InstanceLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: wb.buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, err
	}
	return &WgpuView{BindGroup: bg}, nil
}

func (b *wgpuBuffer) Size() uint64 { return uint64(len(b.staging)) }

func (b *wgpuBuffer) Map() ([]byte, error) {
	if b.destroyed {
		return nil, fmt.Errorf("%w: buffer destroyed", core.ErrTransientMapFailure)
	}
	if b.mapped {
		return nil, fmt.Errorf("%w: buffer already mapped", core.ErrTransientMapFailure)
	}
	b.mapped = true
	return b.staging, nil
}

func (b *wgpuBuffer) Unmap() error {
	if !b.mapped {
		return fmt.Errorf("%w: buffer not mapped", core.ErrTransientMapFailure)
	}
	b.mapped = false
	if err := b.queue.WriteBuffer(b.buf, 0, b.staging); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransientMapFailure, err)
	}
	return nil
}

func (b *wgpuBuffer) Destroy() {
	if b.destroyed {
		return
	}
	b.buf.Release()
	b.staging = nil
	b.destroyed = true
}

// WgpuView is the bind group exposing an instance buffer to the vertex stage.
type WgpuView struct {
	BindGroup *wgpu.BindGroup
}

func (v *WgpuView) Release() {
	if v.BindGroup != nil {
		v.BindGroup.Release()
		v.BindGroup = nil
	}
}
