package gpu

import (
	"errors"
	"fmt"

	"github.com/gekko3d/meadow/grassrt/rt/core"
)

var (
	ErrNoBuffer     = errors.New("instance buffer not created")
	ErrFieldBusy    = errors.New("instance field is regenerating")
	ErrOverCapacity = errors.New("instance field exceeds buffer capacity")
)

// UploadStats counts frame uploads.
type UploadStats struct {
	Uploads int
	Skipped int
	Resizes int
}

// StreamingBufferManager owns the instance buffer and its view and streams the
// field's GPU records into it once per frame. Nothing else maps or destroys them.
type StreamingBufferManager struct {
	Device Device
	Label  string
	Logger core.Logger

	buffer   Buffer
	view     ResourceView
	capacity int
	stats    UploadStats
}

func NewStreamingBufferManager(device Device, logger core.Logger) *StreamingBufferManager {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &StreamingBufferManager{
		Device: device,
		Label:  "GrassInstances",
		Logger: logger,
	}
}

// Create allocates a buffer for count instances plus its view, replacing any
// previous pair.
func (m *StreamingBufferManager) Create(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: instance buffer for %d instances", core.ErrInvalidParameter, count)
	}
	m.Release()

	size := uint64(count) * core.InstanceRecordSize
	buf, err := m.Device.CreateInstanceBuffer(m.Label, size)
	if err != nil {
		return fmt.Errorf("%w: create %d byte buffer: %w", core.ErrDeviceResourceExhausted, size, err)
	}
	view, err := m.Device.CreateInstanceView(buf)
	if err != nil {
		buf.Destroy()
		return fmt.Errorf("%w: create instance view: %w", core.ErrDeviceResourceExhausted, err)
	}

	m.buffer = buf
	m.view = view
	m.capacity = count
	m.Logger.Debugf("instance buffer created: %d instances, %d bytes", count, size)
	return nil
}

// Resize recreates buffer and view together when newCount differs from the
// current capacity. On failure the manager holds neither.
func (m *StreamingBufferManager) Resize(newCount int) error {
	if m.buffer != nil && newCount == m.capacity {
		return nil
	}
	if err := m.Create(newCount); err != nil {
		return err
	}
	m.stats.Resizes++
	return nil
}

// Upload copies the field's GPU records into the buffer.
//
// A map failure is wrapped in core.ErrTransientMapFailure and leaves the buffer
// with its last contents; the caller skips the frame and retries next frame.
func (m *StreamingBufferManager) Upload(field *core.InstanceField) error {
	if m.buffer == nil {
		return ErrNoBuffer
	}
	if !field.CanUpdate() {
		return ErrFieldBusy
	}
	if field.Count() > m.capacity {
		return fmt.Errorf("%w: %d > %d", ErrOverCapacity, field.Count(), m.capacity)
	}

	mapped, err := m.Buffer().Map()
	if err != nil {
		m.stats.Skipped++
		m.Logger.Debugf("instance upload skipped: %v", err)
		if errors.Is(err, core.ErrTransientMapFailure) {
			return err
		}
		return fmt.Errorf("%w: %w", core.ErrTransientMapFailure, err)
	}

	records := field.GPURecords()
	need := len(records) * core.InstanceRecordSize
	if len(mapped) < need {
		_ = m.buffer.Unmap()
		return fmt.Errorf("%w: mapped %d bytes, need %d", ErrOverCapacity, len(mapped), need)
	}
	core.EncodeInstances(mapped, records)

	if err := m.buffer.Unmap(); err != nil {
		m.stats.Skipped++
		if errors.Is(err, core.ErrTransientMapFailure) {
			return err
		}
		return fmt.Errorf("%w: unmap: %w", core.ErrTransientMapFailure, err)
	}
	m.stats.Uploads++
	return nil
}

func (m *StreamingBufferManager) Buffer() Buffer     { return m.buffer }
func (m *StreamingBufferManager) View() ResourceView { return m.view }
func (m *StreamingBufferManager) Capacity() int      { return m.capacity }
func (m *StreamingBufferManager) Stats() UploadStats { return m.stats }

// Release destroys the view and the buffer.
func (m *StreamingBufferManager) Release() {
	if m.view != nil {
		m.view.Release()
		m.view = nil
	}
	if m.buffer != nil {
		m.buffer.Destroy()
		m.buffer = nil
	}
	m.capacity = 0
}
