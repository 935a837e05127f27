package core

import "errors"

var (
	// ErrInvalidParameter is returned when a count or radius is out of bounds.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDeviceResourceExhausted is returned when a GPU buffer or view cannot be created.
	ErrDeviceResourceExhausted = errors.New("device resource exhausted")
	// ErrTransientMapFailure is returned when exclusive access to a buffer cannot be
	// obtained for one frame. Callers skip the upload and retry next frame.
	ErrTransientMapFailure = errors.New("transient map failure")
)
