package shaders

import (
	_ "embed"
)

//go:embed grass.wgsl
var GrassWGSL string

//go:embed floor.wgsl
var FloorWGSL string

//go:embed overlay.wgsl
var OverlayWGSL string
