package core

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// OverlayVertex is one corner of a glyph quad in clip space.
type OverlayVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// OverlayVertexSize is the stride of OverlayVertex in bytes.
const OverlayVertexSize = 32

// OverlayLine is a block of text anchored at a pixel position, top-left origin.
type OverlayLine struct {
	Text  string
	X, Y  float32
	Color [4]float32
}

type glyph struct {
	uvMin, uvMax [2]float32
	size, off    [2]float32
	adv          float32
}

// OverlayFont is a printable-ASCII atlas rasterized from the bundled Go Mono face.
type OverlayFont struct {
	Atlas  *image.Alpha
	glyphs map[rune]glyph
	face   font.Face
}

const overlayAtlasSize = 256

func NewOverlayFont(size float64) (*OverlayFont, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse overlay font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay face: %w", err)
	}

	atlas := image.NewAlpha(image.Rect(0, 0, overlayAtlasSize, overlayAtlasSize))
	glyphs := make(map[rune]glyph)
	x, y, rowHeight := 1, 1, 0

	for r := rune(32); r < 127; r++ {
		bounds, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := bounds.Dx(), bounds.Dy()
		if x+w >= overlayAtlasSize {
			x = 1
			y += rowHeight + 2
			rowHeight = 0
		}
		if y+h >= overlayAtlasSize {
			return nil, fmt.Errorf("overlay atlas full at %q for size %v", r, size)
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)
		glyphs[r] = glyph{
			uvMin: [2]float32{float32(x) / overlayAtlasSize, float32(y) / overlayAtlasSize},
			uvMax: [2]float32{float32(x+w) / overlayAtlasSize, float32(y+h) / overlayAtlasSize},
			size:  [2]float32{float32(w), float32(h)},
			off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			adv:   float32(adv) / 64,
		}

		x += w + 2
		if h > rowHeight {
			rowHeight = h
		}
	}

	return &OverlayFont{Atlas: atlas, glyphs: glyphs, face: face}, nil
}

// LineHeight is the pixel distance between baselines.
func (f *OverlayFont) LineHeight() float32 {
	return float32(f.face.Metrics().Height.Ceil())
}

// Build lays out lines for a screen of the given pixel size. Glyphs without
// coverage, like space, only advance the pen.
func (f *OverlayFont) Build(lines []OverlayLine, screenW, screenH int) []OverlayVertex {
	if screenW <= 0 || screenH <= 0 {
		return nil
	}
	sw, sh := float32(screenW), float32(screenH)
	ascent := float32(f.face.Metrics().Ascent.Ceil())
	lineHeight := f.LineHeight()

	out := make([]OverlayVertex, 0, 64*6)
	for _, line := range lines {
		penX, penY := line.X, line.Y+ascent
		for _, r := range line.Text {
			if r == '\n' {
				penX = line.X
				penY += lineHeight
				continue
			}
			g, ok := f.glyphs[r]
			if !ok {
				continue
			}
			if g.size[0] > 0 && g.size[1] > 0 {
				x0 := (penX+g.off[0])/sw*2 - 1
				y0 := 1 - (penY+g.off[1])/sh*2
				x1 := (penX+g.off[0]+g.size[0])/sw*2 - 1
				y1 := 1 - (penY+g.off[1]+g.size[1])/sh*2

				tl := OverlayVertex{Pos: [2]float32{x0, y0}, UV: g.uvMin, Color: line.Color}
				tr := OverlayVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: line.Color}
				bl := OverlayVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: line.Color}
				br := OverlayVertex{Pos: [2]float32{x1, y1}, UV: g.uvMax, Color: line.Color}
				out = append(out, tl, tr, bl, tr, br, bl)
			}
			penX += g.adv
		}
	}
	return out
}
