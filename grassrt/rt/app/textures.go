package app

import (
	"image"
	"image/color"
	"math/rand"

	"golang.org/x/image/vector"
)

// BladeTexture rasterizes a single tapered blade on a transparent background.
// The tip is at the top row, matching the quad's v = 0 edge.
func BladeTexture(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fw, fh := float32(w), float32(h)

	z := vector.NewRasterizer(w, h)
	z.MoveTo(fw*0.28, fh)
	z.QuadTo(fw*0.36, fh*0.45, fw*0.52, 0)
	z.QuadTo(fw*0.62, fh*0.45, fw*0.72, fh)
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 200, G: 230, B: 170, A: 255}), image.Point{})

	// Darker midrib.
	rib := vector.NewRasterizer(w, h)
	rib.MoveTo(fw*0.48, fh)
	rib.QuadTo(fw*0.49, fh*0.5, fw*0.52, fh*0.08)
	rib.QuadTo(fw*0.51, fh*0.5, fw*0.52, fh)
	rib.ClosePath()
	rib.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 150, G: 190, B: 120, A: 255}), image.Point{})

	return img
}

// FloorTexture is a tileable speckled soil pattern.
func FloorTexture(size int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := uint8(rng.Intn(28))
			img.SetRGBA(x, y, color.RGBA{R: 70 + n, G: 52 + n, B: 30 + n/2, A: 255})
		}
	}
	return img
}
