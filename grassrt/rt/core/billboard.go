package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BladeGroundOffset is the height the billboard pivots are placed at.
const BladeGroundOffset = -0.1

const degenerateLenSq = 1e-6

// Billboard returns a row-vector basis (rows X, Y, Z, translation) that turns
// the local quad at object toward cameraPosition.
//
// Z points from the camera to the object; when the two coincide -cameraForward
// is used. X = up × Z, falling back to forward × Z and then to a world axis when
// up is parallel to Z, so the result is always orthonormal.
func Billboard(object, cameraPosition, cameraUp, cameraForward mgl32.Vec3) mgl32.Mat4 {
	z := object.Sub(cameraPosition)
	if z.LenSqr() < degenerateLenSq {
		z = cameraForward.Mul(-1)
		if z.LenSqr() < degenerateLenSq {
			z = mgl32.Vec3{0, 0, -1}
		}
	}
	z = z.Normalize()

	x := cameraUp.Cross(z)
	if x.LenSqr() < degenerateLenSq {
		x = cameraForward.Cross(z)
	}
	if x.LenSqr() < degenerateLenSq {
		axis := mgl32.Vec3{0, 1, 0}
		if abs32(z.Y()) > 0.9 {
			axis = mgl32.Vec3{1, 0, 0}
		}
		x = axis.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl32.Mat4FromRows(
		x.Vec4(0),
		y.Vec4(0),
		z.Vec4(0),
		object.Vec4(1),
	)
}

// BladeModel composes the blade's vertical scale with its billboard and returns
// it in the column-major layout the shaders read.
func BladeModel(p PlacementRecord, cameraPosition, cameraUp, cameraForward mgl32.Vec3) mgl32.Mat4 {
	pivot := mgl32.Vec3{p.Position.X(), BladeGroundOffset, p.Position.Z()}
	rowMajor := mgl32.Scale3D(1, p.Size, 1).Mul4(Billboard(pivot, cameraPosition, cameraUp, cameraForward))
	return rowMajor.Transpose()
}

// RecomputeBillboards refreshes every blade's model matrix for the camera.
// It reports false and leaves the records alone while the field is regenerating.
func RecomputeBillboards(field *InstanceField, cam *CameraState) bool {
	if !field.CanUpdate() {
		return false
	}
	pos, up, fwd := cam.Position, cam.Up, cam.Forward()
	for i := 0; i < field.Count(); i++ {
		field.setModel(i, BladeModel(field.placements[i], pos, up, fwd))
	}
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
