package core

// MeshVertex matches the vertex layout of both grass.wgsl and floor.wgsl.
type MeshVertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// MeshVertexSize is the stride of MeshVertex in bytes.
const MeshVertexSize = 32

// QuadMesh is an indexed mesh.
type QuadMesh struct {
	Vertices []MeshVertex
	Indices  []uint16
}

// NewQuadXY builds a centered quad of the given edge length in the XY plane facing +Z.
func NewQuadXY(size float32) QuadMesh {
	h := size / 2
	y0, y1 := -h, h
	n := [3]float32{0, 0, 1}
	return QuadMesh{
		Vertices: []MeshVertex{
			{Position: [3]float32{-h, y0, 0}, Normal: n, UV: [2]float32{0, 1}},
			{Position: [3]float32{h, y0, 0}, Normal: n, UV: [2]float32{1, 1}},
			{Position: [3]float32{h, y1, 0}, Normal: n, UV: [2]float32{1, 0}},
			{Position: [3]float32{-h, y1, 0}, Normal: n, UV: [2]float32{0, 0}},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

func (m QuadMesh) IndexCount() uint32 { return uint32(len(m.Indices)) }
