package obj

import "github.com/go-gl/mathgl/mgl64"

// MeshKind selects which vertex attributes a mesh carries. The kind is
// fixed by the first face of a (group, material) pair; a later face of
// a different kind in the same mesh is a semantic error.
type MeshKind int

const (
	// KindPlain carries position and normal.
	KindPlain MeshKind = iota
	// KindTextured adds a texture coordinate.
	KindTextured
	// KindTangent adds a texture coordinate and a 4-component tangent.
	KindTangent
)

func (k MeshKind) String() string {
	switch k {
	case KindPlain:
		return "position+normal"
	case KindTextured:
		return "position+normal+texcoord"
	case KindTangent:
		return "position+normal+texcoord+tangent"
	}
	return "unknown"
}

// MeshVertex holds all vertex attributes. Fields beyond the mesh's kind
// stay zero: UV is meaningful for KindTextured and KindTangent,
// Tangent only for KindTangent.
type MeshVertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	UV       mgl64.Vec2
	Tangent  mgl64.Vec4 // xyz tangent, w handedness sign
}

// Polyline is a resolved "l" directive: at least two points, with any
// points past the second in Rest.
type Polyline struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
	Rest  []mgl64.Vec3
}

// Mesh is the immutable output for one (group, material) pair:
// deduplicated vertices, triangle index triples, and polylines.
type Mesh struct {
	Kind      MeshKind
	Vertices  []MeshVertex
	Triangles [][3]int
	Lines     []Polyline
}

// Groups is the compile result: group name to material name to mesh.
type Groups map[string]map[string]*Mesh

// VertexCount returns the number of deduplicated vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Bounds returns the axis-aligned bounding box of the mesh vertices.
// Both are zero for an empty mesh.
func (m *Mesh) Bounds() (bmin, bmax mgl64.Vec3) {
	if len(m.Vertices) == 0 {
		return bmin, bmax
	}
	bmin = m.Vertices[0].Position
	bmax = bmin
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			bmin[i] = min(bmin[i], v.Position[i])
			bmax[i] = max(bmax[i], v.Position[i])
		}
	}
	return bmin, bmax
}
