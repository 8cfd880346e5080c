package obj

import "github.com/go-gl/mathgl/mgl64"

// DefaultName is the group and material name in effect until an
// o/g/usemtl directive overrides it.
const DefaultName = "__default__"

// Config controls assembly. When WithTangents is set, textured faces
// build tangent-bearing meshes; otherwise the texture path skips
// tangent computation entirely.
type Config struct {
	WithTangents bool
}

// vertexKey dedups corners of textured and tangent meshes.
type vertexKey struct {
	pos, tex, norm int
}

// plainKey dedups corners of untextured meshes.
type plainKey struct {
	pos, norm int
}

// meshBuilder is the in-progress mesh for one (group, material) pair.
// Output vertex indices are append-ordered from 0; the dedup map for
// the active kind guarantees one vertex per distinct source-index key.
type meshBuilder struct {
	kind     MeshKind
	vertices []MeshVertex
	tris     [][3]int
	plain    map[plainKey]int
	textured map[vertexKey]int
	// Tangent/bitangent accumulators, parallel to vertices. Only used
	// for KindTangent; reduced to MeshVertex.Tangent when the mesh seals.
	sdir []mgl64.Vec3
	tdir []mgl64.Vec3
}

func newMeshBuilder(kind MeshKind) *meshBuilder {
	b := &meshBuilder{kind: kind}
	if kind == KindPlain {
		b.plain = make(map[plainKey]int)
	} else {
		b.textured = make(map[vertexKey]int)
	}
	return b
}

func (b *meshBuilder) finish(lines []Polyline) *Mesh {
	if b.kind == KindTangent {
		b.finalizeTangents()
	}
	return &Mesh{Kind: b.kind, Vertices: b.vertices, Triangles: b.tris, Lines: lines}
}

// compileState is the running fold state for one compile. It is owned
// exclusively by that compile; concurrent compiles share nothing.
type compileState struct {
	cfg       Config
	positions []mgl64.Vec3
	texcoords []mgl64.Vec2
	normals   []mgl64.Vec3
	group     string
	material  string
	mesh      *meshBuilder
	lines     []Polyline
	groups    Groups
}

func newCompileState(cfg Config) *compileState {
	return &compileState{
		cfg:      cfg,
		group:    DefaultName,
		material: DefaultName,
		groups:   make(Groups),
	}
}

// Compile folds an ordered directive sequence into grouped meshes.
// A referential or variant error aborts the whole compile; no partial
// result is returned.
func Compile(cfg Config, directives []Directive) (Groups, error) {
	st := newCompileState(cfg)
	for _, d := range directives {
		if err := st.apply(d); err != nil {
			return nil, err
		}
	}
	st.seal(true)
	return st.groups, nil
}

func (st *compileState) apply(d Directive) error {
	switch d := d.(type) {
	case Vertex:
		st.positions = append(st.positions, d.Position)
	case VertexTexture:
		st.texcoords = append(st.texcoords, d.UV)
	case VertexNormal:
		st.normals = append(st.normals, d.Normal)
	case ObjectName:
		st.seal(false)
		st.group = d.Name
	case GroupName:
		st.seal(false)
		st.group = d.Name
	case UseMaterial:
		st.seal(false)
		st.material = d.Name
	case SmoothingGroup, MaterialLib:
		// Recognized, no semantic effect.
	case Line:
		return st.polyline(d.Indices)
	case Face:
		return st.face(d.Spec)
	}
	return nil
}

// seal moves the in-progress mesh into the output map under the
// current group and material. Mid-document it is a no-op when nothing
// is open; the final seal always emits, so an empty document still
// yields the default group/material pair.
func (st *compileState) seal(final bool) {
	if st.mesh == nil && len(st.lines) == 0 && !final {
		return
	}
	b := st.mesh
	if b == nil {
		b = newMeshBuilder(KindPlain)
	}
	mats := st.groups[st.group]
	if mats == nil {
		mats = make(map[string]*Mesh)
		st.groups[st.group] = mats
	}
	mats[st.material] = b.finish(st.lines)
	st.mesh = nil
	st.lines = nil
}

// polyline resolves an "l" directive against the cumulative position
// table. Polylines ride alongside the face pipeline and seal into
// whichever mesh the current group/material ends up with.
func (st *compileState) polyline(indices []int) error {
	pts := make([]mgl64.Vec3, len(indices))
	for i, n := range indices {
		p, err := st.position(n)
		if err != nil {
			return err
		}
		pts[i] = p
	}
	st.lines = append(st.lines, Polyline{Start: pts[0], End: pts[1], Rest: pts[2:]})
	return nil
}

func (st *compileState) face(spec FaceSpec) error {
	kind := KindPlain
	if spec.Textured {
		kind = KindTextured
		if st.cfg.WithTangents {
			kind = KindTangent
		}
	}
	if st.mesh == nil {
		st.mesh = newMeshBuilder(kind)
	} else if st.mesh.kind != kind {
		return &KindError{Group: st.group, Material: st.material, Have: st.mesh.kind, Want: kind}
	}
	for _, tri := range triangulate(spec.Corners) {
		if err := st.triangle(tri); err != nil {
			return err
		}
	}
	return nil
}

// triangulate fans a quad (a,b,c,d) on the a-c diagonal into (a,b,c)
// and (d,a,c). OBJ quads are assumed planar and convex; there is no
// ear clipping.
func triangulate(c []Corner) [][3]Corner {
	if len(c) == 3 {
		return [][3]Corner{{c[0], c[1], c[2]}}
	}
	return [][3]Corner{
		{c[0], c[1], c[2]},
		{c[3], c[0], c[2]},
	}
}

func (st *compileState) triangle(tri [3]Corner) error {
	var sdir, tdir mgl64.Vec3
	if st.mesh.kind == KindTangent {
		var err error
		sdir, tdir, err = st.tangentDirs(tri)
		if err != nil {
			return err
		}
	}
	var idx [3]int
	for i, c := range tri {
		vi, err := st.getOrInsert(c, sdir, tdir)
		if err != nil {
			return err
		}
		idx[i] = vi
	}
	// Triangle indices are stored in reversed corner order; downstream
	// consumers expect this winding.
	st.mesh.tris = append(st.mesh.tris, [3]int{idx[2], idx[1], idx[0]})
	return nil
}

// getOrInsert resolves one corner to an output vertex index, reusing
// an existing vertex when the corner's index key was seen before. On a
// tangent-mesh cache hit the triangle's tangent contribution is
// accumulated into the existing vertex, smoothing tangents across
// shared corners.
func (st *compileState) getOrInsert(c Corner, sdir, tdir mgl64.Vec3) (int, error) {
	b := st.mesh
	if b.kind == KindPlain {
		key := plainKey{pos: c.Pos, norm: c.Norm}
		if vi, ok := b.plain[key]; ok {
			return vi, nil
		}
		pos, err := st.position(c.Pos)
		if err != nil {
			return 0, err
		}
		norm, err := st.normal(c.Norm)
		if err != nil {
			return 0, err
		}
		vi := len(b.vertices)
		b.vertices = append(b.vertices, MeshVertex{Position: pos, Normal: norm})
		b.plain[key] = vi
		return vi, nil
	}

	key := vertexKey{pos: c.Pos, tex: c.Tex, norm: c.Norm}
	if vi, ok := b.textured[key]; ok {
		if b.kind == KindTangent {
			b.sdir[vi] = b.sdir[vi].Add(sdir)
			b.tdir[vi] = b.tdir[vi].Add(tdir)
		}
		return vi, nil
	}
	pos, err := st.position(c.Pos)
	if err != nil {
		return 0, err
	}
	uv, err := st.texcoord(c.Tex)
	if err != nil {
		return 0, err
	}
	norm, err := st.normal(c.Norm)
	if err != nil {
		return 0, err
	}
	vi := len(b.vertices)
	b.vertices = append(b.vertices, MeshVertex{Position: pos, Normal: norm, UV: uv})
	if b.kind == KindTangent {
		b.sdir = append(b.sdir, sdir)
		b.tdir = append(b.tdir, tdir)
	}
	b.textured[key] = vi
	return vi, nil
}

func (st *compileState) position(i int) (mgl64.Vec3, error) {
	if i < 1 || i > len(st.positions) {
		return mgl64.Vec3{}, &IndexError{Attr: "position", Index: i, Count: len(st.positions)}
	}
	return st.positions[i-1], nil
}

func (st *compileState) texcoord(i int) (mgl64.Vec2, error) {
	if i < 1 || i > len(st.texcoords) {
		return mgl64.Vec2{}, &IndexError{Attr: "texcoord", Index: i, Count: len(st.texcoords)}
	}
	return st.texcoords[i-1], nil
}

func (st *compileState) normal(i int) (mgl64.Vec3, error) {
	if i < 1 || i > len(st.normals) {
		return mgl64.Vec3{}, &IndexError{Attr: "normal", Index: i, Count: len(st.normals)}
	}
	return st.normals[i-1], nil
}
