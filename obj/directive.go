// Package obj parses Wavefront OBJ documents and assembles them into
// renderer-ready indexed triangle meshes, grouped by object/group name
// and material.
package obj

import "github.com/go-gl/mathgl/mgl64"

// Directive is one semantic unit parsed from a single OBJ line.
// The set of implementations is closed.
type Directive interface {
	directive()
}

// Vertex is a "v" line: a vertex position.
type Vertex struct {
	Position mgl64.Vec3
}

// VertexTexture is a "vt" line: a texture coordinate. A third value on
// the line is accepted and discarded.
type VertexTexture struct {
	UV mgl64.Vec2
}

// VertexNormal is a "vn" line. The normal is unit length; normalization
// happens at parse time, never later.
type VertexNormal struct {
	Normal mgl64.Vec3
}

// Face is an "f" line with 3 or 4 corners.
type Face struct {
	Spec FaceSpec
}

// Line is an "l" polyline: two or more 1-based position indices.
type Line struct {
	Indices []int
}

// ObjectName is an "o" line.
type ObjectName struct {
	Name string
}

// GroupName is a "g" line. A bare "g" yields the empty string.
type GroupName struct {
	Name string
}

// SmoothingGroup is an "s" line. Recognized but semantically unused:
// no smoothing-group normal recalculation is performed.
type SmoothingGroup struct {
	Name string
}

// MaterialLib is an "mtllib" line. Recognized but never followed; the
// core does no filesystem access.
type MaterialLib struct {
	Name string
}

// UseMaterial is a "usemtl" line.
type UseMaterial struct {
	Name string
}

func (Vertex) directive()         {}
func (VertexTexture) directive()  {}
func (VertexNormal) directive()   {}
func (Face) directive()           {}
func (Line) directive()           {}
func (ObjectName) directive()     {}
func (GroupName) directive()      {}
func (SmoothingGroup) directive() {}
func (MaterialLib) directive()    {}
func (UseMaterial) directive()    {}

// Corner is one vertex reference within a face. Indices are 1-based
// into the cumulative position/texcoord/normal tables. Tex is 0 for
// the untextured "i//k" corner form.
type Corner struct {
	Pos  int
	Tex  int
	Norm int
}

// FaceSpec holds the corners of one face directive. Corners has length
// 3 or 4 and all corners share one form: position//normal when
// Textured is false, position/texcoord/normal when true.
type FaceSpec struct {
	Textured bool
	Corners  []Corner
}
