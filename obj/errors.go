package obj

import (
	"fmt"
	"strings"
)

// ParseError describes a line that matched none of the grammar
// alternatives or contained a malformed token. It carries enough
// context for a caller to render its own diagnostic; Error keeps the
// formatting plain.
type ParseError struct {
	Line     int      // 1-based line number, 0 when a bare line was parsed
	Column   int      // 1-based byte column of the offending token
	Src      string   // the offending source line
	Expected []string // token classes or directives that were tried
	Found    string   // the offending token, empty at end of line
}

func (e *ParseError) Error() string {
	found := "end of line"
	if e.Found != "" {
		found = fmt.Sprintf("%q", e.Found)
	}
	want := strings.Join(e.Expected, " or ")
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: expected %s, found %s", e.Line, e.Column, want, found)
	}
	return fmt.Sprintf("column %d: expected %s, found %s", e.Column, want, found)
}

// UnsupportedError reports a face corner that is valid OBJ syntax but
// lacks a normal index ("i" or "i/j" forms). The assembler requires
// precomputed normals, so these fail up front instead of producing
// degenerate geometry.
type UnsupportedError struct {
	Line   int
	Column int
	Corner string
}

func (e *UnsupportedError) Error() string {
	msg := fmt.Sprintf("face corner %q has no precomputed normal: only i//k and i/j/k corners are supported", e.Corner)
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, msg)
	}
	return fmt.Sprintf("column %d: %s", e.Column, msg)
}

// IndexError reports a face or polyline index referencing an attribute
// slot that does not exist yet. Forward references are invalid OBJ.
type IndexError struct {
	Attr  string // "position", "texcoord" or "normal"
	Index int    // the 1-based source index
	Count int    // entries in the table when the reference was made
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range: only %d declared so far", e.Attr, e.Index, e.Count)
}

// KindError reports a face whose attribute variant conflicts with the
// variant already established for the current (group, material) mesh.
type KindError struct {
	Group    string
	Material string
	Have     MeshKind
	Want     MeshKind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("mesh %q/%q is %s but face requires %s", e.Group, e.Material, e.Have, e.Want)
}
