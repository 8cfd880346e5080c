package obj

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// directiveNames lists the grammar alternatives in the order they are
// tried, for error reporting.
var directiveNames = []string{"vt", "vn", "v", "f", "l", "o", "g", "s", "usemtl", "mtllib"}

// token is one whitespace-separated field with its 1-based byte column.
type token struct {
	text string
	col  int
}

// tokenize splits a line on runs of spaces and tabs, keeping columns.
func tokenize(line string) []token {
	var toks []token
	start := -1
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' || line[i] == '\t' {
			if start >= 0 {
				toks = append(toks, token{line[start:i], start + 1})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, token{line[start:], start + 1})
	}
	return toks
}

// stripComment cuts the line at the first '#'.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// skipLine reports whether a line is ignorable at the document level:
// blank or comment-only.
func skipLine(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || t[0] == '#'
}

// ParseLine parses a single non-blank, non-comment OBJ line into a
// Directive. Comments starting at '#' are stripped first. Errors are
// *ParseError or *UnsupportedError with Line left 0.
func ParseLine(line string) (Directive, error) {
	body := stripComment(line)
	toks := tokenize(body)
	if len(toks) == 0 {
		return nil, &ParseError{Column: 1, Src: line, Expected: directiveNames}
	}
	kw, rest := toks[0], toks[1:]
	switch kw.text {
	case "vt":
		vals, err := parseFloats(line, rest, 2, 3)
		if err != nil {
			return nil, err
		}
		// A third value (W) is legal and discarded.
		return VertexTexture{UV: mgl64.Vec2{vals[0], vals[1]}}, nil
	case "vn":
		vals, err := parseFloats(line, rest, 3, 3)
		if err != nil {
			return nil, err
		}
		return VertexNormal{Normal: mgl64.Vec3{vals[0], vals[1], vals[2]}.Normalize()}, nil
	case "v":
		vals, err := parseFloats(line, rest, 3, 3)
		if err != nil {
			return nil, err
		}
		return Vertex{Position: mgl64.Vec3{vals[0], vals[1], vals[2]}}, nil
	case "f":
		spec, err := parseFace(line, rest)
		if err != nil {
			return nil, err
		}
		return Face{Spec: spec}, nil
	case "l":
		idx, err := parseIndices(line, rest)
		if err != nil {
			return nil, err
		}
		return Line{Indices: idx}, nil
	case "o":
		return ObjectName{Name: nameAfter(body, kw)}, nil
	case "g":
		return GroupName{Name: nameAfter(body, kw)}, nil
	case "s":
		return SmoothingGroup{Name: nameAfter(body, kw)}, nil
	case "usemtl":
		return UseMaterial{Name: nameAfter(body, kw)}, nil
	case "mtllib":
		return MaterialLib{Name: nameAfter(body, kw)}, nil
	}
	return nil, &ParseError{Column: kw.col, Src: line, Expected: directiveNames, Found: kw.text}
}

// nameAfter captures everything after the keyword up to end of line
// (the comment is already stripped), trimmed. Names may contain spaces;
// a bare keyword yields the empty string.
func nameAfter(body string, kw token) string {
	return strings.TrimSpace(body[kw.col-1+len(kw.text):])
}

// parseFloats parses between lo and hi signed floats and rejects
// trailing content.
func parseFloats(line string, toks []token, lo, hi int) ([]float64, error) {
	if len(toks) < lo {
		return nil, &ParseError{Column: len(line) + 1, Src: line, Expected: []string{"float"}}
	}
	if len(toks) > hi {
		t := toks[hi]
		return nil, &ParseError{Column: t.col, Src: line, Expected: []string{"end of line"}, Found: t.text}
	}
	vals := make([]float64, len(toks))
	for i, t := range toks {
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &ParseError{Column: t.col, Src: line, Expected: []string{"float"}, Found: t.text}
		}
		vals[i] = v
	}
	return vals, nil
}

// parseFace parses 3 or 4 corners of uniform form. The 4-corner form is
// committed only when a valid 4th corner follows 3 parsed ones;
// anything past the 4th corner is trailing content.
func parseFace(line string, toks []token) (FaceSpec, error) {
	if len(toks) < 3 {
		return FaceSpec{}, &ParseError{Column: len(line) + 1, Src: line, Expected: []string{"face corner"}}
	}
	if len(toks) > 4 {
		t := toks[4]
		return FaceSpec{}, &ParseError{Column: t.col, Src: line, Expected: []string{"end of line"}, Found: t.text}
	}
	spec := FaceSpec{Corners: make([]Corner, 0, len(toks))}
	for i, t := range toks {
		c, textured, err := parseCorner(line, t)
		if err != nil {
			return FaceSpec{}, err
		}
		if i == 0 {
			spec.Textured = textured
		} else if textured != spec.Textured {
			want := "i//k corner"
			if spec.Textured {
				want = "i/j/k corner"
			}
			return FaceSpec{}, &ParseError{Column: t.col, Src: line, Expected: []string{want}, Found: t.text}
		}
		spec.Corners = append(spec.Corners, c)
	}
	return spec, nil
}

// parseCorner parses one face corner. Only i//k and i/j/k are usable;
// the position-only and position/texcoord forms are valid OBJ but
// unsupported because the assembler requires normals.
func parseCorner(line string, t token) (Corner, bool, error) {
	parts := strings.Split(t.text, "/")
	switch len(parts) {
	case 1, 2:
		return Corner{}, false, &UnsupportedError{Column: t.col, Corner: t.text}
	case 3:
	default:
		return Corner{}, false, &ParseError{Column: t.col, Src: line, Expected: []string{"face corner"}, Found: t.text}
	}
	pos, ok := parseIndex(parts[0])
	if !ok {
		return Corner{}, false, &ParseError{Column: t.col, Src: line, Expected: []string{"face corner"}, Found: t.text}
	}
	norm, ok := parseIndex(parts[2])
	if !ok {
		return Corner{}, false, &ParseError{Column: t.col, Src: line, Expected: []string{"face corner"}, Found: t.text}
	}
	if parts[1] == "" {
		return Corner{Pos: pos, Norm: norm}, false, nil
	}
	tex, ok := parseIndex(parts[1])
	if !ok {
		return Corner{}, false, &ParseError{Column: t.col, Src: line, Expected: []string{"face corner"}, Found: t.text}
	}
	return Corner{Pos: pos, Tex: tex, Norm: norm}, true, nil
}

// parseIndex parses a positive 1-based index.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// parseIndices parses the two-or-more position indices of an "l" line.
func parseIndices(line string, toks []token) ([]int, error) {
	if len(toks) < 2 {
		return nil, &ParseError{Column: len(line) + 1, Src: line, Expected: []string{"index"}}
	}
	idx := make([]int, len(toks))
	for i, t := range toks {
		n, ok := parseIndex(t.text)
		if !ok {
			return nil, &ParseError{Column: t.col, Src: line, Expected: []string{"index"}, Found: t.text}
		}
		idx[i] = n
	}
	return idx, nil
}

// ParseDocument parses a whole OBJ document into its ordered directive
// sequence. Both "\n" and "\r\n" line endings are accepted; blank and
// comment-only lines are skipped. Parsing is fail-fast: the first bad
// line aborts with its 1-based line number attached.
func ParseDocument(text string) ([]Directive, error) {
	var directives []Directive
	for i, line := range splitLines(text) {
		if skipLine(line) {
			continue
		}
		d, err := ParseLine(line)
		if err != nil {
			return nil, stampLine(err, i+1)
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// splitLines splits on '\n' and drops a trailing '\r' from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// stampLine attaches a document line number to a line-level error.
func stampLine(err error, line int) error {
	switch e := err.(type) {
	case *ParseError:
		e.Line = line
	case *UnsupportedError:
		e.Line = line
	}
	return err
}
