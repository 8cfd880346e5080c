package obj

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// tangentEpsilon bounds the texcoord-system determinant below which
	// the reciprocal fallback kicks in.
	tangentEpsilon = 1e-6
	// fallbackReciprocal replaces 1/det for near-singular systems. This
	// is an approximation to avoid dividing by near-zero, not a proper
	// degenerate-case handler.
	fallbackReciprocal = 0.1
)

// tangentDirs solves the tangent/bitangent system for one triangle
// from its edge vectors and texcoord deltas. Runs before per-corner
// dedup so index errors surface here first.
func (st *compileState) tangentDirs(tri [3]Corner) (sdir, tdir mgl64.Vec3, err error) {
	var p [3]mgl64.Vec3
	var w [3]mgl64.Vec2
	for i, c := range tri {
		if p[i], err = st.position(c.Pos); err != nil {
			return sdir, tdir, err
		}
		if w[i], err = st.texcoord(c.Tex); err != nil {
			return sdir, tdir, err
		}
	}

	e1 := p[1].Sub(p[0])
	e2 := p[2].Sub(p[0])
	du1 := w[1].X() - w[0].X()
	dv1 := w[1].Y() - w[0].Y()
	du2 := w[2].X() - w[0].X()
	dv2 := w[2].Y() - w[0].Y()

	det := du1*dv2 - du2*dv1
	r := fallbackReciprocal
	if math.Abs(det) > tangentEpsilon {
		r = 1 / det
	}

	sdir = e1.Mul(dv2).Sub(e2.Mul(dv1)).Mul(r)
	tdir = e2.Mul(du1).Sub(e1.Mul(du2)).Mul(r)
	return sdir, tdir, nil
}

// finalizeTangents reduces each accumulated (sdir, tdir) pair to a
// single 4-component tangent: Gram-Schmidt orthonormalization of sdir
// against the vertex normal, with the handedness sign in W.
func (b *meshBuilder) finalizeTangents() {
	for i := range b.vertices {
		v := &b.vertices[i]
		n := v.Normal
		s := b.sdir[i]
		t := b.tdir[i]

		w := 1.0
		if n.Cross(s).Dot(t) < 0 {
			w = -1.0
		}

		var tan mgl64.Vec3
		if s.Len() > 0 {
			tan = s.Sub(n.Mul(n.Dot(s))).Normalize()
		} else {
			// Degenerate sdir: derive the tangent from the bitangent
			// direction instead.
			tan = t.Sub(n.Mul(n.Dot(t))).Normalize().Cross(n)
		}
		v.Tangent = mgl64.Vec4{tan.X(), tan.Y(), tan.Z(), w}
	}
}
