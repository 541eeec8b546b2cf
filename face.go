// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package powerdiag

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
)

// Face is the boundary polygon between the cells of two adjacent sites.
// SiteA < SiteB always holds; Shift is the periodic image offset of SiteB
// relative to SiteA, so a pair of sites adjacent across both sides of a
// periodic boundary contributes two distinct faces. Verts lists the power
// vertex indices of the polygon ordered by angle about the SiteA-SiteB
// axis; fewer than three vertices means the face is a degenerate sliver of
// an unbounded cell and its Area is zero.
type Face struct {
	SiteA, SiteB int
	Shift        [3]int8
	Verts        []int
	Area         float64
}

type faceKey struct {
	a, b  int
	shift [3]int8
}

// buildFaces groups tetrahedra by the site pairs they share. Within one
// periodic image relationship the power centers of those tetrahedra are
// coplanar on the radical plane of the two sites, forming the face polygon.
func (b *builder) buildFaces() {
	d := b.d
	groups := make(map[faceKey][]int)
	for t, tet := range b.tri.Tets {
		sh := b.tri.Shifts[t]
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				var ds [3]int8
				for k := 0; k < 3; k++ {
					ds[k] = sh[j][k] - sh[i][k]
				}
				key := faceKey{a: tet[i], b: tet[j], shift: ds}
				groups[key] = append(groups[key], t)
			}
		}
	}

	keys := make([]faceKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		if keys[i].b != keys[j].b {
			return keys[i].b < keys[j].b
		}
		for c := 0; c < 3; c++ {
			if keys[i].shift[c] != keys[j].shift[c] {
				return keys[i].shift[c] < keys[j].shift[c]
			}
		}
		return false
	})

	d.Faces = make([]Face, 0, len(keys))
	for _, key := range keys {
		d.Faces = append(d.Faces, b.makeFace(key, groups[key]))
	}
}

// makeFace orders the polygon of a face and computes its planar area in
// the frame where SiteA occupies its primary image.
func (b *builder) makeFace(key faceKey, tets []int) Face {
	f := Face{SiteA: key.a, SiteB: key.b, Shift: key.shift, Verts: tets}
	if len(tets) < 3 {
		return f
	}

	pa := b.tri.SitePosition(key.a)
	pb := b.tri.SitePosition(key.b).Add(b.shiftVec(key.shift))
	axis := pb.Sub(pa)
	e1 := axis.Ortho()
	e2 := axis.Cross(e1).Normalize()
	e1 = e1.Normalize()

	w := make([]r3.Vector, len(tets))
	var centroid r3.Vector
	for k, t := range tets {
		w[k] = b.frameVertex(t, key.a)
		centroid = centroid.Add(w[k])
	}
	centroid = centroid.Mul(1 / float64(len(tets)))

	type vert struct {
		tet   int
		angle float64
	}
	vs := make([]vert, len(tets))
	for k, t := range tets {
		rel := w[k].Sub(centroid)
		vs[k] = vert{tet: t, angle: math.Atan2(rel.Dot(e2), rel.Dot(e1))}
	}
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].angle != vs[j].angle {
			return vs[i].angle < vs[j].angle
		}
		return vs[i].tet < vs[j].tet
	})

	ordered := make([]int, len(vs))
	pos := make([]r3.Vector, len(vs))
	for k, v := range vs {
		ordered[k] = v.tet
		pos[k] = b.frameVertex(v.tet, key.a)
	}
	f.Verts = ordered
	f.Area = polygonArea(pos)
	return f
}

// polygonArea returns the area of a planar polygon given its vertices in
// cyclic order.
func polygonArea(w []r3.Vector) float64 {
	if len(w) < 3 {
		return 0
	}
	var sum r3.Vector
	for k := 1; k+1 < len(w); k++ {
		u := w[k].Sub(w[0])
		v := w[k+1].Sub(w[0])
		sum = sum.Add(u.Cross(v))
	}
	return sum.Norm() / 2
}
