// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package regular

import "math"

// Incremental beneath-beyond convex hull in R^4 with conflict lists.
// Facets of the lower hull of the lifted sites are exactly the tetrahedra
// of the regular triangulation. Every visibility decision goes through the
// exact predicates, so construction and degeneracy detection cannot
// disagree; points landing exactly on a facet hyperplane are treated as not
// visible, which merges cospherical configurations deterministically in
// favor of the lowest site index.

type facet struct {
	verts [4]int
	// nb[i] is the facet across the ridge omitting verts[i].
	nb      [4]int
	normal  [4]float64
	offset  float64
	outside []int
	dead    bool
}

type hull4 struct {
	pts    []liftedPoint
	eps    float64
	facets []facet
	// interior is a point strictly inside the hull, used to orient facets.
	interior [4]float64
}

// build computes the hull and returns false when the lifted points do not
// span R^4, in which case no facets are produced.
func (h *hull4) build() bool {
	simplex, ok := h.initialSimplex()
	if !ok {
		return false
	}
	for i := 0; i < 4; i++ {
		for _, si := range simplex {
			h.interior[i] += h.pts[si].v[i]
		}
		h.interior[i] /= 5
	}
	h.initialFacets(simplex)
	h.assignConflicts(simplex)

	stack := make([]int, 0, len(h.facets))
	for i := range h.facets {
		if len(h.facets[i].outside) > 0 {
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		fi := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h.facets[fi].dead || len(h.facets[fi].outside) == 0 {
			continue
		}
		stack = h.addPoint(fi, stack)
	}
	return true
}

// initialSimplex greedily extends an affinely independent point set, always
// taking the lowest-index candidate. The final extension uses the exact
// orientation predicate; the lower-rank stages use scaled numeric minors,
// which is sufficient because a wrong intermediate pick still either reaches
// a valid simplex or fails to, deterministically.
func (h *hull4) initialSimplex() ([5]int, bool) {
	var s [5]int
	n := len(h.pts)
	if n < 5 {
		return s, false
	}
	s[0] = 0
	got := 1
	for j := 1; j < n && got < 4; j++ {
		cand := append(indexSubset(s[:got]), j)
		if h.numericRank(cand) == got {
			s[got] = j
			got++
		}
	}
	if got < 4 {
		return s, false
	}
	a, b, c, d := h.pts[s[0]].v, h.pts[s[1]].v, h.pts[s[2]].v, h.pts[s[3]].v
	for j := 1; j < n; j++ {
		if j == s[1] || j == s[2] || j == s[3] {
			continue
		}
		if liftedOrient(a, b, c, d, h.pts[j].v) != Zero {
			s[4] = j
			return s, true
		}
	}
	return s, false
}

// numericRank returns the rank of the difference vectors of the given
// points (2 to 4 of them) relative to the first, using scaled minors.
func (h *hull4) numericRank(idx []int) int {
	base := h.pts[idx[0]].v
	rows := make([][4]float64, 0, 3)
	scale := make([]float64, 0, 3)
	for _, i := range idx[1:] {
		var r [4]float64
		m := 0.0
		for k := 0; k < 4; k++ {
			r[k] = h.pts[i].v[k] - base[k]
			m = math.Max(m, math.Abs(r[k]))
		}
		rows = append(rows, r)
		scale = append(scale, m)
	}
	switch len(rows) {
	case 1:
		if scale[0] > 0 {
			return 1
		}
		return 0
	case 2:
		best := 0.0
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				best = math.Max(best, math.Abs(rows[0][i]*rows[1][j]-rows[0][j]*rows[1][i]))
			}
		}
		if best > h.eps*scale[0]*scale[1] {
			return 2
		}
		return 1
	default:
		best := 0.0
		for drop := 0; drop < 4; drop++ {
			var m [3][3]float64
			for r := 0; r < 3; r++ {
				c := 0
				for col := 0; col < 4; col++ {
					if col == drop {
						continue
					}
					m[r][c] = rows[r][col]
					c++
				}
			}
			best = math.Max(best, math.Abs(det3(m)))
		}
		if best > h.eps*scale[0]*scale[1]*scale[2] {
			return 3
		}
		return 2
	}
}

func indexSubset(s []int) []int {
	out := make([]int, len(s), len(s)+1)
	copy(out, s)
	return out
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

func (h *hull4) initialFacets(s [5]int) {
	h.facets = make([]facet, 0, 5)
	for omit := 0; omit < 5; omit++ {
		var f facet
		k := 0
		for i := 0; i < 5; i++ {
			if i != omit {
				f.verts[k] = s[i]
				k++
			}
		}
		// The omitted simplex vertex lies inside; orient so that inside
		// tests Negative.
		if h.orientAgainst(f.verts, h.pts[s[omit]].v) == Positive {
			f.verts[0], f.verts[1] = f.verts[1], f.verts[0]
		}
		h.setPlane(&f)
		h.facets = append(h.facets, f)
	}
	simplexSlot := func(v int) int {
		for i, si := range s {
			if si == v {
				return i
			}
		}
		panic("hull4: vertex not in initial simplex")
	}
	for fi := range h.facets {
		for m, v := range h.facets[fi].verts {
			h.facets[fi].nb[m] = simplexSlot(v)
		}
	}
}

func (h *hull4) orientAgainst(verts [4]int, q [4]float64) Sign {
	return liftedOrient(h.pts[verts[0]].v, h.pts[verts[1]].v, h.pts[verts[2]].v, h.pts[verts[3]].v, q)
}

// visibleFrom reports whether point p lies strictly beyond facet fi.
func (h *hull4) visibleFrom(fi, p int) bool {
	return h.orientAgainst(h.facets[fi].verts, h.pts[p].v) == Positive
}

// setPlane computes the outward normal consistent with the facet's vertex
// orientation: the generalized cross product of the three edge vectors.
func (h *hull4) setPlane(f *facet) {
	a := h.pts[f.verts[0]].v
	var u [3][4]float64
	for i := 0; i < 3; i++ {
		for k := 0; k < 4; k++ {
			u[i][k] = h.pts[f.verts[i+1]].v[k] - a[k]
		}
	}
	sign := -1.0
	for i := 0; i < 4; i++ {
		var m [3][3]float64
		for r := 0; r < 3; r++ {
			c := 0
			for col := 0; col < 4; col++ {
				if col == i {
					continue
				}
				m[r][c] = u[r][col]
				c++
			}
		}
		f.normal[i] = sign * det3(m)
		sign = -sign
	}
	f.offset = 0
	for i := 0; i < 4; i++ {
		f.offset += f.normal[i] * a[i]
	}
}

func (h *hull4) distance(fi, p int) float64 {
	f := &h.facets[fi]
	d := -f.offset
	for i := 0; i < 4; i++ {
		d += f.normal[i] * h.pts[p].v[i]
	}
	return d
}

func (h *hull4) assignConflicts(s [5]int) {
	inSimplex := map[int]bool{s[0]: true, s[1]: true, s[2]: true, s[3]: true, s[4]: true}
	for p := range h.pts {
		if inSimplex[p] {
			continue
		}
		for fi := range h.facets {
			if h.visibleFrom(fi, p) {
				h.facets[fi].outside = append(h.facets[fi].outside, p)
				break
			}
		}
	}
}

type horizonRidge struct {
	facet int // visible facet
	slot  int // ridge omits facets[facet].verts[slot]
}

// addPoint grows the hull by the furthest conflict point of facet fi,
// returning the updated work stack.
func (h *hull4) addPoint(fi int, stack []int) []int {
	f := &h.facets[fi]
	apex := f.outside[0]
	best := h.distance(fi, apex)
	for _, p := range f.outside[1:] {
		if d := h.distance(fi, p); d > best || (d == best && p < apex) {
			apex, best = p, d
		}
	}

	// Walk the visible region.
	visible := []int{fi}
	visited := map[int]bool{fi: true}
	var horizon []horizonRidge
	for qi := 0; qi < len(visible); qi++ {
		vf := visible[qi]
		for slot := 0; slot < 4; slot++ {
			nbi := h.facets[vf].nb[slot]
			if visited[nbi] {
				continue
			}
			if h.visibleFrom(nbi, apex) {
				visited[nbi] = true
				visible = append(visible, nbi)
			} else {
				horizon = append(horizon, horizonRidge{facet: vf, slot: slot})
			}
		}
	}

	// Cone of new facets, one per horizon ridge.
	type ridgeRef struct{ facet, slot int }
	ridgeMap := make(map[[2]int]ridgeRef, len(horizon)*3)
	newFacets := make([]int, 0, len(horizon))
	for _, hr := range horizon {
		old := &h.facets[hr.facet]
		var nf facet
		k := 0
		for i, v := range old.verts {
			if i != hr.slot {
				nf.verts[k] = v
				k++
			}
		}
		nf.verts[3] = apex
		if h.orientAgainst(nf.verts, h.interior) == Positive {
			nf.verts[0], nf.verts[1] = nf.verts[1], nf.verts[0]
		}
		h.setPlane(&nf)

		nfi := len(h.facets)
		nbi := old.nb[hr.slot]
		nf.nb[3] = nbi
		for s, b := range h.facets[nbi].nb {
			if b == hr.facet {
				h.facets[nbi].nb[s] = nfi
				break
			}
		}
		h.facets = append(h.facets, nf)
		newFacets = append(newFacets, nfi)

		for k := 0; k < 3; k++ {
			a, b := ridgePair(h.facets[nfi].verts, k)
			key := [2]int{a, b}
			if other, ok := ridgeMap[key]; ok {
				h.facets[nfi].nb[k] = other.facet
				h.facets[other.facet].nb[other.slot] = nfi
			} else {
				ridgeMap[key] = ridgeRef{facet: nfi, slot: k}
			}
		}
	}

	// Retire the visible region and redistribute its conflict points.
	var orphans []int
	for _, vf := range visible {
		for _, p := range h.facets[vf].outside {
			if p != apex {
				orphans = append(orphans, p)
			}
		}
		h.facets[vf].outside = nil
		h.facets[vf].dead = true
	}
	for _, p := range orphans {
		for _, nfi := range newFacets {
			if h.visibleFrom(nfi, p) {
				h.facets[nfi].outside = append(h.facets[nfi].outside, p)
				break
			}
		}
	}
	for _, nfi := range newFacets {
		if len(h.facets[nfi].outside) > 0 {
			stack = append(stack, nfi)
		}
	}
	return stack
}

// ridgePair returns the two vertices of the side ridge of a cone facet that
// are shared with the neighboring cone facet: the ridge omitting verts[k]
// consists of the apex plus the remaining two ridge vertices.
func ridgePair(verts [4]int, k int) (int, int) {
	var pair []int
	for i := 0; i < 3; i++ {
		if i != k {
			pair = append(pair, verts[i])
		}
	}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}
	return pair[0], pair[1]
}

// lowerFacets returns the surviving facets whose outward normal points
// downward in the lifted coordinate; these project to the tetrahedra of the
// regular triangulation. Near-vertical facets are degenerate projections
// and are dropped.
func (h *hull4) lowerFacets() []facet {
	var out []facet
	for i := range h.facets {
		f := &h.facets[i]
		if f.dead {
			continue
		}
		norm := 0.0
		for k := 0; k < 4; k++ {
			norm += f.normal[k] * f.normal[k]
		}
		if f.normal[3] < 0 && f.normal[3]*f.normal[3] > h.eps*h.eps*norm {
			out = append(out, *f)
		}
	}
	return out
}
