// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package powerdiag

import (
	"fmt"
	"math"
)

// buildMetrics derives the Delaunay edge list from the faces (an edge
// exists exactly when the two cells share at least one face) and, when
// requested, the per-edge dihedral aggregate: the mean interior dihedral
// angle over all incident tetrahedra, clipped to [0, pi]. An edge whose
// incident tetrahedra all turn out numerically degenerate is dropped
// rather than reported as zero.
func (b *builder) buildMetrics(dihedrals bool) {
	d := b.d
	pairs := make(map[[2]int]struct{}, len(d.Faces))
	for _, f := range d.Faces {
		pairs[[2]int{f.SiteA, f.SiteB}] = struct{}{}
	}
	edges := sortedPairs(pairs)

	if !dihedrals {
		d.Edges = edges
		return
	}

	incident := make(map[[2]int][]int, len(edges))
	for t, tet := range b.tri.Tets {
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				key := [2]int{tet[i], tet[j]}
				incident[key] = append(incident[key], t)
			}
		}
	}

	d.Edges = edges[:0]
	var angles []float64
	for _, e := range edges {
		sum, cnt := 0.0, 0
		for _, t := range incident[e] {
			if a, ok := b.tetDihedral(t, e[0], e[1]); ok {
				sum += a
				cnt++
			}
		}
		if cnt == 0 {
			continue
		}
		d.Edges = append(d.Edges, e)
		angles = append(angles, math.Min(math.Max(sum/float64(cnt), 0), math.Pi))
	}
	if len(angles) > 0 {
		d.Dihedrals = angles
	}
}

// tetDihedral returns the interior dihedral angle of tetrahedron t at the
// edge between sites i and j. The second result is false when the
// tetrahedron is too flat at that edge for the angle to be meaningful.
func (b *builder) tetDihedral(t, i, j int) (float64, bool) {
	tet := b.tri.Tets[t]
	p := b.tri.TetPositions(t)
	pi := p[slotOf(tet, i)]
	pj := p[slotOf(tet, j)]
	var rest []int
	for _, s := range tet {
		if s != i && s != j {
			rest = append(rest, slotOf(tet, s))
		}
	}
	e := pj.Sub(pi)
	ee := e.Norm2()
	if ee == 0 {
		return 0, false
	}
	v1 := p[rest[0]].Sub(pi)
	v2 := p[rest[1]].Sub(pi)
	v1 = v1.Sub(e.Mul(v1.Dot(e) / ee))
	v2 = v2.Sub(e.Mul(v2.Dot(e) / ee))
	n1, n2 := v1.Norm(), v2.Norm()
	if n1 == 0 || n2 == 0 {
		return 0, false
	}
	cos := v1.Dot(v2) / (n1 * n2)
	cos = math.Min(math.Max(cos, -1), 1)
	return math.Acos(cos), true
}

// NumEdges returns the number of Delaunay edges.
func (d *Diagram) NumEdges() int {
	return len(d.Edges)
}

// EdgeLength returns the distance between the two sites of edge k, using
// the minimum-image convention when the diagram was built with it.
func (d *Diagram) EdgeLength(k int) (float64, error) {
	if k < 0 || k >= len(d.Edges) {
		return 0, fmt.Errorf("EdgeLength: index %d out of range [0 %d)", k, len(d.Edges))
	}
	e := d.Edges[k]
	a := d.Triangulation.SitePosition(e[0])
	c := d.Triangulation.SitePosition(e[1])
	return d.Box.Displacement(a, c, d.minImage).Norm(), nil
}
