// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package powerdiag

import (
	"fmt"
	"sort"

	"github.com/2dChan/powerdiag/regular"
	"github.com/golang/geo/r3"
)

const defaultEps = 1e-12

// Diagram is a power diagram: the dual of the regular triangulation of a
// set of weighted sites. One power vertex is emitted per tetrahedron (its
// weighted circumcenter, folded into the periodic box), so vertex index i
// always refers to tetrahedron i of the underlying triangulation.
//
// Cells of sites on the boundary of a non-periodic input are unbounded; by
// convention they are truncated to their existing power vertices, their
// outermost faces may degenerate to fewer than three vertices with zero
// area, and their volume covers the bounded part only. Periodic cells are
// always closed.
type Diagram struct {
	Sites []regular.Site
	Box   regular.Box

	// Triangulation is the primal regular triangulation the diagram was
	// derived from.
	Triangulation *regular.Triangulation

	// Vertices are the power vertices in folded world coordinates.
	Vertices []r3.Vector

	// Faces holds every cell face exactly once; a face is shared by the
	// cells of its two adjacent sites.
	Faces []Face

	// CSR views per cell: indices into Faces and Vertices.
	CellFaces       []int
	CellFaceOffsets []int
	CellVerts       []int
	CellVertOffsets []int

	// Volumes holds the cell volume per site.
	Volumes []float64

	// Edges lists the Delaunay edges as site index pairs, ascending within
	// each pair and lexicographically sorted.
	Edges [][2]int

	// Dihedrals holds one mean dihedral angle in [0, pi] per edge, parallel
	// to Edges. It is nil when dihedral data was not requested or no edge
	// has a non-degenerate incident tetrahedron.
	Dihedrals []float64

	minImage bool
}

// DiagramOptions configures NewDiagram.
type DiagramOptions struct {
	Eps       float64
	Box       regular.Box
	MinImage  bool
	Dihedrals bool
}

// Option mutates DiagramOptions and reports invalid settings.
type Option func(*DiagramOptions) error

// WithEps sets the tolerance used for numeric degeneracy checks.
func WithEps(eps float64) Option {
	return func(o *DiagramOptions) error {
		if eps <= 0 {
			return fmt.Errorf("powerdiag: eps = %v, want > 0", eps)
		}
		o.Eps = eps
		return nil
	}
}

// WithBox sets the periodic domain; a zero component disables wrap-around
// along that axis.
func WithBox(b regular.Box) Option {
	return func(o *DiagramOptions) error {
		if err := b.Validate(); err != nil {
			return err
		}
		o.Box = b
		return nil
	}
}

// WithMinImage selects the minimum-image convention for metric queries such
// as EdgeLength.
func WithMinImage(on bool) Option {
	return func(o *DiagramOptions) error {
		o.MinImage = on
		return nil
	}
}

// WithDihedrals toggles the per-edge dihedral angle computation.
func WithDihedrals(on bool) Option {
	return func(o *DiagramOptions) error {
		o.Dihedrals = on
		return nil
	}
}

// NewDiagram computes the power diagram of the given weighted sites. The
// construction is a pure function of its inputs: no global state, and
// identical inputs yield bit-identical diagrams.
func NewDiagram(sites []regular.Site, setters ...Option) (*Diagram, error) {
	opts := DiagramOptions{Eps: defaultEps, Dihedrals: true}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	tri, err := regular.New(sites,
		regular.WithEps(opts.Eps),
		regular.WithBox(opts.Box),
		regular.WithMinImage(opts.MinImage),
	)
	if err != nil {
		return nil, err
	}

	d := &Diagram{
		Sites:         tri.Sites,
		Box:           tri.Box,
		Triangulation: tri,
		minImage:      opts.MinImage,
	}
	b := &builder{tri: tri, d: d}
	b.buildVertices()
	b.buildFaces()
	b.buildCells()
	b.buildMetrics(opts.Dihedrals)
	return d, nil
}

// NumCells returns the number of cells, one per input site.
func (d *Diagram) NumCells() int {
	return len(d.Sites)
}

// TotalVolume returns the sum of all cell volumes. For a fully periodic
// input this equals the box volume.
func (d *Diagram) TotalVolume() float64 {
	var sum float64
	for _, v := range d.Volumes {
		sum += v
	}
	return sum
}

// builder holds the intermediate state of the dual construction. The raw
// power centers keep the unfolded canonical-frame coordinates, which the
// per-cell geometry is derived from; only the published Vertices are
// folded.
type builder struct {
	tri     *regular.Triangulation
	d       *Diagram
	centers []r3.Vector
}

func (b *builder) buildVertices() {
	n := b.tri.NumTets()
	b.centers = make([]r3.Vector, n)
	b.d.Vertices = make([]r3.Vector, n)
	for t := 0; t < n; t++ {
		p := b.tri.TetPositions(t)
		var w2 [4]float64
		for i, s := range b.tri.Tets[t] {
			w2[i] = b.tri.Sites[s].W2
		}
		c := powerCenter(p, w2)
		b.centers[t] = c
		b.d.Vertices[t] = b.d.Box.Fold(c)
	}
}

// powerCenter returns the unique point with equal power distance to the
// four weighted vertices of a tetrahedron.
func powerCenter(p [4]r3.Vector, w2 [4]float64) r3.Vector {
	a1 := p[1].Sub(p[0])
	a2 := p[2].Sub(p[0])
	a3 := p[3].Sub(p[0])
	p0 := p[0].Norm2() - w2[0]
	b1 := (p[1].Norm2() - w2[1] - p0) / 2
	b2 := (p[2].Norm2() - w2[2] - p0) / 2
	b3 := (p[3].Norm2() - w2[3] - p0) / 2
	det := a1.Dot(a2.Cross(a3))
	c := a2.Cross(a3).Mul(b1)
	c = c.Add(a3.Cross(a1).Mul(b2))
	c = c.Add(a1.Cross(a2).Mul(b3))
	return c.Mul(1 / det)
}

// buildCells assembles the CSR cell structure and the fan volumes.
func (b *builder) buildCells() {
	d := b.d
	n := len(d.Sites)

	// Faces per cell.
	d.CellFaceOffsets = make([]int, n+1)
	for _, f := range d.Faces {
		d.CellFaceOffsets[f.SiteA+1]++
		d.CellFaceOffsets[f.SiteB+1]++
	}
	for i := 0; i < n; i++ {
		d.CellFaceOffsets[i+1] += d.CellFaceOffsets[i]
	}
	d.CellFaces = make([]int, 2*len(d.Faces))
	nxt := make([]int, n)
	copy(nxt, d.CellFaceOffsets[:n])
	for fi, f := range d.Faces {
		d.CellFaces[nxt[f.SiteA]] = fi
		nxt[f.SiteA]++
		d.CellFaces[nxt[f.SiteB]] = fi
		nxt[f.SiteB]++
	}

	// Vertices per cell: the incident tetrahedra, which are already stored
	// ascending in the triangulation's incidence arrays.
	d.CellVertOffsets = make([]int, n+1)
	copy(d.CellVertOffsets, b.tri.IncidentTetOffsets)
	d.CellVerts = make([]int, len(b.tri.IncidentTetIndices))
	copy(d.CellVerts, b.tri.IncidentTetIndices)

	d.Volumes = make([]float64, n)
	for i := 0; i < n; i++ {
		d.Volumes[i] = b.cellVolume(i)
	}
}

// cellVolume decomposes the cell of a site into pyramids from the centroid
// of its power vertices over its faces, all expressed in the frame where
// the site sits at its folded position. Faces with fewer than three
// vertices bound nothing and contribute no volume.
func (b *builder) cellVolume(site int) float64 {
	d := b.d
	tets := b.tri.IncidentTets(site)
	if len(tets) == 0 {
		return 0
	}
	var centroid r3.Vector
	for _, t := range tets {
		centroid = centroid.Add(b.frameVertex(t, site))
	}
	centroid = centroid.Mul(1 / float64(len(tets)))

	var vol float64
	for _, fi := range d.CellFaces[d.CellFaceOffsets[site]:d.CellFaceOffsets[site+1]] {
		f := d.Faces[fi]
		if len(f.Verts) < 3 {
			continue
		}
		w := make([]r3.Vector, len(f.Verts))
		for k, t := range f.Verts {
			w[k] = b.frameVertex(t, site)
		}
		w0 := w[0].Sub(centroid)
		for k := 1; k+1 < len(w); k++ {
			u := w[k].Sub(centroid)
			v := w[k+1].Sub(centroid)
			t := w0.Dot(u.Cross(v)) / 6
			if t < 0 {
				t = -t
			}
			vol += t
		}
	}
	return vol
}

// frameVertex returns the power center of a tetrahedron translated into
// the frame where the given site occupies its primary (zero shift) image.
func (b *builder) frameVertex(tet, site int) r3.Vector {
	slot := slotOf(b.tri.Tets[tet], site)
	return b.centers[tet].Sub(b.shiftVec(b.tri.Shifts[tet][slot]))
}

func (b *builder) shiftVec(s [3]int8) r3.Vector {
	return r3.Vector{
		X: float64(s[0]) * b.d.Box.X,
		Y: float64(s[1]) * b.d.Box.Y,
		Z: float64(s[2]) * b.d.Box.Z,
	}
}

func slotOf(tet [4]int, site int) int {
	for i, s := range tet {
		if s == site {
			return i
		}
	}
	panic("powerdiag: site not in tetrahedron")
}

func sortedPairs(m map[[2]int]struct{}) [][2]int {
	out := make([][2]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
