// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package regular

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

const defaultEps = 1e-12

// Triangulation is a regular (weighted Delaunay) triangulation. Tets holds
// the tetrahedra as quadruples of input site indices sorted ascending;
// Shifts carries, parallel to Tets, the periodic image offset of each
// tetrahedron vertex relative to the folded site position (all zero for
// non-periodic input). Tetrahedra are canonicalized so that each physical
// tetrahedron of a periodic triangulation appears exactly once.
type Triangulation struct {
	Sites    []Site
	Box      Box
	MinImage bool

	Tets   [][4]int
	Shifts [][4][3]int8

	// CSR incidence: tetrahedra incident to each site, ascending.
	IncidentTetIndices []int
	IncidentTetOffsets []int

	folded []r3.Vector
}

// Options configures the triangulation construction.
type Options struct {
	Eps      float64
	Box      Box
	MinImage bool
}

// Option mutates Options and reports invalid settings.
type Option func(*Options) error

// WithEps sets the tolerance used for the numeric degeneracy checks.
func WithEps(eps float64) Option {
	return func(o *Options) error {
		if eps <= 0 {
			return fmt.Errorf("regular: eps = %v, want > 0", eps)
		}
		o.Eps = eps
		return nil
	}
}

// WithBox sets the periodic domain. A zero component disables wrap-around
// along that axis.
func WithBox(b Box) Option {
	return func(o *Options) error {
		if err := b.Validate(); err != nil {
			return err
		}
		o.Box = b
		return nil
	}
}

// WithMinImage selects the minimum-image convention for metric computations
// on the result. It does not alter the triangulation itself.
func WithMinImage(on bool) Option {
	return func(o *Options) error {
		o.MinImage = on
		return nil
	}
}

// New computes the regular triangulation of the given weighted sites.
// Degenerate inputs (coincident, coplanar, or fully cospherical sites) are
// not errors: ties resolve deterministically in favor of the lowest site
// index, and a zero-extent input yields a valid triangulation with no
// tetrahedra. Identical inputs produce bit-identical results.
func New(sites []Site, setters ...Option) (*Triangulation, error) {
	opts := Options{Eps: defaultEps}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	if err := ValidateSites(sites); err != nil {
		return nil, err
	}
	if err := opts.Box.Validate(); err != nil {
		return nil, err
	}

	t := &Triangulation{
		Sites:    append([]Site(nil), sites...),
		Box:      opts.Box,
		MinImage: opts.MinImage,
		folded:   make([]r3.Vector, len(sites)),
	}
	foldedSites := make([]Site, len(sites))
	for i, s := range sites {
		p := opts.Box.Fold(s.Pos())
		t.folded[i] = p
		foldedSites[i] = Site{X: p.X, Y: p.Y, Z: p.Z, W2: s.W2}
	}

	pts := dedupLifted(liftSites(foldedSites, opts.Box))
	var cands [][4]liftedPoint
	h := &hull4{pts: pts, eps: opts.Eps}
	if h.build() {
		for _, f := range h.lowerFacets() {
			cands = append(cands, [4]liftedPoint{
				pts[f.verts[0]], pts[f.verts[1]], pts[f.verts[2]], pts[f.verts[3]],
			})
		}
	} else {
		// The lifted points span less than R^4: either the sites are all on
		// one common power sphere, or they do not span R^3 at all. In the
		// first case every triangulation of the (convex position) point set
		// is regular, so a fan over the 3D hull is a valid deterministic
		// choice.
		cands = cosphericalFan(pts, opts.Eps)
	}

	t.extract(cands)
	t.buildIncidence()
	return t, nil
}

// NumTets returns the number of tetrahedra.
func (t *Triangulation) NumTets() int {
	return len(t.Tets)
}

// SitePosition returns the folded position of a site.
func (t *Triangulation) SitePosition(i int) r3.Vector {
	return t.folded[i]
}

// TetPositions resolves the four vertex positions of a tetrahedron,
// applying the periodic image shifts. The returned positions form one
// geometrically consistent copy of the tetrahedron; individual vertices may
// lie outside the fundamental domain.
func (t *Triangulation) TetPositions(tIdx int) [4]r3.Vector {
	if tIdx < 0 || tIdx >= len(t.Tets) {
		panic("TetPositions: tIdx out of range")
	}
	var out [4]r3.Vector
	for i, s := range t.Tets[tIdx] {
		out[i] = t.Box.shift(t.folded[s], t.Shifts[tIdx][i])
	}
	return out
}

// IncidentTets returns the indices of the tetrahedra incident to a site,
// in ascending order.
func (t *Triangulation) IncidentTets(siteIdx int) []int {
	if siteIdx < 0 || siteIdx+1 >= len(t.IncidentTetOffsets) {
		panic("IncidentTets: siteIdx out of range")
	}
	start := t.IncidentTetOffsets[siteIdx]
	end := t.IncidentTetOffsets[siteIdx+1]
	return t.IncidentTetIndices[start:end]
}

type tetKey struct {
	sites  [4]int
	shifts [4][3]int8
}

// extract turns hull facets into canonical tetrahedra: facets whose mapped
// site indices repeat are periodic self-image artifacts and are dropped, as
// are facets with no vertex in the primary image (their canonical translate
// is seen elsewhere) and facets that are geometrically flat. The survivors
// are deduplicated by their shift-canonical form and sorted for
// reproducible output order.
func (t *Triangulation) extract(cands [][4]liftedPoint) {
	seen := make(map[tetKey]struct{}, len(cands))
	for _, c := range cands {
		distinct := true
		primary := false
		for i := 0; i < 4; i++ {
			if c[i].shift == ([3]int8{}) {
				primary = true
			}
			for j := i + 1; j < 4; j++ {
				// Repeated sites are periodic self-image artifacts.
				if c[i].site == c[j].site {
					distinct = false
				}
			}
		}
		if !distinct || !primary {
			continue
		}
		sort.Slice(c[:], func(i, j int) bool {
			if c[i].site != c[j].site {
				return c[i].site < c[j].site
			}
			return lessShift(c[i].shift, c[j].shift)
		})
		var key tetKey
		base := c[0].shift
		for i := 0; i < 4; i++ {
			key.sites[i] = c[i].site
			for k := 0; k < 3; k++ {
				key.shifts[i][k] = c[i].shift[k] - base[k]
			}
		}
		if _, ok := seen[key]; ok {
			continue
		}
		p := t.keyPositions(key)
		if Orient3(p[0], p[1], p[2], p[3]) == Zero {
			continue
		}
		seen[key] = struct{}{}
	}

	keys := make([]tetKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	t.Tets = make([][4]int, len(keys))
	t.Shifts = make([][4][3]int8, len(keys))
	for i, k := range keys {
		t.Tets[i] = k.sites
		t.Shifts[i] = k.shifts
	}
}

func (t *Triangulation) keyPositions(k tetKey) [4]r3.Vector {
	var out [4]r3.Vector
	for i, s := range k.sites {
		out[i] = t.Box.shift(t.folded[s], k.shifts[i])
	}
	return out
}

func lessShift(a, b [3]int8) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func lessKey(a, b tetKey) bool {
	for i := 0; i < 4; i++ {
		if a.sites[i] != b.sites[i] {
			return a.sites[i] < b.sites[i]
		}
	}
	for i := 0; i < 4; i++ {
		if a.shifts[i] != b.shifts[i] {
			return lessShift(a.shifts[i], b.shifts[i])
		}
	}
	return false
}

func (t *Triangulation) buildIncidence() {
	n := len(t.Sites)
	t.IncidentTetOffsets = make([]int, n+1)
	for _, tet := range t.Tets {
		for _, s := range tet {
			t.IncidentTetOffsets[s+1]++
		}
	}
	for i := 0; i < n; i++ {
		t.IncidentTetOffsets[i+1] += t.IncidentTetOffsets[i]
	}
	t.IncidentTetIndices = make([]int, len(t.Tets)*4)
	nxt := make([]int, n)
	copy(nxt, t.IncidentTetOffsets[:n])
	for ti, tet := range t.Tets {
		for _, s := range tet {
			t.IncidentTetIndices[nxt[s]] = ti
			nxt[s]++
		}
	}
}

// cosphericalFan triangulates a point set in convex position by fanning
// from the lowest-index point over the facets of its 3D convex hull. Used
// only when the lifted points are coplanar, which for a finite weighted set
// means every site lies on one common power sphere.
func cosphericalFan(pts []liftedPoint, eps float64) [][4]liftedPoint {
	if !spansR3(pts, eps) {
		return nil
	}
	positions := make([]r3.Vector, len(pts))
	for i, p := range pts {
		positions[i] = p.pos()
	}
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(positions, true, true, eps)

	var out [][4]liftedPoint
	for i := 0; i+2 < len(ch.Indices); i += 3 {
		a, b, c := ch.Indices[i], ch.Indices[i+1], ch.Indices[i+2]
		if a == 0 || b == 0 || c == 0 {
			continue
		}
		out = append(out, [4]liftedPoint{pts[0], pts[a], pts[b], pts[c]})
	}
	return out
}

// spansR3 reports whether the points affinely span R^3, extending a basis
// greedily in index order with an exact final check.
func spansR3(pts []liftedPoint, eps float64) bool {
	if len(pts) < 4 {
		return false
	}
	p0 := pts[0].pos()
	i1 := -1
	for j := 1; j < len(pts); j++ {
		if pts[j].pos() != p0 {
			i1 = j
			break
		}
	}
	if i1 < 0 {
		return false
	}
	u := pts[i1].pos().Sub(p0)
	i2 := -1
	for j := i1 + 1; j < len(pts); j++ {
		v := pts[j].pos().Sub(p0)
		if u.Cross(v).Norm() > eps*u.Norm()*v.Norm() {
			i2 = j
			break
		}
	}
	if i2 < 0 {
		return false
	}
	for j := 1; j < len(pts); j++ {
		if j == i1 || j == i2 {
			continue
		}
		if Orient3(p0, pts[i1].pos(), pts[i2].pos(), pts[j].pos()) != Zero {
			return true
		}
	}
	return false
}
