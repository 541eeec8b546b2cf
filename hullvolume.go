// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package powerdiag

import (
	"github.com/2dChan/powerdiag/regular"
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

// HullVolume returns the volume of the convex hull of the folded site
// positions. For a non-periodic input whose cells are all bounded, the sum
// of the cell volumes of the power diagram equals this value. Degenerate
// inputs (fewer than four distinct positions, or all coplanar) have zero
// hull volume.
func HullVolume(sites []regular.Site, box regular.Box) (float64, error) {
	if err := regular.ValidateSites(sites); err != nil {
		return 0, err
	}
	if err := box.Validate(); err != nil {
		return 0, err
	}
	seen := make(map[r3.Vector]struct{}, len(sites))
	points := make([]r3.Vector, 0, len(sites))
	for _, s := range sites {
		p := box.Fold(s.Pos())
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}
	if len(points) < 4 {
		return 0, nil
	}

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(points, true, false, defaultEps)
	verts := ch.Vertices
	if len(verts) == 0 || len(ch.Indices) < 3 {
		return 0, nil
	}
	var centroid r3.Vector
	for _, v := range verts {
		centroid = centroid.Add(v)
	}
	centroid = centroid.Mul(1 / float64(len(verts)))

	var vol float64
	for i := 0; i+2 < len(ch.Indices); i += 3 {
		a := verts[ch.Indices[i]].Sub(centroid)
		b := verts[ch.Indices[i+1]].Sub(centroid)
		c := verts[ch.Indices[i+2]].Sub(centroid)
		t := a.Dot(b.Cross(c)) / 6
		if t < 0 {
			t = -t
		}
		vol += t
	}
	return vol, nil
}
