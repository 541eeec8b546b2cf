// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package regular

import "github.com/golang/geo/r3"

// liftedPoint is the 4D image of a (possibly ghost) site under the
// paraboloid-minus-weight lifting transform. Ghosts carry a non-zero shift
// and always resolve back to their source site index; they never appear in
// any output by their own identity.
type liftedPoint struct {
	v     [4]float64
	site  int
	shift [3]int8
}

func (p liftedPoint) pos() r3.Vector {
	return r3.Vector{X: p.v[0], Y: p.v[1], Z: p.v[2]}
}

// liftSites lifts every already-folded site and appends one ghost replica
// per periodic image offset. Real sites occupy indices 0..n-1 in input
// order; ghosts follow grouped by offset, so scanning order (and with it
// every tie-break) is reproducible.
func liftSites(folded []Site, box Box) []liftedPoint {
	shifts := box.ghostShifts()
	pts := make([]liftedPoint, 0, len(folded)*len(shifts))
	for _, sh := range shifts {
		for i, s := range folded {
			p := box.shift(s.Pos(), sh)
			img := Site{X: p.X, Y: p.Y, Z: p.Z, W2: s.W2}
			pts = append(pts, liftedPoint{v: lift(img), site: i, shift: sh})
		}
	}
	return pts
}

// dedupLifted drops points that coincide exactly with an earlier point in
// all four lifted coordinates. The earlier (lower-index) point wins, which
// makes duplicate-site resolution deterministic.
func dedupLifted(pts []liftedPoint) []liftedPoint {
	seen := make(map[[4]float64]struct{}, len(pts))
	out := pts[:0]
	for _, p := range pts {
		if _, ok := seen[p.v]; ok {
			continue
		}
		seen[p.v] = struct{}{}
		out = append(out, p)
	}
	return out
}
