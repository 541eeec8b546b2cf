// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package regular

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Box is a rectangular periodic domain. A zero component disables
// wrap-around along that axis; the zero Box is fully non-periodic.
type Box struct {
	X, Y, Z float64
}

// Validate reports non-finite or negative box dimensions.
func (b Box) Validate() error {
	for i, v := range b.axes() {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("regular: box dimension %d = %v, want finite and >= 0", i, v)
		}
	}
	return nil
}

// Periodic reports whether the box wraps around along at least one axis.
func (b Box) Periodic() bool {
	return b.X > 0 || b.Y > 0 || b.Z > 0
}

// Volume returns the volume of the fundamental domain, or 0 if the box is
// not periodic along all three axes.
func (b Box) Volume() float64 {
	if b.X > 0 && b.Y > 0 && b.Z > 0 {
		return b.X * b.Y * b.Z
	}
	return 0
}

func (b Box) axes() [3]float64 {
	return [3]float64{b.X, b.Y, b.Z}
}

// Displacement returns the displacement vector from 'from' to 'to'. With
// minImage set, the displacement along each periodic axis is reduced to the
// nearest periodic image; otherwise the literal difference is returned.
// Non-periodic axes are never wrapped.
func (b Box) Displacement(from, to r3.Vector, minImage bool) r3.Vector {
	d := to.Sub(from)
	if !minImage {
		return d
	}
	dc := [3]float64{d.X, d.Y, d.Z}
	for i, l := range b.axes() {
		if l > 0 {
			dc[i] -= l * math.Round(dc[i]/l)
		}
	}
	return r3.Vector{X: dc[0], Y: dc[1], Z: dc[2]}
}

// Fold wraps a point into the fundamental domain [0, L) along each periodic
// axis. Non-periodic axes are left untouched.
func (b Box) Fold(p r3.Vector) r3.Vector {
	pc := [3]float64{p.X, p.Y, p.Z}
	for i, l := range b.axes() {
		if l > 0 {
			pc[i] -= l * math.Floor(pc[i]/l)
		}
	}
	return r3.Vector{X: pc[0], Y: pc[1], Z: pc[2]}
}

// shift translates a point by a whole number of box lengths per axis.
func (b Box) shift(p r3.Vector, s [3]int8) r3.Vector {
	return r3.Vector{
		X: p.X + float64(s[0])*b.X,
		Y: p.Y + float64(s[1])*b.Y,
		Z: p.Z + float64(s[2])*b.Z,
	}
}

// ghostShifts enumerates the image offsets used for ghost replication: the
// full face/edge/corner neighborhood of the fundamental domain, restricted
// to periodic axes. The zero offset (the original sites) comes first so that
// ghost indices always follow real indices.
func (b Box) ghostShifts() [][3]int8 {
	ranges := [3][]int8{{0}, {0}, {0}}
	for i, l := range b.axes() {
		if l > 0 {
			ranges[i] = []int8{0, -1, 1}
		}
	}
	shifts := make([][3]int8, 0, len(ranges[0])*len(ranges[1])*len(ranges[2]))
	shifts = append(shifts, [3]int8{})
	for _, sx := range ranges[0] {
		for _, sy := range ranges[1] {
			for _, sz := range ranges[2] {
				if sx == 0 && sy == 0 && sz == 0 {
					continue
				}
				shifts = append(shifts, [3]int8{sx, sy, sz})
			}
		}
	}
	return shifts
}
