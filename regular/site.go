// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package regular computes regular (weighted Delaunay) triangulations of
// weighted point sites in R^3, optionally with periodic boundary conditions.

package regular

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Site is a weighted point. W2 is the squared weight in the power diagram
// convention: the power distance from a point p to the site is
// |p - Pos()|^2 - W2.
type Site struct {
	X, Y, Z, W2 float64
}

// Pos returns the site position.
func (s Site) Pos() r3.Vector {
	return r3.Vector{X: s.X, Y: s.Y, Z: s.Z}
}

func (s Site) finite() bool {
	for _, v := range [4]float64{s.X, s.Y, s.Z, s.W2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidateSites checks every site for non-finite coordinates or weights.
// Validation runs before any geometric work so that a bad input never
// produces a partial result.
func ValidateSites(sites []Site) error {
	for i, s := range sites {
		if !s.finite() {
			return fmt.Errorf("regular: site %d has non-finite coordinates or weight", i)
		}
	}
	return nil
}
