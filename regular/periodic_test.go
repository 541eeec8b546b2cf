// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package regular

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestBox_Displacement(t *testing.T) {
	tests := []struct {
		name     string
		box      Box
		from, to r3.Vector
		minImage bool
		want     r3.Vector
	}{
		{
			"wrap across boundary",
			Box{X: 2, Y: 2, Z: 2},
			r3.Vector{}, r3.Vector{X: 1.9},
			true,
			r3.Vector{X: -0.1},
		},
		{
			"literal without min image",
			Box{X: 2, Y: 2, Z: 2},
			r3.Vector{}, r3.Vector{X: 1.9},
			false,
			r3.Vector{X: 1.9},
		},
		{
			"zero axis never wraps",
			Box{Y: 2},
			r3.Vector{}, r3.Vector{X: 1.9, Y: 1.9},
			true,
			r3.Vector{X: 1.9, Y: -0.1},
		},
		{
			"non-periodic box",
			Box{},
			r3.Vector{X: 0.5}, r3.Vector{X: 9.5},
			true,
			r3.Vector{X: 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.Displacement(tt.from, tt.to, tt.minImage)
			if got.Sub(tt.want).Norm() > 1e-12 {
				t.Errorf("Displacement(...) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBox_Displacement_Magnitude(t *testing.T) {
	// The scenario from the wrap-around contract: two sites 1.9 apart in a
	// box of length 2 are 0.1 apart under the minimum image convention.
	box := Box{X: 2, Y: 2, Z: 2}
	d := box.Displacement(r3.Vector{}, r3.Vector{X: 1.9}, true).Norm()
	if math.Abs(d-0.1) > 1e-12 {
		t.Errorf("minimum-image distance = %v, want 0.1", d)
	}
}

func TestBox_Fold(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		p    r3.Vector
		want r3.Vector
	}{
		{
			"inside unchanged",
			Box{X: 2, Y: 2, Z: 2},
			r3.Vector{X: 0.5, Y: 1.5, Z: 1},
			r3.Vector{X: 0.5, Y: 1.5, Z: 1},
		},
		{
			"wraps both directions",
			Box{X: 2, Y: 2, Z: 2},
			r3.Vector{X: 2.5, Y: -0.5, Z: 4},
			r3.Vector{X: 0.5, Y: 1.5, Z: 0},
		},
		{
			"non-periodic axes untouched",
			Box{Z: 2},
			r3.Vector{X: -3, Y: 7, Z: -0.5},
			r3.Vector{X: -3, Y: 7, Z: 1.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.Fold(tt.p)
			if got.Sub(tt.want).Norm() > 1e-12 {
				t.Errorf("Fold(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBox_Validate(t *testing.T) {
	tests := []struct {
		name    string
		box     Box
		wantErr bool
	}{
		{"zero box", Box{}, false},
		{"positive box", Box{X: 1, Y: 2, Z: 3}, false},
		{"mixed zero axes", Box{X: 1}, false},
		{"negative dimension", Box{X: -1, Y: 2, Z: 2}, true},
		{"NaN dimension", Box{X: math.NaN()}, true},
		{"infinite dimension", Box{Z: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBox_Volume(t *testing.T) {
	if got := (Box{X: 2, Y: 3, Z: 4}).Volume(); got != 24 {
		t.Errorf("Volume() = %v, want 24", got)
	}
	if got := (Box{X: 2, Y: 3}).Volume(); got != 0 {
		t.Errorf("partially periodic Volume() = %v, want 0", got)
	}
}

func TestBox_GhostShifts(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want int
	}{
		{"non-periodic", Box{}, 1},
		{"one axis", Box{X: 1}, 3},
		{"two axes", Box{X: 1, Y: 1}, 9},
		{"three axes", Box{X: 1, Y: 1, Z: 1}, 27},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifts := tt.box.ghostShifts()
			if len(shifts) != tt.want {
				t.Errorf("len(ghostShifts()) = %d, want %d", len(shifts), tt.want)
			}
			if shifts[0] != ([3]int8{}) {
				t.Errorf("ghostShifts()[0] = %v, want zero offset first", shifts[0])
			}
		})
	}
}
