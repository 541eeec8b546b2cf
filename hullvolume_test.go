// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package powerdiag

import (
	"math"
	"testing"

	"github.com/2dChan/powerdiag/regular"
)

func cubeSites(scale float64) []regular.Site {
	var sites []regular.Site
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				sites = append(sites, regular.Site{
					X: float64(x) * scale,
					Y: float64(y) * scale,
					Z: float64(z) * scale,
				})
			}
		}
	}
	return sites
}

func TestHullVolume(t *testing.T) {
	tests := []struct {
		name  string
		sites []regular.Site
		want  float64
	}{
		{"unit cube", cubeSites(1), 1},
		{"scaled cube", cubeSites(2), 8},
		{"tetrahedron", []regular.Site{
			{}, {X: 1}, {Y: 1}, {Z: 1},
		}, 1.0 / 6.0},
		{"degenerate plane", []regular.Site{
			{}, {X: 1}, {Y: 1}, {X: 1, Y: 1},
		}, 0},
		{"too few sites", []regular.Site{{}, {X: 1}}, 0},
		{"duplicates collapse", []regular.Site{
			{}, {}, {X: 1}, {X: 1}, {Y: 1}, {Z: 1},
		}, 1.0 / 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HullVolume(tt.sites, regular.Box{})
			if err != nil {
				t.Fatalf("HullVolume(...) error = %v, want nil", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HullVolume(...) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHullVolume_InvalidInput(t *testing.T) {
	if _, err := HullVolume([]regular.Site{{X: math.NaN()}}, regular.Box{}); err == nil {
		t.Errorf("HullVolume(NaN site) error = nil, want non-nil")
	}
	if _, err := HullVolume([]regular.Site{{}}, regular.Box{X: -1}); err == nil {
		t.Errorf("HullVolume(negative box) error = nil, want non-nil")
	}
}

func TestHullVolume_MatchesCosphericalTetVolume(t *testing.T) {
	// For the cube input the triangulation fills the hull exactly, so the
	// summed tetrahedron volume must equal the hull volume.
	sites := cubeSites(1)
	tri, err := regular.New(sites)
	if err != nil {
		t.Fatalf("regular.New(...) error = %v, want nil", err)
	}
	var vol float64
	for ti := 0; ti < tri.NumTets(); ti++ {
		p := tri.TetPositions(ti)
		vol += math.Abs(p[1].Sub(p[0]).Dot(p[2].Sub(p[0]).Cross(p[3].Sub(p[0])))) / 6
	}
	hv, err := HullVolume(sites, regular.Box{})
	if err != nil {
		t.Fatalf("HullVolume(...) error = %v, want nil", err)
	}
	if math.Abs(vol-hv) > 1e-9 {
		t.Errorf("triangulation volume = %v, hull volume = %v, want equal", vol, hv)
	}
}
