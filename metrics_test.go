// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package powerdiag

import (
	"math"
	"testing"

	"github.com/2dChan/powerdiag/regular"
	"github.com/2dChan/powerdiag/utils"
)

func TestDiagram_Edges(t *testing.T) {
	sites := utils.GenerateRandomSites(25, 17, regular.Box{}, 0.001)
	d := mustNewDiagram(t, sites)

	if d.NumEdges() == 0 {
		t.Fatal("d.NumEdges() = 0, want > 0")
	}
	prev := [2]int{-1, -1}
	for k, e := range d.Edges {
		if e[0] >= e[1] {
			t.Errorf("edge %d = %v, want ascending pair", k, e)
		}
		if e[0] < prev[0] || (e[0] == prev[0] && e[1] <= prev[1]) {
			t.Errorf("edge %d = %v out of lexicographic order after %v", k, e, prev)
		}
		prev = e
	}
}

func TestDiagram_Dihedrals(t *testing.T) {
	sites := utils.GenerateRandomSites(25, 17, regular.Box{}, 0.001)
	d := mustNewDiagram(t, sites)

	if got, want := len(d.Dihedrals), d.NumEdges(); got != want {
		t.Fatalf("len(d.Dihedrals) = %d, want %d", got, want)
	}
	for k, a := range d.Dihedrals {
		if a <= 0 || a > math.Pi {
			t.Errorf("d.Dihedrals[%d] = %v, want in (0, pi]", k, a)
		}
	}
}

func TestDiagram_DihedralsDisabled(t *testing.T) {
	sites := utils.GenerateRandomSites(25, 17, regular.Box{}, 0.001)
	d := mustNewDiagram(t, sites, WithDihedrals(false))

	if d.Dihedrals != nil {
		t.Errorf("d.Dihedrals = %v, want nil when disabled", d.Dihedrals)
	}
	if d.NumEdges() == 0 {
		t.Errorf("d.NumEdges() = 0, want edges even without dihedrals")
	}
}

func TestDiagram_DihedralsSingleTetrahedron(t *testing.T) {
	// Regular tetrahedron: every edge has the same interior dihedral angle
	// acos(1/3).
	s := 1 / math.Sqrt2
	sites := []regular.Site{
		{X: 1, Y: 0, Z: -s},
		{X: -1, Y: 0, Z: -s},
		{X: 0, Y: 1, Z: s},
		{X: 0, Y: -1, Z: s},
	}
	d := mustNewDiagram(t, sites)

	want := math.Acos(1.0 / 3.0)
	if got := len(d.Dihedrals); got != 6 {
		t.Fatalf("len(d.Dihedrals) = %d, want 6", got)
	}
	for k, a := range d.Dihedrals {
		if math.Abs(a-want) > 1e-12 {
			t.Errorf("d.Dihedrals[%d] = %v, want %v", k, a, want)
		}
	}
}

func TestDiagram_EdgeLength(t *testing.T) {
	sites := []regular.Site{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	d := mustNewDiagram(t, sites)

	// Edge 0 is (0, 1) after lexicographic ordering.
	got, err := d.EdgeLength(0)
	if err != nil {
		t.Fatalf("d.EdgeLength(0) error = %v, want nil", err)
	}
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("d.EdgeLength(0) = %v, want 1", got)
	}
	if _, err := d.EdgeLength(-1); err == nil {
		t.Errorf("d.EdgeLength(-1) error = nil, want non-nil")
	}
	if _, err := d.EdgeLength(d.NumEdges()); err == nil {
		t.Errorf("d.EdgeLength(NumEdges) error = nil, want non-nil")
	}
}

func TestDiagram_EdgeLengthMinImage(t *testing.T) {
	box := regular.Box{X: 2, Y: 2, Z: 2}
	sites := utils.GenerateRandomSites(16, 3, box, 0.01)

	wrapped := mustNewDiagram(t, sites, WithBox(box), WithMinImage(true))
	literal := mustNewDiagram(t, sites, WithBox(box), WithMinImage(false))

	if wrapped.NumEdges() != literal.NumEdges() {
		t.Fatalf("edge counts differ: %d vs %d", wrapped.NumEdges(), literal.NumEdges())
	}
	for k := range wrapped.Edges {
		wl, err := wrapped.EdgeLength(k)
		if err != nil {
			t.Fatalf("wrapped.EdgeLength(%d) error = %v, want nil", k, err)
		}
		ll, err := literal.EdgeLength(k)
		if err != nil {
			t.Fatalf("literal.EdgeLength(%d) error = %v, want nil", k, err)
		}
		if wl > ll+1e-12 {
			t.Errorf("edge %d: minimum-image length %v exceeds literal length %v", k, wl, ll)
		}
	}
}
