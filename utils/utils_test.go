// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package utils

import (
	"testing"

	"github.com/2dChan/powerdiag/regular"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateRandomSites(t *testing.T) {
	box := regular.Box{X: 2, Y: 3, Z: 0.5}
	maxW2 := 0.25
	sites := GenerateRandomSites(100, 42, box, maxW2)

	if got := len(sites); got != 100 {
		t.Fatalf("len(sites) = %d, want 100", got)
	}
	for i, s := range sites {
		if s.X < 0 || s.X >= box.X || s.Y < 0 || s.Y >= box.Y || s.Z < 0 || s.Z >= box.Z {
			t.Errorf("sites[%d] = %v outside box %v", i, s, box)
		}
		if s.W2 < 0 || s.W2 >= maxW2 {
			t.Errorf("sites[%d].W2 = %v, want in [0, %v)", i, s.W2, maxW2)
		}
	}
}

func TestGenerateRandomSites_Reproducible(t *testing.T) {
	box := regular.Box{X: 1, Y: 1, Z: 1}
	a := GenerateRandomSites(50, 7, box, 0.1)
	b := GenerateRandomSites(50, 7, box, 0.1)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different sites (-first +second):\n%s", diff)
	}
	c := GenerateRandomSites(50, 8, box, 0.1)
	if diff := cmp.Diff(a, c); diff == "" {
		t.Errorf("different seeds produced identical sites")
	}
}

func TestGenerateRandomSites_ZeroBox(t *testing.T) {
	sites := GenerateRandomSites(20, 0, regular.Box{}, 0)
	for i, s := range sites {
		if s.X < 0 || s.X >= 1 || s.Y < 0 || s.Y >= 1 || s.Z < 0 || s.Z >= 1 {
			t.Errorf("sites[%d] = %v outside unit cube", i, s)
		}
		if s.W2 != 0 {
			t.Errorf("sites[%d].W2 = %v, want 0 for maxW2 = 0", i, s.W2)
		}
	}
}
