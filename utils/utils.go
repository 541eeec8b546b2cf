// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides utility functions for generating weighted sites
// for power diagrams.

package utils

import (
	"math/rand"

	"github.com/2dChan/powerdiag/regular"
)

// GenerateRandomSites generates cnt weighted sites uniformly distributed
// inside the box, with squared weights uniform in [0, maxW2]. Axes with a
// zero box dimension use the unit interval. The seed parameter ensures
// reproducibility.
func GenerateRandomSites(cnt int, seed int64, box regular.Box, maxW2 float64) []regular.Site {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	span := func(l float64) float64 {
		if l > 0 {
			return l
		}
		return 1
	}
	sites := make([]regular.Site, cnt)
	for i := 0; i < cnt; i++ {
		sites[i] = regular.Site{
			X:  random.Float64() * span(box.X),
			Y:  random.Float64() * span(box.Y),
			Z:  random.Float64() * span(box.Z),
			W2: random.Float64() * maxW2,
		}
	}
	return sites
}
