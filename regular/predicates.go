// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package regular

import (
	"math"
	"math/big"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// This file contains the sign predicates the hull construction is built on.
// Each predicate first evaluates a floating-point determinant together with
// a conservative error bound; when the magnitude of the determinant does not
// clear the bound, the sign is recomputed with exact rational arithmetic.
// The result is therefore a definite sign for every finite input, with Zero
// reserved for genuinely degenerate configurations.

// dblEpsilon is the C++ DBL_EPSILON equivalent.
const dblEpsilon = 2.220446049250313e-16

// Conservative relative error factors for a 3x3 and 4x4 determinant
// evaluated in double precision. The exact forward-error constants are
// smaller; these are rounded up so the filter never certifies a wrong sign.
const (
	det3ErrBound = 16 * dblEpsilon
	det4ErrBound = 64 * dblEpsilon
)

// Sign is the outcome of a geometric predicate. Zero denotes a detected
// degeneracy, not a failure; callers must branch on it explicitly.
type Sign int

const (
	Negative Sign = iota - 1
	Zero
	Positive
)

func (s Sign) String() string {
	switch s {
	case Negative:
		return "Negative"
	case Positive:
		return "Positive"
	}
	return "Zero"
}

func signOf(v float64) Sign {
	switch {
	case v > 0:
		return Positive
	case v < 0:
		return Negative
	}
	return Zero
}

// Orient3 returns the sign of the signed volume of the tetrahedron
// (a, b, c, d): Positive when d lies on the positive side of the plane
// through a, b, c oriented counter-clockwise.
func Orient3(a, b, c, d r3.Vector) Sign {
	u := b.Sub(a)
	v := c.Sub(a)
	w := d.Sub(a)
	det := mgl64.Mat3FromRows(
		mgl64.Vec3{u.X, u.Y, u.Z},
		mgl64.Vec3{v.X, v.Y, v.Z},
		mgl64.Vec3{w.X, w.Y, w.Z},
	).Det()
	perm := permanent3([3][3]float64{
		{u.X, u.Y, u.Z},
		{v.X, v.Y, v.Z},
		{w.X, w.Y, w.Z},
	})
	if math.Abs(det) > det3ErrBound*perm {
		return signOf(det)
	}
	return exactOrient3(a, b, c, d)
}

// InPowerSphere decides whether site e lies inside (Positive), outside
// (Negative), or on (Zero) the power sphere of the four sites a, b, c, d,
// assuming Orient3 of the four positions is Positive; for the opposite
// orientation the sign flips accordingly.
func InPowerSphere(a, b, c, d, e Site) Sign {
	lo := liftedOrient(lift(a), lift(b), lift(c), lift(d), lift(e))
	o := Orient3(a.Pos(), b.Pos(), c.Pos(), d.Pos())
	return Sign(-int(lo) * int(o))
}

func lift(s Site) [4]float64 {
	return [4]float64{s.X, s.Y, s.Z, s.X*s.X + s.Y*s.Y + s.Z*s.Z - s.W2}
}

// liftedOrient returns the orientation of e against the oriented hyperplane
// through a, b, c, d in the lifted 4D space. The predicate is exact over the
// lifted coordinates as given.
func liftedOrient(a, b, c, d, e [4]float64) Sign {
	var rows [4][4]float64
	for i := 0; i < 4; i++ {
		rows[0][i] = b[i] - a[i]
		rows[1][i] = c[i] - a[i]
		rows[2][i] = d[i] - a[i]
		rows[3][i] = e[i] - a[i]
	}
	det := mgl64.Mat4FromRows(
		mgl64.Vec4(rows[0]),
		mgl64.Vec4(rows[1]),
		mgl64.Vec4(rows[2]),
		mgl64.Vec4(rows[3]),
	).Det()
	if math.Abs(det) > det4ErrBound*permanent4(rows) {
		return signOf(det)
	}
	return exactLiftedOrient(a, b, c, d, e)
}

// permanent3 is the determinant expansion with every term taken positive,
// an upper bound on the accumulated magnitude of the computation.
func permanent3(m [3][3]float64) float64 {
	a := abs3(m[0])
	b := abs3(m[1])
	c := abs3(m[2])
	return a[0]*(b[1]*c[2]+b[2]*c[1]) +
		a[1]*(b[0]*c[2]+b[2]*c[0]) +
		a[2]*(b[0]*c[1]+b[1]*c[0])
}

func permanent4(m [4][4]float64) float64 {
	var sum float64
	for col := 0; col < 4; col++ {
		sum += math.Abs(m[0][col]) * permanent3(minor3(m, col))
	}
	return sum
}

func abs3(v [3]float64) [3]float64 {
	return [3]float64{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

func minor3(m [4][4]float64, drop int) [3][3]float64 {
	var out [3][3]float64
	for r := 0; r < 3; r++ {
		c := 0
		for col := 0; col < 4; col++ {
			if col == drop {
				continue
			}
			out[r][c] = m[r+1][col]
			c++
		}
	}
	return out
}

// Exact stage. Doubles are rationals, so math/big.Rat arithmetic over the
// original inputs yields the true sign of the determinant.

func exactOrient3(a, b, c, d r3.Vector) Sign {
	ra := ratVec([4]float64{a.X, a.Y, a.Z})
	rb := ratVec([4]float64{b.X, b.Y, b.Z})
	rc := ratVec([4]float64{c.X, c.Y, c.Z})
	rd := ratVec([4]float64{d.X, d.Y, d.Z})
	rows := [3][]*big.Rat{
		ratSub(rb, ra, 3),
		ratSub(rc, ra, 3),
		ratSub(rd, ra, 3),
	}
	return Sign(ratDet3(rows[0], rows[1], rows[2]).Sign())
}

func exactLiftedOrient(a, b, c, d, e [4]float64) Sign {
	ra := ratVec(a)
	rows := [4][]*big.Rat{
		ratSub(ratVec(b), ra, 4),
		ratSub(ratVec(c), ra, 4),
		ratSub(ratVec(d), ra, 4),
		ratSub(ratVec(e), ra, 4),
	}
	return Sign(ratDet4(rows).Sign())
}

func ratVec(v [4]float64) []*big.Rat {
	out := make([]*big.Rat, 4)
	for i, x := range v {
		out[i] = new(big.Rat).SetFloat64(x)
	}
	return out
}

func ratSub(a, b []*big.Rat, n int) []*big.Rat {
	out := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		out[i] = new(big.Rat).Sub(a[i], b[i])
	}
	return out
}

func ratDet2(a0, a1, b0, b1 *big.Rat) *big.Rat {
	x := new(big.Rat).Mul(a0, b1)
	y := new(big.Rat).Mul(a1, b0)
	return x.Sub(x, y)
}

func ratDet3(r0, r1, r2 []*big.Rat) *big.Rat {
	det := new(big.Rat)
	sign := 1
	for col := 0; col < 3; col++ {
		c0, c1 := otherCols3(col)
		m := ratDet2(r1[c0], r1[c1], r2[c0], r2[c1])
		m.Mul(m, r0[col])
		if sign > 0 {
			det.Add(det, m)
		} else {
			det.Sub(det, m)
		}
		sign = -sign
	}
	return det
}

func ratDet4(rows [4][]*big.Rat) *big.Rat {
	det := new(big.Rat)
	sign := 1
	for col := 0; col < 4; col++ {
		sub := make([][]*big.Rat, 3)
		for r := 0; r < 3; r++ {
			sub[r] = make([]*big.Rat, 0, 3)
			for c := 0; c < 4; c++ {
				if c != col {
					sub[r] = append(sub[r], rows[r+1][c])
				}
			}
		}
		m := ratDet3(sub[0], sub[1], sub[2])
		m.Mul(m, rows[0][col])
		if sign > 0 {
			det.Add(det, m)
		} else {
			det.Sub(det, m)
		}
		sign = -sign
	}
	return det
}

func otherCols3(drop int) (int, int) {
	switch drop {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}
