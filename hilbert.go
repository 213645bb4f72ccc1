// Package hilbert plans a layered 3D print of a Hilbert curve: the curve
// itself, the per-layer rotation, intro/outro stitching and progress.
package hilbert

import "fmt"

// MaxExponent is the largest curve exponent Generate accepts. The decoder
// runs over the point-count domain, so pointCount² has to fit in a uint64.
const MaxExponent = 15

// maxSide bounds the side length accepted by IndexToCoord and CoordToIndex.
const maxSide = 1 << 31

// Coord is a cell of the curve grid. Intro/outro cells sit below the main
// grid and have negative Y.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// ManhattanDist returns |dx| + |dy|.
func (c Coord) ManhattanDist(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func checkSide(n int) {
	if !isPowerOfTwo(n) || uint64(n) > maxSide {
		panic(fmt.Sprintf("hilbert: side %d is not a power of two in [1, 2^31]", n))
	}
}

// IndexToCoord maps the curve index d to its cell on a curve of side n.
// See https://en.wikipedia.org/wiki/Hilbert_curve
func IndexToCoord(n int, d uint64) Coord {
	checkSide(n)
	if d >= uint64(n)*uint64(n) {
		panic(fmt.Sprintf("hilbert: index %d out of range for side %d", d, n))
	}

	var x, y uint64
	t := d
	for s := uint64(1); s < uint64(n); s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		x, y = rotateQuadrant(s, x, y, rx, ry)
		x += s * rx
		y += s * ry
		t /= 4
	}
	return Coord{int(x), int(y)}
}

// CoordToIndex is the inverse of IndexToCoord.
func CoordToIndex(n int, c Coord) uint64 {
	checkSide(n)
	if c.X < 0 || c.Y < 0 || c.X >= n || c.Y >= n {
		panic(fmt.Sprintf("hilbert: cell %v out of range for side %d", c, n))
	}

	x, y := uint64(c.X), uint64(c.Y)
	var d uint64
	for s := uint64(n) / 2; s > 0; s /= 2 {
		var rx, ry uint64
		if x&s > 0 {
			rx = 1
		}
		if y&s > 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		x, y = rotateQuadrant(uint64(n), x, y, rx, ry)
	}
	return d
}

// rotateQuadrant flips and transposes a sub-square of side s.
func rotateQuadrant(s, x, y, rx, ry uint64) (uint64, uint64) {
	if ry == 0 {
		if rx == 1 {
			x = s - 1 - x
			y = s - 1 - y
		}
		x, y = y, x
	}
	return x, y
}

// Side returns the grid side length for a curve exponent.
func Side(exponent int) int {
	return 1 << exponent
}

// PointCount returns the number of cells on a curve of the given exponent.
func PointCount(exponent int) int {
	return 1 << (2 * exponent)
}

// Generate returns every cell of the curve of the given exponent in curve
// order. The sequence starts at (0,0) and ends at (side-1,0).
func Generate(exponent int) []Coord {
	if exponent < 1 || exponent > MaxExponent {
		panic(fmt.Sprintf("hilbert: exponent %d out of range [1, %d]", exponent, MaxExponent))
	}

	// Decoding over the point-count domain runs one surplus level per unit
	// of exponent, and every surplus level transposes the curve. Odd
	// exponents are swapped back below.
	n := PointCount(exponent)
	seq := make([]Coord, n)
	for d := range seq {
		seq[d] = IndexToCoord(n, uint64(d))
	}
	if exponent%2 == 1 {
		for d := range seq {
			seq[d].X, seq[d].Y = seq[d].Y, seq[d].X
		}
	}
	return seq
}
