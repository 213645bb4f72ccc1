package hilbert

import "fmt"

// Compose stitches an intro curve in front of main and a mirrored outro after
// it. Both extensions sit in the rows below the main grid (negative Y); the
// intro is walked backwards so it finishes next to main[0], and the outro is
// mirrored horizontally so it starts next to main[len(main)-1].
//
// main must start at (0,0) and end at (mainSide-1,0), which is what Generate
// produces. The intro must fit in the left half of the grid so that intro and
// outro do not overlap.
func Compose(main, intro []Coord, mainSide int) []Coord {
	m := len(intro)
	for _, c := range intro {
		if c.X < 0 || c.X >= mainSide/2 || c.Y < 0 {
			panic(fmt.Sprintf("hilbert: intro cell %v does not fit under half a grid of side %d", c, mainSide))
		}
	}

	res := make([]Coord, 0, len(main)+2*m)
	for i := 0; i < m; i++ {
		c := intro[m-1-i]
		res = append(res, Coord{c.X, -1 - c.Y})
	}
	res = append(res, main...)
	for i := 0; i < m; i++ {
		c := intro[i]
		res = append(res, Coord{mainSide - 1 - c.X, -1 - c.Y})
	}
	return res
}

// ComposeExtended generates the main and intro curves and composes them. An
// introExponent of 0 yields the plain main curve.
func ComposeExtended(mainExponent, introExponent int) []Coord {
	main := Generate(mainExponent)
	if introExponent == 0 {
		return main
	}
	if introExponent >= mainExponent {
		panic(fmt.Sprintf("hilbert: intro exponent %d must be below main exponent %d", introExponent, mainExponent))
	}
	return Compose(main, Generate(introExponent), Side(mainExponent))
}
