package hilbert

import "fmt"

// quarter-turn rotation table, indexed by layer mod 4
var (
	cosines = [4]int{1, 0, -1, 0}
	sines   = [4]int{0, 1, 0, -1}
)

// TransformLayer rotates seq counterclockwise by 90° per layer about the
// center of a grid of side mainSide. The center is (mainSide-1)/2 on both
// axes; coordinates are doubled while rotating so it stays an integer.
func TransformLayer(seq []Coord, layer, mainSide int) ([]Coord, error) {
	if layer < 0 {
		panic(fmt.Sprintf("hilbert: negative layer %d", layer))
	}
	cos, sin := cosines[layer%4], sines[layer%4]
	c := mainSide - 1

	res := make([]Coord, len(seq))
	for i, p := range seq {
		xRel := 2*p.X - c
		yRel := 2*p.Y - c
		xRot := xRel*cos - yRel*sin + c
		yRot := xRel*sin + yRel*cos + c
		if xRot%2 != 0 || yRot%2 != 0 {
			return nil, &InvariantError{
				Kind:   ErrOddCenter,
				Layer:  layer,
				Index:  i,
				Detail: fmt.Sprintf("doubled point (%d,%d)", xRot, yRot),
			}
		}
		res[i] = Coord{xRot / 2, yRot / 2}
	}
	return res, nil
}

// CheckAdjacent verifies that every consecutive pair in seq is exactly one
// grid step apart.
func CheckAdjacent(seq []Coord, layer int) error {
	for i := 1; i < len(seq); i++ {
		if seq[i-1].ManhattanDist(seq[i]) != 1 {
			return &InvariantError{
				Kind:   ErrNonUnitStep,
				Layer:  layer,
				Index:  i,
				Detail: fmt.Sprintf("%v -> %v", seq[i-1], seq[i]),
			}
		}
	}
	return nil
}

// PathCursor is where the next layer has to start. The zero value has no
// position yet, since the first layer is always reached by a travel move.
type PathCursor struct {
	pos    Coord
	known  bool
	travel bool
}

// Pos returns the point the next layer has to start from.
func (pc *PathCursor) Pos() Coord { return pc.pos }

// Detached reports whether the next layer is joined by a travel move
// rather than by extruding straight up.
func (pc *PathCursor) Detached() bool { return !pc.known || pc.travel }

// Continue checks that a layer starting at first picks up where the previous
// one left off.
func (pc *PathCursor) Continue(layer int, first Coord) error {
	if !pc.known {
		return nil
	}
	if first != pc.pos {
		return &InvariantError{
			Kind:   ErrLayerDiscontinuity,
			Layer:  layer,
			Detail: fmt.Sprintf("starts at %v, previous layer ended at %v", first, pc.pos),
		}
	}
	return nil
}

// End records the last point of a layer; the next layer continues from it.
func (pc *PathCursor) End(last Coord) {
	pc.pos = last
	pc.known = true
	pc.travel = false
}

// Leave records a layer that ended away from its curve, e.g. on an outro.
// The next layer still has to start at resume, but is reached by travel.
func (pc *PathCursor) Leave(resume Coord) {
	pc.pos = resume
	pc.known = true
	pc.travel = true
}
