package hilbert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformLayerIdentity(t *testing.T) {
	seq := Generate(3)
	for _, layer := range []int{0, 4, 8} {
		got, err := TransformLayer(seq, layer, 8)
		require.NoError(t, err)
		assert.Equal(t, seq, got, "layer %d", layer)
	}
}

func TestTransformLayerQuarterTurn(t *testing.T) {
	// counterclockwise about (1.5, 1.5)
	got, err := TransformLayer([]Coord{{0, 0}, {3, 0}, {3, 3}, {0, 3}, {1, 2}}, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{3, 0}, {3, 3}, {0, 3}, {0, 0}, {1, 1}}, got)
}

func TestTransformLayerIsRigid(t *testing.T) {
	for e := 1; e <= 5; e++ {
		side := Side(e)
		seq := Generate(e)
		for layer := 0; layer < 4; layer++ {
			got, err := TransformLayer(seq, layer, side)
			require.NoError(t, err)
			require.NoError(t, CheckAdjacent(got, layer))

			seen := make(map[Coord]bool, len(got))
			for _, c := range got {
				require.True(t, c.X >= 0 && c.X < side && c.Y >= 0 && c.Y < side)
				seen[c] = true
			}
			assert.Len(t, seen, len(seq), "e=%d layer=%d", e, layer)

			for i := 1; i < len(seq); i++ {
				for _, j := range []int{0, len(seq) / 2, len(seq) - 1} {
					assert.Equal(t, seq[i].ManhattanDist(seq[j]), got[i].ManhattanDist(got[j]))
				}
			}
		}
	}
}

func TestLayerContinuity(t *testing.T) {
	for e := 1; e <= 6; e++ {
		side := Side(e)
		seq := Generate(e)
		prev, err := TransformLayer(seq, 0, side)
		require.NoError(t, err)
		for layer := 1; layer < 9; layer++ {
			cur, err := TransformLayer(seq, layer, side)
			require.NoError(t, err)
			assert.Equal(t, prev[len(prev)-1], cur[0], "e=%d layer=%d", e, layer)
			prev = cur
		}
	}
}

func TestTransformExtendedLayer(t *testing.T) {
	ext := ComposeExtended(4, 2)
	got, err := TransformLayer(ext, 0, 16)
	require.NoError(t, err)
	assert.Equal(t, ext, got)
	assert.NoError(t, CheckAdjacent(got, 0))
}

func TestCheckAdjacent(t *testing.T) {
	assert.NoError(t, CheckAdjacent(nil, 0))
	assert.NoError(t, CheckAdjacent([]Coord{{0, 0}}, 0))

	err := CheckAdjacent([]Coord{{0, 0}, {0, 1}, {1, 2}}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonUnitStep))

	var inv *InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, 3, inv.Layer)
	assert.Equal(t, 2, inv.Index)

	assert.ErrorIs(t, CheckAdjacent([]Coord{{0, 0}, {0, 0}}, 0), ErrNonUnitStep)
}

func TestPathCursor(t *testing.T) {
	var pc PathCursor
	assert.True(t, pc.Detached())
	assert.NoError(t, pc.Continue(0, Coord{5, 5}))

	pc.End(Coord{3, 0})
	assert.False(t, pc.Detached())
	assert.Equal(t, Coord{3, 0}, pc.Pos())
	assert.NoError(t, pc.Continue(1, Coord{3, 0}))

	err := pc.Continue(1, Coord{0, 0})
	assert.ErrorIs(t, err, ErrLayerDiscontinuity)
	assert.Contains(t, err.Error(), "layer 1")
}

func TestPathCursorAfterOutro(t *testing.T) {
	ext := ComposeExtended(3, 1)
	intro := PointCount(1)

	var pc PathCursor
	pc.Leave(ext[len(ext)-1-intro])
	assert.True(t, pc.Detached())
	assert.Equal(t, Coord{7, 0}, pc.Pos())

	next, err := TransformLayer(Generate(3), 1, 8)
	require.NoError(t, err)
	assert.NoError(t, pc.Continue(1, next[0]))

	err = pc.Continue(1, Coord{1234, 999})
	assert.ErrorIs(t, err, ErrLayerDiscontinuity)

	pc.End(next[len(next)-1])
	assert.False(t, pc.Detached())
}
