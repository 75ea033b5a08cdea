package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCountsAndBounds(t *testing.T) {
	for n := 1; n <= MaxSlots; n++ {
		slots, err := Generate(n)
		require.NoError(t, err, "n=%d", n)
		require.Len(t, slots, 2*n, "n=%d", n)

		front, back := 0, 0
		seen := map[int]bool{}
		for _, s := range slots {
			assert.False(t, seen[s.ID], "duplicate id %d for n=%d", s.ID, n)
			seen[s.ID] = true
			assert.GreaterOrEqual(t, s.X, 0.0)
			assert.LessOrEqual(t, s.X, 100.0)
			assert.GreaterOrEqual(t, s.Y, 0.0)
			assert.LessOrEqual(t, s.Y, 100.0)
			if s.Side == SideFront {
				front++
			} else {
				back++
			}
		}
		assert.Equal(t, n, front)
		assert.Equal(t, n, back)
	}
}

func TestGenerateTenSlots(t *testing.T) {
	slots, err := Generate(10)
	require.NoError(t, err)

	first, last := slots[0], slots[9]
	assert.Equal(t, 1, first.ID)
	assert.InDelta(t, 20, first.X, 0.001)
	assert.InDelta(t, 72, first.Y, 0.001)
	assert.Equal(t, "Slot 1", first.Label)

	assert.Equal(t, 10, last.ID)
	assert.InDelta(t, 80, last.X, 0.001)
	assert.InDelta(t, 72, last.Y, 0.001)

	back := slots[10]
	assert.Equal(t, 11, back.ID)
	assert.Equal(t, SideBack, back.Side)
	assert.Equal(t, "Back Slot 1", back.Label)
	assert.InDelta(t, 80, back.X, 0.001)
	assert.InDelta(t, 72, back.Y, 0.001)
}

func TestGenerateApex(t *testing.T) {
	slots, err := Generate(5)
	require.NoError(t, err)

	mid := slots[2]
	assert.InDelta(t, 50, mid.X, 0.001)
	assert.InDelta(t, 25, mid.Y, 0.001)
}

func TestGenerateSingleSlot(t *testing.T) {
	slots, err := Generate(1)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, SlotDefinition{ID: 1, X: 50, Y: 25, Side: SideFront, Label: "Slot 1"}, slots[0])
	assert.Equal(t, SlotDefinition{ID: 2, X: 50, Y: 25, Side: SideBack, Label: "Back Slot 1"}, slots[1])
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(13)
	require.NoError(t, err)
	b, err := Generate(13)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateBackMirrorsFront(t *testing.T) {
	n := 7
	slots, err := Generate(n)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		front, back := slots[i], slots[n+i]
		assert.Equal(t, front.ID+n, back.ID)
		assert.InDelta(t, 100-front.X, back.X, 0.011)
		assert.Equal(t, front.Y, back.Y)
	}
}

func TestGenerateRejectsOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 0, MaxSlots + 1} {
		_, err := Generate(n)
		assert.True(t, errors.Is(err, ErrInvalidSlotCount), "n=%d", n)
	}
}

func TestCustomBoundsDeriveHalfWidth(t *testing.T) {
	b := Bounds{Left: 10, Right: 90, Top: 20, Bottom: 60}
	slots, err := b.Generate(3)
	require.NoError(t, err)

	assert.InDelta(t, 10, slots[0].X, 0.001)
	assert.InDelta(t, 60, slots[0].Y, 0.001)
	assert.InDelta(t, 50, slots[1].X, 0.001)
	assert.InDelta(t, 20, slots[1].Y, 0.001)
}

func TestValidateItemSlotCount(t *testing.T) {
	assert.NoError(t, ValidateItemSlotCount(MinSlots))
	assert.NoError(t, ValidateItemSlotCount(MaxSlots))
	assert.Error(t, ValidateItemSlotCount(3))
	assert.Error(t, ValidateItemSlotCount(21))
}

func TestSlotSet(t *testing.T) {
	s := NewSlotSet(10)

	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(20))
	assert.False(t, s.Contains(0))
	assert.False(t, s.Contains(21))

	side, ok := s.Side(11)
	assert.True(t, ok)
	assert.Equal(t, SideBack, side)

	_, ok = s.Side(99)
	assert.False(t, ok)
}

func TestSlotSetRemap(t *testing.T) {
	from, to := NewSlotSet(10), NewSlotSet(6)

	id, ok := from.Remap(3, to)
	assert.True(t, ok)
	assert.Equal(t, 3, id)

	id, ok = from.Remap(12, to) // back slot 2
	assert.True(t, ok)
	assert.Equal(t, 8, id)

	_, ok = from.Remap(9, to)
	assert.False(t, ok)
	_, ok = from.Remap(19, to)
	assert.False(t, ok)
}
