// Package layout computes where charm slots sit on a piece of jewelry.
//
// Front slots trace a parabola across the item: the outermost slots sit at
// the bottom bound and the centre of the curve reaches the top bound. With y
// growing downwards that is an arch over the image, highest in the middle.
// Back slots mirror the front ones horizontally. Coordinates are percentages
// of the item image.
package layout

import (
	"errors"
	"fmt"
	"math"
)

type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

const (
	MinSlots     = 4
	MaxSlots     = 20
	DefaultSlots = 10
)

var ErrInvalidSlotCount = errors.New("invalid slot count")

type SlotDefinition struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Side  Side    `json:"side"`
	Label string  `json:"label"`
}

// Bounds are expressed in percent of the item image.
type Bounds struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

var DefaultBounds = Bounds{Left: 20, Right: 80, Top: 25, Bottom: 72}

func (b Bounds) center() float64    { return (b.Left + b.Right) / 2 }
func (b Bounds) halfWidth() float64 { return (b.Right - b.Left) / 2 }

// Generate lays out n front and n back slots with DefaultBounds.
func Generate(n int) ([]SlotDefinition, error) {
	return DefaultBounds.Generate(n)
}

// Generate returns 2n slots: front ids 1..n, back ids n+1..2n.
// A single slot is placed at the centre of the curve.
func (b Bounds) Generate(n int) ([]SlotDefinition, error) {
	if n < 1 || n > MaxSlots {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidSlotCount, n, MaxSlots)
	}

	slots := make([]SlotDefinition, 0, 2*n)
	back := make([]SlotDefinition, 0, n)
	for i := 0; i < n; i++ {
		progress := 0.5
		if n > 1 {
			progress = float64(i) / float64(n-1)
		}

		x := b.Left + progress*(b.Right-b.Left)
		y := b.curveY(x)

		slots = append(slots, SlotDefinition{
			ID:    i + 1,
			X:     round2(x),
			Y:     round2(y),
			Side:  SideFront,
			Label: fmt.Sprintf("Slot %d", i+1),
		})
		back = append(back, SlotDefinition{
			ID:    n + i + 1,
			X:     round2(b.Left + b.Right - x),
			Y:     round2(y),
			Side:  SideBack,
			Label: fmt.Sprintf("Back Slot %d", i+1),
		})
	}

	return append(slots, back...), nil
}

func (b Bounds) curveY(x float64) float64 {
	half := b.halfWidth()
	if half == 0 {
		return b.Top
	}
	d := (x - b.center()) / half
	return b.Top + (b.Bottom-b.Top)*d*d
}

// ValidateItemSlotCount checks the range an item may be configured with.
func ValidateItemSlotCount(n int) error {
	if n < MinSlots || n > MaxSlots {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidSlotCount, n, MinSlots, MaxSlots)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SlotSet answers membership questions for the slots of an n-slot layout
// without materialising coordinates.
type SlotSet struct {
	n int
}

func NewSlotSet(n int) SlotSet {
	return SlotSet{n: n}
}

// Count is the number of front slots.
func (s SlotSet) Count() int { return s.n }

func (s SlotSet) Contains(id int) bool {
	return id >= 1 && id <= 2*s.n
}

func (s SlotSet) Side(id int) (Side, bool) {
	switch {
	case !s.Contains(id):
		return "", false
	case id <= s.n:
		return SideFront, true
	default:
		return SideBack, true
	}
}

// Position is the 1-based index of the slot within its side.
func (s SlotSet) Position(id int) (int, bool) {
	side, ok := s.Side(id)
	if !ok {
		return 0, false
	}
	if side == SideFront {
		return id, true
	}
	return id - s.n, true
}

// Remap returns the id the slot at the same side and position has in other,
// or false when other has no such slot.
func (s SlotSet) Remap(id int, other SlotSet) (int, bool) {
	side, ok := s.Side(id)
	if !ok {
		return 0, false
	}
	pos, _ := s.Position(id)
	if pos > other.n {
		return 0, false
	}
	if side == SideFront {
		return pos, true
	}
	return other.n + pos, true
}
