package builder

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/design/layout"
	"sunkissed-backend/internal/domains/design/model"
)

// Placements tracks which charm sits in which slot of one layout.
// A slot holds at most one charm; placing into an occupied slot replaces it.
type Placements struct {
	slots  layout.SlotSet
	bySlot map[int]uuid.UUID
}

func NewPlacements(slots layout.SlotSet) *Placements {
	return &Placements{slots: slots, bySlot: make(map[int]uuid.UUID)}
}

// PlacementsFromList rebuilds placements, rejecting unknown or repeated slots.
func PlacementsFromList(slots layout.SlotSet, list []model.Placement) (*Placements, error) {
	p := NewPlacements(slots)
	for _, pl := range list {
		if _, dup := p.bySlot[pl.SlotID]; dup {
			return nil, fmt.Errorf("%w: %d", model.ErrDuplicatePlacement, pl.SlotID)
		}
		if err := p.Place(pl.SlotID, pl.CharmID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Placements) Slots() layout.SlotSet { return p.slots }

// Place inserts or overwrites the charm in slotID.
func (p *Placements) Place(slotID int, charmID uuid.UUID) error {
	if !p.slots.Contains(slotID) {
		return fmt.Errorf("%w: %d", model.ErrInvalidSlot, slotID)
	}
	p.bySlot[slotID] = charmID
	return nil
}

// Remove reports whether a placement was deleted. Removing an empty slot is a no-op.
func (p *Placements) Remove(slotID int) bool {
	if _, ok := p.bySlot[slotID]; !ok {
		return false
	}
	delete(p.bySlot, slotID)
	return true
}

func (p *Placements) Get(slotID int) (uuid.UUID, bool) {
	id, ok := p.bySlot[slotID]
	return id, ok
}

func (p *Placements) Len() int { return len(p.bySlot) }

// List is ordered by slot id.
func (p *Placements) List() []model.Placement {
	out := make([]model.Placement, 0, len(p.bySlot))
	for slotID, charmID := range p.bySlot {
		out = append(out, model.Placement{SlotID: slotID, CharmID: charmID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotID < out[j].SlotID })
	return out
}

// CharmIDs returns the distinct charms in use.
func (p *Placements) CharmIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(p.bySlot))
	out := make([]uuid.UUID, 0, len(p.bySlot))
	for _, pl := range p.List() {
		if _, ok := seen[pl.CharmID]; ok {
			continue
		}
		seen[pl.CharmID] = struct{}{}
		out = append(out, pl.CharmID)
	}
	return out
}

// Resize moves placements onto a layout with a different slot count. Charms
// keep their side and position; those whose position no longer exists are dropped.
func (p *Placements) Resize(to layout.SlotSet) *Placements {
	next := NewPlacements(to)
	for slotID, charmID := range p.bySlot {
		if id, ok := p.slots.Remap(slotID, to); ok {
			next.bySlot[id] = charmID
		}
	}
	return next
}
