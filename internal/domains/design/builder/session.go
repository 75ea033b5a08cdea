package builder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/domains/design/layout"
	"sunkissed-backend/internal/domains/design/model"
)

// State of a configurator session.
//
//	idle -> base_selected -> configuring -> finalizing -> shared
//
// finalizing may go back to configuring. Editing after a share returns to
// configuring; sharing again creates a new design.
type State string

const (
	StateIdle         State = "idle"
	StateBaseSelected State = "base_selected"
	StateConfiguring  State = "configuring"
	StateFinalizing   State = "finalizing"
	StateShared       State = "shared"
)

// BaseItem is the snapshot of the catalog item a session is built on.
type BaseItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	SlotCount int             `json:"slot_count"`
}

// Session is the explicit state of one configurator session. It holds no
// references to storage; callers load and save it.
type Session struct {
	id       string
	ownerKey string
	state    State

	base       *BaseItem
	placements *Placements

	name     string
	tags     []string
	isPublic bool

	revision      int64
	lastShareCode string
	shareCodes    []string

	createdAt time.Time
	updatedAt time.Time
}

func NewSession(id, ownerKey string, now time.Time) *Session {
	return &Session{
		id:        id,
		ownerKey:  ownerKey,
		state:     StateIdle,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() string              { return s.id }
func (s *Session) OwnerKey() string        { return s.ownerKey }
func (s *Session) State() State            { return s.state }
func (s *Session) Base() *BaseItem         { return s.base }
func (s *Session) Name() string            { return s.name }
func (s *Session) Tags() []string          { return append([]string{}, s.tags...) }
func (s *Session) IsPublic() bool          { return s.isPublic }
func (s *Session) Revision() int64         { return s.revision }
func (s *Session) LastShareCode() string   { return s.lastShareCode }
func (s *Session) ShareCodes() []string    { return append([]string{}, s.shareCodes...) }
func (s *Session) UpdatedAt() time.Time    { return s.updatedAt }
func (s *Session) CreatedAt() time.Time    { return s.createdAt }
func (s *Session) OwnedBy(key string) bool { return s.ownerKey == key }

func (s *Session) SlotCount() int {
	if s.placements == nil {
		return 0
	}
	return s.placements.Slots().Count()
}

// Placements is ordered by slot id.
func (s *Session) Placements() []model.Placement {
	if s.placements == nil {
		return []model.Placement{}
	}
	return s.placements.List()
}

func (s *Session) CharmIDs() []uuid.UUID {
	if s.placements == nil {
		return nil
	}
	return s.placements.CharmIDs()
}

// CheckRevision rejects a request built on an older revision than the current one.
func (s *Session) CheckRevision(expected *int64) error {
	if expected != nil && *expected != s.revision {
		return fmt.Errorf("%w: expected %d, current %d", model.ErrStaleRevision, *expected, s.revision)
	}
	return nil
}

// SelectBase starts over on a new base item. Existing placements are dropped.
func (s *Session) SelectBase(item BaseItem, now time.Time) error {
	if s.state == StateFinalizing {
		return s.illegal("select base")
	}
	if err := layout.ValidateItemSlotCount(item.SlotCount); err != nil {
		return err
	}

	s.base = &item
	s.placements = NewPlacements(layout.NewSlotSet(item.SlotCount))
	s.state = StateBaseSelected
	s.touch(now)
	return nil
}

// SetSlotCount changes the number of slots per side. Charms keep their
// side and position when that position still exists.
func (s *Session) SetSlotCount(n int, now time.Time) error {
	if err := s.requireEditable("change slot count"); err != nil {
		return err
	}
	if err := layout.ValidateItemSlotCount(n); err != nil {
		return err
	}
	if n == s.SlotCount() {
		return nil
	}

	s.placements = s.placements.Resize(layout.NewSlotSet(n))
	if s.state == StateShared {
		s.state = StateConfiguring
	}
	s.touch(now)
	return nil
}

// Place puts charmID into slotID, replacing whatever was there.
func (s *Session) Place(slotID int, charmID uuid.UUID, now time.Time) error {
	if err := s.requireEditable("place charm"); err != nil {
		return err
	}
	if err := s.placements.Place(slotID, charmID); err != nil {
		return err
	}

	s.state = StateConfiguring
	s.touch(now)
	return nil
}

// ValidateSlot checks slotID against the current layout without mutating anything.
func (s *Session) ValidateSlot(slotID int) error {
	if err := s.requireEditable("place charm"); err != nil {
		return err
	}
	if !s.placements.Slots().Contains(slotID) {
		return fmt.Errorf("%w: %d", model.ErrInvalidSlot, slotID)
	}
	return nil
}

// Remove clears slotID. An empty or unknown slot leaves the session untouched.
func (s *Session) Remove(slotID int, now time.Time) error {
	if err := s.requireEditable("remove charm"); err != nil {
		return err
	}
	if !s.placements.Remove(slotID) {
		return nil
	}

	s.state = StateConfiguring
	s.touch(now)
	return nil
}

// Finalize records name, tags and visibility and moves to finalizing.
func (s *Session) Finalize(name string, tags []string, isPublic bool, now time.Time) error {
	switch s.state {
	case StateBaseSelected, StateConfiguring, StateFinalizing, StateShared:
	case StateIdle:
		return model.ErrNoBaseSelected
	default:
		return s.illegal("finalize")
	}

	normalized, err := NormalizeTags(tags)
	if err != nil {
		return err
	}

	s.name = NormalizeName(name)
	s.tags = normalized
	s.isPublic = isPublic
	s.state = StateFinalizing
	s.touch(now)
	return nil
}

// Back returns from finalizing to configuring.
func (s *Session) Back(now time.Time) error {
	if s.state != StateFinalizing {
		return s.illegal("go back")
	}
	s.state = StateConfiguring
	s.touch(now)
	return nil
}

// CheckShareable reports whether Share may be called in the current state.
func (s *Session) CheckShareable() error {
	if s.state != StateFinalizing && s.state != StateShared {
		return s.illegal("share")
	}
	return nil
}

// ShareInput captures what gets persisted when the session is shared.
func (s *Session) ShareInput(userID *string) (model.ShareDesignInput, error) {
	if err := s.CheckShareable(); err != nil {
		return model.ShareDesignInput{}, err
	}
	return model.ShareDesignInput{
		UserID:        userID,
		JewelryItemID: s.base.ID,
		SlotCount:     s.SlotCount(),
		Placements:    s.Placements(),
		Name:          s.name,
		Tags:          s.Tags(),
		IsPublic:      s.isPublic,
	}, nil
}

// CompleteShare records the code issued for a share.
func (s *Session) CompleteShare(code string, now time.Time) error {
	if err := s.CheckShareable(); err != nil {
		return err
	}
	s.lastShareCode = code
	s.shareCodes = append(s.shareCodes, code)
	s.state = StateShared
	s.touch(now)
	return nil
}

func (s *Session) requireEditable(action string) error {
	switch s.state {
	case StateBaseSelected, StateConfiguring, StateShared:
		return nil
	case StateIdle:
		return model.ErrNoBaseSelected
	default:
		return s.illegal(action)
	}
}

func (s *Session) illegal(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", model.ErrInvalidTransition, action, s.state)
}

func (s *Session) touch(now time.Time) {
	s.revision++
	s.updatedAt = now
}

// =====================================================
// SERIALIZATION
// =====================================================

type sessionRecord struct {
	ID            string            `json:"id"`
	OwnerKey      string            `json:"owner_key"`
	State         State             `json:"state"`
	Base          *BaseItem         `json:"base,omitempty"`
	SlotCount     int               `json:"slot_count"`
	Placements    []model.Placement `json:"placements"`
	Name          string            `json:"name"`
	Tags          []string          `json:"tags"`
	IsPublic      bool              `json:"is_public"`
	Revision      int64             `json:"revision"`
	LastShareCode string            `json:"last_share_code,omitempty"`
	ShareCodes    []string          `json:"share_codes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionRecord{
		ID:            s.id,
		OwnerKey:      s.ownerKey,
		State:         s.state,
		Base:          s.base,
		SlotCount:     s.SlotCount(),
		Placements:    s.Placements(),
		Name:          s.name,
		Tags:          s.tags,
		IsPublic:      s.isPublic,
		Revision:      s.revision,
		LastShareCode: s.lastShareCode,
		ShareCodes:    s.shareCodes,
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	*s = Session{
		id:            rec.ID,
		ownerKey:      rec.OwnerKey,
		state:         rec.State,
		base:          rec.Base,
		name:          rec.Name,
		tags:          rec.Tags,
		isPublic:      rec.IsPublic,
		revision:      rec.Revision,
		lastShareCode: rec.LastShareCode,
		shareCodes:    rec.ShareCodes,
		createdAt:     rec.CreatedAt,
		updatedAt:     rec.UpdatedAt,
	}

	if rec.Base != nil {
		placements, err := PlacementsFromList(layout.NewSlotSet(rec.SlotCount), rec.Placements)
		if err != nil {
			return fmt.Errorf("decode session %s: %w", rec.ID, err)
		}
		s.placements = placements
	}
	return nil
}
