package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/domains/design/layout"
)

// ========================================
// SHARE / LOAD DTOs
// ========================================

// CreateDesignRequest - POST /api/v1/custom-designs
type CreateDesignRequest struct {
	JewelryItemID uuid.UUID        `json:"jewelry_item_id"`
	SlotCount     int              `json:"slot_count"` // 0 means the item's own count
	Placements    []Placement      `json:"placements"`
	Name          string           `json:"name"`
	Tags          []string         `json:"tags"`
	TotalPrice    *decimal.Decimal `json:"total_price"`
	IsPublic      bool             `json:"is_public"`
}

func (r CreateDesignRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.JewelryItemID, validation.By(requiredUUID("jewelry_item_id"))),
		validation.Field(&r.SlotCount, validation.When(r.SlotCount != 0,
			validation.Min(layout.MinSlots),
			validation.Max(layout.MaxSlots),
		)),
		validation.Field(&r.Placements, validation.Length(0, 2*layout.MaxSlots)),
		validation.Field(&r.Name, validation.Length(0, MaxDesignNameLen)),
		validation.Field(&r.Tags, validation.Length(0, 4*MaxTags)),
		validation.Field(&r.TotalPrice, validation.When(r.TotalPrice != nil,
			validation.By(nonNegativeDecimal),
		)),
	)
}

// ShareDesignInput is the service level form of a share action.
type ShareDesignInput struct {
	UserID        *string
	JewelryItemID uuid.UUID
	SlotCount     int // slots per side the placements refer to; 0 means the item's own
	Placements    []Placement
	Name          string
	Tags          []string
	TotalPrice    *decimal.Decimal // optional client total, checked against the catalog
	IsPublic      bool
}

type ListDesignsQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (q *ListDesignsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (q ListDesignsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type LikeResponse struct {
	ShareCode string `json:"share_code"`
	Liked     bool   `json:"liked"`
	Likes     int    `json:"likes"`
}

// ========================================
// BUILDER SESSION DTOs
// ========================================

// Every mutating request may carry the revision the client last saw.
type Revisioned struct {
	ExpectedRevision *int64 `json:"expected_revision"`
}

type CreateSessionRequest struct {
	JewelryItemID *uuid.UUID `json:"jewelry_item_id"`
}

type SelectBaseRequest struct {
	Revisioned
	JewelryItemID uuid.UUID `json:"jewelry_item_id"`
}

func (r SelectBaseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.JewelryItemID, validation.By(requiredUUID("jewelry_item_id"))),
	)
}

type SetSlotCountRequest struct {
	Revisioned
	SlotCount int `json:"slot_count"`
}

func (r SetSlotCountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SlotCount,
			validation.Required.Error("slot_count is required"),
			validation.Min(layout.MinSlots),
			validation.Max(layout.MaxSlots),
		),
	)
}

type PlaceCharmRequest struct {
	Revisioned
	CharmID uuid.UUID `json:"charm_id"`
}

func (r PlaceCharmRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CharmID, validation.By(requiredUUID("charm_id"))),
	)
}

type FinalizeRequest struct {
	Revisioned
	Name     string   `json:"name"`
	Tags     []string `json:"tags"`
	IsPublic bool     `json:"is_public"`
}

func (r FinalizeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, MaxDesignNameLen)),
		validation.Field(&r.Tags, validation.Length(0, 4*MaxTags)),
	)
}

type ShareSessionRequest struct {
	Revisioned
	TotalPrice *decimal.Decimal `json:"total_price"`
}

// SessionView is what the builder endpoints return: the session state plus
// everything derived from it.
type SessionView struct {
	ID            string                  `json:"id"`
	State         string                  `json:"state"`
	Revision      int64                   `json:"revision"`
	JewelryItemID *uuid.UUID              `json:"jewelry_item_id,omitempty"`
	BaseName      string                  `json:"base_name,omitempty"`
	BasePrice     decimal.Decimal         `json:"base_price"`
	SlotCount     int                     `json:"slot_count"`
	Slots         []layout.SlotDefinition `json:"slots"`
	Placements    []Placement             `json:"placements"`
	Name          string                  `json:"name"`
	Tags          []string                `json:"tags"`
	IsPublic      bool                    `json:"is_public"`
	TotalPrice    decimal.Decimal         `json:"total_price"`
	LastShareCode string                  `json:"last_share_code,omitempty"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

type ShareResult struct {
	Design  *Design      `json:"design"`
	Session *SessionView `json:"session"`
	// Superseded is set when the session changed while the share was running;
	// the design reflects the state at the time the share started.
	Superseded bool `json:"superseded"`
}

func nonNegativeDecimal(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if d.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}

// requiredUUID rejects uuid.Nil (Required never sees a [16]byte as empty).
func requiredUUID(field string) validation.RuleFunc {
	return func(value interface{}) error {
		if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
			return validation.NewError("validation_required", field+" is required")
		}
		return nil
	}
}
