package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/domains/design/layout"
)

// ========================================
// JEWELRY ITEM DTOs
// ========================================

type ItemRequest struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	CompareAt      *decimal.Decimal `json:"compare_at"`
	Image          string           `json:"image"`
	Material       string           `json:"material"`
	Length         *string          `json:"length"`
	TypeID         uuid.UUID        `json:"type_id"`
	SupportsCharms *bool            `json:"supports_charms"`
	SlotCount      int              `json:"slot_count"`
	InStock        *bool            `json:"in_stock"`
	Featured       *bool            `json:"featured"`
}

func (r ItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(2, 200)),
		validation.Field(&r.Price, validation.By(nonNegative)),
		validation.Field(&r.CompareAt, validation.By(nonNegative)),
		validation.Field(&r.Image, validation.When(r.Image != "", is.RequestURI)),
		validation.Field(&r.Material, validation.Length(0, 60)),
		validation.Field(&r.TypeID, validation.By(requiredUUID("type_id"))),
		validation.Field(&r.SlotCount, validation.When(r.SlotCount != 0,
			validation.Min(layout.MinSlots), validation.Max(layout.MaxSlots),
		)),
	)
}

// Apply copies the request onto item, filling defaults for new items.
func (r ItemRequest) Apply(item *BaseItem) {
	item.Name = r.Name
	item.Description = r.Description
	item.Price = r.Price.Round(2)
	item.CompareAt = r.CompareAt
	item.Image = r.Image
	item.Material = defaultString(r.Material, "gold")
	item.Length = r.Length
	item.TypeID = r.TypeID
	item.SupportsCharms = defaultBool(r.SupportsCharms, true)
	item.InStock = defaultBool(r.InStock, true)
	item.Featured = defaultBool(r.Featured, false)
	if r.SlotCount != 0 {
		item.SlotCount = r.SlotCount
	} else if item.SlotCount == 0 {
		item.SlotCount = layout.DefaultSlots
	}
}

// ========================================
// CHARM DTOs
// ========================================

type CharmRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    *string         `json:"category"`
	Material    string          `json:"material"`
	InStock     *bool           `json:"in_stock"`
	Featured    *bool           `json:"featured"`
}

func (r CharmRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(2, 200)),
		validation.Field(&r.Price, validation.By(nonNegative)),
		validation.Field(&r.Image, validation.When(r.Image != "", is.RequestURI)),
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.Length(0, 80)),
		validation.Field(&r.Material, validation.Length(0, 60)),
	)
}

func (r CharmRequest) Apply(charm *Charm) {
	charm.Name = r.Name
	charm.Description = r.Description
	charm.Price = r.Price.Round(2)
	charm.Image = r.Image
	charm.Category = r.Category
	charm.Material = defaultString(r.Material, "gold")
	charm.InStock = defaultBool(r.InStock, true)
	charm.Featured = defaultBool(r.Featured, false)
}

// ========================================
// JEWELRY TYPE DTOs
// ========================================

type TypeRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Image          *string `json:"image"`
	SupportsCharms *bool   `json:"supports_charms"`
	MaxCharmSlots  *int    `json:"max_charm_slots"`
}

func (r TypeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(2, 120)),
		validation.Field(&r.MaxCharmSlots, validation.When(r.MaxCharmSlots != nil,
			validation.Min(0), validation.Max(2*layout.MaxSlots),
		)),
	)
}

func (r TypeRequest) Apply(t *JewelryType) {
	t.Name = r.Name
	t.Description = r.Description
	t.Image = r.Image
	t.SupportsCharms = defaultBool(r.SupportsCharms, true)
	if r.MaxCharmSlots != nil {
		t.MaxCharmSlots = *r.MaxCharmSlots
	} else if t.MaxCharmSlots == 0 {
		t.MaxCharmSlots = 12
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func nonNegative(value interface{}) error {
	var d *decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = &v
	case *decimal.Decimal:
		d = v
	}
	if d != nil && d.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}

func requiredUUID(field string) validation.RuleFunc {
	return func(value interface{}) error {
		if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
			return validation.NewError("validation_required", field+" is required")
		}
		return nil
	}
}
