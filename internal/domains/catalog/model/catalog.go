package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/domains/design/layout"
)

type JewelryType struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Image          *string   `json:"image"`
	SupportsCharms bool      `json:"supports_charms"`
	MaxCharmSlots  int       `json:"max_charm_slots"`
	ItemCount      int       `json:"item_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BaseItem is a chain, bracelet or ring that can host charms.
// Slots are not stored; they are generated from SlotCount on load.
type BaseItem struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Slug           string                  `json:"slug"`
	Description    string                  `json:"description"`
	Price          decimal.Decimal         `json:"price"`
	CompareAt      *decimal.Decimal        `json:"compare_at"`
	Image          string                  `json:"image"`
	Material       string                  `json:"material"`
	Length         *string                 `json:"length"`
	TypeID         uuid.UUID               `json:"type_id"`
	TypeName       string                  `json:"type_name"`
	SupportsCharms bool                    `json:"supports_charms"`
	SlotCount      int                     `json:"slot_count"`
	Slots          []layout.SlotDefinition `json:"slots"`
	InStock        bool                    `json:"in_stock"`
	Featured       bool                    `json:"featured"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// WithSlots fills Slots from SlotCount.
func (b *BaseItem) WithSlots() error {
	slots, err := layout.Generate(b.SlotCount)
	if err != nil {
		return err
	}
	b.Slots = slots
	return nil
}

type Charm struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    *string         `json:"category"`
	Material    string          `json:"material"`
	InStock     bool            `json:"in_stock"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BuilderCatalog is everything the configurator needs up front.
type BuilderCatalog struct {
	Items  []BaseItem `json:"items"`
	Charms []Charm    `json:"charms"`
}

type ItemFilter struct {
	TypeID     *uuid.UUID
	CharmsOnly bool
}

// =====================================================
// CACHE KEYS
// =====================================================

const (
	CacheKeyItems       = "catalog:items:all"
	CacheKeyCharmItems  = "catalog:items:charms"
	CacheKeyCharms      = "catalog:charms"
	CacheKeyTypes       = "catalog:types"
	CacheKeyPattern     = "catalog:*"
	CacheKeyItemPrefix  = "catalog:item:"
	CacheKeyCharmPrefix = "catalog:charm:"
)
