package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ShareCodeLength   = 8
	ShareCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultDesignName = "My Custom Design"
	MaxDesignNameLen  = 120
	MaxTags           = 10
	MaxTagLen         = 30
)

// Placement puts one charm into one slot.
type Placement struct {
	SlotID  int       `json:"slot_id"`
	CharmID uuid.UUID `json:"charm_id"`
}

// Design is a shared, persisted configuration. It is immutable once created
// apart from the engagement counters.
type Design struct {
	ID            uuid.UUID       `json:"id"`
	ShareCode     string          `json:"share_code"`
	UserID        *string         `json:"user_id,omitempty"`
	JewelryItemID uuid.UUID       `json:"jewelry_item_id"`
	SlotCount     int             `json:"slot_count"`
	Placements    []Placement     `json:"placements"`
	Name          string          `json:"name"`
	Tags          []string        `json:"tags"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	IsPublic      bool            `json:"is_public"`
	Views         int             `json:"views"`
	Likes         int             `json:"likes"`
	PurchaseCount int             `json:"purchase_count"`
	CreatedAt     time.Time       `json:"created_at"`

	// joined for listings
	JewelryItemName  string  `json:"jewelry_item_name,omitempty"`
	JewelryItemImage string  `json:"jewelry_item_image,omitempty"`
	CreatorName      *string `json:"creator_name,omitempty"`
}

// NormalizeShareCode applies the persisted case convention (upper case).
func NormalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormedShareCode checks length and alphabet of a normalized code.
func IsWellFormedShareCode(code string) bool {
	if len(code) != ShareCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(ShareCodeAlphabet, r) {
			return false
		}
	}
	return true
}

// =====================================================
// CACHE KEYS
// =====================================================

const (
	TrendingCacheKey = "designs:trending"
	PublicCacheKey   = "designs:public:%d:%d"
	PublicCacheGlob  = "designs:public:*"
)

func SessionCacheKey(id string) string {
	return "builder:session:" + id
}

func ShareLockKey(sessionID string) string {
	return "builder:share-lock:" + sessionID
}
