package model

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/shared/response"
)

// SingletonID is the primary key of the only settings row.
const SingletonID = "main"

const CacheKey = "settings:main"

type Settings struct {
	StoreName       string          `json:"store_name"`
	StoreEmail      string          `json:"store_email"`
	Currency        string          `json:"currency"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	FreeShipMin     decimal.Decimal `json:"free_ship_min"`
	HeroTitle       string          `json:"hero_title"`
	HeroSubtitle    string          `json:"hero_subtitle"`
	FooterText      string          `json:"footer_text"`
	ReferralPercent decimal.Decimal `json:"referral_percent"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// UpdateSettingsRequest - PUT /api/v1/admin/settings
type UpdateSettingsRequest struct {
	StoreName       string          `json:"store_name"`
	StoreEmail      string          `json:"store_email"`
	Currency        string          `json:"currency"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	FreeShipMin     decimal.Decimal `json:"free_ship_min"`
	HeroTitle       string          `json:"hero_title"`
	HeroSubtitle    string          `json:"hero_subtitle"`
	FooterText      string          `json:"footer_text"`
	ReferralPercent decimal.Decimal `json:"referral_percent"`
}

func (r UpdateSettingsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StoreName, validation.RuneLength(0, 120)),
		validation.Field(&r.StoreEmail, is.EmailFormat),
		validation.Field(&r.Currency, validation.Required, validation.Length(3, 3), is.UpperCase),
		validation.Field(&r.ShippingFee, validation.By(nonNegative)),
		validation.Field(&r.FreeShipMin, validation.By(nonNegative)),
		validation.Field(&r.ReferralPercent, validation.By(percent)),
	)
}

// ToSettings trims text fields and rounds money to cents.
func (r UpdateSettingsRequest) ToSettings() *Settings {
	return &Settings{
		StoreName:       strings.TrimSpace(r.StoreName),
		StoreEmail:      strings.TrimSpace(r.StoreEmail),
		Currency:        r.Currency,
		ShippingFee:     r.ShippingFee.Round(2),
		FreeShipMin:     r.FreeShipMin.Round(2),
		HeroTitle:       strings.TrimSpace(r.HeroTitle),
		HeroSubtitle:    strings.TrimSpace(r.HeroSubtitle),
		FooterText:      strings.TrimSpace(r.FooterText),
		ReferralPercent: r.ReferralPercent.Round(2),
	}
}

func nonNegative(value interface{}) error {
	if d, ok := value.(decimal.Decimal); ok && d.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}

func percent(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return nil
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return validation.NewError("validation_percent", "must be between 0 and 100")
	}
	return nil
}

// =====================================================
// ERRORS
// =====================================================

var ErrSettingsUnavailable = errors.New("failed to load settings")

// HandleSettingsError writes the envelope for err and reports whether it did.
func HandleSettingsError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if response.ValidationError(c, err) {
		return true
	}
	if errors.Is(err, ErrSettingsUnavailable) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("settings request failed")
		response.Error(c, http.StatusServiceUnavailable, "Unable to load", "Unable to load settings, try again")
		return true
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled settings error")
	response.InternalServerError(c, "Internal server error")
	return true
}
