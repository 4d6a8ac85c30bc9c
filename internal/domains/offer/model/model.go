package model

import (
	"hotel/shared/model"
	"math"
	"time"
)

const (
	TableName  = "offers"
	EntityName = "offer"

	FieldID             = "id"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldPointsRequired = "points_required"
	FieldDiscountType   = "discount_type"
	FieldDiscountValue  = "discount_value"
	FieldActive         = "active"
	FieldExpiresAt      = "expires_at"
)

const (
	CacheKeyGet    = "offer:get"
	CacheKeyActive = "offer:active"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Offer struct {
	ID             string       `db:"id"`
	Title          string       `db:"title"`
	Description    string       `db:"description"`
	PointsRequired int64        `db:"points_required"`
	DiscountType   DiscountType `db:"discount_type"`
	DiscountValue  float64      `db:"discount_value"`
	Active         bool         `db:"active"`
	ExpiresAt      *time.Time   `db:"expires_at"`
	model.Metadata
}

// IsActiveAt reports whether the offer can be redeemed at now.
func (o Offer) IsActiveAt(now time.Time) bool {
	if !o.Active {
		return false
	}

	return o.ExpiresAt == nil || o.ExpiresAt.After(now)
}

// Discount is the amount taken off subtotal. Percentages round half away from zero.
func (o Offer) Discount(subtotal float64) float64 {
	switch o.DiscountType {
	case DiscountPercentage:
		return math.Round(subtotal * o.DiscountValue / 100)
	case DiscountFixed:
		return o.DiscountValue
	default:
		return 0
	}
}

// Apply returns the payable amount after the discount, never below zero.
func (o Offer) Apply(subtotal float64) float64 {
	return math.Max(0, subtotal-o.Discount(subtotal))
}
