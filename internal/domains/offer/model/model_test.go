package model_test

import (
	"testing"
	"time"

	"hotel/internal/domains/offer/model"

	"github.com/stretchr/testify/assert"
)

func TestOffer_Apply(t *testing.T) {
	tests := []struct {
		name         string
		offer        model.Offer
		subtotal     float64
		wantDiscount float64
		wantFinal    float64
	}{
		{
			name:         "percentage",
			offer:        model.Offer{DiscountType: model.DiscountPercentage, DiscountValue: 20},
			subtotal:     5000,
			wantDiscount: 1000,
			wantFinal:    4000,
		},
		{
			name:         "fixed larger than subtotal clamps to zero",
			offer:        model.Offer{DiscountType: model.DiscountFixed, DiscountValue: 6000},
			subtotal:     5000,
			wantDiscount: 6000,
			wantFinal:    0,
		},
		{
			name:         "percentage rounds",
			offer:        model.Offer{DiscountType: model.DiscountPercentage, DiscountValue: 15},
			subtotal:     999,
			wantDiscount: 150,
			wantFinal:    849,
		},
		{
			name:         "unknown type gives nothing",
			offer:        model.Offer{DiscountType: "bogus", DiscountValue: 15},
			subtotal:     1000,
			wantDiscount: 0,
			wantFinal:    1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDiscount, tt.offer.Discount(tt.subtotal))
			assert.Equal(t, tt.wantFinal, tt.offer.Apply(tt.subtotal))
		})
	}
}

func TestOffer_IsActiveAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	assert.True(t, model.Offer{Active: true}.IsActiveAt(now))
	assert.True(t, model.Offer{Active: true, ExpiresAt: &later}.IsActiveAt(now))
	assert.False(t, model.Offer{Active: true, ExpiresAt: &earlier}.IsActiveAt(now))
	assert.False(t, model.Offer{Active: true, ExpiresAt: &now}.IsActiveAt(now))
	assert.False(t, model.Offer{Active: false}.IsActiveAt(now))
}
