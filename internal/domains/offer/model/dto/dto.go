package dto

import (
	"hotel/internal/domains/offer/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateOfferRequest struct {
	Title          string     `json:"title"           validate:"required,max=120"`
	Description    string     `json:"description"     validate:"omitempty,max=1000"`
	PointsRequired int64      `json:"points_required" validate:"required,gt=0"`
	DiscountType   string     `json:"discount_type"   validate:"required,oneof=percentage fixed"`
	DiscountValue  float64    `json:"discount_value"  validate:"required,gt=0"`
	Active         *bool      `json:"active"          validate:"omitempty"`
	ExpiresAt      *time.Time `json:"expires_at"      validate:"omitempty"`
}

func (c *CreateOfferRequest) ToModel(user string) model.Offer {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Offer{
		ID:             uuid.NewString(),
		Title:          c.Title,
		Description:    c.Description,
		PointsRequired: c.PointsRequired,
		DiscountType:   model.DiscountType(c.DiscountType),
		DiscountValue:  c.DiscountValue,
		Active:         active,
		ExpiresAt:      c.ExpiresAt,
		Metadata:       gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateOfferRequest struct {
	Title          string     `db:"title"           json:"title"           validate:"omitempty,max=120"`
	Description    string     `db:"description"     json:"description"     validate:"omitempty,max=1000"`
	PointsRequired int64      `db:"points_required" json:"points_required" validate:"omitempty,gt=0"`
	DiscountType   string     `db:"discount_type"   json:"discount_type"   validate:"omitempty,oneof=percentage fixed"`
	DiscountValue  float64    `db:"discount_value"  json:"discount_value"  validate:"omitempty,gt=0"`
	Active         *bool      `db:"active"          json:"active"          validate:"omitempty"`
	ExpiresAt      *time.Time `db:"expires_at"      json:"expires_at"      validate:"omitempty"`
}

func (u UpdateOfferRequest) IsEmpty() bool {
	return u == (UpdateOfferRequest{})
}

type OfferResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	PointsRequired int64   `json:"points_required"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
	Active         bool    `json:"active"`
	ExpiresAt      *string `json:"expires_at"`
	gDto.Metadata
}

func (r *OfferResponse) FromModel(model model.Offer) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.PointsRequired = model.PointsRequired
	r.DiscountType = string(model.DiscountType)
	r.DiscountValue = model.DiscountValue
	r.Active = model.Active

	if model.ExpiresAt != nil {
		expiresAt := timezone.Format(*model.ExpiresAt, constant.DateFormat)
		r.ExpiresAt = &expiresAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetOffersResponse struct {
	Offers    []OfferResponse `json:"offers"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOffersResponse) FromModels(models []model.Offer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Offers = make([]OfferResponse, len(models))
	for i, mod := range models {
		r.Offers[i].FromModel(mod)
	}
}
