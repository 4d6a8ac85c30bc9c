package dto

import (
	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"mime/multipart"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Number    string                `json:"number"  validate:"required,max=20"`
	Type      string                `json:"type"    validate:"required,oneof=Single Double Suite"`
	Price     float64               `json:"price"   validate:"required,gt=0"`
	HasAC     *bool                 `json:"has_ac"  validate:"omitempty"`
	Photo     *multipart.FileHeader `json:"photo"   validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	PhotoFile multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, photoURL string) model.Room {
	hasAC := false
	if c.HasAC != nil {
		hasAC = *c.HasAC
	}

	return model.Room{
		ID:       uuid.NewString(),
		Number:   c.Number,
		Type:     model.Type(c.Type),
		Price:    c.Price,
		HasAC:    hasAC,
		Photo:    photoURL,
		Metadata: gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateRoomRequest struct {
	Number    string                `db:"number" json:"number" validate:"omitempty,max=20"`
	Type      string                `db:"type"   json:"type"   validate:"omitempty,oneof=Single Double Suite"`
	Price     *float64              `db:"price"  json:"price"  validate:"omitempty,gt=0"`
	HasAC     *bool                 `db:"has_ac" json:"has_ac" validate:"omitempty"`
	Photo     *multipart.FileHeader `json:"photo"              validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	PhotoFile multipart.File        `json:"-"`
}

func (u UpdateRoomRequest) IsEmpty() bool {
	return u.Number == "" && u.Type == "" && u.Price == nil && u.HasAC == nil && u.Photo == nil
}

type RoomResponse struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	HasAC    bool    `json:"has_ac"`
	Photo    string  `json:"photo"`
	IsBooked bool    `json:"is_booked"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Type = string(model.Type)
	r.Price = model.Price
	r.HasAC = model.HasAC
	r.Photo = model.Photo
	r.IsBooked = model.IsBooked
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// RefreshFlagsResponse reports the outcome of a today-flag sweep over the catalog.
type RefreshFlagsResponse struct {
	Rooms   int `json:"rooms"`
	Booked  int `json:"booked"`
	Changed int `json:"changed"`
}
