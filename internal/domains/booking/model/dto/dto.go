package dto

import (
	"hotel/internal/domains/booking/model"
	offerDto "hotel/internal/domains/offer/model/dto"
	roomDto "hotel/internal/domains/room/model/dto"
	userDto "hotel/internal/domains/user/model/dto"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	GuestName string    `json:"guest_name" validate:"required,max=100"`
	RoomID    string    `json:"room_id"    validate:"required,uuid"`
	CheckIn   gDto.Date `json:"check_in"   validate:"required,app"`
	CheckOut  gDto.Date `json:"check_out"  validate:"required,app"`
	OfferID   *string   `json:"offer_id"   validate:"omitempty,uuid"`
}

// Stay parses both dates. Ordering is checked by the booking service.
func (c *CreateBookingRequest) Stay() (checkIn, checkOut time.Time, err error) {
	if checkIn, err = c.CheckIn.Time(); err != nil {
		return checkIn, checkOut, err
	}

	if checkOut, err = c.CheckOut.Time(); err != nil {
		return checkIn, checkOut, err
	}

	return checkIn, checkOut, nil
}

func (c *CreateBookingRequest) ToModel(userID string, checkIn, checkOut, now time.Time) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		GuestName: c.GuestName,
		RoomID:    c.RoomID,
		UserID:    userID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Status:    model.StatusRequested,
		OfferID:   c.OfferID,
		Metadata:  gModel.NewMetadata(userID, now),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Requested Confirmed Active Completed Rejected"`
}

type CleanupRequest struct {
	MaxAgeDays int `json:"max_age_days" validate:"omitempty,gt=0"`
}

type CleanupResponse struct {
	Rejected int64 `json:"rejected"`
}

type ConflictResponse struct {
	ID       string `json:"id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
}

func (c *ConflictResponse) FromModel(booking model.Booking) {
	c.ID = booking.ID
	c.CheckIn = string(gDto.DateFrom(booking.CheckIn))
	c.CheckOut = string(gDto.DateFrom(booking.CheckOut))
	c.Status = string(booking.Status)
}

func ConflictsFromModels(bookings []model.Booking) []ConflictResponse {
	res := make([]ConflictResponse, len(bookings))
	for i, booking := range bookings {
		res[i].FromModel(booking)
	}

	return res
}

type AvailabilityResponse struct {
	RoomID    string             `json:"room_id"`
	CheckIn   string             `json:"check_in"`
	CheckOut  string             `json:"check_out"`
	Available bool               `json:"available"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

type BookingResponse struct {
	ID          string                `json:"id"`
	GuestName   string                `json:"guest_name"`
	RoomID      string                `json:"room_id"`
	UserID      string                `json:"user_id"`
	CheckIn     string                `json:"check_in"`
	CheckOut    string                `json:"check_out"`
	Nights      int                   `json:"nights"`
	Status      string                `json:"status"`
	OfferID     *string               `json:"offer_id"`
	FinalAmount *float64              `json:"final_amount"`
	Room        *roomDto.RoomResponse `json:"room,omitempty"`
	User        *userDto.UserResponse `json:"user,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.GuestName = booking.GuestName
	r.RoomID = booking.RoomID
	r.UserID = booking.UserID
	r.CheckIn = string(gDto.DateFrom(booking.CheckIn))
	r.CheckOut = string(gDto.DateFrom(booking.CheckOut))
	r.Nights = booking.Nights()
	r.Status = string(booking.Status)
	r.OfferID = booking.OfferID
	r.FinalAmount = booking.FinalAmount
	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// InvoiceResponse is the renderer input for one booking.
type InvoiceResponse struct {
	Booking     BookingResponse         `json:"booking"`
	Room        roomDto.RoomResponse    `json:"room"`
	User        userDto.UserResponse    `json:"user"`
	Offer       *offerDto.OfferResponse `json:"offer,omitempty"`
	Nights      int                     `json:"nights"`
	Subtotal    float64                 `json:"subtotal"`
	Discount    float64                 `json:"discount"`
	FinalAmount float64                 `json:"final_amount"`
}
