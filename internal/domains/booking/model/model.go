package model

import (
	"hotel/shared/model"
	"math"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldGuestName   = "guest_name"
	FieldRoomID      = "room_id"
	FieldUserID      = "user_id"
	FieldCheckIn     = "check_in"
	FieldCheckOut    = "check_out"
	FieldStatus      = "status"
	FieldOfferID     = "offer_id"
	FieldFinalAmount = "final_amount"
)

type Status string

const (
	StatusRequested Status = "Requested"
	StatusConfirmed Status = "Confirmed"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusRejected  Status = "Rejected"
)

var transitions = map[Status][]Status{
	StatusRequested: {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusActive, StatusRejected},
	StatusActive:    {StatusCompleted},
}

var (
	// NonTerminal statuses hold the room against overlapping requests.
	NonTerminal = []Status{StatusRequested, StatusConfirmed, StatusActive}
	// Occupying statuses drive the room's today flag.
	Occupying = []Status{StatusConfirmed, StatusActive}
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusConfirmed, StatusActive, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func StatusStrings(statuses []Status) []string {
	res := make([]string, len(statuses))
	for i, status := range statuses {
		res[i] = string(status)
	}

	return res
}

type Booking struct {
	ID          string    `db:"id"`
	GuestName   string    `db:"guest_name"`
	RoomID      string    `db:"room_id"`
	UserID      string    `db:"user_id"`
	CheckIn     time.Time `db:"check_in"`
	CheckOut    time.Time `db:"check_out"`
	Status      Status    `db:"status"`
	OfferID     *string   `db:"offer_id"`
	FinalAmount *float64  `db:"final_amount"`
	model.Metadata
}

// Overlaps reports whether b intersects the half-open stay [checkIn, checkOut).
func (b Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// Occupies reports whether b holds the room at instant day.
func (b Booking) Occupies(day time.Time) bool {
	return !b.CheckIn.After(day) && b.CheckOut.After(day)
}

func (b Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

// Nights counts calendar days between checkIn and checkOut. A check-out
// past midnight starts one more night. Daylight saving shifts do not count.
func Nights(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}

	in, out := civil(checkIn), civil(checkOut)
	nights := int(math.Round(out.Sub(in).Hours() / 24))

	if y, m, d := checkOut.Date(); checkOut.After(time.Date(y, m, d, 0, 0, 0, 0, checkOut.Location())) {
		nights++
	}

	return max(nights, 1)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
