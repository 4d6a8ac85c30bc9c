package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/booking/model"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from model.Status
		to   model.Status
		want bool
	}{
		{model.StatusRequested, model.StatusConfirmed, true},
		{model.StatusRequested, model.StatusRejected, true},
		{model.StatusRequested, model.StatusActive, false},
		{model.StatusRequested, model.StatusCompleted, false},
		{model.StatusConfirmed, model.StatusActive, true},
		{model.StatusConfirmed, model.StatusRejected, true},
		{model.StatusConfirmed, model.StatusCompleted, false},
		{model.StatusActive, model.StatusCompleted, true},
		{model.StatusActive, model.StatusRejected, false},
		{model.StatusCompleted, model.StatusActive, false},
		{model.StatusRejected, model.StatusRequested, false},
		{model.StatusRequested, model.StatusRequested, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusRejected.IsTerminal())

	for _, status := range model.NonTerminal {
		assert.False(t, status.IsTerminal(), status)
	}

	assert.False(t, model.Status("Cancelled").Valid())
}

func TestBooking_Overlaps(t *testing.T) {
	booking := model.Booking{CheckIn: day(10), CheckOut: day(15)}

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{name: "inside", checkIn: day(11), checkOut: day(13), want: true},
		{name: "covers", checkIn: day(8), checkOut: day(20), want: true},
		{name: "tail overlap", checkIn: day(14), checkOut: day(16), want: true},
		{name: "head overlap", checkIn: day(9), checkOut: day(11), want: true},
		{name: "starts on check-out day", checkIn: day(15), checkOut: day(18), want: false},
		{name: "ends on check-in day", checkIn: day(7), checkOut: day(10), want: false},
		{name: "far before", checkIn: day(1), checkOut: day(3), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.checkIn, tt.checkOut))
		})
	}
}

func TestBooking_Occupies(t *testing.T) {
	booking := model.Booking{CheckIn: day(10), CheckOut: day(12)}

	assert.False(t, booking.Occupies(day(9)))
	assert.True(t, booking.Occupies(day(10)))
	assert.True(t, booking.Occupies(day(11)))
	assert.False(t, booking.Occupies(day(12)))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, model.Nights(day(10), day(13)))
	assert.Equal(t, 1, model.Nights(day(10), day(10).Add(5*time.Hour)))
	assert.Equal(t, 0, model.Nights(day(10), day(10)))
	assert.Equal(t, 0, model.Nights(day(13), day(10)))
	assert.Equal(t, 2, model.Booking{CheckIn: day(1), CheckOut: day(3)}.Nights())
}

func TestNights_AcrossDaylightSaving(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// clocks go back on 2024-11-03, so the second night lasts 25 hours
	fallBack := model.Nights(
		time.Date(2024, 11, 2, 0, 0, 0, 0, newYork),
		time.Date(2024, 11, 4, 0, 0, 0, 0, newYork),
	)
	assert.Equal(t, 2, fallBack)

	// and forward on 2024-03-10, leaving a 23 hour night
	springForward := model.Nights(
		time.Date(2024, 3, 10, 0, 0, 0, 0, newYork),
		time.Date(2024, 3, 11, 0, 0, 0, 0, newYork),
	)
	assert.Equal(t, 1, springForward)
}
