package repository

import (
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	gDto "hotel/shared/dto"
	"hotel/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDays_WestOfUTC(t *testing.T) {
	original := timezone.GetLocation().String()
	t.Cleanup(func() { _ = timezone.SetLocation(original) })

	if err := timezone.SetLocation("America/New_York"); err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	utc := time.FixedZone("", 0)
	scanned := []model.Booking{{
		ID:       "b-1",
		CheckIn:  time.Date(2024, 6, 10, 0, 0, 0, 0, utc),
		CheckOut: time.Date(2024, 6, 12, 0, 0, 0, 0, utc),
		Status:   model.StatusActive,
	}}

	got := allCalendarDays(scanned)
	require.Len(t, got, 1)

	assert.Equal(t, gDto.Date("2024-06-10"), gDto.DateFrom(got[0].CheckIn))
	assert.Equal(t, gDto.Date("2024-06-12"), gDto.DateFrom(got[0].CheckOut))
	assert.Equal(t, 2, got[0].Nights())

	var conflict dto.ConflictResponse
	conflict.FromModel(got[0])
	assert.Equal(t, "2024-06-10", conflict.CheckIn)

	// the first morning of the stay is on or after check-in in the app zone
	morning := time.Date(2024, 6, 10, 8, 0, 0, 0, timezone.GetLocation())
	assert.False(t, timezone.StartOfDay(morning).Before(got[0].CheckIn))
}
