package service_test

import (
	"context"
	"math/rand/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

func TestBookingService_CheckAvailability(t *testing.T) {
	f := newFixture(t, nil, []model.Booking{
		stored("b-1", room101, otherID, june(10), june(15), model.StatusConfirmed),
		stored("b-2", room101, otherID, june(20), june(22), model.StatusRejected),
	})
	ctx := asGuest(guestID)

	tests := []struct {
		name          string
		roomID        string
		checkIn       int
		checkOut      int
		excludeID     string
		wantAvailable bool
		wantConflicts []string
		wantCode      int
	}{
		{name: "overlap", roomID: room101, checkIn: 12, checkOut: 18, wantConflicts: []string{"b-1"}},
		{name: "free after check-out", roomID: room101, checkIn: 15, checkOut: 17, wantAvailable: true},
		{name: "rejected stays ignored", roomID: room101, checkIn: 20, checkOut: 22, wantAvailable: true},
		{name: "excluding the stay itself", roomID: room101, checkIn: 11, checkOut: 14, excludeID: "b-1", wantAvailable: true},
		{name: "starting today", roomID: room101, checkIn: 1, checkOut: 3, wantAvailable: true},
		{name: "inverted window", roomID: room101, checkIn: 14, checkOut: 11, wantCode: http.StatusBadRequest},
		{name: "empty window", roomID: room101, checkIn: 11, checkOut: 11, wantCode: http.StatusBadRequest},
		{name: "window in the past", roomID: room101, checkIn: 0, checkOut: 3, wantCode: http.StatusBadRequest},
		{name: "unknown room", roomID: "0c6c1f9a-3a5e-4a5b-9a4e-000000000999", checkIn: 11, checkOut: 14, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.CheckAvailability(ctx, tt.roomID, date(tt.checkIn), date(tt.checkOut), tt.excludeID)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, res.Available)

			ids := make([]string, 0, len(res.Conflicts))
			for _, conflict := range res.Conflicts {
				ids = append(ids, conflict.ID)
			}

			assert.ElementsMatch(t, tt.wantConflicts, ids)
		})
	}
}

func TestBookingService_ListAvailableRooms(t *testing.T) {
	f := newFixture(t, nil, []model.Booking{
		stored("b-1", room101, otherID, june(10), june(15), model.StatusConfirmed),
	})
	ctx := asGuest(guestID)

	tests := []struct {
		name     string
		checkIn  int
		checkOut int
		roomType string
		want     []string
		wantCode int
	}{
		{name: "booked room is left out", checkIn: 12, checkOut: 18, want: []string{room102}},
		{name: "both free outside the stay", checkIn: 15, checkOut: 18, want: []string{room101, room102}},
		{name: "filtered by type", checkIn: 15, checkOut: 18, roomType: "Single", want: []string{room101}},
		{name: "no suites", checkIn: 15, checkOut: 18, roomType: "Suite", want: []string{}},
		{name: "unknown type", checkIn: 15, checkOut: 18, roomType: "Penthouse", wantCode: http.StatusBadRequest},
		{name: "window in the past", checkIn: 0, checkOut: 3, wantCode: http.StatusBadRequest},
		{name: "inverted window", checkIn: 18, checkOut: 15, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.ListAvailableRooms(ctx, date(tt.checkIn), date(tt.checkOut), tt.roomType)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			ids := make([]string, 0, len(res))
			for _, room := range res {
				ids = append(ids, room.ID)
			}

			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

// Random create, reject and complete operations must never leave two
// non-terminal stays of one room overlapping, and every refusal must be a real conflict.
func TestBookingService_RandomizedOverlapProperty(t *testing.T) {
	f := newFixture(t, nil, nil)
	rng := rand.New(rand.NewPCG(20240601, 7))
	rooms := []string{room101, room102}
	guest := asGuest(guestID)
	staff := asStaff()

	for i := 0; i < 300; i++ {
		if i%5 == 4 {
			all := f.bookings.All()
			if len(all) > 0 {
				target := all[rng.IntN(len(all))]
				_, _ = f.svc.UpdateStatus(staff, target.ID, dto.UpdateStatusRequest{Status: string(model.StatusRejected)})
			}

			continue
		}

		roomID := rooms[rng.IntN(len(rooms))]
		checkIn := 2 + rng.IntN(25)
		checkOut := checkIn + 1 + rng.IntN(4)

		expectConflict := false

		for _, existing := range f.bookings.All() {
			if existing.RoomID == roomID && !existing.Status.IsTerminal() && existing.Overlaps(june(checkIn), june(checkOut)) {
				expectConflict = true
			}
		}

		_, err := f.svc.Create(guest, request(roomID, checkIn, checkOut))

		if expectConflict {
			require.Error(t, err, "request %d", i)
			require.Equal(t, http.StatusConflict, failure.GetCode(err), "request %d", i)
		} else {
			require.NoError(t, err, "request %d", i)
		}
	}

	all := f.bookings.All()
	for i, a := range all {
		for _, b := range all[i+1:] {
			if a.RoomID != b.RoomID || a.Status.IsTerminal() || b.Status.IsTerminal() {
				continue
			}

			assert.False(t, a.Overlaps(b.CheckIn, b.CheckOut), "%s overlaps %s", a.ID, b.ID)
		}
	}
}

func TestBookingService_RecomputeTodayFlag(t *testing.T) {
	tests := []struct {
		name       string
		existing   []model.Booking
		wantBooked bool
		wantWrites int
	}{
		{
			name:       "confirmed stay covering today",
			existing:   []model.Booking{stored("b-1", room101, guestID, june(1), june(3), model.StatusConfirmed)},
			wantBooked: true,
			wantWrites: 1,
		},
		{
			name:       "active stay covering today",
			existing:   []model.Booking{stored("b-1", room101, guestID, june(1).AddDate(0, 0, -1), june(2), model.StatusActive)},
			wantBooked: true,
			wantWrites: 1,
		},
		{
			name:     "requested stay does not occupy",
			existing: []model.Booking{stored("b-1", room101, guestID, june(1), june(3), model.StatusRequested)},
		},
		{
			name:     "checked out this morning",
			existing: []model.Booking{stored("b-1", room101, guestID, june(1).AddDate(0, 0, -2), june(1), model.StatusConfirmed)},
		},
		{
			name:     "future stay",
			existing: []model.Booking{stored("b-1", room101, guestID, june(5), june(7), model.StatusConfirmed)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, tt.existing)

			booked, err := f.svc.RecomputeTodayFlag(context.Background(), room101)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBooked, booked)

			again, err := f.svc.RecomputeTodayFlag(context.Background(), room101)
			require.NoError(t, err)
			assert.Equal(t, booked, again)

			room, _ := f.rooms.GetByID(context.Background(), room101)
			assert.Equal(t, tt.wantBooked, room.IsBooked)
			assert.Equal(t, tt.wantWrites, f.rooms.FlagWrites)
		})
	}
}

func TestBookingService_RecomputeTodayFlagUnknownRoom(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.svc.RecomputeTodayFlag(context.Background(), "0c6c1f9a-3a5e-4a5b-9a4e-000000000999")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_StatusChangesRefreshTheFlag(t *testing.T) {
	f := newFixture(t, nil, []model.Booking{stored("b-1", room101, guestID, june(1), june(3), model.StatusRequested)})
	staff := asStaff()

	_, err := f.svc.UpdateStatus(staff, "b-1", dto.UpdateStatusRequest{Status: string(model.StatusConfirmed)})
	require.NoError(t, err)

	room, _ := f.rooms.GetByID(context.Background(), room101)
	assert.True(t, room.IsBooked)

	_, err = f.svc.UpdateStatus(staff, "b-1", dto.UpdateStatusRequest{Status: string(model.StatusRejected)})
	require.NoError(t, err)

	room, _ = f.rooms.GetByID(context.Background(), room101)
	assert.False(t, room.IsBooked)
	assert.Equal(t, 2, f.rooms.FlagWrites)
}

func TestBookingService_RecomputeAllTodayFlags(t *testing.T) {
	f := newFixture(t, nil, []model.Booking{
		stored("b-1", room101, guestID, june(1), june(3), model.StatusActive),
		stored("b-2", room102, guestID, june(4), june(6), model.StatusConfirmed),
	})

	res, err := f.svc.RecomputeAllTodayFlags(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Rooms)
	assert.Equal(t, 1, res.Booked)
	assert.Equal(t, 1, res.Changed)

	res, err = f.svc.RecomputeAllTodayFlags(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, res.Changed)
	assert.Equal(t, 1, f.rooms.FlagWrites)
}

func TestBookingService_Invoice(t *testing.T) {
	offerID := offer20
	final := 2400.0

	withOffer := stored("with-offer", room101, guestID, june(10), june(13), model.StatusConfirmed)
	withOffer.OfferID = &offerID
	withOffer.FinalAmount = &final

	plain := stored("plain", room102, guestID, june(10), june(12), model.StatusCompleted)

	tests := []struct {
		name         string
		ctx          context.Context
		id           string
		wantSubtotal float64
		wantDiscount float64
		wantFinal    float64
		wantOffer    bool
		wantCode     int
	}{
		{name: "stored amount wins", ctx: asGuest(guestID), id: "with-offer", wantSubtotal: 3000, wantDiscount: 600, wantFinal: 2400, wantOffer: true},
		{name: "no offer", ctx: asStaff(), id: "plain", wantSubtotal: 3000, wantFinal: 3000},
		{name: "other guest", ctx: asGuest(otherID), id: "plain", wantCode: http.StatusNotFound},
		{name: "missing", ctx: asStaff(), id: "missing", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, []model.Booking{withOffer, plain})

			res, err := f.svc.Invoice(tt.ctx, tt.id)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.wantSubtotal, res.Subtotal, 0.001)
			assert.InDelta(t, tt.wantDiscount, res.Discount, 0.001)
			assert.InDelta(t, tt.wantFinal, res.FinalAmount, 0.001)
			assert.Equal(t, tt.wantOffer, res.Offer != nil)
			assert.Equal(t, guestID, res.User.ID)
			assert.NotEqual(t, constant.Empty, res.Room.Number)
		})
	}
}

func TestBookingService_ListMine(t *testing.T) {
	f := newFixture(t, nil, []model.Booking{
		stored("mine-1", room101, guestID, june(10), june(12), model.StatusRequested),
		stored("mine-2", room102, guestID, june(14), june(16), model.StatusConfirmed),
		stored("theirs", room101, otherID, june(20), june(22), model.StatusRequested),
	})

	res, err := f.svc.ListMine(asGuest(guestID), defaultParams())

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)

	for _, booking := range res.Bookings {
		assert.Equal(t, guestID, booking.UserID)
	}

	_, err = f.svc.ListMine(context.Background(), defaultParams())
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))

	_, err = f.svc.Get(asGuest(otherID), "mine-1")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	got, err := f.svc.Get(asStaff(), "mine-1")
	require.NoError(t, err)
	assert.Equal(t, "mine-1", got.ID)
}

func defaultParams() gDto.QueryParams {
	return gDto.QueryParams{Page: 1, Limit: 10}
}
