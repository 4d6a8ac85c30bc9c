package room_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "hotel/infras/otel/mocks"
	bookingDto "hotel/internal/domains/booking/model/dto"
	bookingService "hotel/internal/domains/booking/service"
	"hotel/internal/handlers/room"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityStub struct {
	bookingService.Booking

	gotRoom     string
	gotCheckIn  gDto.Date
	gotCheckOut gDto.Date
	gotExclude  string

	res bookingDto.AvailabilityResponse
	err error
}

func (s *availabilityStub) CheckAvailability(_ context.Context, roomID string, checkIn, checkOut gDto.Date, excludeID string) (bookingDto.AvailabilityResponse, error) {
	s.gotRoom, s.gotCheckIn, s.gotCheckOut, s.gotExclude = roomID, checkIn, checkOut, excludeID

	return s.res, s.err
}

func serve(stub *availabilityStub, target string) *httptest.ResponseRecorder {
	handler := room.New(nil, stub, otelMocks.NewOtel())

	r := chi.NewRouter()
	handler.Router(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_GetRoomAvailability(t *testing.T) {
	stub := &availabilityStub{
		res: bookingDto.AvailabilityResponse{
			RoomID:    "r-101",
			CheckIn:   "2025-06-02",
			CheckOut:  "2025-06-04",
			Available: true,
			Conflicts: []bookingDto.ConflictResponse{},
		},
	}

	rec := serve(stub, "/rooms/r-101/availability?check_in=2025-06-02&check_out=2025-06-04&exclude=b-9")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "r-101", stub.gotRoom)
	assert.Equal(t, gDto.Date("2025-06-02"), stub.gotCheckIn)
	assert.Equal(t, gDto.Date("2025-06-04"), stub.gotCheckOut)
	assert.Equal(t, "b-9", stub.gotExclude)

	var body struct {
		Data bookingDto.AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Available)
	assert.Equal(t, "r-101", body.Data.RoomID)
}

func TestHandler_GetRoomAvailability_Failure(t *testing.T) {
	stub := &availabilityStub{err: failure.BadRequestFromString("check-in cannot be in the past")}

	rec := serve(stub, "/rooms/r-101/availability?check_in=2020-01-01&check_out=2020-01-02")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
