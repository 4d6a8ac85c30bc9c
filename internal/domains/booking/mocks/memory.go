package mocks

import (
	"context"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/repository"
	gDto "hotel/shared/dto"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// checkViolation mirrors the bookings_stay_order CHECK.
var checkViolation = &pq.Error{Code: "23514", Constraint: "bookings_stay_order"}

// Memory is an in-process booking store with the same overlap and status
// semantics as the SQL repository. Register it with the postgres Transactor
// mock so failed units of work roll it back.
type Memory struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
	// RoomLocks counts LockRoomTx calls per room.
	RoomLocks map[string]int
}

func NewMemory(bookings ...model.Booking) *Memory {
	m := &Memory{
		bookings:  map[string]model.Booking{},
		RoomLocks: map[string]int{},
	}

	for _, booking := range bookings {
		m.bookings[booking.ID] = booking
	}

	return m
}

func (m *Memory) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	bookings := maps.Clone(m.bookings)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.bookings = bookings
	}
}

// All returns every stored booking ordered by check-in.
func (m *Memory) All() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sorted(func(model.Booking) bool { return true })
}

func (m *Memory) InsertTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !booking.CheckOut.After(booking.CheckIn) {
		return checkViolation
	}

	m.bookings[booking.ID] = booking

	return nil
}

func (m *Memory) SaveTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.bookings[booking.ID]
	if !ok {
		return nil
	}

	if !booking.CheckOut.After(current.CheckIn) {
		return checkViolation
	}

	current.Status = booking.Status
	current.CheckOut = booking.CheckOut
	current.ModifiedAt = booking.ModifiedAt
	current.ModifiedBy = booking.ModifiedBy
	m.bookings[booking.ID] = current

	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.bookings[id], nil
}

func (m *Memory) GetByIDForUpdateTx(ctx context.Context, _ *sqlx.Tx, id string) (model.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *Memory) LockRoomTx(_ context.Context, _ *sqlx.Tx, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RoomLocks[roomID]++

	return nil
}

func (m *Memory) ListBlocking(_ context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sorted(func(b model.Booking) bool {
		return b.RoomID == roomID && b.ID != excludeID && blocking(b, checkIn, checkOut)
	}), nil
}

func (m *Memory) ListBlockingTx(ctx context.Context, _ *sqlx.Tx, roomID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error) {
	return m.ListBlocking(ctx, roomID, checkIn, checkOut, excludeID)
}

func (m *Memory) BlockedRoomIDs(_ context.Context, checkIn, checkOut time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := []string{}

	for _, booking := range m.bookings {
		if blocking(booking, checkIn, checkOut) && !slices.Contains(ids, booking.RoomID) {
			ids = append(ids, booking.RoomID)
		}
	}

	slices.Sort(ids)

	return ids, nil
}

func (m *Memory) OccupiedAt(_ context.Context, roomID string, day time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range m.bookings {
		if booking.RoomID == roomID && slices.Contains(model.Occupying, booking.Status) && booking.Occupies(day) {
			return true, nil
		}
	}

	return false, nil
}

func (m *Memory) RejectStaleRequested(_ context.Context, createdBefore time.Time, actor string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var affected int64

	for id, booking := range m.bookings {
		if booking.Status == model.StatusRequested && booking.CreatedAt.Before(createdBefore) {
			booking.Status = model.StatusRejected
			booking.ModifiedBy = actor
			m.bookings[id] = booking
			affected++
		}
	}

	return affected, nil
}

func (m *Memory) List(_ context.Context, params gDto.QueryParams, filter repository.ListFilter) ([]model.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.sorted(func(b model.Booking) bool {
		return (filter.RoomID == "" || b.RoomID == filter.RoomID) &&
			(filter.UserID == "" || b.UserID == filter.UserID) &&
			(filter.Status == "" || b.Status == filter.Status)
	})

	total := len(matched)

	if params.Limit > 0 {
		start := 0
		if params.Page > 0 {
			start = (params.Page - 1) * params.Limit
		}

		if start > len(matched) {
			start = len(matched)
		}

		matched = matched[start:min(start+params.Limit, len(matched))]
	}

	return matched, total, nil
}

func (m *Memory) sorted(keep func(model.Booking) bool) []model.Booking {
	res := []model.Booking{}

	for _, booking := range m.bookings {
		if keep(booking) {
			res = append(res, booking)
		}
	}

	slices.SortFunc(res, func(a, b model.Booking) int {
		return a.CheckIn.Compare(b.CheckIn)
	})

	return res
}

func blocking(b model.Booking, checkIn, checkOut time.Time) bool {
	return slices.Contains(model.NonTerminal, b.Status) && b.Overlaps(checkIn, checkOut)
}

var _ repository.Booking = (*Memory)(nil)
