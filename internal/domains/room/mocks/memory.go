package mocks

import (
	"context"
	"errors"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/repository"
	gDto "hotel/shared/dto"
	"slices"
	"strings"
	"sync"
)

var errUnsupported = errors.New("memory room store: filter queries are not supported")

// Memory is an in-process room store for service tests that need real state
// instead of call expectations.
type Memory struct {
	mu    sync.Mutex
	rooms map[string]model.Room
	// FlagWrites counts SetBookedFlag calls.
	FlagWrites int
}

func NewMemory(rooms ...model.Room) *Memory {
	m := &Memory{rooms: map[string]model.Room{}}
	for _, room := range rooms {
		m.rooms[room.ID] = room
	}

	return m
}

func (m *Memory) Insert(_ context.Context, room model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rooms[room.ID] = room

	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.rooms[id], nil
}

func (m *Memory) ListByType(_ context.Context, roomType model.Type) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rooms := []model.Room{}
	for _, room := range m.rooms {
		if roomType == "" || room.Type == roomType {
			rooms = append(rooms, room)
		}
	}

	slices.SortFunc(rooms, func(a, b model.Room) int {
		return strings.Compare(a.Number, b.Number)
	})

	return rooms, nil
}

func (m *Memory) SetBookedFlag(_ context.Context, id string, booked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil
	}

	room.IsBooked = booked
	m.rooms[id] = room
	m.FlagWrites++

	return nil
}

func (m *Memory) Get(_ context.Context, _ gDto.FilterGroup, _ ...string) (model.Room, error) {
	return model.Room{}, errUnsupported
}

func (m *Memory) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Room, error) {
	return nil, errUnsupported
}

func (m *Memory) Exist(_ context.Context, _ gDto.FilterGroup) (bool, error) {
	return false, errUnsupported
}

func (m *Memory) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	return 0, errUnsupported
}

func (m *Memory) Update(_ context.Context, _ map[string]any, _ gDto.FilterGroup) error {
	return errUnsupported
}

func (m *Memory) Delete(_ context.Context, _ gDto.FilterGroup) error {
	return errUnsupported
}

var _ repository.Room = (*Memory)(nil)
