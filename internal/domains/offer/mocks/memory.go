package mocks

import (
	"context"
	"errors"
	"hotel/internal/domains/offer/model"
	"hotel/internal/domains/offer/repository"
	gDto "hotel/shared/dto"
	"sync"
	"time"
)

var errUnsupported = errors.New("memory offer store: filter queries are not supported")

// Memory is an in-process offer store for service tests.
type Memory struct {
	mu     sync.Mutex
	offers map[string]model.Offer
}

func NewMemory(offers ...model.Offer) *Memory {
	m := &Memory{offers: map[string]model.Offer{}}
	for _, offer := range offers {
		m.offers[offer.ID] = offer
	}

	return m
}

func (m *Memory) Insert(_ context.Context, offer model.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.offers[offer.ID] = offer

	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (model.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.offers[id], nil
}

func (m *Memory) GetActive(_ context.Context, id string, now time.Time) (model.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	offer, ok := m.offers[id]
	if !ok || !offer.IsActiveAt(now) {
		return model.Offer{}, nil
	}

	return offer, nil
}

func (m *Memory) ListActive(_ context.Context, now time.Time) ([]model.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	offers := []model.Offer{}
	for _, offer := range m.offers {
		if offer.IsActiveAt(now) {
			offers = append(offers, offer)
		}
	}

	return offers, nil
}

func (m *Memory) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Offer, error) {
	return nil, errUnsupported
}

func (m *Memory) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	return 0, errUnsupported
}

func (m *Memory) Update(_ context.Context, _ map[string]any, _ gDto.FilterGroup) error {
	return errUnsupported
}

var _ repository.Offer = (*Memory)(nil)
