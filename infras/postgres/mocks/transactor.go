package mocks

import (
	"context"
	"hotel/infras/postgres"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Snapshotter is implemented by in-memory stores that take part in a unit of
// work. The returned func restores the state captured at Snapshot time.
type Snapshotter interface {
	Snapshot() (restore func())
}

// Transactor runs the unit of work without a database. Units are serialized
// so in-memory fakes observe the same ordering a row lock would give, and a
// failing unit restores every registered store.
type Transactor struct {
	mu           sync.Mutex
	participants []Snapshotter
	Commits      int
	Rollbacks    int
}

// WithTx implements postgres.Transactor.
func (t *Transactor) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), 0, len(t.participants))
	for _, p := range t.participants {
		restores = append(restores, p.Snapshot())
	}

	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}

		t.Rollbacks++

		return err
	}

	t.Commits++

	return nil
}

func NewTransactor(participants ...Snapshotter) *Transactor {
	return &Transactor{participants: participants}
}

var _ postgres.Transactor = (*Transactor)(nil)
