package mocks

import (
	"context"
	"hotel/internal/domains/credit/model"
	"hotel/internal/domains/credit/repository"
	gDto "hotel/shared/dto"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// Memory is an in-process credit store. Register it with the postgres
// Transactor mock so failed units of work roll it back.
type Memory struct {
	mu           sync.Mutex
	credits      map[string]model.Credit
	transactions []model.Transaction
}

func NewMemory() *Memory {
	return &Memory{credits: map[string]model.Credit{}}
}

func (m *Memory) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	credits := maps.Clone(m.credits)
	transactions := slices.Clone(m.transactions)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.credits = credits
		m.transactions = transactions
	}
}

func (m *Memory) EnsureTx(_ context.Context, _ *sqlx.Tx, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.credits[userID]; !ok {
		m.credits[userID] = model.Credit{UserID: userID, LastUpdatedAt: at}
	}

	return nil
}

func (m *Memory) GetForUpdateTx(_ context.Context, _ *sqlx.Tx, userID string) (model.Credit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.credits[userID], nil
}

func (m *Memory) SaveTx(_ context.Context, _ *sqlx.Tx, credit model.Credit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.credits[credit.UserID] = credit

	return nil
}

func (m *Memory) InsertTransactionTx(_ context.Context, _ *sqlx.Tx, txn model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = append(m.transactions, txn)

	return nil
}

func (m *Memory) GetByUserID(_ context.Context, userID string) (model.Credit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.credits[userID], nil
}

func (m *Memory) ListTransactions(_ context.Context, userID string, _ gDto.QueryParams) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := []model.Transaction{}
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if m.transactions[i].UserID == userID {
			res = append(res, m.transactions[i])
		}
	}

	return res, nil
}

func (m *Memory) CountTransactions(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, txn := range m.transactions {
		if txn.UserID == userID {
			count++
		}
	}

	return count, nil
}

// Transactions returns every logged entry in insertion order.
func (m *Memory) Transactions() []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.transactions)
}

var _ repository.Credit = (*Memory)(nil)
