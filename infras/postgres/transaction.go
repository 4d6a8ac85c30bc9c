package postgres

import (
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/shared/constant"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const txRetryBackoff = 20 * time.Millisecond

// Transactor runs a unit of work inside a write transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type transactorImpl struct {
	db       *Connection
	maxRetry int
}

func NewTransactor(db *Connection, cfg *config.Config) Transactor {
	maxRetry := cfg.DB.Postgres.TxMaxRetry
	if maxRetry < 1 {
		maxRetry = 1
	}

	return &transactorImpl{
		db:       db,
		maxRetry: maxRetry,
	}
}

// WithTx commits when fn returns nil and rolls back otherwise. Serialization
// failures and deadlocks re-run fn from the start, up to the configured limit.
func (t *transactorImpl) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	var err error

	for attempt := 1; attempt <= t.maxRetry; attempt++ {
		err = t.run(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("transaction aborted by concurrent update, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction retry cancelled: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * txRetryBackoff):
		}
	}

	return err
}

func (t *transactorImpl) run(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := t.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

func IsRetryable(err error) bool {
	code := pqCode(err)

	return code == constant.PqErrorCodeSerializationFailure || code == constant.PqErrorCodeDeadlockDetected
}

func IsExclusionViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeFkViolation
}
