package postgres_test

import (
	"errors"
	"fmt"
	"hotel/infras/postgres"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		retryable  bool
		exclusion  bool
		unique     bool
		foreignKey bool
	}{
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, retryable: true},
		{name: "deadlock", err: fmt.Errorf("insert booking: %w", &pq.Error{Code: "40P01"}), retryable: true},
		{name: "exclusion violation", err: &pq.Error{Code: "23P01"}, exclusion: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, unique: true},
		{name: "foreign key violation", err: &pq.Error{Code: "23503"}, foreignKey: true},
		{name: "plain error", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, postgres.IsRetryable(tt.err))
			assert.Equal(t, tt.exclusion, postgres.IsExclusionViolation(tt.err))
			assert.Equal(t, tt.unique, postgres.IsUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, postgres.IsForeignKeyViolation(tt.err))
		})
	}
}
