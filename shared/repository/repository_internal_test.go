package repository

import (
	"context"
	"testing"
	"time"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	"hotel/shared/dto"
	gModel "hotel/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guest struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Notes string `db:"-"`
	Email string
	gModel.Metadata
}

// newGuestRepo has no live pools; anything reaching the database panics.
func newGuestRepo() Repository[guest] {
	return NewRepository[guest]("guest", "guests", "id", &postgres.Connection{}, otelMocks.NewOtel())
}

func TestNewRepository_Columns(t *testing.T) {
	repo := newGuestRepo()

	assert.Equal(t, []string{"id", "name", "created_at", "modified_at", "created_by", "modified_by"}, repo.columns)
	assert.Equal(t,
		"INSERT INTO guests (id, name, created_at, modified_at, created_by, modified_by) "+
			"VALUES (:id, :name, :created_at, :modified_at, :created_by, :modified_by)",
		repo.insertQuery)
}

func TestSelectList(t *testing.T) {
	repo := newGuestRepo()

	tests := []struct {
		name string
		only []string
		want string
	}{
		{
			name: "all columns",
			want: "guests.id, guests.name, guests.created_at, guests.modified_at, guests.created_by, guests.modified_by",
		},
		{
			name: "subset keeps declaration order",
			only: []string{"name", "id"},
			want: "guests.id, guests.name",
		},
		{
			name: "unknown column dropped",
			only: []string{"id", "nope"},
			want: "guests.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.selectList(tt.only...))
		})
	}
}

func TestSetList_Sorted(t *testing.T) {
	got := setList(map[string]any{"status": "confirmed", "modified_at": time.Time{}, "final_amount": 10})

	assert.Equal(t, "final_amount = :final_amount, modified_at = :modified_at, status = :status", got)
}

func TestBuildWhereClause(t *testing.T) {
	repo := newGuestRepo()

	where, args := repo.BuildWhereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.NotNil(t, args)

	where, args = repo.BuildWhereClause(dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: "g-1", Table: "guests"},
		},
	})
	assert.Contains(t, where, "WHERE ")
	assert.Contains(t, where, "guests.id")
	assert.Contains(t, args, "id")
}

func TestUnfilteredWritesRejected(t *testing.T) {
	repo := newGuestRepo()
	ctx := context.Background()

	exist, err := repo.Exist(ctx, dto.FilterGroup{})
	require.ErrorIs(t, err, ErrRequiredFilter)
	assert.False(t, exist)

	require.ErrorIs(t, repo.Delete(ctx, dto.FilterGroup{}), ErrRequiredFilter)
	require.ErrorIs(t, repo.Update(ctx, map[string]any{"name": "x"}, dto.FilterGroup{}), ErrRequiredFilter)

	affected, err := repo.UpdateCount(ctx, map[string]any{"name": "x"}, dto.FilterGroup{})
	require.ErrorIs(t, err, ErrRequiredFilter)
	assert.Zero(t, affected)
}
