package shared_test

import (
	"context"
	"errors"
	"hotel/shared"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{
			name:     "empty string returns nil",
			input:    "",
			expected: nil,
		},
		{
			name:     "valid true string",
			input:    "true",
			expected: boolPtr(true),
		},
		{
			name:     "valid 0 string",
			input:    "0",
			expected: boolPtr(false),
		},
		{
			name:     "invalid string returns nil",
			input:    "aircon",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConvertStringToNumbers(t *testing.T) {
	if got, err := shared.ConvertStringToFloat(" 101 "); err != nil || got != 101 {
		t.Errorf("expected 101, got %v (%v)", got, err)
	}

	if _, err := shared.ConvertStringToFloat("one"); err == nil {
		t.Error("expected error for non-numeric input")
	}

	if got, err := shared.ConvertStringToFloat("1500.50"); err != nil || got != 1500.50 {
		t.Errorf("expected 1500.50, got %f (%v)", got, err)
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "no data", total: 0, limit: 10, expected: 1},
		{name: "exact pages", total: 20, limit: 10, expected: 2},
		{name: "partial last page", total: 21, limit: 10, expected: 3},
		{name: "invalid limit", total: 21, limit: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type roomPatch struct {
		Number string   `db:"number"`
		Price  *float64 `db:"price"`
		Type   string   `db:"type"`
		Note   string
	}

	price := 1200.0

	result := shared.TransformFields(roomPatch{Number: "101", Price: &price, Note: "ignored"}, "admin")

	if result[constant.FieldModifiedBy] != "admin" {
		t.Errorf("expected modified_by to be admin, got %v", result[constant.FieldModifiedBy])
	}

	if _, ok := result[constant.FieldModifiedAt].(time.Time); !ok {
		t.Error("expected modified_at to be a time.Time")
	}

	if result["number"] != "101" {
		t.Errorf("expected number 101, got %v", result["number"])
	}

	if result["price"] != price {
		t.Errorf("expected price pointer to be dereferenced, got %v", result["price"])
	}

	if _, exists := result["type"]; exists {
		t.Error("zero value fields must be skipped")
	}

	if len(result) != 4 {
		t.Errorf("expected 4 fields, got %d", len(result))
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("b-1", "id", "bookings")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "b-1",
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
		},
	}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %+v, got %+v", expected, result)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := shared.BuildCacheKey("room:get", "r-1"); got != "room:get:r-1" {
		t.Errorf("expected room:get:r-1, got %s", got)
	}

	if got := shared.BuildCacheKey("limiter", "127.0.0.1", "curl"); got != "limiter:127.0.0.1:curl" {
		t.Errorf("unexpected key %s", got)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
	single := dto.FilterGroup{Filters: []any{dto.Filter{Field: "type", Value: "Single", Operator: dto.FilterOperatorEq}}}
	suite := dto.FilterGroup{Filters: []any{dto.Filter{Field: "type", Value: "Suite", Operator: dto.FilterOperatorEq}}}

	first := shared.BuildCacheKeyWithQuery("room:gets", params, single)
	again := shared.BuildCacheKeyWithQuery("room:gets", params, single)
	other := shared.BuildCacheKeyWithQuery("room:gets", params, suite)

	if first != again {
		t.Errorf("expected deterministic key, got %s and %s", first, again)
	}

	if first == other {
		t.Error("expected different filters to produce different keys")
	}

	if !strings.HasPrefix(first, "room:gets:") {
		t.Errorf("expected prefix room:gets:, got %s", first)
	}
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "room:gets*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "room:gets")

	// errors are swallowed
	mockCache.EXPECT().Clear(gomock.Any(), "offer:gets*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "offer:gets")
}

func boolPtr(b bool) *bool {
	return &b
}
