package model

import "hotel/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldNumber   = "number"
	FieldType     = "type"
	FieldPrice    = "price"
	FieldHasAC    = "has_ac"
	FieldPhoto    = "photo"
	FieldIsBooked = "is_booked"
)

// Cache key prefixes shared by every writer of room rows.
const (
	CacheKeyGet    = "room:get"
	CacheKeyGetAll = "room:gets"
	CacheKeyCount  = "room:count"
)

type Type string

const (
	TypeSingle Type = "Single"
	TypeDouble Type = "Double"
	TypeSuite  Type = "Suite"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSingle, TypeDouble, TypeSuite:
		return true
	default:
		return false
	}
}

type Room struct {
	ID     string  `db:"id"`
	Number string  `db:"number"`
	Type   Type    `db:"type"`
	Price  float64 `db:"price"`
	HasAC  bool    `db:"has_ac"`
	Photo  string  `db:"photo"`
	// IsBooked mirrors occupancy for the current day only. Availability checks never read it.
	IsBooked bool `db:"is_booked"`
	model.Metadata
}
