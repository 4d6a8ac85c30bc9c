package model

import (
	"database/sql/driver"
	"fmt"
	"hotel/shared/model"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	TableName  = "credits"
	EntityName = "credit"

	FieldUserID        = "user_id"
	FieldBalance       = "balance"
	FieldTotalEarned   = "total_earned"
	FieldTotalRedeemed = "total_redeemed"
	FieldLastUpdatedAt = "last_updated_at"
)

const (
	TransactionTableName  = "credit_transactions"
	TransactionEntityName = "credit_transaction"

	FieldTransactionID   = "id"
	FieldTransactionUser = "user_id"
	FieldTransactionType = "type"
)

type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionRedeemed TransactionType = "redeemed"
	TransactionBonus    TransactionType = "bonus"
	TransactionExpired  TransactionType = "expired"
)

// Points is a stored point quantity. Values that are NULL or not a whole
// number read as 0 so rows written by older clients stay loadable.
type Points int64

func (p *Points) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = 0
	case int64:
		*p = Points(v)
	case float64:
		*p = pointsFromFloat(v)
	case []byte:
		*p = pointsFromString(string(v))
	case string:
		*p = pointsFromString(v)
	default:
		*p = 0
	}

	return nil
}

func (p Points) Value() (driver.Value, error) {
	return int64(p), nil
}

func pointsFromFloat(v float64) Points {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return Points(math.Trunc(v))
}

func pointsFromString(v string) Points {
	v = strings.TrimSpace(v)

	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return Points(n)
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return pointsFromFloat(f)
	}

	return 0
}

// Credit is a user's balance record. Balance always equals TotalEarned minus TotalRedeemed.
type Credit struct {
	UserID        string    `db:"user_id"`
	Balance       Points    `db:"balance"`
	TotalEarned   Points    `db:"total_earned"`
	TotalRedeemed Points    `db:"total_redeemed"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func (c *Credit) Add(points Points, at time.Time) {
	c.TotalEarned += points
	c.Balance = c.TotalEarned - c.TotalRedeemed
	c.LastUpdatedAt = at
}

// Spend deducts points, refusing to take the balance below zero.
func (c *Credit) Spend(points Points, at time.Time) error {
	if c.Balance < points {
		return fmt.Errorf("balance %d is below %d", c.Balance, points)
	}

	c.TotalRedeemed += points
	c.Balance = c.TotalEarned - c.TotalRedeemed
	c.LastUpdatedAt = at

	return nil
}

type Transaction struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Type        TransactionType `db:"type"`
	Points      Points          `db:"points"`
	Description string          `db:"description"`
	BookingID   *string         `db:"booking_id"`
	OfferID     *string         `db:"offer_id"`
	model.Metadata
}
