package dto

import (
	"fmt"
	"hotel/config"
	"hotel/shared/timezone"
	"time"
)

// Date is a calendar day in YYYY-MM-DD form, interpreted in the application timezone.
// Use it with the `app` validation tag.
type Date string

func (d Date) Validate(_ *config.Config) error {
	if _, err := d.Time(); err != nil {
		return err
	}

	return nil
}

func (d Date) Time() (time.Time, error) {
	t, err := timezone.ParseDate(string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", string(d), err)
	}

	return t, nil
}

func DateFrom(t time.Time) Date {
	return Date(timezone.FormatDate(t))
}
