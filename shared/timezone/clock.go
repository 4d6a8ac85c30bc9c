package timezone

import "time"

const DateLayout = "2006-01-02"

// Clock abstracts "now" so date rules can be exercised with fixed days.
type Clock interface {
	Now() time.Time
}

type appClock struct{}

func (appClock) Now() time.Time {
	return Now()
}

func NewClock() Clock {
	return appClock{}
}

type fixedClock struct {
	at time.Time
}

func (f fixedClock) Now() time.Time {
	return f.at
}

func NewFixedClock(at time.Time) Clock {
	return fixedClock{at: at}
}

// StartOfDay truncates t to midnight in the application timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

func ParseDate(value string) (time.Time, error) {
	return Parse(DateLayout, value)
}

func FormatDate(t time.Time) string {
	return Format(t, DateLayout)
}

// CalendarDay reads the year, month and day of t in its own location and
// returns that day's midnight in the application timezone. Postgres DATE
// values arrive as UTC midnight and must pass through here before use.
func CalendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, location())
}

// NextDay is the midnight following t in the application timezone.
func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}
