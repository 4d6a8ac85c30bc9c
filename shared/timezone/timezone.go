package timezone

import (
	"fmt"
	"hotel/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	locationOnce sync.Once
	appLocation  *time.Location
	locationMu   sync.RWMutex
)

// location resolves APP_TIMEZONE on first use. Unknown names fall back to UTC.
func location() *time.Location {
	locationOnce.Do(func() {
		name := config.Get().App.Timezone

		loc, err := load(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

			loc = time.UTC
		}

		locationMu.Lock()
		if appLocation == nil {
			appLocation = loc
		}
		locationMu.Unlock()

		log.Info().Str("timezone", appLocation.String()).Msg("Application timezone initialized")
	})

	locationMu.RLock()
	defer locationMu.RUnlock()

	return appLocation
}

func load(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}

	return loc, nil
}

// SetLocation overrides the configured timezone. Stay dates parsed afterwards
// use the new location.
func SetLocation(name string) error {
	loc, err := load(name)
	if err != nil {
		return err
	}

	locationOnce.Do(func() {})

	locationMu.Lock()
	appLocation = loc
	locationMu.Unlock()

	return nil
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(location())
}

// ToAppTime converts a time to the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func GetLocation() *time.Location {
	return location()
}

// Parse parses value in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, location())
	if err != nil {
		return t, fmt.Errorf("failed to parse %q: %w", value, err)
	}

	return t, nil
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
