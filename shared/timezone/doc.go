// Package timezone pins the hotel's calendar to one IANA zone.
//
// Stay dates arrive as YYYY-MM-DD and mean midnight in that zone, so a
// check-out on 2024-06-12 frees the room for a check-in on the same day
// regardless of where the server runs:
//
//	day, err := timezone.ParseDate("2024-06-10")
//	today := timezone.StartOfDay(clock.Now())
//
// The zone comes from APP_TIMEZONE and is resolved on first use. An empty
// or unknown name means UTC. SetLocation overrides it, which tests use to
// pin a zone. Services take a Clock instead of calling Now directly so the
// current day can be fixed in tests.
package timezone
