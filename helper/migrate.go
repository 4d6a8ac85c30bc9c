package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/postgres"
	"net/url"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

var ErrUnknownAction = errors.New("unknown migration action")

type action func(mig *migrate.Migrate, args []string) error

// actions are the commands accepted by cmd/migrate. ErrNoChange is not an error.
var actions = map[string]action{
	"up":      func(m *migrate.Migrate, _ []string) error { return m.Up() },
	"down":    func(m *migrate.Migrate, _ []string) error { return m.Steps(-1) },
	"step-up": func(m *migrate.Migrate, _ []string) error { return m.Steps(1) },
	"drop":    func(m *migrate.Migrate, _ []string) error { return m.Down() },
	"version": func(m *migrate.Migrate, _ []string) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info().Msg("Database has no migrations applied")

			return nil
		}

		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database schema version")
		}

		return err
	},
	// force marks a version clean after a failed migration was fixed by hand.
	"force": func(m *migrate.Migrate, args []string) error {
		if len(args) == 0 {
			return errors.New("force requires a version")
		}

		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}

		return m.Force(version)
	},
}

// migrationDSN points golang-migrate at the primary with the configured
// bookkeeping table.
func migrationDSN(config *config.Config) (string, error) {
	dsn, err := url.Parse(postgres.WriteDSN(config))
	if err != nil {
		return "", fmt.Errorf("error parsing database url: %w", err)
	}

	if table := config.DB.Postgres.MigrationTable; table != "" {
		query := dsn.Query()
		query.Set("x-migrations-table", table)
		dsn.RawQuery = query.Encode()
	}

	return dsn.String(), nil
}

func Runner(config *config.Config, name string, args ...string) error {
	run, ok := actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	dsn, err := migrationDSN(config)
	if err != nil {
		return err
	}

	mig, err := migrate.New(migrationsSource, dsn)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Failed to close migrate instance")
		}
	}()

	if err = run(mig, args); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", name, err)
	}

	log.Info().Str("action", name).Msg("Database migration finished")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, "up")
}
