package postgres

//nolint:revive
import (
	"cmp"
	"hotel/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName = "postgres"

	maxIdleConnections = 10
	maxOpenConnections = 20
	connMaxLifetime    = 30 * time.Minute
)

// Connection splits reads from writes. Units of work always run on Write so
// their row and advisory locks see every committed booking.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type endpoint struct {
	role     string
	host     string
	port     string
	username string
	password string
	dbName   string
	sslMode  string
	timezone string
}

func New(cfg *config.Config) *Connection {
	read, write := endpoints(cfg)

	return &Connection{
		Read:  connect(read, cfg.App.Name, cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime),
		Write: connect(write, cfg.App.Name, cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime),
	}
}

// WriteDSN is the primary's connection URL, used by schema migrations.
func WriteDSN(cfg *config.Config) string {
	_, write := endpoints(cfg)

	return write.DSN(cfg.App.Name)
}

func endpoints(cfg *config.Config) (read, write endpoint) {
	pg := cfg.DB.Postgres

	write = endpoint{
		role:     "write",
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		username: pg.Write.Username,
		password: pg.Write.Password,
		dbName:   dbName(pg.Prefix, pg.Write.Name),
		sslMode:  pg.Write.SSLMode,
		timezone: cmp.Or(pg.Write.Timezone, cfg.App.Timezone),
	}

	read = endpoint{
		role:     "read",
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		username: pg.Read.Username,
		password: pg.Read.Password,
		dbName:   dbName(pg.Prefix, pg.Read.Name),
		sslMode:  pg.Read.SSLMode,
		timezone: cmp.Or(pg.Read.Timezone, cfg.App.Timezone),
	}

	// a deployment without a replica reads from the primary
	if read.host == "" {
		read = write
		read.role = "read"
	}

	return read, write
}

func dbName(prefix, baseName string) string {
	return prefix + baseName
}

// DSN builds the lib/pq connection URL for an endpoint. Booking dates are
// DATE columns, so the session timezone decides what "today" means in SQL.
func (e endpoint) DSN(appName string) string {
	query := url.Values{}
	query.Set("sslmode", e.sslMode)

	if e.timezone != "" {
		query.Set("timezone", e.timezone)
	}

	if appName != "" {
		query.Set("application_name", appName)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(e.username, e.password),
		Host:     net.JoinHostPort(e.host, e.port),
		Path:     "/" + e.dbName,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(e endpoint, appName string, maxRetry, waitSeconds int) *sqlx.DB {
	dsn := e.DSN(appName)

	for attempt := range max(maxRetry, 1) {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().
				Str("role", e.role).
				Str("host", e.host).
				Str("port", e.port).
				Str("dbName", e.dbName).
				Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("role", e.role).
			Str("host", e.host).
			Int("attempt", attempt+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	log.Fatal().Str("role", e.role).Int("attempts", max(maxRetry, 1)).Msg("Could not connect to database")

	return nil
}
