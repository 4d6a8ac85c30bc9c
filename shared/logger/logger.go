package logger

import (
	"hotel/config"
	"hotel/shared/constant"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger writes human readable lines in development and JSON elsewhere so
// log shippers can index the booking and room ids attached to each event.
func InitLogger(cfg *config.Config) {
	InitLoggerWithOutput(cfg, os.Stdout)
}

func InitLoggerWithOutput(cfg *config.Config, out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var output io.Writer = out
	if cfg.Server.Env == constant.ServerEnvDevelopment {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(output).With().Timestamp()

	if cfg.App.Name != "" {
		ctx = ctx.Str("service", cfg.App.Name)
	}

	if cfg.Server.Env != "" {
		ctx = ctx.Str("env", cfg.Server.Env)
	}

	log.Logger = ctx.Logger()
	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL. Unset or unknown levels fall back to info.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)

	switch {
	case err != nil:
		log.Warn().Str("loglevel", cfg.Server.LogLevel).Msg("Unknown log level, using default.")

		level = defaultLevel
	case level == zerolog.NoLevel:
		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("loglevel", level.String()).Msg("Log level set.")
}
