package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/config"
)

// ConfigureLogger installs the global zerolog logger. Dev mode writes human readable
// console output; otherwise JSON lines go to stdout.
func ConfigureLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.DevMode && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	var writer io.Writer = os.Stdout
	if cfg.DevMode {
		writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}
	}

	log.Logger = zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(level)

	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("observability: unknown log level, using info")
	}
}
