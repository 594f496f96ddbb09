package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the application logger. APP_ENV=dev (or development) uses a
// human-friendly console writer; everything else emits JSON lines.
func New(env string) zerolog.Logger {
	l := zerolog.New(os.Stdout).With().Timestamp().Str("service", "aqarat").Logger()
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return l
}
