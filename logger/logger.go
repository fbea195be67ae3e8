package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"storefront/config"

	"github.com/rs/zerolog"
)

// New returns the process logger: human readable in development, JSON lines
// everywhere else.
func New(env string) zerolog.Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if strings.EqualFold(env, config.EnvDevelopment) {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
