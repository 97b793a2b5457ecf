package commandinit

import (
	"fmt"
	"io"

	"github.com/artuross/sexpc/internal/log/semconv"
	"github.com/rs/zerolog"
)

// NewLogger creates the console logger used by every command.
func NewLogger(w io.Writer, command string, level string) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(parsedLevel).
		With().Timestamp().Logger().
		With().Str(semconv.Command, command).Logger()

	return logger, nil
}
