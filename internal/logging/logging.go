package logging

import (
    "io"
    "time"

    "github.com/rs/zerolog"
)

// New builds the root logger. Unknown levels fall back to info; format
// "console" writes human readable lines, anything else JSON.
func New(w io.Writer, level, format string) zerolog.Logger {
    lvl, err := zerolog.ParseLevel(level)
    if err != nil || level == "" {
        lvl = zerolog.InfoLevel
    }
    if format == "console" {
        w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
    }
    return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
