package core

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// NewLogger builds a timestamped zerolog logger writing to w at the given
// level. An empty level means info.
func NewLogger(level string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
