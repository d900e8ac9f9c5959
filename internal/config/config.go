// Package config loads the settings of the httpmsg command from the
// environment, reading a .env file in the working directory first if there is
// one.
package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Config holds the settings of the httpmsg command. Flags override them.
type Config interface {
	// Wrap is the width that headers are folded at, or 0 to not fold.
	Wrap() int

	// MaxLine is the longest header line allowed, or 0 for no limit.
	MaxLine() int

	// LogLevel is the lowest level logged.
	LogLevel() zerolog.Level

	// LogFormat is "console" or "json".
	LogFormat() string

	// Boundary is the multipart boundary to use instead of a random one.
	Boundary() string
}

// Load reads the .env file, if present, and then the environment.
func Load() (Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	return parse()
}

func (c *config) Wrap() int               { return c.wrap }
func (c *config) MaxLine() int            { return c.maxLine }
func (c *config) LogLevel() zerolog.Level { return c.logLevel }
func (c *config) LogFormat() string       { return c.logFormat }
func (c *config) Boundary() string        { return c.boundary }

// Logger returns a logger writing to w at the configured level and format.
func Logger(c Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	if c.LogFormat() == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(w).Level(c.LogLevel()).With().Timestamp().Logger()
}
