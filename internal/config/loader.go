package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/zostay/go-httpmsg/header/field"
)

// The log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// The environment variables read.
const (
	EnvWrap      = "HTTPMSG_WRAP"
	EnvMaxLine   = "HTTPMSG_MAX_LINE"
	EnvLogLevel  = "HTTPMSG_LOG_LEVEL"
	EnvLogFormat = "HTTPMSG_LOG_FORMAT"
	EnvBoundary  = "HTTPMSG_BOUNDARY"
)

type config struct {
	wrap      int
	maxLine   int
	logLevel  zerolog.Level
	logFormat string
	boundary  string
}

func parse() (*config, error) {
	wrap, err := getenvInt(EnvWrap, 0)
	if err != nil {
		return nil, err
	}

	maxLine, err := getenvInt(EnvMaxLine, field.HTTPMaxLineLength)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getenv(EnvLogLevel, "warn")))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
	}

	format := strings.ToLower(getenv(EnvLogFormat, FormatConsole))
	if format != FormatConsole && format != FormatJSON {
		return nil, fmt.Errorf("invalid %s value %q", EnvLogFormat, format)
	}

	return &config{
		wrap:      wrap,
		maxLine:   maxLine,
		logLevel:  level,
		logFormat: format,
		boundary:  getenv(EnvBoundary, ""),
	}, nil
}

func loadEnvFile(fn string) error {
	if _, err := os.Stat(fn); err == nil {
		return godotenv.Load(fn)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return n, nil
}
