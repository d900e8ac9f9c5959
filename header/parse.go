package header

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/zostay/go-httpmsg/header/field"
)

// ParseOption configures Parse.
type ParseOption func(*parser)

type parser struct {
	logger zerolog.Logger
	lbr    Break
}

// WithLogger sets the logger that parsers report skipped lines to. By default,
// nothing is logged.
func WithLogger(logger zerolog.Logger) ParseOption {
	return func(p *parser) {
		p.logger = logger
	}
}

// WithBreak sets the line break of the header returned by Parse. Parsing
// always accepts both CRLF and LF.
func WithBreak(lbr Break) ParseOption {
	return func(p *parser) {
		p.lbr = lbr
	}
}

// ParseConfig applies the given options on top of the defaults and returns
// the logger and line break chosen. It is shared with other packages that
// parse header blocks the same way.
func ParseConfig(opts ...ParseOption) (zerolog.Logger, Break) {
	p := &parser{
		logger: zerolog.Nop(),
		lbr:    CRLF,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p.logger, p.lbr
}

// Parse reads a block of header text into a new Header configured like New.
// Folded continuation lines are joined to the line before them. Parsing is
// best effort: continuation text at the start of the block is logged and
// skipped, and lines that are not "Name: value" are kept as marker entries.
func Parse(text string, opts ...ParseOption) *Header {
	logger, lbr := ParseConfig(opts...)

	h := New()
	h.SetBreak(lbr)

	lines, err := field.ParseLines(text)
	var badStartErr *field.BadStartError
	if errors.As(err, &badStartErr) {
		logger.Warn().
			Err(err).
			Str("skipped", badStartErr.BadStart).
			Msg("skipping header continuation text without a header")
	}

	for _, line := range lines {
		if field.Parse(line) == nil {
			logger.Debug().
				Str("line", line).
				Msg("keeping header line that is not a field as a marker")
		}
		h.Add(line)
	}

	return h
}
