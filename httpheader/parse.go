package httpheader

import (
	"errors"

	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/header/field"
)

// Parse reads a block of HTTP header text into a new header of the given kind.
// It takes the same options as header.Parse. Folded continuation lines are
// joined, a status line sets the status, and Cookie and Set-Cookie lines are
// parsed into the cookie collections.
//
// Parsing is best effort: lines that Add rejects are logged and skipped.
func Parse(text string, kind Kind, opts ...header.ParseOption) *Header {
	logger, lbr := header.ParseConfig(opts...)

	h := New(kind)
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
		if err := h.Add(line); err != nil {
			logger.Warn().
				Err(err).
				Str("line", line).
				Msg("skipping bad header line")
		}
	}

	return h
}

// DetectKind returns Response if the first non-blank line of the text is a
// status line and Request otherwise.
func DetectKind(text string) Kind {
	lines, _ := field.ParseLines(text)
	if len(lines) > 0 && IsStatusLine(lines[0]) {
		return Response
	}
	return Request
}
