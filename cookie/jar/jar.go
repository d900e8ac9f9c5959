// Package jar reads and writes cookies in the Netscape cookie file format used
// by curl and many browsers. Each cookie is one line of seven tab-separated
// fields:
//
//	domain  domain-flag  path  secure  expires  name  value
//
// The flags are TRUE or FALSE. A domain prefixed with "#HttpOnly_" marks an
// HttpOnly cookie.
package jar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zostay/go-httpmsg/cookie"
)

// ErrInvalidJarFormat is returned when a jar line does not have exactly seven
// tab-separated fields, or a field cannot be read.
var ErrInvalidJarFormat = errors.New("invalid cookie jar format")

// Header is written at the top of every file produced by Write.
const Header = "# Netscape HTTP Cookie File\n# https://curl.se/docs/http-cookies.html\n\n"

// HTTPOnlyPrefix marks the domain field of an HttpOnly cookie.
const HTTPOnlyPrefix = "#HttpOnly_"

const fieldCount = 7

func flag(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Line renders one cookie as a jar line, without a line break.
func Line(c *cookie.SetCookie) (string, error) {
	if !cookie.IsValidName(c.Name()) {
		return "", fmt.Errorf("%w: %q", cookie.ErrInvalidCookieName, c.Name())
	}

	domain := c.Domain()
	if c.HTTPOnly() {
		domain = HTTPOnlyPrefix + domain
	}

	return strings.Join([]string{
		domain,
		flag(strings.HasPrefix(c.Domain(), ".")),
		c.Path(),
		flag(c.Secure()),
		strconv.FormatInt(c.Expires(), 10),
		c.Name(),
		c.Value(),
	}, "\t"), nil
}

// Marshal renders every unexpired cookie as a jar line. The lines are joined
// by "\n" with a trailing "\n", or the result is empty when there is nothing
// to write.
func Marshal(cookies []*cookie.SetCookie) (string, error) {
	var sb strings.Builder
	for _, c := range cookies {
		if c.Expired(false) {
			continue
		}

		line, err := Line(c)
		if err != nil {
			return "", err
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ParseLine reads a single jar line into a cookie. The line must have exactly
// seven tab-separated fields.
func ParseLine(line string) (*cookie.SetCookie, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, found %d", ErrInvalidJarFormat, fieldCount, len(fields))
	}

	domain, httpOnly := fields[0], false
	if strings.HasPrefix(domain, HTTPOnlyPrefix) {
		domain = strings.TrimPrefix(domain, HTTPOnlyPrefix)
		httpOnly = true
	}

	expires, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad expires %q", ErrInvalidJarFormat, fields[4])
	}

	return cookie.NewSetCookie(fields[5], fields[6],
		cookie.WithDomain(domain),
		cookie.WithPath(fields[2]),
		cookie.WithSecure(strings.EqualFold(fields[3], "TRUE")),
		cookie.WithExpires(expires),
		cookie.WithHTTPOnly(httpOnly),
	)
}

// ReadOption configures Read.
type ReadOption func(*reader)

type reader struct {
	logger zerolog.Logger
}

// WithLogger sets the logger that Read reports skipped lines to. The default
// discards them.
func WithLogger(logger zerolog.Logger) ReadOption {
	return func(r *reader) {
		r.logger = logger
	}
}

// Read reads a whole jar file. Blank lines and comments are skipped, except
// that lines starting with "#HttpOnly_" are cookies. Lines whose domain a
// Set-Cookie header could not carry, such as "localhost" or "example.com",
// are logged and skipped. Reading stops at any other bad line.
func Read(r io.Reader, opts ...ReadOption) (*cookie.SetCookies, error) {
	rd := &reader{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(rd)
	}

	sc := cookie.NewSetCookies()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, HTTPOnlyPrefix) {
			continue
		}

		c, err := ParseLine(line)
		if errors.Is(err, cookie.ErrInvalidDomain) {
			rd.logger.Warn().
				Err(err).
				Int("line", lineNo).
				Msg("skipping cookie jar line")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		sc.Put(c)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return sc, nil
}

// Write writes a jar file holding every unexpired cookie, starting with
// Header.
func Write(w io.Writer, cookies []*cookie.SetCookie) error {
	body, err := Marshal(cookies)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, Header+body)
	return err
}
