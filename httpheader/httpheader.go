// Package httpheader provides the header of an HTTP request or response. It
// builds on header.Header, adding the status line of a response and routing
// Cookie and Set-Cookie fields into cookie collections so that they can be
// worked with as cookies rather than as text.
package httpheader

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/zostay/go-httpmsg/cookie"
	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/header/field"
)

// ErrInvalidHeaderLine is returned when a line added to the header is neither
// a "Name: value" field nor a status line.
var ErrInvalidHeaderLine = errors.New("invalid header line")

// Kind tells a request header from a response header. They differ only in
// rendering: the header of a response ends with a blank line.
type Kind int

// The kinds of HTTP header.
const (
	Request Kind = iota
	Response
)

// String returns "request" or "response".
func (k Kind) String() string {
	if k == Response {
		return "response"
	}
	return "request"
}

var statusLine = regexp.MustCompile(`^HTTP/(\d+(?:\.\d+)?) (\d{3})(?: .*)?$`)

// IsStatusLine returns true if the line looks like "HTTP/1.1 200 OK". The
// reason phrase is optional.
func IsStatusLine(line string) bool {
	return statusLine.MatchString(line)
}

// Header is the header of an HTTP request or response.
type Header struct {
	header.Header

	kind       Kind
	status     string
	cookies    *cookie.Cookies
	setCookies *cookie.SetCookies
}

// New returns an empty header of the given kind, configured like header.New.
func New(kind Kind) *Header {
	return &Header{
		Header:     *header.New(),
		kind:       kind,
		cookies:    cookie.NewCookies(),
		setCookies: cookie.NewSetCookies(),
	}
}

// NewRequest returns an empty request header.
func NewRequest() *Header { return New(Request) }

// NewResponse returns an empty response header.
func NewResponse() *Header { return New(Response) }

// Kind returns the kind of header.
func (h *Header) Kind() Kind { return h.kind }

// SetKind changes the kind of header.
func (h *Header) SetKind(kind Kind) { h.kind = kind }

// Cookies returns the request cookies of the header.
func (h *Header) Cookies() *cookie.Cookies { return h.cookies }

// SetCookies returns the response cookies of the header.
func (h *Header) SetCookies() *cookie.SetCookies { return h.setCookies }

// Status returns the status line, or an empty string if there is none.
func (h *Header) Status() string { return h.status }

// SetStatus sets the status line, which must look like "HTTP/1.1 200 OK". An
// empty string removes it.
func (h *Header) SetStatus(status string) error {
	status = strings.TrimSpace(status)
	if status != "" && !IsStatusLine(status) {
		return fmt.Errorf("%w: %q is not a status line", ErrInvalidHeaderLine, status)
	}

	h.status = status
	return nil
}

// StatusCode returns the status code of the status line, or 0 if there is no
// status line.
func (h *Header) StatusCode() int {
	m := statusLine.FindStringSubmatch(h.status)
	if m == nil {
		return 0
	}

	code, _ := strconv.Atoi(m[2])
	return code
}

// Version returns the HTTP version of the status line, such as "1.1", or an
// empty string if there is no status line.
func (h *Header) Version() string {
	m := statusLine.FindStringSubmatch(h.status)
	if m == nil {
		return ""
	}
	return m[1]
}

func isCookie(name string) bool    { return strings.EqualFold(name, header.Cookie) }
func isSetCookie(name string) bool { return strings.EqualFold(name, header.SetCookie) }

// values turns any value header.MakeField accepts into field values.
func values(name string, value any) ([]string, error) {
	f, err := header.MakeField(name, value)
	if err != nil {
		return nil, err
	}
	return f.Values(), nil
}

func (h *Header) init() {
	if h.cookies == nil {
		h.cookies = cookie.NewCookies()
	}
	if h.setCookies == nil {
		h.setCookies = cookie.NewSetCookies()
	}
}

// addCookies parses Cookie header values into the request cookies.
func (h *Header) addCookies(value any) error {
	h.init()

	if cs, isCookies := value.(*cookie.Cookies); isCookies && cs != nil {
		for _, c := range cs.All() {
			if err := h.cookies.Set(c.Name(), c); err != nil {
				return err
			}
		}
		return nil
	}

	vs, err := values(header.Cookie, value)
	if err != nil {
		return err
	}

	for _, v := range vs {
		h.cookies.Parse(v)
	}
	return nil
}

// addSetCookies parses Set-Cookie header values into the response cookies.
func (h *Header) addSetCookies(value any) error {
	h.init()

	switch v := value.(type) {
	case *cookie.SetCookie:
		if v != nil {
			h.setCookies.Put(v)
			return nil
		}
	case *cookie.SetCookies:
		if v != nil {
			for _, c := range v.All() {
				h.setCookies.Put(c)
			}
			return nil
		}
	}

	vs, err := values(header.SetCookie, value)
	if err != nil {
		return err
	}

	for _, v := range vs {
		if err := h.setCookies.Parse(v); err != nil {
			return err
		}
	}
	return nil
}

// Set works like header.Header.Set, except for Cookie and Set-Cookie. Setting
// Cookie replaces the request cookies with those parsed from the value.
// Setting Set-Cookie parses the value and stores the response cookie, which
// replaces a response cookie only if it has the same name, domain, and path.
// Both also accept values from the cookie package.
func (h *Header) Set(name string, value any) error {
	switch {
	case isCookie(name):
		old := h.cookies
		h.cookies = cookie.NewCookies()
		if err := h.addCookies(value); err != nil {
			h.cookies = old
			return err
		}
		return nil
	case isSetCookie(name):
		return h.addSetCookies(value)
	}

	return h.Header.Set(name, value)
}

// Prepend works like header.Header.Prepend, except that Cookie and Set-Cookie
// work as in Set. Cookies are always rendered after the other fields.
func (h *Header) Prepend(name string, value any) error {
	if isCookie(name) || isSetCookie(name) {
		return h.Set(name, value)
	}
	return h.Header.Prepend(name, value)
}

// AppendValue works like header.Header.AppendValue, except that Cookie values
// are added to the request cookies and Set-Cookie values to the response
// cookies.
func (h *Header) AppendValue(name, value string) error {
	switch {
	case isCookie(name):
		return h.addCookies(value)
	case isSetCookie(name):
		return h.addSetCookies(value)
	}
	return h.Header.AppendValue(name, value)
}

// Has works like header.Header.Has, but reports whether any cookies are held
// for Cookie and Set-Cookie.
func (h *Header) Has(name string) bool {
	switch {
	case isCookie(name):
		return h.cookies != nil && h.cookies.Len() > 0
	case isSetCookie(name):
		return h.setCookies != nil && h.setCookies.Len() > 0
	}
	return h.Header.Has(name)
}

// Value works like header.Header.Value, but renders the cookies for Cookie and
// Set-Cookie. Cookie names are not checked.
func (h *Header) Value(name string) string {
	switch {
	case isCookie(name):
		return h.cookieValue()
	case isSetCookie(name):
		return strings.Join(h.setCookieValues(), "\r\n"+header.SetCookie+": ")
	}
	return h.Header.Value(name)
}

// Delete works like header.Header.Delete, but drops all the cookies for
// Cookie and Set-Cookie.
func (h *Header) Delete(name string) bool {
	switch {
	case isCookie(name):
		had := h.Has(name)
		h.cookies = cookie.NewCookies()
		return had
	case isSetCookie(name):
		had := h.Has(name)
		h.setCookies = cookie.NewSetCookies()
		return had
	}
	return h.Header.Delete(name)
}

// Add parses each line and adds it to the header. Blank lines are skipped. A
// status line sets the status. Cookie lines add to the request cookies and
// Set-Cookie lines add to the response cookies. Any other field replaces the
// field with the same name. Any other line fails with ErrInvalidHeaderLine.
//
// Lines before a bad line are kept.
func (h *Header) Add(lines ...string) error {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		f := field.Parse(line)
		if f == nil {
			if IsStatusLine(line) {
				h.status = line
				continue
			}
			return fmt.Errorf("%w: %q", ErrInvalidHeaderLine, line)
		}

		var err error
		switch {
		case isCookie(f.Name()):
			err = h.addCookies(f)
		case isSetCookie(f.Name()):
			err = h.addSetCookies(f)
		default:
			err = h.Header.Set(f.Name(), f)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// cookieValue returns the unchecked Cookie value.
func (h *Header) cookieValue() string {
	if h.cookies == nil {
		return ""
	}

	pairs := make([]string, 0, h.cookies.Len())
	for _, c := range h.cookies.All() {
		pairs = append(pairs, c.String())
	}
	return strings.Join(pairs, "; ")
}

// setCookieValues returns the unchecked Set-Cookie values of unexpired
// cookies.
func (h *Header) setCookieValues() []string {
	if h.setCookies == nil {
		return nil
	}

	var vs []string
	for _, c := range h.setCookies.All() {
		if !c.Expired(false) {
			vs = append(vs, c.String())
		}
	}
	return vs
}

// Lines returns the status line, each field, the Cookie line, and each
// Set-Cookie line, unfolded and without checking cookie names.
func (h *Header) Lines() []string {
	var lines []string
	if h.status != "" {
		lines = append(lines, h.status)
	}

	lines = append(lines, h.Header.Lines()...)

	return append(lines, h.uncheckedCookieLines()...)
}

func (h *Header) uncheckedCookieLines() []string {
	var lines []string
	if v := h.cookieValue(); v != "" {
		lines = append(lines, header.Cookie+": "+v)
	}

	for _, v := range h.setCookieValues() {
		lines = append(lines, header.SetCookie+": "+v)
	}
	return lines
}

// Format renders the header: the status line, the fields, the Cookie line,
// and the Set-Cookie lines, each followed by the line break. A response header
// ends with a blank line. A header with nothing in it renders as an empty
// string.
//
// It fails with cookie.ErrInvalidCookieName if a cookie name is not valid and
// with field.ErrHeaderTooLong if a line is too long.
func (h *Header) Format() (string, error) {
	return h.format(true)
}

func (h *Header) format(check bool) (string, error) {
	h.init()

	lb := h.Break().String()
	maxLen := h.MaxLineLength()
	if !check {
		maxLen = 0
	}

	var sb strings.Builder
	if h.status != "" {
		sb.WriteString(h.status)
		sb.WriteString(lb)
	}

	var (
		plain string
		err   error
	)
	if check {
		plain, err = h.Header.Format()
		if err != nil {
			return "", err
		}
	} else {
		plain = h.Header.String()
	}
	sb.WriteString(plain)

	var cookieLines []string
	if check {
		line, err := h.cookies.Format()
		if err != nil {
			return "", err
		}
		if line != "" {
			cookieLines = append(cookieLines, line)
		}

		scLines, err := h.setCookies.Lines()
		if err != nil {
			return "", err
		}
		cookieLines = append(cookieLines, scLines...)
	} else {
		cookieLines = h.uncheckedCookieLines()
	}

	for _, line := range cookieLines {
		if maxLen > 0 && len(line) > maxLen {
			return "", fmt.Errorf("%w: cookie line is %d bytes long, limit is %d", field.ErrHeaderTooLong, len(line), maxLen)
		}
		sb.WriteString(line)
		sb.WriteString(lb)
	}

	if sb.Len() == 0 {
		return "", nil
	}

	if h.kind == Response {
		sb.WriteString(lb)
	}

	return sb.String(), nil
}

// WriteTo writes the rendered header to the given io.Writer.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	s, err := h.Format()
	if err != nil {
		return 0, err
	}

	n, err := io.WriteString(w, s)
	return int64(n), err
}

// String renders the header without checking cookie names or line lengths.
func (h *Header) String() string {
	s, _ := h.format(false)
	return s
}

// Clone returns a deep copy of the header, including both cookie collections.
func (h *Header) Clone() *Header {
	h.init()
	return &Header{
		Header:     *h.Header.Clone(),
		kind:       h.kind,
		status:     h.status,
		cookies:    h.cookies.Clone(),
		setCookies: h.setCookies.Clone(),
	}
}
