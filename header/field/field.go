package field

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
)

const (
	// HTTPMaxLineLength is the longest physical header line permitted when
	// rendering HTTP headers.
	HTTPMaxLineLength = 8000

	// MIMEMaxLineLength is the longest physical header line permitted when
	// rendering the headers of a MIME part.
	MIMEMaxLineLength = 998

	// MIMEFoldLength is the column MIME part headers are folded at.
	MIMEFoldLength = 78
)

// ErrHeaderTooLong is returned by Format when a physical line of the rendered
// header is longer than the permitted maximum.
var ErrHeaderTooLong = errors.New("header line is too long")

// SetCookie is the name of the one header whose values are never joined with
// commas.
const SetCookie = "Set-Cookie"

// Field is a single header field: a name and the ordered list of values
// stored for it.
//
// Every value stored is sanitized: HTML entities are decoded and then CR, LF
// and other ASCII control characters (except horizontal tab) are removed. For
// all fields but Set-Cookie, values are split on commas that are not inside a
// double-quoted string. A Set-Cookie field keeps each value whole, because the
// Expires attribute contains a comma.
type Field struct {
	name   string
	values []string
	marker bool
}

// New constructs a new field with the given name and values. For any name
// other than Set-Cookie, the values are joined with commas, sanitized, and then
// split on commas into the stored elements. For Set-Cookie, each value is
// sanitized and stored as its own element.
func New(name string, values ...string) *Field {
	f := &Field{name: name}
	f.SetValue(values...)
	return f
}

// NewMarker constructs a field that stores a literal line that could not be
// parsed as "Name: value". It renders as the literal line.
func NewMarker(line string) *Field {
	return &Field{name: line, marker: true}
}

// IsSetCookie returns true if the field is named Set-Cookie in any letter case.
func (f *Field) IsSetCookie() bool {
	return strings.EqualFold(f.name, SetCookie)
}

// IsMarker returns true if this field holds a literal line rather than a
// name and value.
func (f *Field) IsMarker() bool {
	return f.marker
}

// Name returns the name of the field as it was last set.
func (f *Field) Name() string {
	return f.name
}

// SetName changes the name of the field.
func (f *Field) SetName(name string) {
	f.name = name
}

// SetValue replaces all the stored values.
func (f *Field) SetValue(values ...string) {
	if f.IsSetCookie() {
		f.values = make([]string, 0, len(values))
		for _, v := range values {
			if s := Sanitize(v); s != "" {
				f.values = append(f.values, s)
			}
		}
		return
	}

	f.values = split(Sanitize(strings.Join(values, ",")))
}

// Append adds another element to the end of the stored values. The new value
// is sanitized, but not split.
func (f *Field) Append(value string) {
	f.values = append(f.values, Sanitize(value))
}

// Value returns the stored elements as a single string. Elements are joined
// with ", ", except for Set-Cookie, where each element is put on its own
// "Set-Cookie: " line joined by CRLF.
func (f *Field) Value() string {
	if f.IsSetCookie() {
		return strings.Join(f.values, "\r\n"+f.name+": ")
	}
	return strings.Join(f.values, ", ")
}

// Values returns a copy of the stored elements.
func (f *Field) Values() []string {
	return append([]string(nil), f.values...)
}

// Len returns the number of stored elements.
func (f *Field) Len() int {
	return len(f.values)
}

// Clone returns a copy of the field that shares no memory with the original.
func (f *Field) Clone() *Field {
	return &Field{
		name:   f.name,
		values: f.Values(),
		marker: f.marker,
	}
}

// lines renders the unfolded physical lines for the field.
func (f *Field) lines() []string {
	if f.marker {
		return []string{f.name}
	}

	if f.IsSetCookie() && len(f.values) > 1 {
		out := make([]string, len(f.values))
		for i, v := range f.values {
			out[i] = f.name + ": " + v
		}
		return out
	}

	return []string{f.name + ": " + f.Value()}
}

// String returns the field as it would appear on the wire, unfolded, with CRLF
// separating repeated Set-Cookie lines. No length check is made.
func (f *Field) String() string {
	return strings.Join(f.lines(), "\r\n")
}

// Format renders the field as "Name: value". If vf folds, long lines are
// folded using lb as the line break followed by the fold indent. Repeated
// Set-Cookie values are rendered as separate lines joined by lb. The returned
// string has no trailing line break.
//
// If maxLen is greater than zero and any physical line of the output is longer
// than maxLen, ErrHeaderTooLong is returned.
func (f *Field) Format(vf *FoldEncoding, lb []byte, maxLen int) (string, error) {
	if vf == nil {
		vf = DoNotFoldEncoding
	}

	buf := &bytes.Buffer{}
	for i, line := range f.lines() {
		if i > 0 {
			buf.Write(lb)
		}

		if _, err := vf.Fold(buf, []byte(line), lb); err != nil {
			return "", err
		}
	}

	out := buf.String()
	if maxLen > 0 {
		for _, pl := range strings.Split(out, string(lb)) {
			if len(pl) > maxLen {
				return "", fmt.Errorf("%w: %q is %d bytes long, limit is %d", ErrHeaderTooLong, f.name, len(pl), maxLen)
			}
		}
	}

	return out, nil
}

// Sanitize decodes HTML entities and then removes CR, LF, and all other ASCII
// control characters except horizontal tab. Leading and trailing space is
// trimmed.
func Sanitize(value string) string {
	value = html.UnescapeString(value)
	value = strings.Map(func(c rune) rune {
		if c == '\t' {
			return c
		}
		if c < 0x20 || c == 0x7f {
			return -1
		}
		return c
	}, value)
	return strings.TrimSpace(value)
}

// split breaks the value on commas found outside of double-quoted strings. Each
// element is trimmed. An empty value results in no elements.
func split(value string) []string {
	if value == "" {
		return nil
	}

	var (
		out     []string
		quoted  bool
		escaped bool
		start   int
	)
	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			out = append(out, strings.TrimSpace(value[start:i]))
			start = i + 1
		}
	}

	return append(out, strings.TrimSpace(value[start:]))
}
