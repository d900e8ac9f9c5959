package header

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zostay/go-httpmsg/header/field"
)

// Errors returned by various header methods and functions.
var (
	// ErrEmptyHeaderName is returned when setting a header field with an
	// empty name.
	ErrEmptyHeaderName = errors.New("empty header name")

	// ErrInvalidHeaderName is returned when setting a header field with a name
	// holding a colon or a control character, such as CR or LF.
	ErrInvalidHeaderName = errors.New("invalid header name")

	// ErrInvalidHeaderValue is returned when setting a header field to a value
	// that cannot be turned into a header field body.
	ErrInvalidHeaderValue = errors.New("invalid header value")

	// ErrNoSuchField is returned by the semantic getters when the header named
	// does not exist.
	ErrNoSuchField = errors.New("no such header field")
)

// Common header names used by this library.
const (
	ContentDescription      = "Content-Description"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-ID"
	ContentLanguage         = "Content-Language"
	ContentLength           = "Content-Length"
	ContentLocation         = "Content-Location"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Cookie                  = "Cookie"
	Date                    = "Date"
	Expires                 = "Expires"
	From                    = "From"
	Host                    = "Host"
	LastModified            = "Last-Modified"
	SetCookie               = field.SetCookie
	UserAgent               = "User-Agent"
)

// Header is an ordered collection of header fields. The zero value is an
// empty header that renders with CRLF line breaks, no folding, and no line
// length limit. Use New or NewMIME to get the usual limits.
type Header struct {
	lbr    Break
	vf     *field.FoldEncoding
	maxLen int
	fields []*field.Field
}

// New returns an empty header configured for HTTP: CRLF line breaks, no
// folding, and a maximum line length of field.HTTPMaxLineLength.
func New() *Header {
	return &Header{
		lbr:    CRLF,
		vf:     field.DoNotFoldEncoding,
		maxLen: field.HTTPMaxLineLength,
	}
}

// NewMIME returns an empty header configured for the header of a MIME part:
// CRLF line breaks, no folding, and a maximum line length of
// field.MIMEMaxLineLength. Set field.DefaultFoldEncoding with SetFoldEncoding
// to fold at field.MIMEFoldLength.
func NewMIME() *Header {
	return &Header{
		lbr:    CRLF,
		vf:     field.DoNotFoldEncoding,
		maxLen: field.MIMEMaxLineLength,
	}
}

// Break returns the line break used when rendering the header.
func (h *Header) Break() Break {
	if h.lbr == "" {
		return CRLF
	}
	return h.lbr
}

// SetBreak changes the line break used when rendering the header.
func (h *Header) SetBreak(lbr Break) {
	h.lbr = lbr
}

// FoldEncoding returns the fold encoding used when rendering the header.
func (h *Header) FoldEncoding() *field.FoldEncoding {
	if h.vf == nil {
		return field.DoNotFoldEncoding
	}
	return h.vf
}

// SetFoldEncoding changes the fold encoding used when rendering the header.
func (h *Header) SetFoldEncoding(vf *field.FoldEncoding) {
	h.vf = vf
}

// MaxLineLength returns the longest physical line permitted when rendering.
// Zero or less means there is no limit.
func (h *Header) MaxLineLength() int {
	return h.maxLen
}

// SetMaxLineLength changes the longest physical line permitted when rendering.
func (h *Header) SetMaxLineLength(n int) {
	h.maxLen = n
}

// Len returns the number of entries in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns the entries of the header in order. The slice is a copy, but
// the fields are not.
func (h *Header) Fields() []*field.Field {
	return append([]*field.Field(nil), h.fields...)
}

// Clear removes every entry from the header.
func (h *Header) Clear() {
	h.fields = nil
}

// index returns the index of the field with the given name or -1.
func (h *Header) index(name string) int {
	for i, f := range h.fields {
		if !f.IsMarker() && strings.EqualFold(f.Name(), name) {
			return i
		}
	}
	return -1
}

// MakeField turns the value into a field with the given name. A *field.Field
// is renamed and returned as-is. Strings, string slices, integers, floats,
// booleans and fmt.Stringer values are wrapped in a new field. Anything else
// fails with ErrInvalidHeaderValue.
func MakeField(name string, value any) (*field.Field, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	var body string
	switch v := value.(type) {
	case *field.Field:
		if v == nil {
			return nil, fmt.Errorf("%w: nil field for %q", ErrInvalidHeaderValue, name)
		}
		v.SetName(name)
		return v, nil
	case string:
		body = v
	case []string:
		return field.New(name, v...), nil
	case int:
		body = strconv.FormatInt(int64(v), 10)
	case int8:
		body = strconv.FormatInt(int64(v), 10)
	case int16:
		body = strconv.FormatInt(int64(v), 10)
	case int32:
		body = strconv.FormatInt(int64(v), 10)
	case int64:
		body = strconv.FormatInt(v, 10)
	case uint:
		body = strconv.FormatUint(uint64(v), 10)
	case uint8:
		body = strconv.FormatUint(uint64(v), 10)
	case uint16:
		body = strconv.FormatUint(uint64(v), 10)
	case uint32:
		body = strconv.FormatUint(uint64(v), 10)
	case uint64:
		body = strconv.FormatUint(v, 10)
	case float32:
		body = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		body = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		body = strconv.FormatBool(v)
	case fmt.Stringer:
		body = v.String()
	default:
		return nil, fmt.Errorf("%w: cannot use %T for %q", ErrInvalidHeaderValue, value, name)
	}

	return field.New(name, body), nil
}

// checkName rejects names that would not render as a single header line.
func checkName(name string) error {
	if name == "" {
		return ErrEmptyHeaderName
	}

	if i := strings.IndexFunc(name, func(r rune) bool {
		return r == ':' || r < 0x20 || r == 0x7f
	}); i >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidHeaderName, name)
	}
	return nil
}

// store replaces the field with the same name or adds it to the end.
func (h *Header) store(f *field.Field) {
	if i := h.index(f.Name()); i >= 0 {
		h.fields[i] = f
		return
	}
	h.fields = append(h.fields, f)
}

// Set sets the named field to the given value, as described by MakeField. If
// a field with the same name, in any letter case, is present, it is replaced in
// place and the name takes the letter case given here.
func (h *Header) Set(name string, value any) error {
	f, err := MakeField(name, value)
	if err != nil {
		return err
	}

	h.store(f)
	return nil
}

// Prepend works like Set, but the field is moved to the front of the header.
func (h *Header) Prepend(name string, value any) error {
	f, err := MakeField(name, value)
	if err != nil {
		return err
	}

	h.Delete(name)
	h.fields = append([]*field.Field{f}, h.fields...)
	return nil
}

// AppendValue adds one more value to the named field, creating the field if
// it is not yet present.
func (h *Header) AppendValue(name, value string) error {
	if err := checkName(name); err != nil {
		return err
	}

	if f := h.Get(name); f != nil {
		f.Append(value)
		return nil
	}

	h.fields = append(h.fields, field.New(name, value))
	return nil
}

// Get returns the named field or nil if it is not present.
func (h *Header) Get(name string) *field.Field {
	if i := h.index(name); i >= 0 {
		return h.fields[i]
	}
	return nil
}

// Value returns the value of the named field or an empty string if it is not
// present.
func (h *Header) Value(name string) string {
	if f := h.Get(name); f != nil {
		return f.Value()
	}
	return ""
}

// Has returns true if the named field is present.
func (h *Header) Has(name string) bool {
	return h.index(name) >= 0
}

// Delete removes the named field. It returns true if a field was removed.
func (h *Header) Delete(name string) bool {
	i := h.index(name)
	if i < 0 {
		return false
	}

	h.fields = append(h.fields[:i], h.fields[i+1:]...)
	return true
}

// Add parses each of the given lines as "Name: value" and stores the field,
// replacing any field with the same name. Blank lines are skipped. A line that
// cannot be parsed is kept as a literal marker entry, which renders as the
// line itself.
func (h *Header) Add(lines ...string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if f := field.Parse(line); f != nil {
			h.store(f)
			continue
		}

		h.addMarker(line)
	}
}

func (h *Header) addMarker(line string) {
	for _, f := range h.fields {
		if f.IsMarker() && f.Name() == line {
			return
		}
	}
	h.fields = append(h.fields, field.NewMarker(line))
}

// Lines returns each entry rendered as an unfolded "Name: value" string, or the
// literal line for marker entries.
func (h *Header) Lines() []string {
	lines := make([]string, len(h.fields))
	for i, f := range h.fields {
		lines[i] = f.String()
	}
	return lines
}

// Format renders the header. Each entry is rendered, folded according to the
// fold encoding, and followed by the line break. No trailing blank line is
// added, and an empty header renders as an empty string.
//
// It fails with field.ErrHeaderTooLong if any physical line is longer than the
// maximum line length.
func (h *Header) Format() (string, error) {
	return h.format(h.maxLen)
}

func (h *Header) format(maxLen int) (string, error) {
	var sb strings.Builder
	lb := h.Break().Bytes()
	for _, f := range h.fields {
		s, err := f.Format(h.FoldEncoding(), lb, maxLen)
		if err != nil {
			return "", err
		}

		sb.WriteString(s)
		sb.Write(lb)
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

// String renders the header without enforcing the maximum line length.
func (h *Header) String() string {
	s, _ := h.format(0)
	return s
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	fields := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fields[i] = f.Clone()
	}

	return &Header{
		lbr:    h.lbr,
		vf:     h.vf,
		maxLen: h.maxLen,
		fields: fields,
	}
}
