package param

import (
	"mime"
	"sort"
	"strings"
)

// Names of the parameters this library reads and writes.
const (
	Charset  = "charset"  // Content-Type character set
	Boundary = "boundary" // Content-Type multipart boundary
	Filename = "filename" // Content-Disposition file name
	Name     = "name"     // Content-Disposition form field name
)

// Value is a parsed parameterized header value. A Value is immutable. Use
// Modify to derive a new Value with changes applied.
//
// Parameter names are case-insensitive and stored in lowercase.
type Value struct {
	v  string
	ps map[string]string
}

// Parse parses a header field body such as "text/plain; charset=utf-8" into a
// Value.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// New creates a Value with the given primary value and parameters. The
// parameters map is copied.
func New(v string, ps map[string]string) *Value {
	pv := &Value{v, make(map[string]string, len(ps))}
	for k, pval := range ps {
		pv.ps[strings.ToLower(k)] = pval
	}
	return pv
}

// Modifier is a modification to apply to a Value when calling Modify.
type Modifier func(*Value)

// Change replaces the primary value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set sets the named parameter. An empty value removes it.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		if value == "" {
			delete(pv.ps, strings.ToLower(name))
			return
		}
		pv.ps[strings.ToLower(name)] = value
	}
}

// Delete removes the named parameter.
func Delete(name string) Modifier {
	return func(pv *Value) {
		delete(pv.ps, strings.ToLower(name))
	}
}

// Modify clones the Value, applies the given modifications and returns the new
// Value:
//
//	v, _ := param.Parse("multipart/mixed; boundary=abc123")
//	nv := param.Modify(v, param.Change("multipart/form-data"))
func Modify(pv *Value, changes ...Modifier) *Value {
	nv := pv.Clone()
	for _, change := range changes {
		change(nv)
	}
	return nv
}

// Value returns the primary value, the part before the first semicolon.
func (pv *Value) Value() string {
	return pv.v
}

// MediaType is a synonym for Value, for use with Content-Type.
func (pv *Value) MediaType() string {
	return pv.v
}

// Disposition is a synonym for Value, for use with Content-Disposition.
func (pv *Value) Disposition() string {
	return pv.v
}

// Type returns the part of the media type before the slash, or an empty string
// if there is no slash. For "image/jpeg", this is "image".
func (pv *Value) Type() string {
	t, _, found := strings.Cut(pv.v, "/")
	if !found {
		return ""
	}
	return t
}

// Subtype returns the part of the media type after the slash, or an empty
// string if there is no slash. For "text/html", this is "html".
func (pv *Value) Subtype() string {
	_, st, _ := strings.Cut(pv.v, "/")
	return st
}

// IsMultipart returns true for any multipart/* media type.
func (pv *Value) IsMultipart() bool {
	return strings.EqualFold(pv.Type(), "multipart")
}

// IsText returns true for any text/* media type.
func (pv *Value) IsText() bool {
	return strings.EqualFold(pv.Type(), "text")
}

// Parameters returns a copy of the parameters.
func (pv *Value) Parameters() map[string]string {
	ps := make(map[string]string, len(pv.ps))
	for k, v := range pv.ps {
		ps[k] = v
	}
	return ps
}

// Parameter returns the value of the named parameter.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// Charset returns the "charset" parameter.
func (pv *Value) Charset() string { return pv.ps[Charset] }

// Boundary returns the "boundary" parameter.
func (pv *Value) Boundary() string { return pv.ps[Boundary] }

// Filename returns the "filename" parameter.
func (pv *Value) Filename() string { return pv.ps[Filename] }

// Name returns the "name" parameter.
func (pv *Value) Name() string { return pv.ps[Name] }

// String serializes the value with its parameters sorted by name. Parameter
// values are quoted when they are not tokens.
func (pv *Value) String() string {
	if s := mime.FormatMediaType(pv.v, pv.ps); s != "" {
		return s
	}

	// FormatMediaType refuses anything that is not a valid media type, so
	// fall back to a plain rendering
	pks := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		pks = append(pks, k)
	}
	sort.Strings(pks)

	var sb strings.Builder
	sb.WriteString(pv.v)
	for _, k := range pks {
		sb.WriteString("; ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(Quote(pv.ps[k]))
	}
	return sb.String()
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	return &Value{pv.v, pv.Parameters()}
}

// Quote returns the given string as a double-quoted string, with backslashes
// and double quotes escaped and CR and LF removed.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "")
	return `"` + r.Replace(s) + `"`
}
