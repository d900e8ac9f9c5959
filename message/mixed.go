package message

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zostay/go-httpmsg/charset"
	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/header/field"
	"github.com/zostay/go-httpmsg/param"
)

// The media type of HTML form submissions and the disposition of its parts.
const (
	FormData            = "multipart/form-data"
	FormDataDisposition = "form-data"
)

var (
	// ErrMissingName is returned by Add when a child of a multipart/form-data
	// container is given no name.
	ErrMissingName = errors.New("form-data part requires a name")

	// ErrUnsupportedContent is returned by Add when the content is not
	// something a part can be made from.
	ErrUnsupportedContent = errors.New("unsupported part content")
)

// MixedPart composes a body out of zero or more child nodes. If its media type
// is multipart/*, the children are framed by a boundary. Otherwise, the
// content of the children is written one after another.
//
// The content of children is drained when it is written, so writing the same
// MixedPart twice requires a call to Rewind in between.
type MixedPart struct {
	header   *header.Header
	mime     string
	charset  string
	boundary string
	nodes    []Node
}

// Option configures a new MixedPart.
type Option func(*MixedPart)

// WithMime sets the media type of the MixedPart.
func WithMime(mime string) Option {
	return func(mp *MixedPart) {
		mp.mime = mime
	}
}

// WithBoundary sets the boundary used when the MixedPart is multipart. The
// default is generated with GenerateBoundary the first time it is needed.
func WithBoundary(boundary string) Option {
	return func(mp *MixedPart) {
		mp.boundary = boundary
	}
}

// WithCharset sets the charset of the MixedPart. Text children that do not
// declare a charset get this one.
func WithCharset(cs string) Option {
	return func(mp *MixedPart) {
		mp.charset, _ = charset.Canonical(cs)
	}
}

// WithFoldEncoding folds the lines of the MixedPart's own header. The header
// is not folded by default, so it can be copied into an HTTP header as-is.
func WithFoldEncoding(vf *field.FoldEncoding) Option {
	return func(mp *MixedPart) {
		mp.header.SetFoldEncoding(vf)
	}
}

// New returns an empty MixedPart. Its header is a MIME header, as returned by
// header.NewMIME.
func New(opts ...Option) *MixedPart {
	mp := &MixedPart{header: header.NewMIME()}
	for _, opt := range opts {
		opt(mp)
	}

	mp.sync()
	return mp
}

// Header returns the header of the MixedPart. The Content-Type and
// Content-Transfer-Encoding fields are kept in sync with the children as they
// are added and removed.
func (mp *MixedPart) Header() *header.Header { return mp.header }

// Mime returns the media type of the MixedPart.
func (mp *MixedPart) Mime() string { return mp.mime }

// Charset returns the charset of the MixedPart.
func (mp *MixedPart) Charset() string { return mp.charset }

// IsMultipart returns true if the media type is multipart/*.
func (mp *MixedPart) IsMultipart() bool {
	return strings.HasPrefix(strings.ToLower(mp.mime), "multipart/")
}

func (mp *MixedPart) isFormData() bool {
	return strings.EqualFold(mp.mime, FormData)
}

// Boundary returns the boundary or an empty string if the MixedPart is not
// multipart. The boundary is generated the first time it is needed and stays
// the same after that.
func (mp *MixedPart) Boundary() string {
	if !mp.IsMultipart() {
		return ""
	}

	if mp.boundary == "" {
		mp.boundary = GenerateBoundary()
	}
	return mp.boundary
}

// Nodes returns the children in order.
func (mp *MixedPart) Nodes() []Node {
	return append([]Node(nil), mp.nodes...)
}

// Len returns the number of children.
func (mp *MixedPart) Len() int {
	return len(mp.nodes)
}

// Add adds a child and returns it. The content may be a string, a []byte, an
// io.Reader, a *Part, or a *MixedPart. The options describe the child, but do
// not override what a *Part already declares. For a *MixedPart, only the name,
// filename, and disposition are used, to set its Content-Disposition.
//
// Text children without a charset get the charset of the container, if any, or
// US-ASCII if the content is 7-bit and UTF-8 otherwise. String content
// declared in another charset is transcoded to it.
//
// Children of a multipart/form-data container must be named or Add fails with
// ErrMissingName. They default to the form-data disposition.
func (mp *MixedPart) Add(content any, opts ...PartOption) (Node, error) {
	var p *Part
	switch c := content.(type) {
	case *Part:
		p = c
	case *MixedPart:
		if err := mp.addMixed(c, opts); err != nil {
			return nil, err
		}
		return c, nil
	case string:
		p = newPartBytes([]byte(c), true)
	case []byte:
		p = newPartBytes(c, false)
	case io.Reader:
		p = NewPart(c)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedContent, content)
	}

	for _, opt := range opts {
		opt(p)
	}

	if mp.isFormData() {
		if p.name == "" {
			return nil, ErrMissingName
		}
		Disposition(FormDataDisposition)(p)
	}

	if err := p.sniff(); err != nil {
		return nil, err
	}

	if p.data != nil {
		p.settleMime(p.data)
	}

	if mp.charset != "" && p.isText() {
		Charset(mp.charset)(p)
	}

	if p.data != nil {
		p.settle(p.data)
		if err := p.transcode(); err != nil {
			return nil, err
		}
	}

	if !mp.IsMultipart() && len(mp.nodes) == 0 {
		if p.mime != "" {
			mp.mime = p.mime
		}
		if p.charset != "" {
			mp.charset = p.charset
		}
	}

	mp.nodes = append(mp.nodes, p)
	mp.sync()
	return p, nil
}

// addMixed adds a nested MixedPart, giving it a Content-Disposition from the
// options.
func (mp *MixedPart) addMixed(c *MixedPart, opts []PartOption) error {
	if contains(c, mp) {
		return fmt.Errorf("%w: cannot add a MixedPart inside itself", ErrUnsupportedContent)
	}

	o := &Part{}
	for _, opt := range opts {
		opt(o)
	}

	if mp.isFormData() {
		if o.name == "" {
			return ErrMissingName
		}
		Disposition(FormDataDisposition)(o)
	}

	if d := o.dispositionValue(); d != "" {
		if err := c.header.Set(header.ContentDisposition, d); err != nil {
			return err
		}
	}

	mp.nodes = append(mp.nodes, c)
	mp.sync()
	return nil
}

// Remove removes the child, returning true if it was found.
func (mp *MixedPart) Remove(n Node) bool {
	for i, node := range mp.nodes {
		if node == n {
			mp.nodes = append(mp.nodes[:i], mp.nodes[i+1:]...)
			mp.sync()
			return true
		}
	}
	return false
}

// contentType renders a Content-Type value, or an empty string for an empty
// media type.
func contentType(mime string, ps map[string]string) string {
	if mime == "" {
		return ""
	}
	return param.New(mime, ps).String()
}

// setOrDelete sets the header field, or deletes it when the value is empty.
func (mp *MixedPart) setOrDelete(name, value string) {
	if value == "" {
		mp.header.Delete(name)
		return
	}
	_ = mp.header.Set(name, value)
}

// sync keeps the Content-Type and Content-Transfer-Encoding of the header in
// line with the children. A multipart container always names its boundary.
// Otherwise, a single child lends its own, no children leaves the container's
// own media type, and more than one leaves the header alone.
func (mp *MixedPart) sync() {
	if mp.IsMultipart() {
		mp.setOrDelete(header.ContentType, contentType(mp.mime, map[string]string{
			param.Boundary: mp.Boundary(),
		}))
		mp.header.Delete(header.ContentTransferEncoding)
		return
	}

	switch len(mp.nodes) {
	case 0:
		ps := map[string]string{}
		if mp.charset != "" {
			ps[param.Charset] = mp.charset
		}
		mp.setOrDelete(header.ContentType, contentType(mp.mime, ps))
		mp.header.Delete(header.ContentTransferEncoding)
	case 1:
		switch n := mp.nodes[0].(type) {
		case *Part:
			ps := map[string]string{}
			if n.charset != "" {
				ps[param.Charset] = n.charset
			}
			mp.setOrDelete(header.ContentType, contentType(n.mime, ps))
			mp.setOrDelete(header.ContentTransferEncoding, n.encoding)
		case *MixedPart:
			mp.setOrDelete(header.ContentType, n.header.Value(header.ContentType))
			mp.header.Delete(header.ContentTransferEncoding)
		}
	}
}

// WriteBodyTo writes the body. If the MixedPart is not multipart, this is the
// content of each child in turn. Otherwise, each child is preceded by a
// boundary line and written with its header block, and a closing boundary line
// comes last.
func (mp *MixedPart) WriteBodyTo(w io.Writer) (int64, error) {
	var n int64
	if !mp.IsMultipart() {
		for _, node := range mp.nodes {
			nn, err := node.WriteBodyTo(w)
			n += nn
			if err != nil {
				return n, err
			}
		}
		return n, nil
	}

	br := header.CRLF
	boundary := mp.Boundary()
	for _, node := range mp.nodes {
		bn, err := fmt.Fprintf(w, "%s--%s%s", br, boundary, br)
		n += int64(bn)
		if err != nil {
			return n, err
		}

		nn, err := node.WriteTo(w)
		n += nn
		if err != nil {
			return n, err
		}
	}

	bn, err := fmt.Fprintf(w, "%s--%s--%s", br, boundary, br)
	n += int64(bn)
	return n, err
}

// settleLender reads a lone reader part into memory when the Content-Type it
// lends to the header is not yet complete.
func (mp *MixedPart) settleLender() error {
	if mp.IsMultipart() || len(mp.nodes) != 1 {
		return nil
	}

	p, isPart := mp.nodes[0].(*Part)
	if !isPart || (p.mime != "" && (!p.isText() || p.charset != "")) {
		return nil
	}

	if err := p.load(); err != nil {
		return err
	}

	if mp.mime == "" {
		mp.mime = p.mime
	}
	if mp.charset == "" {
		mp.charset = p.charset
	}
	return nil
}

// WriteTo writes the header, a blank line, and the body. A lone part given as
// a reader is read into memory first if that is needed to complete the
// Content-Type.
func (mp *MixedPart) WriteTo(w io.Writer) (int64, error) {
	if err := mp.settleLender(); err != nil {
		return 0, err
	}
	mp.sync()

	n, err := mp.header.WriteTo(w)
	if err != nil {
		return n, err
	}

	bn, err := io.WriteString(w, header.CRLF.String())
	n += int64(bn)
	if err != nil {
		return n, err
	}

	nn, err := mp.WriteBodyTo(w)
	n += nn
	return n, err
}

// Flush returns the body, as written by WriteBodyTo.
func (mp *MixedPart) Flush() (string, error) {
	buf := &bytes.Buffer{}
	if _, err := mp.WriteBodyTo(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Message returns the header and the body, as written by WriteTo.
func (mp *MixedPart) Message() (string, error) {
	buf := &bytes.Buffer{}
	if _, err := mp.WriteTo(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Rewind rewinds every part in the tree. All of them are tried and the first
// error is returned.
func (mp *MixedPart) Rewind() error {
	return mp.eachPart((*Part).Rewind)
}

// Close closes every part in the tree. All of them are tried and the first
// error is returned.
func (mp *MixedPart) Close() error {
	return mp.eachPart((*Part).Close)
}

func (mp *MixedPart) eachPart(op func(*Part) error) error {
	var first error
	_ = WalkParts(mp, func(_, _ int, p *Part) error {
		if err := op(p); err != nil && first == nil {
			first = err
		}
		return nil
	})
	return first
}
