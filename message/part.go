package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/zostay/go-httpmsg/charset"
	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/header/field"
	"github.com/zostay/go-httpmsg/param"
	"github.com/zostay/go-httpmsg/transfer"
)

// Media types picked for parts that do not declare one.
const (
	DefaultTextType   = "text/plain"
	DefaultBinaryType = "application/octet-stream"
)

// sniffLen is how much of reader content is looked at to pick a media type.
const sniffLen = 512

// ErrNotRewindable is returned by Rewind when the content of a part cannot
// seek back to the start.
var ErrNotRewindable = errors.New("part content cannot be rewound")

// Node is a child of a MixedPart. A Part renders a header block made up from
// its metadata, while a nested MixedPart renders its own header.
type Node interface {
	// WriteTo writes the header block, a blank line, and the body.
	io.WriterTo

	// WriteBodyTo writes only the body.
	WriteBodyTo(w io.Writer) (int64, error)

	// Rewind moves the content back to the start so it can be read again.
	Rewind() error

	// Close releases the content.
	Close() error
}

// Part is a leaf node: a byte source plus the metadata used to describe it
// when it is framed within a multipart body.
type Part struct {
	src  io.Reader // the reader given to NewPart
	r    io.Reader
	data []byte // set when all the content is known up front
	text bool   // set when the content was given as a Go string

	name        string
	filename    string
	disposition string
	mime        string
	charset     string
	encoding    string
	contentID   string
	description string
	location    string
	language    string
	length      int64
	hasLength   bool

	extra []*field.Field
}

// PartOption describes a part. Each option only applies when the part does
// not already declare the same thing, so options given to MixedPart.Add never
// override those given to NewPart.
type PartOption func(*Part)

// Name sets the name of the part, used in its Content-Disposition.
func Name(name string) PartOption {
	return func(p *Part) {
		if p.name == "" {
			p.name = name
		}
	}
}

// Filename sets the filename of the part, used in its Content-Disposition.
func Filename(filename string) PartOption {
	return func(p *Part) {
		if p.filename == "" {
			p.filename = filename
		}
	}
}

// Disposition sets the disposition of the part, such as "form-data" or
// "attachment".
func Disposition(disposition string) PartOption {
	return func(p *Part) {
		if p.disposition == "" {
			p.disposition = disposition
		}
	}
}

// Mime sets the media type of the part.
func Mime(mime string) PartOption {
	return func(p *Part) {
		if p.mime == "" {
			p.mime = mime
		}
	}
}

// Charset sets the charset of the part. The name is canonicalized.
func Charset(cs string) PartOption {
	return func(p *Part) {
		if p.charset == "" && cs != "" {
			p.charset, _ = charset.Canonical(cs)
		}
	}
}

// Encoding sets the Content-Transfer-Encoding of the part.
func Encoding(encoding string) PartOption {
	return func(p *Part) {
		if p.encoding == "" {
			p.encoding = strings.ToLower(encoding)
		}
	}
}

// ContentID sets the Content-ID of the part.
func ContentID(id string) PartOption {
	return func(p *Part) {
		if p.contentID == "" {
			p.contentID = id
		}
	}
}

// Description sets the Content-Description of the part.
func Description(description string) PartOption {
	return func(p *Part) {
		if p.description == "" {
			p.description = description
		}
	}
}

// Location sets the Content-Location of the part.
func Location(location string) PartOption {
	return func(p *Part) {
		if p.location == "" {
			p.location = location
		}
	}
}

// Language sets the Content-Language of the part.
func Language(language string) PartOption {
	return func(p *Part) {
		if p.language == "" {
			p.language = language
		}
	}
}

// Length sets the Content-Length of the part.
func Length(n int64) PartOption {
	return func(p *Part) {
		if !p.hasLength {
			p.length, p.hasLength = n, true
		}
	}
}

// WithHeader adds another header to the part. It is rendered after all the
// others and replaces any of them with the same name.
func WithHeader(name, value string) PartOption {
	return func(p *Part) {
		p.extra = append(p.extra, field.New(name, value))
	}
}

// NewPart returns a part reading its content from r.
func NewPart(r io.Reader, opts ...PartOption) *Part {
	p := &Part{src: r, r: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// newPartBytes returns a part whose whole content is known. If text is true,
// the content is a Go string and may be transcoded into the charset of the
// part.
func newPartBytes(data []byte, text bool) *Part {
	return &Part{r: bytes.NewReader(data), data: data, text: text}
}

// Name returns the name of the part.
func (p *Part) Name() string { return p.name }

// Filename returns the filename of the part.
func (p *Part) Filename() string { return p.filename }

// Disposition returns the disposition of the part.
func (p *Part) Disposition() string { return p.disposition }

// Mime returns the media type of the part. It is empty until the content has
// been seen if none was declared.
func (p *Part) Mime() string { return p.mime }

// Charset returns the charset of the part.
func (p *Part) Charset() string { return p.charset }

// Encoding returns the declared Content-Transfer-Encoding of the part.
func (p *Part) Encoding() string { return p.encoding }

func (p *Part) isText() bool {
	return strings.HasPrefix(strings.ToLower(p.mime), "text/")
}

// settle fills in the media type and charset from the content when they were
// not declared. Content that is not UTF-8 or that holds control characters
// other than whitespace is taken to be binary.
func (p *Part) settle(body []byte) {
	p.settleMime(body)

	if p.isText() && p.charset == "" {
		if transfer.IsASCII(body) {
			p.charset = charset.USASCII
		} else {
			p.charset = charset.UTF8
		}
	}
}

func (p *Part) settleMime(body []byte) {
	if p.mime != "" {
		return
	}

	if utf8.Valid(body) && !hasControl(body) {
		p.mime = DefaultTextType
	} else {
		p.mime = DefaultBinaryType
	}
}

func hasControl(body []byte) bool {
	for _, b := range body {
		switch {
		case b == '\t', b == '\n', b == '\r':
		case b < 0x20, b == 0x7f:
			return true
		}
	}
	return false
}

// sniff picks the media type of reader content from its first bytes. Content
// that ends within them is kept as if it had been given up front.
func (p *Part) sniff() error {
	if p.data != nil || p.r == nil || p.mime != "" {
		return nil
	}

	br := bufio.NewReaderSize(p.r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if err != nil {
		p.data = make([]byte, len(head))
		copy(p.data, head)
		p.r = bytes.NewReader(p.data)
		return nil
	}

	p.r = br
	p.settleMime(trimPartialRune(head))
	return nil
}

// trimPartialRune drops a UTF-8 sequence cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

// load reads the rest of reader content into memory and settles the metadata
// from all of it.
func (p *Part) load() error {
	if p.data != nil || p.r == nil {
		return nil
	}

	body, err := io.ReadAll(p.r)
	if err != nil {
		return err
	}

	p.data = body
	p.r = bytes.NewReader(body)
	p.settle(body)
	return nil
}

// transcode converts string content into the charset of the part.
func (p *Part) transcode() error {
	if !p.text || p.charset == "" || charset.IsUTF8(p.charset) || transfer.IsASCII(p.data) {
		return nil
	}

	data, err := charset.Encode(p.charset, string(p.data))
	if err != nil {
		return fmt.Errorf("unable to encode part content as %s: %w", p.charset, err)
	}

	p.data = data
	p.r = bytes.NewReader(data)
	p.text = false
	return nil
}

// read drains the content and settles the metadata.
func (p *Part) read() ([]byte, error) {
	if p.r == nil {
		p.settle(nil)
		return nil, nil
	}

	body, err := io.ReadAll(p.r)
	if err != nil {
		return nil, err
	}

	p.settle(body)
	return body, nil
}

// dispositionValue renders the Content-Disposition, or an empty string if
// the part has no disposition.
func (p *Part) dispositionValue() string {
	if p.disposition == "" {
		return ""
	}

	v := p.disposition
	if p.name != "" {
		v += "; name=" + param.Quote(cleanParam(p.name))
	}
	if p.filename != "" {
		v += "; filename=" + param.Quote(cleanParam(baseName(p.filename)))
	}
	return v
}

// cleanParam strips the whitespace that may not appear in a header parameter.
func cleanParam(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', '\t', '\v', '\f':
			return -1
		}
		return r
	}, s)
}

// baseName drops any directories from the filename, whichever slash they use.
func baseName(filename string) string {
	return path.Base(strings.ReplaceAll(filename, `\`, "/"))
}

// Header builds the header block that describes the part. The media type,
// charset, and transfer encoding are those settled so far, with the transfer
// encoding picked for the media type if none was declared.
func (p *Part) Header() (*header.Header, error) {
	enc := p.encoding
	if enc == "" {
		if p.isText() {
			enc = transfer.QuotedPrintable
		} else {
			enc = transfer.Base64
		}
	}

	ct := ""
	if p.mime != "" {
		ps := map[string]string{}
		if p.charset != "" {
			ps[param.Charset] = p.charset
		}
		ct = param.New(p.mime, ps).String()
	}

	h := header.NewMIME()

	var err error
	set := func(name string, value any) {
		if err != nil {
			return
		}
		if s, isString := value.(string); isString && s == "" {
			return
		}
		err = h.Set(name, value)
	}

	set(header.ContentDisposition, p.dispositionValue())
	set(header.ContentID, p.contentID)
	set(header.ContentType, ct)
	set(header.ContentTransferEncoding, enc)
	if p.hasLength {
		set(header.ContentLength, p.length)
	}
	set(header.ContentDescription, p.description)
	set(header.ContentLocation, p.location)
	set(header.ContentLanguage, p.language)

	for _, f := range p.extra {
		set(f.Name(), f.Clone())
	}

	if err != nil {
		return nil, err
	}

	return h, nil
}

// WriteTo drains the content and writes the header block of the part, a
// blank line, and the content in its transfer encoding.
func (p *Part) WriteTo(w io.Writer) (int64, error) {
	body, err := p.read()
	if err != nil {
		return 0, err
	}

	h, err := p.Header()
	if err != nil {
		return 0, err
	}

	n, err := h.WriteTo(w)
	if err != nil {
		return n, err
	}

	bn, err := io.WriteString(w, header.CRLF.String())
	n += int64(bn)
	if err != nil {
		return n, err
	}

	cn, err := writeEncoded(w, h.Value(header.ContentTransferEncoding), !p.isText(), body)
	n += cn
	return n, err
}

// WriteBodyTo drains the content and writes it. It is transfer encoded only if
// an encoding was declared.
func (p *Part) WriteBodyTo(w io.Writer) (int64, error) {
	body, err := p.read()
	if err != nil {
		return 0, err
	}

	return writeEncoded(w, p.encoding, !p.isText(), body)
}

// writeEncoded writes the body in the transfer encoding. An empty encoding
// writes the body as-is.
func writeEncoded(w io.Writer, encoding string, binary bool, body []byte) (int64, error) {
	cw := &countWriter{w: w}
	if encoding == "" {
		_, err := cw.Write(body)
		return cw.n, err
	}

	newEncoder := transfer.NewEncoder
	if binary {
		newEncoder = transfer.NewBinaryEncoder
	}

	tw, err := newEncoder(encoding, cw)
	if err != nil {
		return 0, err
	}

	if _, err := tw.Write(body); err != nil {
		return cw.n, err
	}

	err = tw.Close()
	return cw.n, err
}

// countWriter counts the bytes written through it, so writers report what
// reached w rather than what was given to the encoder.
type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Rewind moves the content back to the start. Content held in memory always
// rewinds. Otherwise, it fails with ErrNotRewindable if the reader is not an
// io.Seeker.
func (p *Part) Rewind() error {
	if p.data != nil {
		p.r = bytes.NewReader(p.data)
		return nil
	}

	if p.src == nil {
		return nil
	}

	s, isSeeker := p.src.(io.Seeker)
	if !isSeeker {
		return fmt.Errorf("%w: %T", ErrNotRewindable, p.src)
	}

	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return err
	}

	if br, isBuffered := p.r.(*bufio.Reader); isBuffered {
		br.Reset(p.src)
	}
	return nil
}

// Close closes the reader given to NewPart if it is an io.Closer.
func (p *Part) Close() error {
	if c, isCloser := p.src.(io.Closer); isCloser {
		return c.Close()
	}
	return nil
}
