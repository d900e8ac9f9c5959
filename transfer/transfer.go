package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// The Content-Transfer-Encoding names this package knows.
const (
	Bit7            = "7bit"             // bytes are left as-is, but must all be ASCII
	Bit8            = "8bit"             // bytes are left as-is
	Binary          = "binary"           // bytes are left as-is
	QuotedPrintable = "quoted-printable" // bytes are transformed to and from quoted-printable
	Base64          = "base64"           // bytes are transformed to and from base64
)

// ErrUnsupportedEncoding is returned when an unknown transfer encoding is
// requested, or when content cannot be represented in the requested one, such
// as non-ASCII bytes written with 7bit.
var ErrUnsupportedEncoding = errors.New("unsupported transfer encoding")

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer. You must call Close() on
	// the returned io.WriteCloser when you are finished.
	Encoder func(io.Writer) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// and decode the encoded data back into binary form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder leaves bytes alone in both directions.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

var transcodings = map[string]Transcoding{
	Bit7:            {NewBit7Encoder, NewAsIsDecoder},
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// Lookup returns the Transcoding for the given encoding name. Names are
// case-insensitive.
func Lookup(encoding string) (Transcoding, error) {
	tc, found := transcodings[strings.ToLower(strings.TrimSpace(encoding))]
	if !found {
		return Transcoding{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
	return tc, nil
}

// NewEncoder returns an io.WriteCloser that encodes everything written to it
// with the named encoding and writes the result to w. You must call Close()
// when finished to flush the encoder. The underlying writer is not closed.
func NewEncoder(encoding string, w io.Writer) (io.WriteCloser, error) {
	tc, err := Lookup(encoding)
	if err != nil {
		return nil, err
	}
	return tc.Encoder(w), nil
}

// NewBinaryEncoder is like NewEncoder, but for content that is not text.
// Quoted-printable then escapes line breaks rather than normalizing them.
func NewBinaryEncoder(encoding string, w io.Writer) (io.WriteCloser, error) {
	if _, err := Lookup(encoding); err != nil {
		return nil, err
	}

	if strings.EqualFold(strings.TrimSpace(encoding), QuotedPrintable) {
		return NewQuotedPrintableBinaryEncoder(w), nil
	}
	return NewEncoder(encoding, w)
}

// NewDecoder returns an io.Reader that decodes the named encoding from r.
func NewDecoder(encoding string, r io.Reader) (io.Reader, error) {
	tc, err := Lookup(encoding)
	if err != nil {
		return nil, err
	}
	return tc.Decoder(r), nil
}

// Encode encodes the whole body with the named encoding.
func Encode(encoding string, body []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	wc, err := NewEncoder(encoding, buf)
	if err != nil {
		return nil, err
	}

	if _, err := wc.Write(body); err != nil {
		return nil, err
	}

	if err := wc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
