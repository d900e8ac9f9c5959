package transfer

import (
	"io"
	"mime/quotedprintable"
)

// NewQuotedPrintableEncoder returns an encoder for quoted-printable. Line
// breaks in the content are kept as line breaks and written as CRLF, so only
// text should be written with it. Lines longer than 76 characters are broken
// with soft line breaks.
func NewQuotedPrintableEncoder(w io.Writer) io.WriteCloser {
	qp := quotedprintable.NewWriter(w)
	return &writer{Writer: qp, Closer: qp}
}

// NewQuotedPrintableBinaryEncoder is like NewQuotedPrintableEncoder, but CR
// and LF are escaped like any other byte so the content survives exactly.
func NewQuotedPrintableBinaryEncoder(w io.Writer) io.WriteCloser {
	qp := quotedprintable.NewWriter(w)
	qp.Binary = true
	return &writer{Writer: qp, Closer: qp}
}

// NewQuotedPrintableDecoder returns a reader that undoes quoted-printable,
// dropping soft line breaks.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}
