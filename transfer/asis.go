package transfer

import (
	"fmt"
	"io"
)

// NewAsIsEncoder returns an io.WriteCloser that writes bytes as-is.
func NewAsIsEncoder(w io.Writer) io.WriteCloser {
	return &writer{w, nil}
}

// NewAsIsDecoder returns an io.Reader that reads bytes as-is.
func NewAsIsDecoder(r io.Reader) io.Reader {
	return r
}

type bit7Writer struct {
	w   io.Writer
	off int64
}

func (bw *bit7Writer) Write(p []byte) (int, error) {
	for i, b := range p {
		if b > 0x7f {
			n, err := bw.w.Write(p[:i])
			bw.off += int64(n)
			if err != nil {
				return n, err
			}
			return n, fmt.Errorf("%w: 7bit cannot carry byte 0x%02x at offset %d", ErrUnsupportedEncoding, b, bw.off)
		}
	}

	n, err := bw.w.Write(p)
	bw.off += int64(n)
	return n, err
}

// NewBit7Encoder returns an io.WriteCloser that writes bytes as-is, but fails
// with ErrUnsupportedEncoding as soon as a byte above 0x7F is written.
func NewBit7Encoder(w io.Writer) io.WriteCloser {
	return &writer{&bit7Writer{w: w}, nil}
}
