// Package charset looks up character sets by their IANA names so that text
// parts of a multipart body can be labeled and transcoded consistently. It
// loads all the encodings provided with golang.org/x/text/encoding/ianaindex.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Names of the character sets this library picks for text by default.
const (
	USASCII = "US-ASCII"
	UTF8    = "UTF-8"
)

// ErrUnknownCharset is returned when no encoding can be found for a charset
// name.
var ErrUnknownCharset = errors.New("unknown charset")

func lookup(name string) (encoding.Encoding, error) {
	e, err := ianaindex.MIME.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownCharset, name, err)
	}

	if e == nil {
		return nil, fmt.Errorf("%w %q: no encoder available", ErrUnknownCharset, name)
	}

	return e, nil
}

// Canonical returns the preferred MIME name for the given charset name, so
// "utf8" and "Utf-8" both become "UTF-8". If the name is not known, the name is
// returned in upper case along with an error.
func Canonical(name string) (string, error) {
	e, err := lookup(name)
	if err != nil {
		return strings.ToUpper(name), err
	}

	cn, err := ianaindex.MIME.Name(e)
	if err != nil {
		return strings.ToUpper(name), fmt.Errorf("%w %q: %v", ErrUnknownCharset, name, err)
	}

	return cn, nil
}

// IsUTF8 returns true if the charset name names UTF-8.
func IsUTF8(name string) bool {
	cn, err := Canonical(name)
	return err == nil && cn == UTF8
}

// Encode transcodes the UTF-8 string s into the named charset. It fails if s
// contains characters the charset cannot represent.
func Encode(charset, s string) ([]byte, error) {
	e, err := lookup(charset)
	if err != nil {
		return nil, err
	}

	es, err := e.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}

	return []byte(es), nil
}

// Decode transcodes the bytes in the named charset into a UTF-8 string.
func Decode(charset string, b []byte) (string, error) {
	e, err := lookup(charset)
	if err != nil {
		return "", err
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}
