package header

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-httpmsg/param"
)

// UnixDateWithEarlyYear is a date format seen in the wild that the usual
// parsers have trouble with.
const UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// ParseTime parses a date as found in a header field body, such as Date,
// Expires, or the Expires attribute of a cookie. It tries the formats
// permitted by HTTP first, then RFC 5322, and then falls back to parsing it in
// many other formats.
func ParseTime(body string) (time.Time, error) {
	body = strings.TrimSpace(body)

	t, err := http.ParseTime(body)
	if err == nil {
		return t, nil
	}

	t, err = mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// FormatTime renders the time in the IMF-fixdate format required by HTTP.
func FormatTime(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// GetTime parses the named field as a date.
//
// It returns ErrNoSuchField if the field is not present or an error if the
// date cannot be parsed.
func (h *Header) GetTime(name string) (time.Time, error) {
	f := h.Get(name)
	if f == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoSuchField, name)
	}

	return ParseTime(f.Value())
}

// SetTime sets the named field to the given time as an IMF-fixdate.
func (h *Header) SetTime(name string, t time.Time) error {
	return h.Set(name, FormatTime(t))
}

// GetParamValue parses the named field as a parameterized value, such as a
// Content-Type.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	f := h.Get(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchField, name)
	}

	return param.Parse(f.Value())
}

// SetParamValue sets the named field to the given parameterized value.
func (h *Header) SetParamValue(name string, pv *param.Value) error {
	if pv == nil {
		return fmt.Errorf("%w: nil parameter value for %q", ErrInvalidHeaderValue, name)
	}
	return h.Set(name, pv.String())
}

// GetContentType returns the parsed Content-Type field.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// GetMediaType returns the media type of the Content-Type field, without any
// parameters.
func (h *Header) GetMediaType() (string, error) {
	pv, err := h.GetContentType()
	if err != nil {
		return "", err
	}
	return pv.MediaType(), nil
}

// ParseAddressList parses a list of email addresses, as found in the HTTP From
// header. It attempts a strict parse first. If that fails, it falls back to a
// very lenient parse that always returns something, though the something may
// be odd for odd input.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseAddressListLeniently(body)
	}

	return al
}

// GetAddressList parses the named field as a list of email addresses.
//
// It returns ErrNoSuchField if the field is not present.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	f := h.Get(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchField, name)
	}

	return ParseAddressList(f.Value()), nil
}

// parseAddressListLeniently splits on commas and treats the last word of each
// piece as the address and everything before it as the display name. Angle
// brackets around the address and parenthesized comments are dropped.
func parseAddressListLeniently(v string) addr.AddressList {
	pieces := strings.Split(v, ",")
	al := make(addr.AddressList, 0, len(pieces))
	for _, orig := range pieces {
		words := strings.Fields(stripComments(orig))
		if len(words) == 0 {
			continue
		}

		dn := strings.Trim(strings.Join(words[:len(words)-1], " "), `"`)
		email := strings.Trim(words[len(words)-1], "<>")
		if email == "" {
			continue
		}

		local, domain, _ := strings.Cut(email, "@")
		spec := addr.NewAddrSpecParsed(local, domain, email)

		mailbox, err := addr.NewMailboxParsed(dn, spec, "", orig)
		if err != nil {
			continue
		}

		al = append(al, mailbox)
	}

	return al
}

// stripComments removes parenthesized, possibly nested, comments.
func stripComments(s string) string {
	var sb strings.Builder
	depth := 0
	for _, c := range s {
		switch {
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
