package cookie

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned when building, reading, and rendering cookies.
var (
	// ErrInvalidCookieValue is returned when a cookie is given an empty value
	// or a value of a type that cannot be used as a cookie.
	ErrInvalidCookieValue = errors.New("invalid cookie value")

	// ErrInvalidCookieName is returned when rendering a cookie whose name
	// contains characters forbidden in cookie names.
	ErrInvalidCookieName = errors.New("invalid cookie name")

	// ErrInvalidDomain is returned when a Set-Cookie domain is neither an IP
	// address nor a name with at least two dots.
	ErrInvalidDomain = errors.New("invalid cookie domain")

	// ErrInvalidPath is returned when a Set-Cookie path does not start with a
	// slash.
	ErrInvalidPath = errors.New("invalid cookie path")

	// ErrInvalidExpires is returned when a Set-Cookie expiry is not a
	// timestamp or a date that can be parsed.
	ErrInvalidExpires = errors.New("invalid cookie expiry")

	// ErrInvalidMaxAge is returned when a Set-Cookie Max-Age attribute is not
	// an integer.
	ErrInvalidMaxAge = errors.New("invalid cookie max-age")

	// ErrUnknownCookie is returned when reading a cookie name that was never
	// stored in a collection.
	ErrUnknownCookie = errors.New("unknown cookie")
)

// forbidden holds the characters that may not appear in a cookie name.
const forbidden = "=,; \t\r\n\v\f"

// IsValidName returns true if the name is not empty and contains none of the
// characters "=,; \t\r\n\v\f".
func IsValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, forbidden)
}

func checkName(name string) error {
	if !IsValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCookieName, name)
	}
	return nil
}

// Cookie is a request cookie. It may hold more than one value when the same
// name was sent more than once, the first being the value of the cookie.
type Cookie struct {
	name   string
	values []string
}

// NewCookie returns a cookie with the given name and values. It fails with
// ErrInvalidCookieValue if no value is given or any value is empty.
func NewCookie(name string, values ...string) (*Cookie, error) {
	c := &Cookie{name: name}
	if err := c.SetValue(values...); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the name of the cookie.
func (c *Cookie) Name() string {
	return c.name
}

// Value returns the first value of the cookie.
func (c *Cookie) Value() string {
	if len(c.values) == 0 {
		return ""
	}
	return c.values[0]
}

// Values returns a copy of all the values of the cookie.
func (c *Cookie) Values() []string {
	return append([]string(nil), c.values...)
}

// SetValue replaces the values of the cookie. It fails with
// ErrInvalidCookieValue if no value is given or any value is empty. A value of
// "0" is fine.
func (c *Cookie) SetValue(values ...string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no value for %q", ErrInvalidCookieValue, c.name)
	}

	for _, v := range values {
		if v == "" {
			return fmt.Errorf("%w: empty value for %q", ErrInvalidCookieValue, c.name)
		}
	}

	c.values = append([]string(nil), values...)
	return nil
}

// AddValue adds another value to the cookie, as happens when a request
// carries the same name twice.
func (c *Cookie) AddValue(v string) error {
	if v == "" {
		return fmt.Errorf("%w: empty value for %q", ErrInvalidCookieValue, c.name)
	}

	c.values = append(c.values, v)
	return nil
}

// String renders the cookie as "name=value" pairs joined by "; ", one pair per
// value.
func (c *Cookie) String() string {
	pairs := make([]string, len(c.values))
	for i, v := range c.values {
		pairs[i] = c.name + "=" + v
	}
	return strings.Join(pairs, "; ")
}

// Clone returns a copy of the cookie.
func (c *Cookie) Clone() *Cookie {
	return &Cookie{
		name:   c.name,
		values: c.Values(),
	}
}
