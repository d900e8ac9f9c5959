package cookie

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zostay/go-httpmsg/header"
)

// DefaultPath is the path of a response cookie that sets none.
const DefaultPath = "/"

// SetCookie is a response cookie with its scope and lifetime attributes.
type SetCookie struct {
	name      string
	value     string
	expires   int64 // unix seconds, 0 for a session cookie
	path      string
	domain    string
	maxAge    int64
	hasMaxAge bool
	secure    bool
	httpOnly  bool
}

// Option configures a SetCookie built with NewSetCookie.
type Option func(*SetCookie) error

// WithDomain sets the Domain attribute. See SetDomain.
func WithDomain(domain string) Option {
	return func(c *SetCookie) error { return c.SetDomain(domain) }
}

// WithPath sets the Path attribute. See SetPath.
func WithPath(path string) Option {
	return func(c *SetCookie) error { return c.SetPath(path) }
}

// WithExpires sets the expiry. See SetExpires.
func WithExpires(expires any) Option {
	return func(c *SetCookie) error { return c.SetExpires(expires) }
}

// WithMaxAge sets the Max-Age attribute.
func WithMaxAge(seconds int64) Option {
	return func(c *SetCookie) error {
		c.SetMaxAge(seconds)
		return nil
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(c *SetCookie) error {
		c.secure = secure
		return nil
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(c *SetCookie) error {
		c.httpOnly = httpOnly
		return nil
	}
}

// NewSetCookie returns a session cookie for the path "/" with the given name
// and value, and then applies the options.
func NewSetCookie(name, value string, opts ...Option) (*SetCookie, error) {
	c := &SetCookie{
		name:  name,
		value: value,
		path:  DefaultPath,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Name returns the name of the cookie.
func (c *SetCookie) Name() string { return c.name }

// Value returns the value of the cookie.
func (c *SetCookie) Value() string { return c.value }

// SetValue changes the value of the cookie.
func (c *SetCookie) SetValue(value string) { c.value = value }

// Domain returns the Domain attribute or an empty string if it is not set.
func (c *SetCookie) Domain() string { return c.domain }

// Path returns the Path attribute.
func (c *SetCookie) Path() string { return c.path }

// Secure returns the Secure flag.
func (c *SetCookie) Secure() bool { return c.secure }

// SetSecure changes the Secure flag.
func (c *SetCookie) SetSecure(secure bool) { c.secure = secure }

// HTTPOnly returns the HttpOnly flag.
func (c *SetCookie) HTTPOnly() bool { return c.httpOnly }

// SetHTTPOnly changes the HttpOnly flag.
func (c *SetCookie) SetHTTPOnly(httpOnly bool) { c.httpOnly = httpOnly }

// Expires returns the expiry as a unix timestamp, 0 for a session cookie.
func (c *SetCookie) Expires() int64 { return c.expires }

// ExpiresTime returns the expiry as a time, or the zero time for a session
// cookie.
func (c *SetCookie) ExpiresTime() time.Time {
	if c.expires == 0 {
		return time.Time{}
	}
	return time.Unix(c.expires, 0).UTC()
}

// MaxAge returns the Max-Age attribute and whether it is set.
func (c *SetCookie) MaxAge() (int64, bool) { return c.maxAge, c.hasMaxAge }

// SetMaxAge sets the Max-Age attribute.
func (c *SetCookie) SetMaxAge(seconds int64) {
	c.maxAge = seconds
	c.hasMaxAge = true
}

// ClearMaxAge removes the Max-Age attribute.
func (c *SetCookie) ClearMaxAge() {
	c.maxAge = 0
	c.hasMaxAge = false
}

// isIP reports whether the host, with or without IPv6 brackets, is an IP
// literal.
func isIP(host string) bool {
	return net.ParseIP(strings.Trim(host, "[]")) != nil
}

// SetDomain sets the Domain attribute. An empty domain unsets it. Otherwise the
// domain must be an IP address or contain at least two dots, such as
// ".example.com", or it fails with ErrInvalidDomain.
func (c *SetCookie) SetDomain(domain string) error {
	if domain != "" && !isIP(domain) && strings.Count(domain, ".") < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	c.domain = domain
	return nil
}

// SetPath sets the Path attribute. An empty path resets it to "/". Any other
// path must start with a slash or it fails with ErrInvalidPath.
func (c *SetCookie) SetPath(path string) error {
	if path == "" {
		c.path = DefaultPath
		return nil
	}

	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	c.path = path
	return nil
}

// SetExpires sets the expiry. It accepts nil (session cookie), any integer
// type as a unix timestamp, a time.Time, or a string holding either a unix
// timestamp or a date. Zero means a session cookie. Anything else fails with
// ErrInvalidExpires.
func (c *SetCookie) SetExpires(expires any) error {
	switch v := expires.(type) {
	case nil:
		c.expires = 0
	case int:
		c.expires = int64(v)
	case int32:
		c.expires = int64(v)
	case int64:
		c.expires = v
	case uint32:
		c.expires = int64(v)
	case time.Time:
		if v.IsZero() {
			c.expires = 0
		} else {
			c.expires = v.Unix()
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			c.expires = 0
			return nil
		}

		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.expires = n
			return nil
		}

		t, err := header.ParseTime(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidExpires, err)
		}
		c.expires = t.Unix()
	default:
		return fmt.Errorf("%w: cannot use %T", ErrInvalidExpires, expires)
	}

	return nil
}

// Expired returns true if the cookie has an expiry and it is in the past. A
// session cookie is never expired, unless onSessionExpiry is true, in which
// case it always is.
func (c *SetCookie) Expired(onSessionExpiry bool) bool {
	if c.expires == 0 {
		return onSessionExpiry
	}
	return c.expires < time.Now().Unix()
}

// Match returns true if this cookie should be sent with a request to the given
// URL:
//
//   - a secure cookie only matches https and any other only matches http,
//   - the host must equal the domain or end with "." plus the domain, ignoring
//     a leading dot on the domain and letter case,
//   - a domain that is an IP address only matches that same address,
//   - the request path must equal the cookie path or continue it with a
//     slash, so "/foo" matches "/foo/bar" but not "/foobar".
//
// Domains match on a label boundary rather than as a plain string suffix, so a
// domain of "example.com" matches "www.example.com" but not
// "badexample.com". A cookie without a domain never matches.
func (c *SetCookie) Match(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if (c.secure && scheme != "https") || (!c.secure && scheme != "http") {
		return false
	}

	if c.domain == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	domain := strings.ToLower(strings.TrimPrefix(c.domain, "."))
	if isIP(domain) {
		ip, hostIP := net.ParseIP(strings.Trim(domain, "[]")), net.ParseIP(host)
		if hostIP == nil || !ip.Equal(hostIP) {
			return false
		}
	} else if host != domain && !strings.HasSuffix(host, "."+domain) {
		return false
	}

	return matchPath(u.Path, c.path)
}

func matchPath(reqPath, cookiePath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}

	if cookiePath == "" {
		cookiePath = DefaultPath
	}

	if reqPath == cookiePath {
		return true
	}

	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}

	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

// ParseSetCookie parses the value of a Set-Cookie header. The first
// "name=value" pair names the cookie, and its value is URL-decoded. The rest
// are attributes, matched without regard to letter case; unknown attributes
// are ignored. A domain without a leading dot gets one. The name is not
// checked.
func ParseSetCookie(value string) (*SetCookie, error) {
	parts := strings.Split(value, ";")

	name, val, _ := strings.Cut(parts[0], "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: no name in %q", ErrInvalidCookieName, value)
	}

	val = strings.Trim(strings.TrimSpace(val), `"`)
	if dv, err := url.QueryUnescape(val); err == nil {
		val = dv
	}

	c := &SetCookie{
		name:  name,
		value: val,
		path:  DefaultPath,
	}

	for _, attr := range parts[1:] {
		k, v, _ := strings.Cut(attr, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)

		var err error
		switch k {
		case "expires":
			err = c.SetExpires(v)
		case "max-age":
			var n int64
			n, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				err = fmt.Errorf("%w: %q", ErrInvalidMaxAge, v)
				break
			}
			c.SetMaxAge(n)
		case "path":
			err = c.SetPath(v)
		case "domain":
			if v != "" && !strings.HasPrefix(v, ".") && !isIP(v) {
				v = "." + v
			}
			err = c.SetDomain(v)
		case "secure":
			c.secure = true
		case "httponly":
			c.httpOnly = true
		}

		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// String renders the value of the Set-Cookie header without checking the name.
// The attributes are always in the same order: Max-Age or else Expires, Path,
// Domain, Secure, HttpOnly.
func (c *SetCookie) String() string {
	var sb strings.Builder
	sb.WriteString(c.name)
	sb.WriteString("=")
	sb.WriteString(url.QueryEscape(c.value))

	if c.hasMaxAge {
		sb.WriteString("; Max-Age=")
		sb.WriteString(strconv.FormatInt(c.maxAge, 10))
	} else if c.expires != 0 {
		sb.WriteString("; Expires=")
		sb.WriteString(header.FormatTime(time.Unix(c.expires, 0)))
	}

	sb.WriteString("; Path=")
	if c.path == "" {
		sb.WriteString(DefaultPath)
	} else {
		sb.WriteString(c.path)
	}

	if c.domain != "" {
		sb.WriteString("; Domain=")
		sb.WriteString(c.domain)
	}

	if c.secure {
		sb.WriteString("; Secure")
	}

	if c.httpOnly {
		sb.WriteString("; HttpOnly")
	}

	return sb.String()
}

// Format renders the value of the Set-Cookie header like String, but fails
// with ErrInvalidCookieName if the name is not valid.
func (c *SetCookie) Format() (string, error) {
	if err := checkName(c.name); err != nil {
		return "", err
	}
	return c.String(), nil
}

// Clone returns a copy of the cookie.
func (c *SetCookie) Clone() *SetCookie {
	cc := *c
	return &cc
}
