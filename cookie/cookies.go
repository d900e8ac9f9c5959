package cookie

import (
	"fmt"
	"strings"
)

// Cookies is the collection of request cookies carried by a Cookie header. It
// holds one Cookie per name, in the order the names were first stored.
type Cookies struct {
	names   []string
	cookies map[string]*Cookie
}

// NewCookies returns an empty collection.
func NewCookies() *Cookies {
	return &Cookies{cookies: map[string]*Cookie{}}
}

// ParseCookies parses the value of a Cookie header, such as "a=1; b=2". Pairs
// without a name or with an empty value are skipped. A name seen twice gets
// both values.
func ParseCookies(value string) *Cookies {
	cs := NewCookies()
	cs.Parse(value)
	return cs
}

// Parse adds the cookies found in the value of a Cookie header to the
// collection. Pairs without a name or with an empty value are skipped.
func (cs *Cookies) Parse(value string) {
	for _, pair := range strings.Split(value, ";") {
		name, v, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		_ = cs.Add(name, strings.TrimSpace(v))
	}
}

func (cs *Cookies) init() {
	if cs.cookies == nil {
		cs.cookies = map[string]*Cookie{}
	}
}

// Set stores the cookie under the name, replacing any cookie already stored
// with that name. The value may be a string, a slice of strings, or a
// *Cookie, a copy of which is stored under the given name. Empty values fail
// with ErrInvalidCookieValue.
func (cs *Cookies) Set(name string, value any) error {
	var c *Cookie
	switch v := value.(type) {
	case string:
		nc, err := NewCookie(name, v)
		if err != nil {
			return err
		}
		c = nc
	case []string:
		nc, err := NewCookie(name, v...)
		if err != nil {
			return err
		}
		c = nc
	case *Cookie:
		if v == nil {
			return fmt.Errorf("%w: nil cookie for %q", ErrInvalidCookieValue, name)
		}
		c = v.Clone()
		c.name = name
	default:
		return fmt.Errorf("%w: cannot use %T for %q", ErrInvalidCookieValue, value, name)
	}

	cs.init()
	if _, found := cs.cookies[name]; !found {
		cs.names = append(cs.names, name)
	}
	cs.cookies[name] = c
	return nil
}

// Add adds a value to the named cookie, creating the cookie if needed.
func (cs *Cookies) Add(name, value string) error {
	if c, found := cs.cookies[name]; found {
		return c.AddValue(value)
	}
	return cs.Set(name, value)
}

// Get returns the named cookie or ErrUnknownCookie.
func (cs *Cookies) Get(name string) (*Cookie, error) {
	c, found := cs.cookies[name]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCookie, name)
	}
	return c, nil
}

// Has returns true if the named cookie is stored.
func (cs *Cookies) Has(name string) bool {
	_, found := cs.cookies[name]
	return found
}

// Delete removes the named cookie. It does nothing if the name is unknown.
func (cs *Cookies) Delete(name string) {
	if _, found := cs.cookies[name]; !found {
		return
	}

	delete(cs.cookies, name)
	for i, n := range cs.names {
		if n == name {
			cs.names = append(cs.names[:i], cs.names[i+1:]...)
			break
		}
	}
}

// Names returns the cookie names in order.
func (cs *Cookies) Names() []string {
	return append([]string(nil), cs.names...)
}

// Len returns the number of cookies.
func (cs *Cookies) Len() int {
	return len(cs.names)
}

// All returns the cookies in order.
func (cs *Cookies) All() []*Cookie {
	all := make([]*Cookie, len(cs.names))
	for i, n := range cs.names {
		all[i] = cs.cookies[n]
	}
	return all
}

// Value renders the value of the Cookie header: every "name=value" pair
// joined by "; ". It fails with ErrInvalidCookieName if any name is not valid.
func (cs *Cookies) Value() (string, error) {
	pairs := make([]string, 0, len(cs.names))
	for _, c := range cs.All() {
		if err := checkName(c.name); err != nil {
			return "", err
		}
		pairs = append(pairs, c.String())
	}
	return strings.Join(pairs, "; "), nil
}

// Format renders the whole "Cookie: ..." header line, without a line break.
// An empty collection renders as an empty string.
func (cs *Cookies) Format() (string, error) {
	if cs.Len() == 0 {
		return "", nil
	}

	v, err := cs.Value()
	if err != nil {
		return "", err
	}
	return "Cookie: " + v, nil
}

// Clone returns a deep copy of the collection.
func (cs *Cookies) Clone() *Cookies {
	nc := &Cookies{
		names:   cs.Names(),
		cookies: make(map[string]*Cookie, len(cs.cookies)),
	}
	for n, c := range cs.cookies {
		nc.cookies[n] = c.Clone()
	}
	return nc
}
