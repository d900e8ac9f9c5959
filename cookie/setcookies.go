package cookie

import (
	"fmt"
	"strings"
)

// SetCookies is the collection of response cookies carried by Set-Cookie
// headers. Cookies with the same name but a different domain or path are kept
// as separate entries. Storing a cookie with the same name, domain, and path as
// an existing entry replaces it in place.
type SetCookies struct {
	keys    []string              // entry keys in insertion order
	cookies map[string]*SetCookie // entry key -> cookie
	byName  map[string][]string   // name -> entry keys
	names   map[string]string     // entry key -> name
}

// NewSetCookies returns an empty collection.
func NewSetCookies() *SetCookies {
	sc := &SetCookies{}
	sc.init()
	return sc
}

func (sc *SetCookies) init() {
	if sc.cookies == nil {
		sc.cookies = map[string]*SetCookie{}
		sc.byName = map[string][]string{}
		sc.names = map[string]string{}
	}
}

// entryKey identifies an entry by name, domain, and path. The parts are
// delimited so different splits of the same text do not collide.
func entryKey(c *SetCookie) string {
	return c.name + ";" + c.domain + ";" + c.path
}

// Set stores the cookie under the name. The value may be a string, which
// makes a session cookie for the path "/", or a *SetCookie, a copy of which is
// stored under the given name.
func (sc *SetCookies) Set(name string, value any) error {
	var c *SetCookie
	switch v := value.(type) {
	case string:
		nc, err := NewSetCookie(name, v)
		if err != nil {
			return err
		}
		c = nc
	case *SetCookie:
		if v == nil {
			return fmt.Errorf("%w: nil cookie for %q", ErrInvalidCookieValue, name)
		}
		c = v.Clone()
		c.name = name
	default:
		return fmt.Errorf("%w: cannot use %T for %q", ErrInvalidCookieValue, value, name)
	}

	sc.put(c)
	return nil
}

// Put stores a copy of the cookie under its own name. Changing c afterward
// does not change what is stored.
func (sc *SetCookies) Put(c *SetCookie) {
	sc.put(c.Clone())
}

func (sc *SetCookies) put(c *SetCookie) {
	sc.init()

	key := entryKey(c)
	if _, found := sc.cookies[key]; !found {
		sc.keys = append(sc.keys, key)
		sc.byName[c.name] = append(sc.byName[c.name], key)
		sc.names[key] = c.name
	}
	sc.cookies[key] = c
}

// Parse parses the value of a Set-Cookie header and stores the cookie.
func (sc *SetCookies) Parse(value string) error {
	c, err := ParseSetCookie(value)
	if err != nil {
		return err
	}

	sc.put(c)
	return nil
}

// Get returns copies of every entry stored under the name, across all domains
// and paths, in the order they were first stored. It fails with
// ErrUnknownCookie if the name is not stored.
func (sc *SetCookies) Get(name string) ([]*SetCookie, error) {
	keys, found := sc.byName[name]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCookie, name)
	}

	cs := make([]*SetCookie, len(keys))
	for i, key := range keys {
		cs[i] = sc.cookies[key].Clone()
	}
	return cs, nil
}

// Has returns true if any entry is stored under the name.
func (sc *SetCookies) Has(name string) bool {
	_, found := sc.byName[name]
	return found
}

// Delete removes every entry stored under the name. It does nothing if the
// name is unknown.
func (sc *SetCookies) Delete(name string) {
	keys, found := sc.byName[name]
	if !found {
		return
	}

	for _, key := range append([]string(nil), keys...) {
		sc.remove(key)
	}
}

// remove drops one entry and prunes the name index.
func (sc *SetCookies) remove(key string) {
	name := sc.names[key]
	delete(sc.cookies, key)
	delete(sc.names, key)

	for i, k := range sc.keys {
		if k == key {
			sc.keys = append(sc.keys[:i], sc.keys[i+1:]...)
			break
		}
	}

	keys := sc.byName[name]
	for i, k := range keys {
		if k == key {
			keys = append(keys[:i], keys[i+1:]...)
			break
		}
	}

	if len(keys) == 0 {
		delete(sc.byName, name)
	} else {
		sc.byName[name] = keys
	}
}

// Names returns each stored name once, in the order of first appearance.
func (sc *SetCookies) Names() []string {
	seen := make(map[string]struct{}, len(sc.byName))
	names := make([]string, 0, len(sc.byName))
	for _, key := range sc.keys {
		n := sc.names[key]
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}

// Len returns the number of entries.
func (sc *SetCookies) Len() int {
	return len(sc.keys)
}

// All returns copies of every entry in insertion order.
func (sc *SetCookies) All() []*SetCookie {
	all := sc.entries()
	for i, c := range all {
		all[i] = c.Clone()
	}
	return all
}

// entries returns the stored entries themselves, in insertion order.
func (sc *SetCookies) entries() []*SetCookie {
	all := make([]*SetCookie, len(sc.keys))
	for i, key := range sc.keys {
		all[i] = sc.cookies[key]
	}
	return all
}

// FlushExpired removes every expired entry. When onSessionExpiry is true,
// session cookies are removed as well.
func (sc *SetCookies) FlushExpired(onSessionExpiry bool) {
	for _, key := range append([]string(nil), sc.keys...) {
		if sc.cookies[key].Expired(onSessionExpiry) {
			sc.remove(key)
		}
	}
}

// Matching returns copies of the unexpired entries that match the URL, in
// insertion order.
func (sc *SetCookies) Matching(rawURL string) []*SetCookie {
	var matched []*SetCookie
	for _, c := range sc.All() {
		if !c.Expired(false) && c.Match(rawURL) {
			matched = append(matched, c)
		}
	}
	return matched
}

// ToCookies returns the request cookies a client would send to the URL.
// Entries with an empty value are left out.
func (sc *SetCookies) ToCookies(rawURL string) *Cookies {
	cs := NewCookies()
	for _, c := range sc.Matching(rawURL) {
		_ = cs.Add(c.name, c.value)
	}
	return cs
}

// Lines renders one "Set-Cookie: ..." line, without a line break, for each
// unexpired entry. It fails with ErrInvalidCookieName if any name is not
// valid.
func (sc *SetCookies) Lines() ([]string, error) {
	lines := make([]string, 0, len(sc.keys))
	for _, c := range sc.entries() {
		if c.Expired(false) {
			continue
		}

		v, err := c.Format()
		if err != nil {
			return nil, err
		}
		lines = append(lines, "Set-Cookie: "+v)
	}
	return lines, nil
}

// Format renders the Set-Cookie lines joined by the given line break, with no
// line break after the last.
func (sc *SetCookies) Format(lb string) (string, error) {
	lines, err := sc.Lines()
	if err != nil {
		return "", err
	}
	return strings.Join(lines, lb), nil
}

// Clone returns a deep copy of the collection.
func (sc *SetCookies) Clone() *SetCookies {
	nc := NewSetCookies()
	for _, c := range sc.entries() {
		nc.Put(c)
	}
	return nc
}
