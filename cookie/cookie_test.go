package cookie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-httpmsg/cookie"
)

func TestIsValidName(t *testing.T) {
	t.Parallel()

	assert.True(t, cookie.IsValidName("session_id"))
	assert.False(t, cookie.IsValidName(""))

	for _, c := range "=,; \t\r\n\x0B\x0C" {
		c := c
		t.Run(string(c), func(t *testing.T) {
			t.Parallel()

			name := "foo" + string(c) + "bar"
			assert.False(t, cookie.IsValidName(name))

			cs := cookie.NewCookies()
			require.NoError(t, cs.Set(name, "x"))
			_, err := cs.Format()
			assert.ErrorIs(t, err, cookie.ErrInvalidCookieName)

			sc := cookie.NewSetCookies()
			require.NoError(t, sc.Set(name, "x"))
			_, err = sc.Format("\r\n")
			assert.ErrorIs(t, err, cookie.ErrInvalidCookieName)
		})
	}
}

func TestNewCookie(t *testing.T) {
	t.Parallel()

	c, err := cookie.NewCookie("foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "foo", c.Name())
	assert.Equal(t, "bar", c.Value())
	assert.Equal(t, "foo=bar", c.String())

	c, err = cookie.NewCookie("zero", "0")
	require.NoError(t, err)
	assert.Equal(t, "0", c.Value())

	_, err = cookie.NewCookie("foo", "")
	assert.ErrorIs(t, err, cookie.ErrInvalidCookieValue)

	_, err = cookie.NewCookie("foo")
	assert.ErrorIs(t, err, cookie.ErrInvalidCookieValue)

	_, err = cookie.NewCookie("foo", "a", "")
	assert.ErrorIs(t, err, cookie.ErrInvalidCookieValue)
}

func TestCookie_Values(t *testing.T) {
	t.Parallel()

	c, err := cookie.NewCookie("foo", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a", c.Value())
	assert.Equal(t, []string{"a", "b"}, c.Values())
	assert.Equal(t, "foo=a; foo=b", c.String())

	require.NoError(t, c.AddValue("c"))
	assert.ErrorIs(t, c.AddValue(""), cookie.ErrInvalidCookieValue)

	cc := c.Clone()
	require.NoError(t, cc.SetValue("z"))
	assert.Equal(t, []string{"a", "b", "c"}, c.Values())
	assert.Equal(t, []string{"z"}, cc.Values())
	assert.ErrorIs(t, cc.SetValue(), cookie.ErrInvalidCookieValue)
}
