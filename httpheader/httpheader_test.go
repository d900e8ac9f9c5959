package httpheader_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-httpmsg/cookie"
	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/header/field"
	"github.com/zostay/go-httpmsg/httpheader"
)

func TestIsStatusLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		expect bool
	}{
		{"HTTP/1.1 200 OK", true},
		{"HTTP/2 404", true},
		{"HTTP/1.0 500 Internal Server Error", true},
		{"HTTP/1.1 20 OK", false},
		{"http/1.1 200 OK", false},
		{"GET / HTTP/1.1", false},
		{"Host: example.com", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, httpheader.IsStatusLine(tt.line), tt.line)
	}
}

func TestHeader_Status(t *testing.T) {
	t.Parallel()

	h := httpheader.NewResponse()
	assert.Equal(t, 0, h.StatusCode())
	assert.Equal(t, "", h.Version())

	require.NoError(t, h.SetStatus("HTTP/1.1 404 Not Found"))
	assert.Equal(t, "HTTP/1.1 404 Not Found", h.Status())
	assert.Equal(t, 404, h.StatusCode())
	assert.Equal(t, "1.1", h.Version())

	err := h.SetStatus("200 OK")
	assert.ErrorIs(t, err, httpheader.ErrInvalidHeaderLine)
	assert.Equal(t, "HTTP/1.1 404 Not Found", h.Status())

	require.NoError(t, h.SetStatus(""))
	assert.Equal(t, "", h.Status())
}

func TestHeader_Add(t *testing.T) {
	t.Parallel()

	h := httpheader.NewResponse()
	err := h.Add(
		"HTTP/1.1 200 OK",
		"",
		"Content-Type: text/html",
		"Set-Cookie: sid=abc; Path=/; HttpOnly",
		"Set-Cookie: theme=dark",
		"Cookie: a=1; b=2",
	)
	require.NoError(t, err)

	assert.Equal(t, 200, h.StatusCode())
	assert.Equal(t, "text/html", h.Value("content-type"))
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []string{"sid", "theme"}, h.SetCookies().Names())
	assert.Equal(t, []string{"a", "b"}, h.Cookies().Names())
	assert.True(t, h.Has("cookie"))
	assert.True(t, h.Has("SET-COOKIE"))
	assert.Equal(t, "a=1; b=2", h.Value("Cookie"))

	sc, err := h.SetCookies().Get("sid")
	require.NoError(t, err)
	require.Len(t, sc, 1)
	assert.True(t, sc[0].HTTPOnly())
}

func TestHeader_Add_Invalid(t *testing.T) {
	t.Parallel()

	h := httpheader.NewRequest()
	err := h.Add("Host: example.com", "not a header", "Accept: */*")
	assert.ErrorIs(t, err, httpheader.ErrInvalidHeaderLine)

	assert.Equal(t, "example.com", h.Value("Host"))
	assert.False(t, h.Has("Accept"))
}

func TestHeader_Set(t *testing.T) {
	t.Parallel()

	h := httpheader.NewRequest()
	require.NoError(t, h.Set("Cookie", "a=1; b=2"))
	require.NoError(t, h.Set("Cookie", "c=3"))
	assert.Equal(t, []string{"c"}, h.Cookies().Names())

	require.NoError(t, h.AppendValue("Cookie", "d=4"))
	assert.Equal(t, []string{"c", "d"}, h.Cookies().Names())

	require.NoError(t, h.Set("Set-Cookie", "x=1"))
	require.NoError(t, h.Set("Set-Cookie", "x=2"))
	require.NoError(t, h.Set("Set-Cookie", "y=3; Path=/app"))
	assert.Equal(t, 2, h.SetCookies().Len())

	c, err := cookie.NewSetCookie("z", "9", cookie.WithSecure(true))
	require.NoError(t, err)
	require.NoError(t, h.Set("Set-Cookie", c))
	assert.Equal(t, 3, h.SetCookies().Len())

	assert.Equal(t, 0, h.Len())

	assert.True(t, h.Delete("Cookie"))
	assert.False(t, h.Has("Cookie"))
	assert.False(t, h.Delete("Cookie"))
}

func TestHeader_Set_BadValue(t *testing.T) {
	t.Parallel()

	h := httpheader.NewRequest()
	require.NoError(t, h.Set("Cookie", "a=1"))

	err := h.Set("Cookie", struct{}{})
	assert.ErrorIs(t, err, header.ErrInvalidHeaderValue)
	assert.Equal(t, []string{"a"}, h.Cookies().Names())

	err = h.Set("Set-Cookie", "=nameless")
	assert.ErrorIs(t, err, cookie.ErrInvalidCookieName)
}

func TestHeader_Format(t *testing.T) {
	t.Parallel()

	h := httpheader.NewResponse()
	require.NoError(t, h.SetStatus("HTTP/1.1 200 OK"))
	require.NoError(t, h.Set("Content-Type", "text/plain"))
	require.NoError(t, h.Set("Set-Cookie", "sid=abc; HttpOnly"))
	require.NoError(t, h.Prepend("Server", "test"))

	out, err := h.Format()
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n"+
		"Server: test\r\n"+
		"Content-Type: text/plain\r\n"+
		"Set-Cookie: sid=abc; Path=/; HttpOnly\r\n"+
		"\r\n", out)
	assert.Equal(t, out, h.String())

	buf := &bytes.Buffer{}
	n, err := h.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(out)), n)
	assert.Equal(t, out, buf.String())

	assert.Equal(t, []string{
		"HTTP/1.1 200 OK",
		"Server: test",
		"Content-Type: text/plain",
		"Set-Cookie: sid=abc; Path=/; HttpOnly",
	}, h.Lines())
}

func TestHeader_Format_Request(t *testing.T) {
	t.Parallel()

	h := httpheader.NewRequest()
	require.NoError(t, h.Set("Host", "example.com"))
	require.NoError(t, h.Set("Cookie", "a=1; b=2"))

	out, err := h.Format()
	require.NoError(t, err)
	assert.Equal(t, "Host: example.com\r\nCookie: a=1; b=2\r\n", out)
}

func TestHeader_Format_Empty(t *testing.T) {
	t.Parallel()

	for _, h := range []*httpheader.Header{httpheader.NewRequest(), httpheader.NewResponse()} {
		out, err := h.Format()
		require.NoError(t, err)
		assert.Equal(t, "", out)
		assert.Equal(t, "", h.String())
	}
}

func TestHeader_Format_BadCookieName(t *testing.T) {
	t.Parallel()

	h := httpheader.NewRequest()
	require.NoError(t, h.Set("Cookie", "bad name=1"))

	_, err := h.Format()
	assert.ErrorIs(t, err, cookie.ErrInvalidCookieName)
	assert.Equal(t, "Cookie: bad name=1\r\n", h.String())
}

func TestHeader_Format_TooLong(t *testing.T) {
	t.Parallel()

	h := httpheader.NewRequest()
	h.SetMaxLineLength(20)
	require.NoError(t, h.Set("Cookie", "session="+strings.Repeat("x", 30)))

	_, err := h.Format()
	assert.ErrorIs(t, err, field.ErrHeaderTooLong)
}

func TestHeader_Clone(t *testing.T) {
	t.Parallel()

	h := httpheader.NewResponse()
	require.NoError(t, h.Add("HTTP/1.1 200 OK", "X-A: 1", "Set-Cookie: s=1", "Cookie: c=1"))

	c := h.Clone()
	require.NoError(t, c.Set("X-A", "2"))
	require.NoError(t, c.Set("Set-Cookie", "t=2"))
	require.NoError(t, c.AppendValue("Cookie", "d=2"))
	require.NoError(t, c.SetStatus("HTTP/1.1 204 No Content"))

	assert.Equal(t, "1", h.Value("X-A"))
	assert.Equal(t, 1, h.SetCookies().Len())
	assert.Equal(t, 1, h.Cookies().Len())
	assert.Equal(t, 200, h.StatusCode())
	assert.Equal(t, httpheader.Response, c.Kind())
}

func TestParse(t *testing.T) {
	t.Parallel()

	text := "HTTP/1.1 302 Found\r\n" +
		"Location: /login\r\n" +
		"X-Long: one,\r\n two\r\n" +
		"Set-Cookie: sid=; Max-Age=0\r\n" +
		"\r\n"

	assert.Equal(t, httpheader.Response, httpheader.DetectKind(text))

	h := httpheader.Parse(text, httpheader.DetectKind(text))
	assert.Equal(t, 302, h.StatusCode())
	assert.Equal(t, "/login", h.Value("location"))
	assert.Equal(t, []string{"one", "two"}, h.Get("X-Long").Values())
	assert.Equal(t, 1, h.SetCookies().Len())
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind httpheader.Kind
		text string
	}{
		{"request", httpheader.Request, "Host: example.com\r\nAccept: text/html, */*\r\n"},
		{"response", httpheader.Response, "HTTP/1.1 200 OK\r\nContent-Length: 12\r\n\r\n"},
		{"empty", httpheader.Request, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := httpheader.Parse(tt.text, tt.kind).Format()
			require.NoError(t, err)
			assert.Equal(t, tt.text, out)
		})
	}
}

func TestParse_BestEffort(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)

	h := httpheader.Parse("Host: a\nnonsense\nAccept: */*\n", httpheader.Request,
		header.WithLogger(logger),
		header.WithBreak(header.LF),
	)

	out, err := h.Format()
	require.NoError(t, err)
	assert.Equal(t, "Host: a\nAccept: */*\n", out)
	assert.Contains(t, buf.String(), "skipping bad header line")
	assert.Contains(t, buf.String(), `"line":"nonsense"`)
	assert.Equal(t, httpheader.Request, httpheader.DetectKind("Host: a\n"))
}
