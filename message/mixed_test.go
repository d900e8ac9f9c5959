package message_test

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/header/field"
	"github.com/zostay/go-httpmsg/message"
)

func TestMixedPart_FormData(t *testing.T) {
	t.Parallel()

	mp := message.New(
		message.WithMime(message.FormData),
		message.WithBoundary("boundary"),
	)

	_, err := mp.Add("bar", message.Name("foo"), message.Disposition("form-data"))
	require.NoError(t, err)
	_, err = mp.Add("bam", message.Name("baz"), message.Disposition("form-data"))
	require.NoError(t, err)

	const body = "\r\n--boundary\r\n" +
		"Content-Disposition: form-data; name=\"foo\"\r\n" +
		"Content-Type: text/plain; charset=US-ASCII\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"bar" +
		"\r\n--boundary\r\n" +
		"Content-Disposition: form-data; name=\"baz\"\r\n" +
		"Content-Type: text/plain; charset=US-ASCII\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"bam" +
		"\r\n--boundary--\r\n"

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, body, out)

	require.NoError(t, mp.Rewind())

	msg, err := mp.Message()
	require.NoError(t, err)
	assert.Equal(t, "Content-Type: multipart/form-data; boundary=boundary\r\n\r\n"+body, msg)
}

func TestMixedPart_MissingName(t *testing.T) {
	t.Parallel()

	mp := message.New(message.WithMime("Multipart/Form-Data"))
	_, err := mp.Add("x")
	assert.ErrorIs(t, err, message.ErrMissingName)
	assert.Equal(t, 0, mp.Len())

	n, err := mp.Add("x", message.Name("a"))
	require.NoError(t, err)
	require.IsType(t, &message.Part{}, n)
	assert.Equal(t, "form-data", n.(*message.Part).Disposition())
}

func TestMixedPart_Boundary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", message.New().Boundary())
	assert.Equal(t, "", message.New(message.WithMime("text/plain")).Boundary())

	mp := message.New(message.WithMime("multipart/mixed"))
	b := mp.Boundary()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), b)
	assert.Equal(t, b, mp.Boundary())
	assert.NotEqual(t, b, message.New(message.WithMime("multipart/mixed")).Boundary())
	assert.Equal(t, "multipart/mixed; boundary="+b, mp.Header().Value(header.ContentType))
}

func TestMixedPart_GeneratedBoundaryUnfolded(t *testing.T) {
	t.Parallel()

	mp := message.New(message.WithMime(message.FormData))
	_, err := mp.Add("bar", message.Name("foo"))
	require.NoError(t, err)

	msg, err := mp.Message()
	require.NoError(t, err)
	assert.Regexp(t,
		regexp.MustCompile(`\AContent-Type: multipart/form-data; boundary=[0-9a-f]{40}\r\n\r\n\r\n--`),
		msg)

	folded := message.New(
		message.WithMime(message.FormData),
		message.WithFoldEncoding(field.DefaultFoldEncoding),
	)
	_, err = folded.Add("bar", message.Name("foo"))
	require.NoError(t, err)

	msg, err = folded.Message()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "Content-Type: multipart/form-data;\r\n boundary="+folded.Boundary()+"\r\n"))
}

func TestMixedPart_ReaderContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content io.Reader
		early   string
		expect  string
	}{
		{
			name:    "short text",
			content: strings.NewReader("hello"),
			early:   "text/plain; charset=US-ASCII",
			expect:  "Content-Type: text/plain; charset=US-ASCII\r\n\r\nhello",
		},
		{
			name:    "short binary",
			content: bytes.NewReader([]byte{0x00, 0x01, 0x02}),
			early:   "application/octet-stream",
			expect:  "Content-Type: application/octet-stream\r\n\r\n\x00\x01\x02",
		},
		{
			name:    "long text",
			content: io.MultiReader(strings.NewReader(strings.Repeat("a", 600)), strings.NewReader("é")),
			early:   "text/plain",
			expect:  "Content-Type: text/plain; charset=UTF-8\r\n\r\n" + strings.Repeat("a", 600) + "é",
		},
		{
			name:    "rune cut by the sniffed bytes",
			content: io.MultiReader(strings.NewReader(strings.Repeat("a", 511)), strings.NewReader("é!")),
			early:   "text/plain",
			expect:  "Content-Type: text/plain; charset=UTF-8\r\n\r\n" + strings.Repeat("a", 511) + "é!",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mp := message.New()
			_, err := mp.Add(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.early, mp.Header().Value(header.ContentType))

			msg, err := mp.Message()
			require.NoError(t, err)
			assert.Equal(t, tt.expect, msg)

			require.NoError(t, mp.Rewind())
			again, err := mp.Message()
			require.NoError(t, err)
			assert.Equal(t, tt.expect, again)
		})
	}
}

func TestMixedPart_SinglePart(t *testing.T) {
	t.Parallel()

	mp := message.New()
	n, err := mp.Add("hello")
	require.NoError(t, err)

	assert.False(t, mp.IsMultipart())
	assert.Equal(t, "text/plain", mp.Mime())
	assert.Equal(t, "US-ASCII", mp.Charset())
	assert.Equal(t, "text/plain; charset=US-ASCII", mp.Header().Value(header.ContentType))
	assert.False(t, mp.Header().Has(header.ContentTransferEncoding))

	msg, err := mp.Message()
	require.NoError(t, err)
	assert.Equal(t, "Content-Type: text/plain; charset=US-ASCII\r\n\r\nhello", msg)

	assert.True(t, mp.Remove(n))
	assert.False(t, mp.Remove(n))
	assert.Equal(t, 0, mp.Len())
}

func TestMixedPart_SinglePartEncoded(t *testing.T) {
	t.Parallel()

	mp := message.New()
	_, err := mp.Add([]byte{0xff, 0xfe, 0x00}, message.Encoding("BASE64"))
	require.NoError(t, err)

	assert.Equal(t, "application/octet-stream", mp.Header().Value(header.ContentType))
	assert.Equal(t, "base64", mp.Header().Value(header.ContentTransferEncoding))

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "//4A", out)
}

func TestMixedPart_Passthrough(t *testing.T) {
	t.Parallel()

	mp := message.New()
	_, err := mp.Add("a")
	require.NoError(t, err)
	_, err = mp.Add(strings.NewReader("b"))
	require.NoError(t, err)
	_, err = mp.Add([]byte("c"))
	require.NoError(t, err)

	assert.Len(t, mp.Nodes(), 3)

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
}

func TestMixedPart_Attachment(t *testing.T) {
	t.Parallel()

	mp := message.New(message.WithMime("multipart/mixed"), message.WithBoundary("b"))
	_, err := mp.Add(strings.NewReader("hi"),
		message.Disposition("attachment"),
		message.Name("up"),
		message.Filename(`C:\dir\a "b".txt`),
		message.Mime("text/plain"),
		message.Encoding("7bit"),
		message.ContentID("<1@example.com>"),
		message.Length(2),
		message.Description("a file"),
		message.Language("en"),
		message.WithHeader("X-Extra", "yes"),
	)
	require.NoError(t, err)

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "\r\n--b\r\n"+
		"Content-Disposition: attachment; name=\"up\"; filename=\"a \\\"b\\\".txt\"\r\n"+
		"Content-ID: <1@example.com>\r\n"+
		"Content-Type: text/plain; charset=US-ASCII\r\n"+
		"Content-Transfer-Encoding: 7bit\r\n"+
		"Content-Length: 2\r\n"+
		"Content-Description: a file\r\n"+
		"Content-Language: en\r\n"+
		"X-Extra: yes\r\n"+
		"\r\n"+
		"hi"+
		"\r\n--b--\r\n", out)
}

func TestMixedPart_Binary(t *testing.T) {
	t.Parallel()

	mp := message.New(message.WithMime("multipart/mixed"), message.WithBoundary("b"))
	_, err := mp.Add([]byte{0x00, 0x01, 0x02}, message.Mime("image/png"))
	require.NoError(t, err)

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "\r\n--b\r\n"+
		"Content-Type: image/png\r\n"+
		"Content-Transfer-Encoding: base64\r\n"+
		"\r\n"+
		"AAEC"+
		"\r\n--b--\r\n", out)
}

func TestMixedPart_BinaryQuotedPrintable(t *testing.T) {
	t.Parallel()

	mp := message.New(message.WithMime("multipart/mixed"), message.WithBoundary("b"))
	_, err := mp.Add([]byte{0x00, '\n', 'a'}, message.Encoding("Quoted-Printable"))
	require.NoError(t, err)

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "\r\n--b\r\n"+
		"Content-Type: application/octet-stream\r\n"+
		"Content-Transfer-Encoding: quoted-printable\r\n"+
		"\r\n"+
		"=00=0Aa"+
		"\r\n--b--\r\n", out)
}

func TestMixedPart_Nested(t *testing.T) {
	t.Parallel()

	inner := message.New(message.WithMime("multipart/alternative"), message.WithBoundary("inner"))
	_, err := inner.Add("plain", message.Mime("text/plain"), message.Encoding("7bit"))
	require.NoError(t, err)

	outer := message.New(message.WithMime("multipart/mixed"), message.WithBoundary("outer"))
	n, err := outer.Add(inner)
	require.NoError(t, err)
	assert.Same(t, inner, n)

	_, err = outer.Add(outer)
	assert.ErrorIs(t, err, message.ErrUnsupportedContent)
	_, err = inner.Add(outer)
	assert.ErrorIs(t, err, message.ErrUnsupportedContent)
	assert.Equal(t, 1, inner.Len())

	out, err := outer.Flush()
	require.NoError(t, err)
	assert.Equal(t, "\r\n--outer\r\n"+
		"Content-Type: multipart/alternative; boundary=inner\r\n"+
		"\r\n"+
		"\r\n--inner\r\n"+
		"Content-Type: text/plain; charset=US-ASCII\r\n"+
		"Content-Transfer-Encoding: 7bit\r\n"+
		"\r\n"+
		"plain"+
		"\r\n--inner--\r\n"+
		"\r\n--outer--\r\n", out)
}

func TestMixedPart_NestedFormData(t *testing.T) {
	t.Parallel()

	inner := message.New(message.WithMime("multipart/mixed"), message.WithBoundary("inner"))
	outer := message.New(message.WithMime(message.FormData))

	_, err := outer.Add(inner)
	assert.ErrorIs(t, err, message.ErrMissingName)

	_, err = outer.Add(inner, message.Name("files"))
	require.NoError(t, err)
	assert.Equal(t, `form-data; name="files"`, inner.Header().Value(header.ContentDisposition))
}

func TestMixedPart_Charset(t *testing.T) {
	t.Parallel()

	mp := message.New(message.WithMime("multipart/mixed"), message.WithBoundary("b"))
	_, err := mp.Add("é", message.Charset("iso-8859-1"), message.Encoding("8bit"))
	require.NoError(t, err)
	_, err = mp.Add("ü", message.Encoding("8bit"))
	require.NoError(t, err)

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "\r\n--b\r\n"+
		"Content-Type: text/plain; charset=ISO-8859-1\r\n"+
		"Content-Transfer-Encoding: 8bit\r\n"+
		"\r\n"+
		"\xe9"+
		"\r\n--b\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"Content-Transfer-Encoding: 8bit\r\n"+
		"\r\n"+
		"ü"+
		"\r\n--b--\r\n", out)
}

func TestMixedPart_UnsupportedContent(t *testing.T) {
	t.Parallel()

	_, err := message.New().Add(42)
	assert.ErrorIs(t, err, message.ErrUnsupportedContent)
}

func TestMixedPart_Rewind(t *testing.T) {
	t.Parallel()

	mp := message.New()
	_, err := mp.Add("abc")
	require.NoError(t, err)

	out, err := mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "abc", out)

	out, err = mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "", out)

	require.NoError(t, mp.Rewind())
	out, err = mp.Flush()
	require.NoError(t, err)
	assert.Equal(t, "abc", out)

	_, err = mp.Add(io.MultiReader(strings.NewReader("x")), message.Mime("text/plain"))
	require.NoError(t, err)
	assert.ErrorIs(t, mp.Rewind(), message.ErrNotRewindable)
}

type closer struct {
	io.Reader
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestMixedPart_Close(t *testing.T) {
	t.Parallel()

	failure := errors.New("boom")
	a := &closer{Reader: strings.NewReader("a"), err: failure}
	b := &closer{Reader: strings.NewReader("b")}

	mp := message.New()
	_, err := mp.Add(a)
	require.NoError(t, err)
	_, err = mp.Add(b)
	require.NoError(t, err)

	assert.ErrorIs(t, mp.Close(), failure)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestMixedPart_CloseNested(t *testing.T) {
	t.Parallel()

	failure := errors.New("boom")
	a := &closer{Reader: strings.NewReader("a")}
	b := &closer{Reader: strings.NewReader("b"), err: failure}

	inner := message.New(message.WithMime("multipart/alternative"))
	_, err := inner.Add(b)
	require.NoError(t, err)

	outer := message.New(message.WithMime("multipart/mixed"))
	_, err = outer.Add(a)
	require.NoError(t, err)
	_, err = outer.Add(inner)
	require.NoError(t, err)

	assert.ErrorIs(t, outer.Close(), failure)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestPart_WriteTo(t *testing.T) {
	t.Parallel()

	p := message.NewPart(strings.NewReader("x=1"), message.Mime("text/plain"), message.Mime("text/html"))
	assert.Equal(t, "text/plain", p.Mime())

	buf := &bytes.Buffer{}
	n, err := p.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "Content-Type: text/plain; charset=US-ASCII\r\n"+
		"Content-Transfer-Encoding: quoted-printable\r\n"+
		"\r\n"+
		"x=3D1", buf.String())
}
