package header_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-httpmsg/header"
	"github.com/zostay/go-httpmsg/param"
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	expect := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)

	tests := []struct {
		name string
		in   string
	}{
		{"IMF-fixdate", "Sun, 06 Nov 1994 08:49:37 GMT"},
		{"RFC 850", "Sunday, 06-Nov-94 08:49:37 GMT"},
		{"ANSI C", "Sun Nov  6 08:49:37 1994"},
		{"RFC 5322", "Sun, 6 Nov 1994 08:49:37 +0000"},
		{"ISO 8601", "1994-11-06T08:49:37Z"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts, err := header.ParseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, expect.Equal(ts), "got %v", ts)
		})
	}

	_, err := header.ParseTime("not a date at all")
	assert.Error(t, err)
}

func TestHeader_Time(t *testing.T) {
	t.Parallel()

	h := header.New()
	_, err := h.GetTime(header.Date)
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	ts := time.Date(2015, time.October, 21, 7, 28, 0, 0, time.UTC)
	require.NoError(t, h.SetTime(header.Date, ts))
	assert.Equal(t, "Wed, 21 Oct 2015 07:28:00 GMT", h.Value(header.Date))

	got, err := h.GetTime("date")
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestHeader_ParamValue(t *testing.T) {
	t.Parallel()

	h := header.New()
	_, err := h.GetContentType()
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	require.NoError(t, h.SetParamValue(header.ContentType,
		param.New("text/plain", map[string]string{"charset": "UTF-8"})))
	assert.Equal(t, "text/plain; charset=UTF-8", h.Value(header.ContentType))

	ct, err := h.GetContentType()
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", ct.Charset())

	mt, err := h.GetMediaType()
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mt)

	assert.ErrorIs(t, h.SetParamValue(header.ContentType, nil), header.ErrInvalidHeaderValue)
}

func TestHeader_AddressList(t *testing.T) {
	t.Parallel()

	h := header.New()
	_, err := h.GetAddressList(header.From)
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	require.NoError(t, h.Set(header.From, "Sterling <sterling@example.com>"))
	al, err := h.GetAddressList(header.From)
	require.NoError(t, err)
	require.Len(t, al, 1)
	assert.Equal(t, "sterling@example.com", al[0].Address())

	require.NoError(t, h.Set(header.From, ""))
	al, err = h.GetAddressList(header.From)
	require.NoError(t, err)
	assert.Len(t, al, 0)
}

func TestParseAddressList_Lenient(t *testing.T) {
	t.Parallel()

	al := header.ParseAddressList("Foo Bar foo@example.com (the boss)")
	require.Len(t, al, 1)
	assert.Equal(t, "foo@example.com", al[0].Address())
}
