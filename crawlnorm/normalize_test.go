package crawlnorm

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNormalize_RejectsNonHTTPSchemes(t *testing.T) {
	base := mustParse(t, "http://h/")
	f := Filter{}

	cases := []string{"mailto:x@y", "javascript:void(0)", "tel:123", "fax:1", "data:text/plain,hi"}
	for _, href := range cases {
		_, err := f.Normalize(base, href)
		var rej *RejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, RejectScheme, rej.Reason)
	}
}

func TestNormalize_AcceptsRelativeHref(t *testing.T) {
	base := mustParse(t, "http://h/dir/")
	f := Filter{}

	got, err := f.Normalize(base, "/ok")
	require.NoError(t, err)
	assert.Equal(t, "http://h/ok", got.String())
}

func TestNormalize_EmptyHrefRejected(t *testing.T) {
	base := mustParse(t, "http://h/")
	_, err := Filter{}.Normalize(base, "")
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, RejectEmpty, rej.Reason)
}

func TestNormalize_ExclusionPattern(t *testing.T) {
	base := mustParse(t, "http://h/")
	f := Filter{ExcludePatterns: []string{"/private/"}}

	_, err := f.Normalize(base, "/private/x")
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, RejectExcluded, rej.Reason)

	got, err := f.Normalize(base, "/a")
	require.NoError(t, err)
	assert.Equal(t, "http://h/a", got.String())
}

func TestNormalize_RemovesFragment(t *testing.T) {
	base := mustParse(t, "http://h/")
	got, err := Filter{}.Normalize(base, "/a#section")
	require.NoError(t, err)
	assert.Equal(t, "http://h/a", got.String())
}

func TestContentTypeAllowed(t *testing.T) {
	assert.True(t, ContentTypeAllowed(nil, "text/html; charset=utf-8"))
	assert.True(t, ContentTypeAllowed([]string{"text/html"}, "text/html; charset=utf-8"))
	assert.False(t, ContentTypeAllowed([]string{"application/pdf"}, "text/html"))
}
