package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_TitleLinksMeta(t *testing.T) {
	body := []byte(`<html><head>
		<title>Hello World</title>
		<meta name="description" content="a test page">
		<meta property="og:type" content="article">
		<meta content="dropped, no key">
	</head><body>
		<a href="/a">A</a>
		<a href="https://other/b">B</a>
		<p>Some visible text.</p>
	</body></html>`)

	p := Extract(body)

	assert.Equal(t, "Hello World", p.Title)
	assert.Equal(t, []string{"/a", "https://other/b"}, p.Links)
	assert.Equal(t, "a test page", p.Metadata["description"])
	assert.Equal(t, "article", p.Metadata["og:type"])
	assert.Contains(t, p.Text, "Some visible text.")
}

func TestExtract_NoTitleFallback(t *testing.T) {
	p := Extract([]byte(`<html><body><p>no title here</p></body></html>`))
	assert.Equal(t, NoTitle, p.Title)
}

func TestExtract_DuplicateMetaKeysFirstWins(t *testing.T) {
	body := []byte(`<meta name="k" content="first"><meta name="k" content="second">`)
	p := Extract(body)
	assert.Equal(t, "first", p.Metadata["k"])
}

func TestExtract_MalformedHTMLDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Extract([]byte(`<html><title>Oops<body><a href=/x>`))
	})
}
