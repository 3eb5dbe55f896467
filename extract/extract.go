// Package extract implements the Extractor: from a fetched page body,
// produce a title, the raw outbound hrefs, a meta-tag map, and the
// concatenated text content. Grounded on the teacher's parse.go tokenizer
// walk (golang.org/x/net/html, successor to the defunct
// code.google.com/p/go.net/html the teacher imports), generalized to also
// collect plain text for the Classifier, which the teacher's parser never
// needed.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// NoTitle is the literal title used when a page has none, per §3.
const NoTitle = "No title"

// Page is everything the Extractor produces from one fetched body.
type Page struct {
	Title    string
	Links    []string // raw, unresolved href values
	Metadata map[string]string
	Text     string
}

// Extract tokenizes body and walks it exactly once, in document order.
// Malformed HTML is tolerated: the tokenizer recovers from errors by
// simply ending the token stream, matching the teacher's parse.go
// behavior of treating ErrorToken as "stop, return what we have".
func Extract(body []byte) Page {
	p := Page{Metadata: make(map[string]string)}

	z := html.NewTokenizer(strings.NewReader(string(body)))
	var textBuf strings.Builder
	inTitle := false
	titleSet := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := z.TagName()
			tag := string(tagBytes)
			attrs := readAttrs(z, hasAttr)

			switch tag {
			case "a":
				if href, ok := attrs["href"]; ok {
					p.Links = append(p.Links, href)
				}
			case "meta":
				key := attrs["name"]
				if key == "" {
					key = attrs["property"]
				}
				if key != "" {
					if _, exists := p.Metadata[key]; !exists {
						p.Metadata[key] = attrs["content"]
					}
				}
			case "title":
				if tt == html.StartTagToken {
					inTitle = true
				}
			}

		case html.EndTagToken:
			tagBytes, _ := z.TagName()
			if string(tagBytes) == "title" {
				inTitle = false
			}

		case html.TextToken:
			text := string(z.Text())
			if inTitle && !titleSet {
				p.Title = strings.TrimSpace(text)
				titleSet = true
			}
			trimmed := strings.TrimSpace(text)
			if trimmed != "" {
				textBuf.WriteString(trimmed)
				textBuf.WriteString(" ")
			}
		}
	}

	if p.Title == "" {
		p.Title = NoTitle
	}
	p.Text = strings.TrimSpace(textBuf.String())
	return p
}

func readAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}
