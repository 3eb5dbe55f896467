// Package crawlnorm implements the URL Normalizer & Policy Filter: it turns
// a raw href found on a page into either an absolute, accepted URL or a
// rejection reason. Canonicalization is delegated to purell, the same
// library the teacher's url.go uses; the scheme/scheme-reject/exclusion
// rules are this spec's own.
package crawlnorm

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// RejectReason identifies why a href was not accepted.
type RejectReason string

const (
	RejectEmpty        RejectReason = "empty href"
	RejectScheme       RejectReason = "disallowed scheme"
	RejectUnresolvable RejectReason = "could not resolve against base"
	RejectExcluded     RejectReason = "matched exclusion pattern"
)

// RejectedError reports why Normalize refused a href.
type RejectedError struct {
	Reason RejectReason
	Href   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected %q: %s", e.Href, e.Reason)
}

// disallowedSchemePrefixes are the non-navigable schemes rejected outright,
// per §4.1 rule 1.
var disallowedSchemePrefixes = []string{
	"mailto:", "tel:", "fax:", "file:", "data:",
	"sms:", "news:", "irc:", "magnet:", "javascript:",
}

// Filter holds the run's configured exclusion patterns and applies them
// after normalization.
type Filter struct {
	ExcludePatterns []string
}

// Normalize resolves href against base and applies the §4.1 rules in
// order. It returns the accepted absolute URL, or a *RejectedError.
func (f Filter) Normalize(base *url.URL, href string) (*url.URL, error) {
	if href == "" {
		return nil, &RejectedError{Reason: RejectEmpty, Href: href}
	}

	lower := strings.ToLower(strings.TrimSpace(href))
	for _, p := range disallowedSchemePrefixes {
		if strings.HasPrefix(lower, p) {
			return nil, &RejectedError{Reason: RejectScheme, Href: href}
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return nil, &RejectedError{Reason: RejectUnresolvable, Href: href}
	}

	abs := ref
	if !ref.IsAbs() {
		if base == nil {
			return nil, &RejectedError{Reason: RejectUnresolvable, Href: href}
		}
		abs = base.ResolveReference(ref)
	}

	if abs.Scheme != "http" && abs.Scheme != "https" {
		return nil, &RejectedError{Reason: RejectScheme, Href: href}
	}

	normalized := purell.NormalizeURL(abs, purell.FlagsSafe|purell.FlagRemoveFragment)
	out, err := url.Parse(normalized)
	if err != nil {
		return nil, &RejectedError{Reason: RejectUnresolvable, Href: href}
	}

	absStr := out.String()
	for _, pattern := range f.ExcludePatterns {
		if pattern != "" && strings.Contains(absStr, pattern) {
			return nil, &RejectedError{Reason: RejectExcluded, Href: href}
		}
	}

	return out, nil
}

// ContentTypeAllowed implements the content-type allow-list check from
// §4.1: if the allow-list is empty, everything passes; otherwise the first
// token of the Content-Type header must substring-match one entry.
func ContentTypeAllowed(allow []string, contentType string) bool {
	if len(allow) == 0 {
		return true
	}
	first := contentType
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		first = contentType[:idx]
	}
	first = strings.TrimSpace(first)
	for _, a := range allow {
		if a != "" && strings.Contains(first, a) {
			return true
		}
	}
	return false
}
