package utils

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	commentPolicyOnce sync.Once
	commentPolicy     *bluemonday.Policy
)

// CommentPolicy allows a small set of inline formatting tags and links. Only
// href survives on anchors, and only for http, https, mailto or relative URLs.
func CommentPolicy() *bluemonday.Policy {
	commentPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "i", "em", "strong", "p")
		p.AllowAttrs("href").OnElements("a")
		p.RequireParseableURLs(true)
		p.AllowRelativeURLs(true)
		p.AllowURLSchemes("http", "https", "mailto")
		commentPolicy = p
	})
	return commentPolicy
}

// Sanitize strips user markup down to CommentPolicy. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(html string) string {
	return CommentPolicy().Sanitize(html)
}
