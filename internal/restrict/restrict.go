// Package restrict is the final defensive pass over sanitized markup. It
// keeps only a fixed tag and attribute allowlist; everything else,
// including script tags and event-handler attributes, is dropped while
// text content is preserved.
package restrict

import "github.com/microcosm-cc/bluemonday"

// allowedTags is the complete output vocabulary: paragraphs, breaks,
// generic containers, inline spans, emphasis, and lists.
var allowedTags = []string{
	"p", "br", "div", "span",
	"b", "strong", "i", "em", "u",
	"ol", "ul", "li",
}

var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowAttrs("class").Globally()
	return p
}()

// Restrict returns markup containing nothing outside the allowlist. It
// never fails; disallowed content is silently dropped.
func Restrict(markup string) string {
	return policy.Sanitize(markup)
}
