// Package sanitizer cleans user-submitted text before storage and display.
package sanitizer

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// strictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()

		// safePolicy allows basic formatting for user-generated content
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// Strip removes all HTML and trims surrounding whitespace.
// Use for form fields that must be plain text (names, titles, messages).
func Strip(s string) string {
	initPolicies()
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// SafeHTML allows basic formatting tags (p, a, strong, em, lists).
// Strips scripts, event handlers, and javascript: URLs.
// Use for user-generated content that may carry simple formatting.
func SafeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}
