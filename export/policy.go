package export

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	roleValue     = regexp.MustCompile(`^button$`)
	tabindexValue = regexp.MustCompile(`^-?[0-9]+$`)
	relValue      = regexp.MustCompile(`^[a-z ]+$`)
	targetValue   = regexp.MustCompile(`^_blank$`)
)

var sanitizer = policy()

// policy allows exactly the markup HTML produces.
func policy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "ol", "ul", "li", "strong", "em", "u", "s", "code")

	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("strong")
	p.AllowAttrs("role").Matching(roleValue).OnElements("strong")
	p.AllowAttrs("tabindex").Matching(tabindexValue).OnElements("strong")

	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("rel").Matching(relValue).OnElements("a")
	p.AllowAttrs("target").Matching(targetValue).OnElements("a")
	p.AllowImages()
	return p
}
