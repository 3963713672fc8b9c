package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user-supplied free text (chat messages,
// emergency descriptions) before it is stored or echoed back.
type Sanitizer interface {
	Sanitize(input string) string
}

type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer creates a sanitizer with a strict no-markup policy. Output
// contains no HTML elements; entities inserted by the policy are unescaped so
// plain text like "don't" round-trips unchanged.
func NewTextSanitizer() Sanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *textSanitizer) Sanitize(input string) string {
	clean := s.policy.Sanitize(input)
	clean = strings.ReplaceAll(clean, "&#39;", "'")
	clean = strings.ReplaceAll(clean, "&#34;", `"`)
	clean = strings.ReplaceAll(clean, "&amp;", "&")
	return strings.TrimSpace(clean)
}
