package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding Text peels off.
const maxPasses = 8

// Text strips all markup from user-supplied prose and trims surrounding space.
// Entities are decoded so stored text stays readable, and the policy is
// reapplied until decoding cannot surface a new tag. Input still changing
// after maxPasses is returned in its escaped form.
func Text(input string) string {
	if input == "" {
		return ""
	}
	s := input
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// Ptr applies Text to an optional field.
func Ptr(input *string) *string {
	if input == nil {
		return nil
	}
	out := Text(*input)
	return &out
}
