package router

import (
	"fmt"
	"strings"
)

var defaultDisallowed = []string{"rob", "steal", "hack", "illegal", "scam"}

// FilterResult is the outcome of a content check. Keyword and Reason are empty
// when the text is allowed.
type FilterResult struct {
	Allowed bool
	Keyword string
	Reason  string
}

// Filter rejects text containing any disallowed substring.
type Filter struct {
	keywords []string
}

// NewFilter builds a filter over the given substrings, checked in order.
// With no keywords it uses the default list.
func NewFilter(keywords ...string) *Filter {
	if len(keywords) == 0 {
		keywords = defaultDisallowed
	}
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			normalized = append(normalized, kw)
		}
	}
	return &Filter{keywords: normalized}
}

// Check returns the first disallowed keyword found in text. Matching is a
// case-insensitive substring test, so "problem" trips "rob".
func (f *Filter) Check(text string) FilterResult {
	lower := strings.ToLower(text)
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return FilterResult{
				Allowed: false,
				Keyword: kw,
				Reason:  fmt.Sprintf("Query rejected: Inappropriate content detected ('%s')", kw),
			}
		}
	}
	return FilterResult{Allowed: true}
}

// Keywords returns the disallowed substrings in check order.
func (f *Filter) Keywords() []string {
	return append([]string(nil), f.keywords...)
}
