package validation

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// LocaleMatcher maps an Accept-Language header onto a catalog locale.
type LocaleMatcher struct {
	locales []string
	matcher language.Matcher
}

// NewLocaleMatcher builds a matcher over available. preferred is returned
// whenever nothing in the header matches.
func NewLocaleMatcher(preferred string, available []string) (*LocaleMatcher, error) {
	ordered := []string{preferred}
	for _, l := range available {
		if l != preferred {
			ordered = append(ordered, l)
		}
	}

	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		tag, err := language.Parse(strings.ReplaceAll(l, "_", "-"))
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", l, err)
		}
		tags = append(tags, tag)
	}

	return &LocaleMatcher{
		locales: ordered,
		matcher: language.NewMatcher(tags),
	}, nil
}

func (m *LocaleMatcher) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return m.locales[0]
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return m.locales[0]
	}
	_, idx, conf := m.matcher.Match(tags...)
	if conf == language.No {
		return m.locales[0]
	}
	return m.locales[idx]
}
