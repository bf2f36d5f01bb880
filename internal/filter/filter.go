package filter

import (
	"fmt"
	"strings"

	"github.com/jameskyle/email-summarizer/internal/model"
)

// Resolve returns the named group's sender patterns. An empty name resolves
// to nil, the identity filter. An unknown name is a ConfigurationError, not
// a silent empty result: a misspelled group must never produce a digest that
// quietly covers nothing. Group names are case-insensitive because the
// config layer normalizes keys to lower case.
func Resolve(name string, groups map[string][]string) ([]string, error) {
	if name == "" {
		return nil, nil
	}
	patterns, ok := groups[strings.ToLower(name)]
	if !ok {
		return nil, &model.ConfigurationError{Field: "filters", Message: fmt.Sprintf("no filter named %q", name)}
	}
	return patterns, nil
}

// Apply selects the messages whose sender matches any pattern in the named
// group, preserving input order. With an empty name every message passes.
func Apply(msgs []model.Message, name string, groups map[string][]string) ([]model.Message, error) {
	patterns, err := Resolve(name, groups)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return msgs, nil
	}

	var kept []model.Message
	for _, msg := range msgs {
		if matchesAny(msg.Address, patterns) {
			kept = append(kept, msg)
		}
	}
	return kept, nil
}

// matchesAny reports whether the bare sender address matches one of the
// patterns. Matching is case-insensitive. A pattern with a local part
// ("user@example.com") must equal the whole address; a domain pattern
// ("example.com", "@example.com") matches the address suffix.
func matchesAny(address string, patterns []string) bool {
	addr := strings.ToLower(strings.TrimSpace(address))
	for _, p := range patterns {
		pattern := strings.ToLower(strings.TrimSpace(p))
		if pattern == "" {
			continue
		}
		if isFullAddress(pattern) {
			if addr == pattern {
				return true
			}
			continue
		}
		if strings.HasSuffix(addr, pattern) {
			return true
		}
	}
	return false
}

// isFullAddress reports whether the pattern names a complete address rather
// than a domain: it contains "@" with a non-empty local part.
func isFullAddress(pattern string) bool {
	return strings.Index(pattern, "@") > 0
}
