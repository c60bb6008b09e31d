// Package normalize canonicalizes form and query input before it is
// validated, stored, or sent to the backend.
package normalize

import (
	"strings"
	"unicode"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Username trims and lowercases a login name.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone removes spaces, dots, dashes, and parentheses. A "+" is kept only
// as the first character.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' || r == ' ' || r == '.' || r == '-' || r == '(' || r == ')':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Status trims and lowercases a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// ListItem is the comparison key for entries of a free-text list such as
// the services included in a care plan.
func ListItem(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// List trims every entry and drops empty ones, keeping order.
func List(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
