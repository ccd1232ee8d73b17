// Package normalize keeps the stored forms of emails and display names
// consistent across stores.
package normalize

import "strings"

// Email trims and lowercases an address before it is stored.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Matching keys use text.Fold on top of this.
func Name(s string) string {
	return strings.TrimSpace(s)
}
