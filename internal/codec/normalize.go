// Package codec converts tracker data to and from the text cells of the store
package codec

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// NormalizeField decodes HTML character entities and trims surrounding
// whitespace. Unknown entity sequences are kept as they are.
func NormalizeField(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(raw))
}

// NormalizeCell normalizes a value as returned by the spreadsheet API.
// A nil cell is an absent value.
func NormalizeCell(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return NormalizeField(value)
	default:
		return NormalizeField(fmt.Sprint(value))
	}
}
