package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// SameName compares two person names ignoring case and surrounding whitespace.
func SameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}
