package domain

import "regexp"

var tagColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Tag labels projects.
type Tag struct {
	TagID  string
	UserID string
	Name   string
	Color  string
	AuditFields
}

// ValidTagColor reports whether color is a #RRGGBB hex string.
func ValidTagColor(color string) bool {
	return tagColorPattern.MatchString(color)
}
