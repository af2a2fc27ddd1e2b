package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks. Post bodies and comments
// are rich text and rendered unescaped, so everything passes through here first.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
