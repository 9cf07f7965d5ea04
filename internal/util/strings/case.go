package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				// Add underscore before uppercase letter if:
				// 1. Previous char is lowercase or a digit
				// 2. Next char is lowercase (for acronyms like HTTPRequest -> http_request)
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) && prev != '_' {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToLowerCamelCase converts CamelCase or snake_case to lowerCamelCase
// Leading acronyms are lowered as a whole (HTTPRequest -> httpRequest, ID -> id)
func ToLowerCamelCase(s string) string {
	if s == "" {
		return s
	}

	var result strings.Builder
	upperNext := false
	runes := []rune(s)

	// Length of the leading uppercase run that belongs to the first word
	lead := 0
	for lead < len(runes) && unicode.IsUpper(runes[lead]) {
		lead++
	}
	if lead > 1 && lead < len(runes) && unicode.IsLower(runes[lead]) {
		lead--
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upperNext = result.Len() > 0
		case i < lead || (i == 0 && lead == 0):
			result.WriteRune(unicode.ToLower(r))
		case upperNext:
			result.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
