package normalization

import (
	"strings"
)

// ParseInputString lowercases and trims identifier-like input (emails,
// provider names). Never use it for user-authored content.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimText trims user-authored content without touching its case.
func TrimText(input string) string {
	return strings.TrimSpace(input)
}

// TrimTextPtr trims through a pointer, mapping whitespace-only input to nil.
func TrimTextPtr(input *string) *string {
	if input == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*input)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
