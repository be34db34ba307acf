package docgen

import (
	"fmt"
	"sort"
	"strings"
)

var supportedLanguages = map[string]struct{}{
	"python":     {},
	"javascript": {},
	"java":       {},
	"cpp":        {},
	"c++":        {},
	"typescript": {},
	"ruby":       {},
	"go":         {},
	"rust":       {},
}

var supportedStyles = map[string]struct{}{
	"google": {},
	"numpy":  {},
	"sphinx": {},
}

// ValidateCode rejects empty or whitespace-only code before any model call.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("code input cannot be empty")
	}
	return nil
}

// ValidateLanguage checks the language label against the supported set.
// Matching is case-insensitive.
func ValidateLanguage(language string) error {
	if _, ok := supportedLanguages[strings.ToLower(strings.TrimSpace(language))]; !ok {
		return fmt.Errorf("unsupported language %q; supported languages: %s", language, strings.Join(SupportedLanguages(), ", "))
	}
	return nil
}

// ValidateStyle checks the docstring style against the supported set.
func ValidateStyle(style string) error {
	if _, ok := supportedStyles[strings.ToLower(strings.TrimSpace(style))]; !ok {
		return fmt.Errorf("unsupported style %q; supported styles: %s", style, strings.Join(SupportedStyles(), ", "))
	}
	return nil
}

// SupportedLanguages returns the language labels in sorted order.
func SupportedLanguages() []string {
	return sortedKeys(supportedLanguages)
}

// SupportedStyles returns the docstring styles in sorted order.
func SupportedStyles() []string {
	return sortedKeys(supportedStyles)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
