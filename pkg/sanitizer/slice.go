package sanitizer

import "strings"

// NormalizeStringSlice applies normalizer to every item, dropping empties and
// duplicates while keeping first-seen order.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return items
	}

	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		normalized := normalizer(item)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}

// CanonicalChoice maps s onto the matching entry of choices ignoring case and
// extra whitespace. Unknown values come back trimmed but otherwise untouched.
func CanonicalChoice(s string, choices []string) string {
	s = TrimAndNormalize(s)
	for _, c := range choices {
		if strings.EqualFold(s, c) {
			return c
		}
	}
	return s
}
