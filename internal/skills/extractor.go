package skills

import "strings"

// Extract scans a free-text job description for known skills.
//
// Matching is case-insensitive substring containment against Vocabulary, and
// the result preserves vocabulary order, not the order of mentions in the
// description. Each vocabulary entry contributes at most once. When the
// description mentions front-end work, HTML and CSS are appended unless the
// scan already found them. An empty result is replaced with Fallback.
func Extract(description string) []string {
	lower := strings.ToLower(description)

	found := make([]string, 0, 8)
	for _, skill := range Vocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}

	if strings.Contains(lower, "frontend") || strings.Contains(lower, "front-end") {
		for _, skill := range frontEndBaseline {
			if !containsFold(found, skill) {
				found = append(found, skill)
			}
		}
	}

	if len(found) == 0 {
		return append([]string(nil), Fallback...)
	}

	return found
}

func containsFold(list []string, target string) bool {
	for _, s := range list {
		if strings.EqualFold(s, target) {
			return true
		}
	}
	return false
}
