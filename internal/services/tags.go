package services

import (
	"strings"
)

// resolveTags turns a comma separated filter into the vocabulary values that
// contain any of its fragments, case-insensitively. ok is false when a filter
// was given but matched nothing, in which case the listing must be empty.
func resolveTags(filter string, vocabulary []string) (tags []string, ok bool) {
	fragments := make([]string, 0)
	for _, part := range strings.Split(filter, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			fragments = append(fragments, part)
		}
	}
	if len(fragments) == 0 {
		return nil, true
	}

	for _, candidate := range vocabulary {
		for _, fragment := range fragments {
			if strings.Contains(candidate, fragment) {
				tags = append(tags, candidate)
				break
			}
		}
	}
	return tags, len(tags) > 0
}
