// Package validation turns untyped request payloads into normalized input
// values, collecting every field failure instead of stopping at the first.
package validation

import (
	"sort"
	"strings"
)

// Errors maps a field path ("programExercises.0.coreSets.1.reps") to the
// first message recorded for it.
type Errors map[string]string

func (e Errors) Add(path, message string) {
	if _, exists := e[path]; exists {
		return
	}
	e[path] = message
}

func (e Errors) Has(path string) bool {
	_, ok := e[path]
	return ok
}

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil when nothing was recorded so callers never hand out a
// non-nil error wrapping an empty map.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
