package validation

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements whose text content is dropped together with the tags.
var discardContent = map[string]struct{}{
	"script":   {},
	"style":    {},
	"textarea": {},
	"option":   {},
	"noscript": {},
}

// StripHTML removes every tag, comment and doctype and keeps text exactly as
// written, entities included. Stripping repeats until nothing changes so that
// fragments like "<<b>b>" cannot reassemble into markup.
func StripHTML(value string) string {
	for strings.Contains(value, "<") {
		stripped := stripOnce(value)
		if stripped == value {
			break
		}
		value = stripped
	}
	return value
}

func stripOnce(value string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(value))
	var out strings.Builder
	out.Grow(len(value))
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return out.String()
		case html.TextToken:
			if skipDepth == 0 {
				out.Write(tokenizer.Raw())
			}
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if _, ok := discardContent[string(name)]; ok {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if _, ok := discardContent[string(name)]; ok && skipDepth > 0 {
				skipDepth--
			}
		}
	}
}

// CollapseSpaces trims the value and folds every whitespace run into a single space.
func CollapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Clean is the default text chain: strip markup, trim, collapse whitespace.
func Clean(value string) string {
	return CollapseSpaces(StripHTML(value))
}
