package main

import (
	"html"
	"strings"

	"github.com/atotto/clipboard"
)

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

func readClipboardText() (string, error) {
	return clipboard.ReadAll()
}

// cleanClipboardText recovers a layout snapshot from clipboard text. A payload
// that already starts with a JSON object is only stripped of control
// characters; anything else is treated as markup or prose wrapped around one.
func cleanClipboardText(text string) string {
	text = strings.TrimSpace(dropControl(text))
	if strings.HasPrefix(text, "{") {
		return text
	}
	if strings.Contains(text, "<") {
		text = html.UnescapeString(stripTags(text))
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return strings.TrimSpace(text)
	}
	return text[start : end+1]
}

func dropControl(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripTags removes everything between angle brackets. Entities are left
// escaped so literal brackets inside the payload survive.
func stripTags(markup string) string {
	var b strings.Builder
	b.Grow(len(markup))
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
