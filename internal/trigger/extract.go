package trigger

import "strings"

const valuePlaceholder = "{value}"

// ExtractBetween returns the trimmed text between start and end. With an
// empty end it returns everything after start. A missing marker or an empty
// result reports false.
func ExtractBetween(text, start, end string) (string, bool) {
	si := strings.Index(text, start)
	if si < 0 {
		return "", false
	}
	rest := text[si+len(start):]
	if end != "" {
		ei := strings.Index(rest, end)
		if ei < 0 {
			return "", false
		}
		rest = rest[:ei]
	}
	value := strings.TrimSpace(rest)
	return value, value != ""
}

// Render applies the extract rule to text, returning the reply and whether
// extraction succeeded. failText is used when the rule has no OnFail.
func (e Extract) Render(text, failText string) (string, bool) {
	value, ok := ExtractBetween(text, e.Start, e.End)
	if !ok {
		if e.OnFail != "" {
			return e.OnFail, false
		}
		return failText, false
	}
	template := e.Template
	if template == "" {
		template = valuePlaceholder
	}
	return strings.Replace(template, valuePlaceholder, value, 1), true
}
