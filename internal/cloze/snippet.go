package cloze

import "regexp"

// Snippet placeholders look like @{name}.
var snippetRe = regexp.MustCompile(`@\{([A-Za-z0-9_.\-]+)\}`)

// ReplaceSnippets substitutes every @{name} placeholder with its text from
// snippets in a single pass. Replacement text is not scanned again.
// Placeholders without an entry are left verbatim.
func ReplaceSnippets(text string, snippets map[string]string) string {
	if len(snippets) == 0 {
		return text
	}
	return snippetRe.ReplaceAllStringFunc(text, func(ph string) string {
		name := snippetRe.FindStringSubmatch(ph)[1]
		if v, ok := snippets[name]; ok {
			return v
		}
		return ph
	})
}

// UnresolvedSnippets lists, in order of first appearance, the placeholder
// names in text that snippets does not define.
func UnresolvedSnippets(text string, snippets map[string]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range snippetRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if _, ok := snippets[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
