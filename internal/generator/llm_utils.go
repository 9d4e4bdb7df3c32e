package generator

import "strings"

// cleanMarkdownOutput strips a fence the model sometimes wraps its whole answer in.
func cleanMarkdownOutput(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	for _, lang := range []string{"```markdown", "```md", "```text", "```"} {
		if strings.HasPrefix(text, lang) {
			text = strings.TrimPrefix(text, lang)
			break
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
