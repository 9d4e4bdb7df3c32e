package formatter

import (
	"regexp"
	"strings"
	"unicode"
)

// ws is whitespace in the Unicode sense: RE2's \s alone is ASCII only, so
// no-break and other separator spaces are added explicitly.
const ws = `[\s\v\p{Z}\x{85}\x{FEFF}]`

var (
	paragraphBreak = regexp.MustCompile(`\n` + ws + `*\n`)

	bulletLead  = regexp.MustCompile(`^` + ws + `*[•\-*]` + ws)
	bulletSplit = regexp.MustCompile(`(?m)^` + ws + `*[•\-*]` + ws + `+`)

	numberLead  = regexp.MustCompile(`^` + ws + `*\d+\.` + ws)
	numberSplit = regexp.MustCompile(`(?m)^` + ws + `*\d+\.` + ws + `+`)
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || r == '\uFEFF'
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// ParseBody turns free text into blocks, one paragraph at a time.
//
// Paragraphs are separated by blank lines. Each paragraph becomes a heading,
// a run of list items or a single paragraph block, checked in that order.
// List detection is a line-oriented heuristic: a continuation line that does
// not start with a marker is folded into the item above it, and nesting is
// flattened.
func ParseBody(body string) []Block {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	blocks := make([]Block, 0)
	for _, raw := range paragraphBreak.Split(body, -1) {
		p := trimSpace(raw)
		if p == "" {
			continue
		}
		blocks = append(blocks, parseParagraph(p)...)
	}
	return blocks
}

func parseParagraph(p string) []Block {
	switch {
	case strings.HasPrefix(p, "# "):
		return []Block{Heading1(p[2:])}
	case strings.HasPrefix(p, "## "):
		return []Block{Heading2(p[3:])}
	case strings.HasPrefix(p, "### "):
		return []Block{Heading3(p[4:])}
	case bulletLead.MatchString(p):
		// A trimmed paragraph never ends in a marker, so the split always
		// leaves at least one item.
		if blocks := listBlocks(splitItems(bulletSplit, p), BulletItem); blocks != nil {
			return blocks
		}
	case numberLead.MatchString(p):
		if blocks := listBlocks(splitItems(numberSplit, p), NumberedItem); blocks != nil {
			return blocks
		}
	}
	return []Block{Paragraph(p)}
}

func splitItems(marker *regexp.Regexp, p string) []string {
	return nonBlank(marker.Split(p, -1))
}

func nonBlank(parts []string) []string {
	var out []string
	for _, part := range parts {
		if trimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

func listBlocks(items []string, mk func(string) Block) []Block {
	if len(items) == 0 {
		return nil
	}
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, mk(trimSpace(item)))
	}
	return blocks
}
