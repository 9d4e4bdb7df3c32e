package notion

import (
	"unicode/utf8"

	"notionpost/internal/formatter"
)

// MaxTextLength is the longest content Notion accepts in a single rich text item.
const MaxTextLength = 2000

// APIBlock is a block in the shape the Notion API expects, e.g.
// {"object":"block","type":"paragraph","paragraph":{"rich_text":[...]}}.
type APIBlock map[string]any

type RichText struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

type textBody struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
}

var blockTypes = map[formatter.Kind]string{
	formatter.KindHeading1:     "heading_1",
	formatter.KindHeading2:     "heading_2",
	formatter.KindHeading3:     "heading_3",
	formatter.KindParagraph:    "paragraph",
	formatter.KindBulletItem:   "bulleted_list_item",
	formatter.KindNumberedItem: "numbered_list_item",
	formatter.KindDivider:      "divider",
	formatter.KindCallout:      "callout",
}

// ToAPIBlocks maps formatter blocks onto Notion block objects, preserving order.
// Unknown kinds are written as paragraphs.
func ToAPIBlocks(blocks []formatter.Block) []APIBlock {
	out := make([]APIBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toAPIBlock(b))
	}
	return out
}

func toAPIBlock(b formatter.Block) APIBlock {
	typ, ok := blockTypes[b.Kind]
	if !ok {
		typ = "paragraph"
	}
	if b.Kind == formatter.KindDivider {
		return APIBlock{"object": "block", "type": typ, typ: struct{}{}}
	}

	body := textBody{RichText: Text(b.Text)}
	if b.Kind == formatter.KindCallout && b.Icon != "" {
		body.Icon = &Icon{Type: "emoji", Emoji: b.Icon}
	}
	return APIBlock{"object": "block", "type": typ, typ: body}
}

// Text builds a rich text array for s, split into segments Notion will accept.
func Text(s string) []RichText {
	chunks := splitRunes(s, MaxTextLength)
	out := make([]RichText, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, RichText{Type: "text", Text: TextContent{Content: c}})
	}
	return out
}

func splitRunes(s string, limit int) []string {
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		n, i := 0, 0
		for i < len(s) && n < limit {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			n++
		}
		chunks = append(chunks, s[:i])
		s = s[i:]
	}
	return chunks
}
