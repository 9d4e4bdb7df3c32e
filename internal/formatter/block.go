package formatter

import "strings"

// Kind identifies one of the block variants understood by the page writer.
type Kind string

const (
	KindHeading1     Kind = "heading1"
	KindHeading2     Kind = "heading2"
	KindHeading3     Kind = "heading3"
	KindParagraph    Kind = "paragraph"
	KindBulletItem   Kind = "bulletItem"
	KindNumberedItem Kind = "numberedItem"
	KindDivider      Kind = "divider"
	KindCallout      Kind = "callout"
)

// Block is one unit of document content. Icon is only set for callouts.
type Block struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

func Heading1(text string) Block     { return textBlock(KindHeading1, text) }
func Heading2(text string) Block     { return textBlock(KindHeading2, text) }
func Heading3(text string) Block     { return textBlock(KindHeading3, text) }
func Paragraph(text string) Block    { return textBlock(KindParagraph, text) }
func BulletItem(text string) Block   { return textBlock(KindBulletItem, text) }
func NumberedItem(text string) Block { return textBlock(KindNumberedItem, text) }
func Divider() Block                 { return Block{Kind: KindDivider} }

func Callout(text, icon string) Block {
	b := textBlock(KindCallout, text)
	b.Icon = icon
	return b
}

func textBlock(kind Kind, text string) Block {
	return Block{Kind: kind, Text: strings.TrimSpace(text)}
}

// Format selects the envelope wrapped around the parsed body.
type Format string

const (
	FormatQA      Format = "qa"
	FormatBlog    Format = "blog"
	FormatSummary Format = "summary"
	FormatGuide   Format = "guide"
	FormatPlain   Format = "plain"
)

// Formats lists the known formats in the order they are offered to users.
var Formats = []Format{FormatBlog, FormatQA, FormatSummary, FormatGuide, FormatPlain}

// ParseFormat maps a user supplied name onto a Format. Anything unknown is plain.
func ParseFormat(s string) Format {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatQA, FormatBlog, FormatSummary, FormatGuide:
		return f
	default:
		return FormatPlain
	}
}
