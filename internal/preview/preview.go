// Package preview shows what a post will look like before it is published.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"notionpost/internal/formatter"
)

type Preview struct {
	Title  string            `json:"title"`
	Format formatter.Format  `json:"format"`
	Blocks []formatter.Block `json:"blocks"`
	HTML   string            `json:"html"`
}

// Build assembles the blocks that would be posted and renders body as HTML.
func Build(title, body string, format formatter.Format) (Preview, error) {
	html, err := mdToHTML(body)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to render preview: %w", err)
	}
	return Preview{
		Title:  strings.TrimSpace(title),
		Format: format,
		Blocks: formatter.Assemble(title, body, format),
		HTML:   html,
	}, nil
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Text renders blocks for a terminal, one block per line.
func Text(blocks []formatter.Block) string {
	var sb strings.Builder
	n := 0
	for _, b := range blocks {
		if b.Kind == formatter.KindNumberedItem {
			n++
		} else {
			n = 0
		}
		switch b.Kind {
		case formatter.KindHeading1:
			sb.WriteString("# " + b.Text)
		case formatter.KindHeading2:
			sb.WriteString("## " + b.Text)
		case formatter.KindHeading3:
			sb.WriteString("### " + b.Text)
		case formatter.KindBulletItem:
			sb.WriteString("• " + b.Text)
		case formatter.KindNumberedItem:
			fmt.Fprintf(&sb, "%d. %s", n, b.Text)
		case formatter.KindDivider:
			sb.WriteString("────────")
		case formatter.KindCallout:
			sb.WriteString(strings.TrimSpace(b.Icon + " " + b.Text))
		default:
			sb.WriteString(b.Text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
