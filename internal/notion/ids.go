package notion

import (
	"regexp"
	"strings"
)

var hexID = regexp.MustCompile(`[0-9a-fA-F]{32}`)

// FormatID normalizes a database or page id to the dashed 8-4-4-4-12 form.
// Inputs that are not 32 characters once dashes are removed are returned as is.
func FormatID(id string) string {
	id = strings.TrimSpace(id)
	clean := strings.ReplaceAll(id, "-", "")
	if len(clean) != 32 {
		return id
	}
	return clean[:8] + "-" + clean[8:12] + "-" + clean[12:16] + "-" + clean[16:20] + "-" + clean[20:]
}

// ExtractID accepts either a raw id or a notion.so URL and returns the
// formatted id. Database URLs look like
// https://www.notion.so/<workspace>/<id>?v=<view>, page URLs end in
// <Title>-<id>.
func ExtractID(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "notion.so/") && !strings.Contains(s, "notion.site/") {
		return FormatID(s)
	}

	path := s
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	last := path[strings.LastIndex(path, "/")+1:]
	last = strings.ReplaceAll(last, "-", "")

	if len(last) >= 32 && hexID.MatchString(last[len(last)-32:]) {
		return FormatID(last[len(last)-32:])
	}
	return FormatID(s)
}
