package notion

import "strings"

// Property names of the content database.
const (
	PropTitle    = "제목"
	PropCategory = "카테고리"
	PropTags     = "태그"

	DefaultCategory      = "미분류"
	DefaultDatabaseTitle = "GZ 콘텐츠 데이터베이스"
)

type selectOption struct {
	Name string `json:"name"`
}

// PageProperties builds the property map for a new page in the content database.
func PageProperties(title, category string, tags []string) map[string]any {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	opts := make([]selectOption, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			opts = append(opts, selectOption{Name: tag})
		}
	}

	return map[string]any{
		PropTitle:    map[string]any{"title": Text(title)},
		PropCategory: map[string]any{"select": selectOption{Name: category}},
		PropTags:     map[string]any{"multi_select": opts},
	}
}

// DatabaseSchema is the property layout used when creating a content database.
func DatabaseSchema() map[string]any {
	empty := struct{}{}
	return map[string]any{
		PropTitle:    map[string]any{"title": empty},
		PropTags:     map[string]any{"multi_select": empty},
		PropCategory: map[string]any{"select": empty},
	}
}

// ParseTags splits a comma separated tag list, dropping blanks.
func ParseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
