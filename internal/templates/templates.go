// Package templates keeps named body templates in the local store.
package templates

import (
	"context"
	"errors"
	"strings"
	"time"

	"notionpost/internal/storage"
)

// StorageKey is where the template list lives.
const StorageKey = "notionpost_templates"

var (
	ErrNotFound     = errors.New("template not found")
	ErrExists       = errors.New("template already exists")
	ErrEmptyName    = errors.New("template name is required")
	ErrEmptyContent = errors.New("template content is required")
)

type Template struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is the title/content pair a template is applied to.
type Draft struct {
	Title   string
	Content string
}

type Manager struct {
	store storage.Store
	now   func() time.Time
}

func NewManager(store storage.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// List returns templates in the order they were first saved.
func (m *Manager) List(ctx context.Context) ([]Template, error) {
	var list []Template
	err := storage.GetJSON(ctx, m.store, StorageKey, &list)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return list, err
}

func (m *Manager) Get(ctx context.Context, name string) (Template, error) {
	list, err := m.List(ctx)
	if err != nil {
		return Template{}, err
	}
	if i := indexOf(list, name); i >= 0 {
		return list[i], nil
	}
	return Template{}, ErrNotFound
}

// Save stores a template. An existing template with the same name is only
// replaced when overwrite is set; otherwise ErrExists is returned.
func (m *Manager) Save(ctx context.Context, name, content string, overwrite bool) (Template, error) {
	name = strings.TrimSpace(name)
	content = strings.TrimSpace(content)
	if name == "" {
		return Template{}, ErrEmptyName
	}
	if content == "" {
		return Template{}, ErrEmptyContent
	}

	list, err := m.List(ctx)
	if err != nil {
		return Template{}, err
	}

	tpl := Template{Name: name, Content: content, CreatedAt: m.now().UTC()}
	if i := indexOf(list, name); i >= 0 {
		if !overwrite {
			return Template{}, ErrExists
		}
		list[i] = tpl
	} else {
		list = append(list, tpl)
	}
	return tpl, m.Replace(ctx, list)
}

func (m *Manager) Delete(ctx context.Context, name string) error {
	list, err := m.List(ctx)
	if err != nil {
		return err
	}
	i := indexOf(list, name)
	if i < 0 {
		return ErrNotFound
	}
	return m.Replace(ctx, append(list[:i], list[i+1:]...))
}

// Apply replaces the draft content with the template. The template name
// becomes the title only when the draft has none.
func (m *Manager) Apply(ctx context.Context, name string, draft Draft) (Draft, error) {
	tpl, err := m.Get(ctx, name)
	if err != nil {
		return draft, err
	}
	draft.Content = tpl.Content
	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = tpl.Name
	}
	return draft, nil
}

// Replace overwrites the whole template list.
func (m *Manager) Replace(ctx context.Context, list []Template) error {
	if list == nil {
		list = []Template{}
	}
	return storage.PutJSON(ctx, m.store, StorageKey, list)
}

func indexOf(list []Template, name string) int {
	for i, t := range list {
		if t.Name == name {
			return i
		}
	}
	return -1
}
