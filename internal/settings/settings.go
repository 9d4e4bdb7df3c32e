// Package settings persists user preferences and moves them, together with
// templates and history, in and out of a portable bundle.
package settings

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"notionpost/internal/config"
	"notionpost/internal/formatter"
	"notionpost/internal/history"
	"notionpost/internal/storage"
	"notionpost/internal/templates"
)

const StorageKey = "notionPostConfig"

var ErrInvalidBundle = errors.New("invalid settings bundle")

type Settings struct {
	Token        string   `json:"token"`
	DatabaseID   string   `json:"database_id"`
	Format       string   `json:"format"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	GeminiAPIKey string   `json:"gemini_api_key"`
	AutoSave     bool     `json:"autoSave"`
	AutoPreview  bool     `json:"autoPreview"`
}

func Defaults() Settings {
	return Settings{
		Format:      string(formatter.FormatBlog),
		Category:    "AI",
		Tags:        []string{"AI", "Gemini", "자동화"},
		AutoSave:    true,
		AutoPreview: true,
	}
}

type Manager struct {
	store     storage.Store
	templates *templates.Manager
	history   *history.Store
}

func NewManager(store storage.Store) *Manager {
	return &Manager{
		store:     store,
		templates: templates.NewManager(store),
		history:   history.NewStore(store),
	}
}

// Load returns the stored settings, or Defaults when nothing was saved.
// Fields missing from the stored document keep their default value.
func (m *Manager) Load(ctx context.Context) (Settings, error) {
	s := Defaults()
	err := storage.GetJSON(ctx, m.store, StorageKey, &s)
	if errors.Is(err, storage.ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

func (m *Manager) Save(ctx context.Context, s Settings) error {
	return storage.PutJSON(ctx, m.store, StorageKey, s)
}

func (m *Manager) Reset(ctx context.Context) error {
	return m.store.Delete(ctx, StorageKey)
}

// FillConfig copies stored values into the fields cfg leaves empty.
func (s Settings) FillConfig(cfg *config.Config) {
	fill(&cfg.Notion.Token, s.Token)
	fill(&cfg.Notion.DatabaseID, s.DatabaseID)
	if cfg.AI.Provider == "" || cfg.AI.Provider == "gemini" {
		fill(&cfg.AI.APIKey, s.GeminiAPIKey)
	}
	fill(&cfg.Defaults.Format, s.Format)
	fill(&cfg.Defaults.Category, s.Category)
	if len(cfg.Defaults.Tags) == 0 {
		cfg.Defaults.Tags = append([]string(nil), s.Tags...)
	}
	if cfg.Defaults.AutoSave == nil {
		autoSave := s.AutoSave
		cfg.Defaults.AutoSave = &autoSave
	}
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// Bundle is the export document. A nil section is absent.
type Bundle struct {
	Config    *Settings            `json:"config,omitempty"`
	Templates []templates.Template `json:"templates"`
	History   []history.Entry      `json:"history"`
}

func (m *Manager) Export(ctx context.Context) (Bundle, error) {
	s, err := m.Load(ctx)
	if err != nil {
		return Bundle{}, err
	}
	tpls, err := m.templates.List(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read templates: %w", err)
	}
	entries, err := m.history.List(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read history: %w", err)
	}
	return Bundle{
		Config:    &s,
		Templates: nonNil(tpls),
		History:   nonNil(entries),
	}, nil
}

// Import overwrites the sections present in b and leaves the others alone.
func (m *Manager) Import(ctx context.Context, b Bundle) error {
	if b.Config == nil && b.Templates == nil && b.History == nil {
		return ErrInvalidBundle
	}
	if b.Config != nil {
		if err := m.Save(ctx, *b.Config); err != nil {
			return err
		}
	}
	if b.Templates != nil {
		if err := m.templates.Replace(ctx, b.Templates); err != nil {
			return err
		}
	}
	if b.History != nil {
		if err := m.history.Replace(ctx, b.History); err != nil {
			return err
		}
	}
	return nil
}

// WriteBundle encodes b as indented JSON.
func WriteBundle(w io.Writer, b Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(b)
}

//go:embed bundle.schema.json
var bundleSchemaText string

var bundleSchema = jsonschema.MustCompileString("bundle.schema.json", bundleSchemaText)

// ReadBundle decodes a bundle and checks it against the export schema.
func ReadBundle(r io.Reader) (Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Bundle{}, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := bundleSchema.Validate(doc); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return b, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
