// Package history records generated and posted content, the links of
// created pages and autosave snapshots.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"notionpost/internal/storage"
)

const (
	StorageKey = "notionpost_history"

	// TimestampLayout is the compact UTC stamp shown next to entries.
	TimestampLayout = "20060102150405"
)

var ErrNotFound = errors.New("history entry not found")

type Entry struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// Label is the one-line form used in listings.
func (e Entry) Label() string {
	return fmt.Sprintf("%s - %s", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Title)
}

// Preview is the multi-line form used when an entry is selected.
func (e Entry) Preview() string {
	return fmt.Sprintf("제목: %s\n\n%s", e.Title, e.Content)
}

type Store struct {
	store storage.Store
	now   func() time.Time
}

func NewStore(store storage.Store) *Store {
	return &Store{store: store, now: time.Now}
}

func (s *Store) Add(ctx context.Context, title, content string) (Entry, error) {
	now := s.now()
	e := Entry{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Timestamp: now.UTC().Format(TimestampLayout),
		CreatedAt: now.UTC(),
	}

	all, err := s.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	if err := s.Replace(ctx, append(all, e)); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns all entries, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(all)
	return all, nil
}

// Search matches term case-insensitively against title and content.
// An empty term lists everything.
func (s *Store) Search(ctx context.Context, term string) ([]Entry, error) {
	all, err := s.List(ctx)
	if err != nil || term == "" {
		return all, err
	}
	term = strings.ToLower(term)

	var out []Entry
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Title), term) || strings.Contains(strings.ToLower(e.Content), term) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get finds an entry by id or by its timestamp.
func (s *Store) Get(ctx context.Context, ref string) (Entry, error) {
	all, err := s.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	if i := find(all, ref); i >= 0 {
		return all[i], nil
	}
	return Entry{}, ErrNotFound
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := find(all, ref)
	if i < 0 {
		return ErrNotFound
	}
	return s.Replace(ctx, append(all[:i], all[i+1:]...))
}

// Replace overwrites the stored history.
func (s *Store) Replace(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	return storage.PutJSON(ctx, s.store, StorageKey, entries)
}

func (s *Store) load(ctx context.Context) ([]Entry, error) {
	var all []Entry
	err := storage.GetJSON(ctx, s.store, StorageKey, &all)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return all, err
}

func find(all []Entry, ref string) int {
	for i, e := range all {
		if (e.ID != "" && e.ID == ref) || e.Timestamp == ref {
			return i
		}
	}
	return -1
}

func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
