package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"notionpost/internal/storage"
)

// AutosavePrefix starts the key of every autosave snapshot.
const AutosavePrefix = "autosave_"

type Snapshot struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
	SavedAt   time.Time `json:"saved_at"`
}

type Autosave struct {
	store storage.Store
	now   func() time.Time
}

func NewAutosave(store storage.Store) *Autosave {
	return &Autosave{store: store, now: time.Now}
}

// Save writes a snapshot unless both title and content are blank.
// It reports whether anything was written.
func (a *Autosave) Save(ctx context.Context, title, content string) (bool, error) {
	content = strings.TrimSpace(content)
	if strings.TrimSpace(title) == "" && content == "" {
		return false, nil
	}
	now := a.now()
	snap := Snapshot{
		Title:     title,
		Content:   content,
		Timestamp: now.UTC().Format(TimestampLayout),
		SavedAt:   now.UTC(),
	}
	if err := storage.PutJSON(ctx, a.store, AutosavePrefix+snap.Timestamp, snap); err != nil {
		return false, err
	}
	return true, nil
}

// List returns snapshots, newest first.
func (a *Autosave) List(ctx context.Context) ([]Snapshot, error) {
	keys, err := a.store.Keys(ctx, AutosavePrefix)
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		var snap Snapshot
		if err := storage.GetJSON(ctx, a.store, keys[i], &snap); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Latest returns the newest snapshot, or storage.ErrNotFound.
func (a *Autosave) Latest(ctx context.Context) (Snapshot, error) {
	list, err := a.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if len(list) == 0 {
		return Snapshot{}, storage.ErrNotFound
	}
	return list[0], nil
}

// Prune keeps the newest keep snapshots and deletes the rest.
func (a *Autosave) Prune(ctx context.Context, keep int) (int, error) {
	keys, err := a.store.Keys(ctx, AutosavePrefix)
	if err != nil {
		return 0, err
	}
	excess := len(keys) - max(keep, 0)
	removed := 0
	for i := 0; i < excess; i++ {
		if err := a.store.Delete(ctx, keys[i]); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
