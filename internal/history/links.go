package history

import (
	"context"
	"errors"
	"time"

	"notionpost/internal/storage"
)

const (
	LinksKey = "notionPostLinks"
	MaxLinks = 10
)

// Link points at a page created in Notion.
type Link struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// Links keeps the most recent page links, newest first.
type Links struct {
	store storage.Store
	now   func() time.Time
}

func NewLinks(store storage.Store) *Links {
	return &Links{store: store, now: time.Now}
}

func (l *Links) Add(ctx context.Context, title, url string) (Link, error) {
	list, err := l.List(ctx)
	if err != nil {
		return Link{}, err
	}
	link := Link{Title: title, URL: url, Timestamp: l.now().UTC()}
	list = append([]Link{link}, list...)
	if len(list) > MaxLinks {
		list = list[:MaxLinks]
	}
	return link, storage.PutJSON(ctx, l.store, LinksKey, list)
}

func (l *Links) List(ctx context.Context) ([]Link, error) {
	var list []Link
	err := storage.GetJSON(ctx, l.store, LinksKey, &list)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return list, err
}
