package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"notionpost/internal/formatter"
	"notionpost/internal/generator"
	"notionpost/internal/history"
	"notionpost/internal/notion"
	"notionpost/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	history  *history.Store
	links    *history.Links
	autosave *history.Autosave

	mu    sync.Mutex
	pages []map[string]any
}

type failingGenerator struct{ err error }

func (f failingGenerator) Generate(context.Context, string) (string, error) { return "", f.err }

func newFixture(t *testing.T, gen generator.Generator, dbProps string) *fixture {
	t.Helper()
	f := &fixture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			if dbProps == "" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"code":"object_not_found","message":"no db"}`)
				return
			}
			_, _ = io.WriteString(w, `{"id":"db","title":[{"plain_text":"Posts"}],"properties":`+dbProps+`}`)
		case r.URL.Path == "/pages":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.pages = append(f.pages, body)
			f.mu.Unlock()
			_, _ = io.WriteString(w, `{"id":"p1","url":"https://notion.so/p1"}`)
		case r.URL.Path == "/databases":
			_, _ = io.WriteString(w, `{"id":"new-db","url":"https://notion.so/new-db"}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := notion.NewClient(notion.Config{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	backend, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "pub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	f.history = history.NewStore(backend)
	f.links = history.NewLinks(backend)
	f.autosave = history.NewAutosave(backend)
	f.svc = New(Deps{
		Generator: gen,
		Notion:    client,
		History:   f.history,
		Links:     f.links,
		Autosave:  f.autosave,
		AutoSave:  true,
	})
	return f
}

const fullSchema = `{"제목":{},"카테고리":{},"태그":{}}`

func TestGenerate(t *testing.T) {
	f := newFixture(t, generator.MockGenerator{}, fullSchema)
	ctx := context.Background()

	text, err := f.svc.Generate(ctx, GenerateRequest{Title: "Go", Content: "채널", Format: formatter.FormatQA})
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	entries, err := f.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, text, entries[0].Content)

	snap, err := f.autosave.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "채널", snap.Content)
}

func TestGenerate_Validation(t *testing.T) {
	f := newFixture(t, generator.MockGenerator{}, fullSchema)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, GenerateRequest{Title: " ", Content: "x"})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = f.svc.Generate(ctx, GenerateRequest{Title: "x", Content: ""})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = New(Deps{}).Generate(ctx, GenerateRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrNoGenerator)
}

func TestGenerate_ModelError(t *testing.T) {
	boom := errors.New("quota")
	f := newFixture(t, failingGenerator{err: boom}, fullSchema)

	_, err := f.svc.Generate(context.Background(), GenerateRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, boom)

	entries, err := f.history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPost(t *testing.T) {
	f := newFixture(t, nil, fullSchema)
	ctx := context.Background()

	res, err := f.svc.Post(ctx, PostRequest{
		DatabaseID: "db",
		Title:      "새 글",
		Content:    "첫 문단\n\n- 하나\n- 둘",
		Format:     formatter.FormatBlog,
		Category:   "Dev",
		Tags:       []string{"go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://notion.so/p1", res.Page.URL)

	want := formatter.Assemble("새 글", "첫 문단\n\n- 하나\n- 둘", formatter.FormatBlog)
	assert.Equal(t, len(want), res.Blocks)

	require.Len(t, f.pages, 1)
	children := f.pages[0]["children"].([]any)
	assert.Len(t, children, len(want))
	first := children[0].(map[string]any)
	assert.Equal(t, "heading_1", first["type"])

	props := f.pages[0]["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Dev"}, props[notion.PropCategory].(map[string]any)["select"])

	links, err := f.links.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "새 글", links[0].Title)
}

func TestPost_Validation(t *testing.T) {
	f := newFixture(t, nil, fullSchema)
	ctx := context.Background()

	_, err := New(Deps{}).Post(ctx, PostRequest{DatabaseID: "db", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNoNotion)
	_, err = f.svc.Post(ctx, PostRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = f.svc.Post(ctx, PostRequest{DatabaseID: "db", Content: "c"})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = f.svc.Post(ctx, PostRequest{DatabaseID: "db", Title: "t"})
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Empty(t, f.pages)
}

func TestCheckDatabase_MissingProperties(t *testing.T) {
	f := newFixture(t, nil, `{"제목":{}}`)

	db, err := f.svc.CheckDatabase(context.Background(), "db")
	require.ErrorIs(t, err, ErrMissingSchema)
	assert.Equal(t, "Posts", db.Name())
	assert.ErrorContains(t, err, notion.PropCategory)
}

func TestCreateDatabase(t *testing.T) {
	f := newFixture(t, nil, fullSchema)
	db, err := f.svc.CreateDatabase(context.Background(), "page", "")
	require.NoError(t, err)
	assert.Equal(t, "new-db", db.ID)
}

func TestVerify(t *testing.T) {
	f := newFixture(t, generator.MockGenerator{}, fullSchema)
	report := f.svc.Verify(context.Background(), "db")
	assert.True(t, report.OK())
	assert.Equal(t, "Posts", report.Database.Name())
}

func TestVerify_ReportsBothFailures(t *testing.T) {
	f := newFixture(t, failingGenerator{err: errors.New("bad key")}, "")
	report := f.svc.Verify(context.Background(), "db")

	assert.False(t, report.OK())
	assert.ErrorContains(t, report.GeneratorErr, "bad key")
	var apiErr *notion.APIError
	require.ErrorAs(t, report.DatabaseErr, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
