package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"notionpost/internal/formatter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatID(t *testing.T) {
	assert.Equal(t, "0123abcd-4567-89ef-0123-456789abcdef", FormatID("0123abcd456789ef0123456789abcdef"))
	assert.Equal(t, "0123abcd-4567-89ef-0123-456789abcdef", FormatID("0123abcd-4567-89ef-0123-456789abcdef"))
	assert.Equal(t, "short-id", FormatID("short-id"))
	assert.Equal(t, "", FormatID(""))
}

func TestExtractID(t *testing.T) {
	want := "0123abcd-4567-89ef-0123-456789abcdef"
	assert.Equal(t, want, ExtractID("https://www.notion.so/myspace/0123abcd456789ef0123456789abcdef?v=ffff"))
	assert.Equal(t, want, ExtractID("https://www.notion.so/My-Page-0123abcd456789ef0123456789abcdef"))
	assert.Equal(t, want, ExtractID("0123abcd456789ef0123456789abcdef"))
	assert.Equal(t, "https://www.notion.so/nothing-here", ExtractID("https://www.notion.so/nothing-here"))
}

func TestToAPIBlocks_Shapes(t *testing.T) {
	blocks := []formatter.Block{
		formatter.Heading1("h1"),
		formatter.BulletItem("item"),
		formatter.Divider(),
		formatter.Callout("note", "💡"),
	}
	data, err := json.Marshal(ToAPIBlocks(blocks))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 4)

	assert.Equal(t, "heading_1", got[0]["type"])
	h1 := got[0]["heading_1"].(map[string]any)
	rt := h1["rich_text"].([]any)[0].(map[string]any)
	assert.Equal(t, "h1", rt["text"].(map[string]any)["content"])

	assert.Equal(t, "bulleted_list_item", got[1]["type"])
	assert.Equal(t, "divider", got[2]["type"])
	assert.Equal(t, map[string]any{}, got[2]["divider"])

	callout := got[3]["callout"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "emoji", "emoji": "💡"}, callout["icon"])
	for _, b := range got {
		assert.Equal(t, "block", b["object"])
	}
}

func TestText_SplitsLongContent(t *testing.T) {
	long := strings.Repeat("가", MaxTextLength*2+5)
	parts := Text(long)
	require.Len(t, parts, 3)
	assert.Len(t, []rune(parts[0].Text.Content), MaxTextLength)
	assert.Len(t, []rune(parts[2].Text.Content), 5)
}

func TestPageProperties(t *testing.T) {
	props := PageProperties("Title", "", []string{" go ", "", "notion"})
	assert.Equal(t, selectOption{Name: DefaultCategory}, props[PropCategory].(map[string]any)["select"])
	assert.Equal(t, []selectOption{{Name: "go"}, {Name: "notion"}}, props[PropTags].(map[string]any)["multi_select"])
	assert.Equal(t, []string{"a", "b", "c"}, ParseTags("a, b,,c ,"))
	assert.Nil(t, ParseTags(" , "))
}

type recorded struct {
	method string
	path   string
	header http.Header
	body   map[string]any
}

func fakeNotion(t *testing.T, handle func(r recorded) (int, string)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, header: r.Header.Clone()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		status, body := handle(rec)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(Config{Token: "  "})
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestClient_RetrieveDatabase(t *testing.T) {
	srv, calls := fakeNotion(t, func(r recorded) (int, string) {
		return http.StatusOK, `{"id":"db","title":[{"plain_text":"My "},{"plain_text":"DB"}],"properties":{"제목":{}}}`
	})
	c, err := NewClient(Config{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	db, err := c.RetrieveDatabase(context.Background(), "0123abcd456789ef0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "My DB", db.Name())
	assert.True(t, db.HasProperty(PropTitle))
	assert.False(t, db.HasProperty(PropTags))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/databases/0123abcd-4567-89ef-0123-456789abcdef", call.path)
	assert.Equal(t, "Bearer secret", call.header.Get("Authorization"))
	assert.Equal(t, DefaultVersion, call.header.Get("Notion-Version"))
}

func TestClient_CreatePageBatchesChildren(t *testing.T) {
	srv, calls := fakeNotion(t, func(r recorded) (int, string) {
		if r.method == http.MethodPost {
			return http.StatusOK, `{"id":"page-1","url":"https://notion.so/page-1"}`
		}
		return http.StatusOK, `{}`
	})
	c, err := NewClient(Config{Token: "secret", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	var blocks []formatter.Block
	for i := 0; i < 250; i++ {
		blocks = append(blocks, formatter.Paragraph("p"))
	}
	page, err := c.CreatePage(context.Background(), PageRequest{
		DatabaseID: "db",
		Properties: PageProperties("T", "c", nil),
		Children:   ToAPIBlocks(blocks),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://notion.so/page-1", page.URL)

	require.Len(t, *calls, 3)
	first := (*calls)[0]
	assert.Equal(t, "/pages", first.path)
	assert.Len(t, first.body["children"], MaxChildren)
	assert.Equal(t, map[string]any{"database_id": "db"}, first.body["parent"])

	assert.Equal(t, http.MethodPatch, (*calls)[1].method)
	assert.Equal(t, "/blocks/page-1/children", (*calls)[1].path)
	assert.Len(t, (*calls)[1].body["children"], 100)
	assert.Len(t, (*calls)[2].body["children"], 50)
}

func TestClient_CreateDatabase(t *testing.T) {
	srv, calls := fakeNotion(t, func(r recorded) (int, string) {
		return http.StatusOK, `{"id":"new-db"}`
	})
	c, err := NewClient(Config{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	db, err := c.CreateDatabase(context.Background(), "0123abcd456789ef0123456789abcdef", "")
	require.NoError(t, err)
	assert.Equal(t, "new-db", db.ID)

	body := (*calls)[0].body
	assert.Equal(t, map[string]any{"page_id": "0123abcd-4567-89ef-0123-456789abcdef"}, body["parent"])
	props := body["properties"].(map[string]any)
	assert.Contains(t, props, PropTitle)
	assert.Contains(t, props, PropTags)
	assert.Contains(t, props, PropCategory)
	title := body["title"].([]any)[0].(map[string]any)["text"].(map[string]any)["content"]
	assert.Equal(t, DefaultDatabaseTitle, title)
}

func TestClient_APIError(t *testing.T) {
	srv, _ := fakeNotion(t, func(r recorded) (int, string) {
		return http.StatusNotFound, `{"object":"error","status":404,"code":"object_not_found","message":"Could not find database"}`
	})
	c, err := NewClient(Config{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.RetrieveDatabase(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Equal(t, "Could not find database", apiErr.Message)
}

func TestClient_APIErrorPlainBody(t *testing.T) {
	srv, _ := fakeNotion(t, func(r recorded) (int, string) {
		return http.StatusBadGateway, "upstream down"
	})
	c, err := NewClient(Config{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "/users/me", nil, nil)
	assert.EqualError(t, err, "notion api 502: upstream down")
}

func TestClient_DoRawMessage(t *testing.T) {
	srv, calls := fakeNotion(t, func(r recorded) (int, string) {
		return http.StatusOK, `{"ok":true}`
	})
	c, err := NewClient(Config{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	var out json.RawMessage
	err = c.Do(context.Background(), http.MethodPost, "/search", json.RawMessage(`{"query":"x"}`), &out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(out))
	assert.Equal(t, "x", (*calls)[0].body["query"])
}
