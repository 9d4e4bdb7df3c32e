package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	// MaxChildren is the number of blocks Notion accepts in one request.
	MaxChildren = 100
)

var ErrMissingToken = errors.New("notion api token is required")

// Config carries everything the client needs. Nothing is read from the environment.
type Config struct {
	Token      string
	BaseURL    string
	Version    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion api %d: %s", e.Status, e.Message)
}

type Client struct {
	token   string
	baseURL string
	version string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{token: cfg.Token, baseURL: base, version: version, http: hc, logger: logger}, nil
}

// Database is the subset of a database object the tool cares about.
type Database struct {
	ID         string                     `json:"id"`
	URL        string                     `json:"url"`
	Title      []titleText                `json:"title"`
	Properties map[string]json.RawMessage `json:"properties"`
}

type titleText struct {
	PlainText string `json:"plain_text"`
}

// Name joins the plain text of the database title.
func (d *Database) Name() string {
	var sb strings.Builder
	for _, t := range d.Title {
		sb.WriteString(t.PlainText)
	}
	return sb.String()
}

// HasProperty reports whether the database defines the named property.
func (d *Database) HasProperty(name string) bool {
	_, ok := d.Properties[name]
	return ok
}

type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PageRequest describes a page to create in a database.
type PageRequest struct {
	DatabaseID string
	Properties map[string]any
	Children   []APIBlock
}

func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	if err := c.Do(ctx, http.MethodGet, "/databases/"+FormatID(databaseID), nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// CreatePage creates the page with up to MaxChildren blocks and appends the
// rest in follow-up requests.
func (c *Client) CreatePage(ctx context.Context, req PageRequest) (*Page, error) {
	if strings.TrimSpace(req.DatabaseID) == "" {
		return nil, errors.New("database id is required")
	}

	first, rest := req.Children, []APIBlock(nil)
	if len(first) > MaxChildren {
		first, rest = req.Children[:MaxChildren], req.Children[MaxChildren:]
	}

	payload := map[string]any{
		"parent":     map[string]string{"database_id": FormatID(req.DatabaseID)},
		"properties": req.Properties,
		"children":   first,
	}
	var page Page
	if err := c.Do(ctx, http.MethodPost, "/pages", payload, &page); err != nil {
		return nil, err
	}
	c.logger.Debug("page created", zap.String("id", page.ID), zap.Int("blocks", len(first)))

	if len(rest) > 0 {
		if err := c.AppendChildren(ctx, page.ID, rest); err != nil {
			return &page, fmt.Errorf("page %s created but appending blocks failed: %w", page.ID, err)
		}
	}
	return &page, nil
}

// AppendChildren adds blocks under an existing block or page in batches.
func (c *Client) AppendChildren(ctx context.Context, blockID string, children []APIBlock) error {
	for start := 0; start < len(children); start += MaxChildren {
		end := min(start+MaxChildren, len(children))
		payload := map[string]any{"children": children[start:end]}
		if err := c.Do(ctx, http.MethodPatch, "/blocks/"+blockID+"/children", payload, nil); err != nil {
			return err
		}
		c.logger.Debug("blocks appended", zap.String("parent", blockID), zap.Int("count", end-start))
	}
	return nil
}

// CreateDatabase creates a content database under the given page.
func (c *Client) CreateDatabase(ctx context.Context, pageID, title string) (*Database, error) {
	if strings.TrimSpace(pageID) == "" {
		return nil, errors.New("page id is required")
	}
	if title == "" {
		title = DefaultDatabaseTitle
	}
	payload := map[string]any{
		"parent":     map[string]string{"page_id": ExtractID(pageID)},
		"title":      Text(title),
		"properties": DatabaseSchema(),
	}
	var db Database
	if err := c.Do(ctx, http.MethodPost, "/databases", payload, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// Do sends one request. body is JSON encoded unless it is a json.RawMessage or
// nil; out, when non-nil, receives the decoded response.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case json.RawMessage:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("notion request", zap.String("method", method), zap.String("path", path))
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if rm, ok := out.(*json.RawMessage); ok {
		*rm = append((*rm)[:0], raw...)
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse notion response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	apiErr := &APIError{Status: status}
	if gjson.ValidBytes(raw) {
		apiErr.Code = gjson.GetBytes(raw, "code").String()
		apiErr.Message = gjson.GetBytes(raw, "message").String()
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
