package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"notionpost/internal/formatter"
	"notionpost/internal/notion"
)

const notionPrefix = "/api/notion/"

// handleNotionPassthrough relays /api/notion/<path> to the Notion API and
// copies the upstream answer back unchanged.
func (s *Server) handleNotionPassthrough(w http.ResponseWriter, r *http.Request) {
	target := s.notionBase + "/" + strings.TrimPrefix(r.URL.Path, notionPrefix)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	var body io.Reader
	if r.Method != http.MethodGet {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(data) > 0 {
			body = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req.Header.Set("Authorization", r.Header.Get("Authorization"))
	version := r.Header.Get("Notion-Version")
	if version == "" {
		version = s.notionVersion
	}
	req.Header.Set("Notion-Version", version)
	req.Header.Set("Content-Type", "application/json")

	s.logger.Debug("proxy request", zap.String("method", r.Method), zap.String("url", target))
	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Error("proxy request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "proxy request failed: "+err.Error())
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

type notionFunctionReq struct {
	Path   string          `json:"path"`
	Method string          `json:"method"`
	Body   json.RawMessage `json:"body"`
	Token  string          `json:"token"`
}

type notionFunctionBody struct {
	DatabaseID string          `json:"databaseId"`
	PageID     string          `json:"pageId"`
	Properties json.RawMessage `json:"properties"`
	Children   json.RawMessage `json:"children"`

	Title    string `json:"title"`
	Content  string `json:"content"`
	Format   string `json:"format"`
	Category string `json:"category"`
	Tags     tags   `json:"tags"`
}

// tags accepts either a JSON array or a comma separated string.
type tags []string

func (t *tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags must be a list or a string: %w", err)
	}
	*t = notion.ParseTags(s)
	return nil
}

var (
	errNeedDatabaseID = errors.New("database id is required")
	errNeedPageID     = errors.New("page id is required")
	errNeedPageBody   = errors.New("properties or title is required")
)

// handleNotionFunction executes one of a fixed set of Notion operations on
// behalf of the caller's token.
func (s *Server) handleNotionFunction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}
	var req notionFunctionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "notion api token is required")
		return
	}
	if req.Method != "" && !strings.EqualFold(req.Method, http.MethodPost) {
		writeError(w, http.StatusBadRequest, "unsupported api path: "+req.Method+" "+req.Path)
		return
	}

	var body notionFunctionBody
	if len(req.Body) > 0 && string(req.Body) != "null" {
		if err := json.Unmarshal(req.Body, &body); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	client, err := notion.NewClient(notion.Config{
		Token:      req.Token,
		BaseURL:    s.notionBase,
		Version:    s.notionVersion,
		HTTPClient: s.http,
		Logger:     s.logger,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var out any
	switch req.Path {
	case "/databases/check", "/integration/check":
		out, err = s.retrieveDatabase(r, client, body)
	case "/pages/create":
		out, err = s.createPage(r, client, body)
	case "/databases/create":
		out, err = s.createDatabase(r, client, body)
	default:
		writeError(w, http.StatusBadRequest, "unsupported api path: "+req.Path)
		return
	}
	if err != nil {
		s.logger.Warn("notion function failed", zap.String("path", req.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) retrieveDatabase(r *http.Request, c *notion.Client, body notionFunctionBody) (any, error) {
	if body.DatabaseID == "" {
		return nil, errNeedDatabaseID
	}
	var raw json.RawMessage
	err := c.Do(r.Context(), http.MethodGet, "/databases/"+notion.FormatID(body.DatabaseID), nil, &raw)
	return raw, err
}

func (s *Server) createPage(r *http.Request, c *notion.Client, body notionFunctionBody) (any, error) {
	if body.DatabaseID == "" {
		return nil, errNeedDatabaseID
	}

	if len(body.Properties) > 0 {
		payload := map[string]any{
			"parent":     map[string]string{"database_id": notion.FormatID(body.DatabaseID)},
			"properties": body.Properties,
		}
		if len(body.Children) > 0 {
			payload["children"] = body.Children
		}
		var raw json.RawMessage
		err := c.Do(r.Context(), http.MethodPost, "/pages", payload, &raw)
		return raw, err
	}

	if strings.TrimSpace(body.Title) == "" {
		return nil, errNeedPageBody
	}
	blocks := formatter.Assemble(body.Title, body.Content, formatter.ParseFormat(body.Format))
	page, err := c.CreatePage(r.Context(), notion.PageRequest{
		DatabaseID: body.DatabaseID,
		Properties: notion.PageProperties(strings.TrimSpace(body.Title), body.Category, body.Tags),
		Children:   notion.ToAPIBlocks(blocks),
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{"object": "page", "id": page.ID, "url": page.URL}, nil
}

func (s *Server) createDatabase(r *http.Request, c *notion.Client, body notionFunctionBody) (any, error) {
	if body.PageID == "" {
		return nil, errNeedPageID
	}
	return c.CreateDatabase(r.Context(), body.PageID, body.Title)
}

func errorMessage(err error) string {
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
