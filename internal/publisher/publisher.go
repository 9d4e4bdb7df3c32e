// Package publisher runs the generate and post workflows against the
// configured generator, Notion workspace and local store.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"notionpost/internal/formatter"
	"notionpost/internal/generator"
	"notionpost/internal/history"
	"notionpost/internal/notion"
)

var (
	ErrNoGenerator   = errors.New("no generator configured")
	ErrNoNotion      = errors.New("notion token is not configured")
	ErrNoDatabase    = errors.New("database id is required")
	ErrEmptyTitle    = errors.New("title is required")
	ErrEmptyContent  = errors.New("content is required")
	ErrMissingSchema = errors.New("database is missing required properties")
)

// Notion is the part of *notion.Client the publisher drives.
type Notion interface {
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	CreatePage(ctx context.Context, req notion.PageRequest) (*notion.Page, error)
	CreateDatabase(ctx context.Context, pageID, title string) (*notion.Database, error)
}

// Deps are the collaborators of a Service. Generator and Notion may be nil
// when the matching credentials are absent; the actions needing them fail.
type Deps struct {
	Generator generator.Generator
	Notion    Notion
	History   *history.Store
	Links     *history.Links
	Autosave  *history.Autosave
	Logger    *zap.Logger

	AutoSave bool
}

type Service struct {
	gen      generator.Generator
	notion   Notion
	history  *history.Store
	links    *history.Links
	autosave *history.Autosave
	logger   *zap.Logger
	autoSave bool
}

func New(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gen:      d.Generator,
		notion:   d.Notion,
		history:  d.History,
		links:    d.Links,
		autosave: d.Autosave,
		logger:   logger,
		autoSave: d.AutoSave,
	}
}

type GenerateRequest struct {
	Title   string
	Content string
	Format  formatter.Format
}

// Generate asks the model to rewrite the draft in the requested format.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if err := validateDraft(req.Title, req.Content); err != nil {
		return "", err
	}
	if s.gen == nil {
		return "", ErrNoGenerator
	}

	s.autosaveStage(ctx, req.Title, req.Content)

	text, err := generator.GenerateContent(ctx, s.gen, req.Title, req.Content, req.Format)
	if err != nil {
		return "", err
	}
	s.logger.Info("content generated", zap.String("title", req.Title), zap.String("format", string(req.Format)), zap.Int("chars", len(text)))

	s.recordHistory(ctx, req.Title, text)
	return text, nil
}

type PostRequest struct {
	DatabaseID string
	Title      string
	Content    string
	Format     formatter.Format
	Category   string
	Tags       []string
}

type PostResult struct {
	Page   *notion.Page
	Blocks int
}

// Post publishes the draft as a page in the database.
func (s *Service) Post(ctx context.Context, req PostRequest) (*PostResult, error) {
	if s.notion == nil {
		return nil, ErrNoNotion
	}
	if strings.TrimSpace(req.DatabaseID) == "" {
		return nil, ErrNoDatabase
	}
	if err := validateDraft(req.Title, req.Content); err != nil {
		return nil, err
	}

	s.autosaveStage(ctx, req.Title, req.Content)

	title := strings.TrimSpace(req.Title)
	blocks := formatter.Assemble(title, req.Content, req.Format)
	page, err := s.notion.CreatePage(ctx, notion.PageRequest{
		DatabaseID: req.DatabaseID,
		Properties: notion.PageProperties(title, req.Category, req.Tags),
		Children:   notion.ToAPIBlocks(blocks),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.logger.Info("page created", zap.String("id", page.ID), zap.String("url", page.URL), zap.Int("blocks", len(blocks)))

	if s.links != nil && page.URL != "" {
		if _, err := s.links.Add(ctx, title, page.URL); err != nil {
			s.logger.Warn("failed to record page link", zap.Error(err))
		}
	}
	s.recordHistory(ctx, title, req.Content)

	return &PostResult{Page: page, Blocks: len(blocks)}, nil
}

// CheckDatabase retrieves the database and reports which content properties
// it lacks.
func (s *Service) CheckDatabase(ctx context.Context, databaseID string) (*notion.Database, error) {
	if s.notion == nil {
		return nil, ErrNoNotion
	}
	if strings.TrimSpace(databaseID) == "" {
		return nil, ErrNoDatabase
	}
	db, err := s.notion.RetrieveDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}
	if missing := MissingProperties(db); len(missing) > 0 {
		return db, fmt.Errorf("%w: %s", ErrMissingSchema, strings.Join(missing, ", "))
	}
	return db, nil
}

// MissingProperties lists the content properties db does not define.
func MissingProperties(db *notion.Database) []string {
	var missing []string
	for _, p := range []string{notion.PropTitle, notion.PropCategory, notion.PropTags} {
		if !db.HasProperty(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

func (s *Service) CreateDatabase(ctx context.Context, pageID, title string) (*notion.Database, error) {
	if s.notion == nil {
		return nil, ErrNoNotion
	}
	db, err := s.notion.CreateDatabase(ctx, pageID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	s.logger.Info("database created", zap.String("id", db.ID))
	return db, nil
}

// Report is the outcome of Verify. A nil error means the check passed.
type Report struct {
	GeneratorErr error
	DatabaseErr  error
	Database     *notion.Database
}

func (r *Report) OK() bool {
	return r.GeneratorErr == nil && r.DatabaseErr == nil
}

// Verify checks the model credentials and the database at the same time.
// Both checks always run to completion.
func (s *Service) Verify(ctx context.Context, databaseID string) *Report {
	report := &Report{}
	var g errgroup.Group

	g.Go(func() error {
		if s.gen == nil {
			report.GeneratorErr = ErrNoGenerator
			return nil
		}
		report.GeneratorErr = generator.CheckAPIKey(ctx, s.gen)
		return nil
	})
	g.Go(func() error {
		report.Database, report.DatabaseErr = s.CheckDatabase(ctx, databaseID)
		return nil
	})
	_ = g.Wait()

	s.logger.Debug("verification finished", zap.Bool("ok", report.OK()))
	return report
}

func (s *Service) autosaveStage(ctx context.Context, title, content string) {
	if !s.autoSave || s.autosave == nil {
		return
	}
	if _, err := s.autosave.Save(ctx, title, content); err != nil {
		s.logger.Warn("autosave failed", zap.Error(err))
	}
}

func (s *Service) recordHistory(ctx context.Context, title, content string) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Add(ctx, title, content); err != nil {
		s.logger.Warn("failed to record history", zap.Error(err))
	}
}

func validateDraft(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}
