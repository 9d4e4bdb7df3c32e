package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"notionpost/internal/config"
	"notionpost/internal/formatter"
	"notionpost/internal/generator"
	"notionpost/internal/history"
	"notionpost/internal/notion"
	"notionpost/internal/publisher"
	"notionpost/internal/settings"
	"notionpost/internal/storage"
)

// app holds what every command needs: the merged config and the open store.
type app struct {
	cfg      *config.Config
	store    *storage.SQLiteStore
	settings *settings.Manager
	logger   *zap.Logger
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mgr := settings.NewManager(store)
	stored, err := mgr.Load(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	stored.FillConfig(cfg)

	l := logger
	if l == nil {
		l = zap.NewNop()
	}
	return &app{cfg: cfg, store: store, settings: mgr, logger: l}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) generator(ctx context.Context) (generator.Generator, error) {
	return generator.New(ctx, generator.Settings{
		Provider: a.cfg.AI.Provider,
		Model:    a.cfg.AI.Model,
		APIKey:   a.cfg.AI.APIKey,
		BaseURL:  a.cfg.AI.BaseURL,
	})
}

func (a *app) notionClient() (*notion.Client, error) {
	return notion.NewClient(notion.Config{
		Token:   a.cfg.Notion.Token,
		BaseURL: a.cfg.Notion.BaseURL,
		Version: a.cfg.Notion.Version,
		Logger:  a.logger.Named("notion"),
	})
}

// service wires a publisher around gen, which may be nil. A missing Notion
// token leaves the client unset so only the actions that need it fail.
func (a *app) service(gen generator.Generator) (*publisher.Service, error) {
	deps := publisher.Deps{
		Generator: gen,
		History:   history.NewStore(a.store),
		Links:     history.NewLinks(a.store),
		Autosave:  history.NewAutosave(a.store),
		Logger:    a.logger.Named("publisher"),
		AutoSave:  a.cfg.AutoSave(),
	}
	client, err := a.notionClient()
	switch {
	case err == nil:
		deps.Notion = client
	case !errors.Is(err, notion.ErrMissingToken):
		return nil, err
	}
	return publisher.New(deps), nil
}

func (a *app) format(flag string) formatter.Format {
	if flag == "" {
		flag = a.cfg.Defaults.Format
	}
	return formatter.ParseFormat(flag)
}

func (a *app) databaseID(flag string) string {
	if flag != "" {
		return notion.ExtractID(flag)
	}
	return a.cfg.Notion.DatabaseID
}

// readContent returns inline text, or the file's contents; "-" reads stdin.
func readContent(inline, file string) (string, error) {
	if file == "" {
		return inline, nil
	}
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

func mask(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
