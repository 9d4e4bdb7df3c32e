package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Notion struct {
		Token      string `yaml:"token"`
		DatabaseID string `yaml:"database_id"`
		PageID     string `yaml:"page_id"` // parent page for new databases
		BaseURL    string `yaml:"base_url"`
		Version    string `yaml:"version"`
	} `yaml:"notion"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"` // OpenAI-compatible providers only
	} `yaml:"ai"`
	Defaults struct {
		Format   string   `yaml:"format"`
		Category string   `yaml:"category"`
		Tags     []string `yaml:"tags"`
		AutoSave *bool    `yaml:"auto_save"`
	} `yaml:"defaults"`
	Server struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

// LoadConfig reads path, then applies environment overrides and defaults.
// A missing file is not an error; the result is built from the environment.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	// 3. Override with Environment Variables if present
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Notion.Token, "NOTIONPOST_NOTION_TOKEN", "NOTION_TOKEN")
	setFromEnv(&c.Notion.DatabaseID, "NOTIONPOST_DATABASE_ID")
	setFromEnv(&c.AI.Provider, "NOTIONPOST_AI_PROVIDER")
	setFromEnv(&c.AI.Model, "NOTIONPOST_AI_MODEL")
	setFromEnv(&c.AI.APIKey, "NOTIONPOST_API_KEY", "GEMINI_API_KEY")
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}

// setFromEnv takes the first non-empty variable in keys.
func setFromEnv(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

func (c *Config) applyDefaults() {
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "notionpost.db"
	}
}

// AutoSave reports whether drafts should be snapshotted before generation.
func (c *Config) AutoSave() bool {
	return c.Defaults.AutoSave == nil || *c.Defaults.AutoSave
}
