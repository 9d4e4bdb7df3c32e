package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NOTIONPOST_NOTION_TOKEN", "NOTION_TOKEN", "NOTIONPOST_DATABASE_ID",
		"NOTIONPOST_AI_PROVIDER", "NOTIONPOST_AI_MODEL", "NOTIONPOST_API_KEY", "GEMINI_API_KEY", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
notion:
  token: secret_abc
  database_id: 0123abcd456789ef0123456789abcdef
ai:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-xyz
defaults:
  format: qa
  category: Dev
  tags: [go, notion]
  auto_save: false
server:
  addr: ":8080"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret_abc", cfg.Notion.Token)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "sk-xyz", cfg.AI.APIKey)
	assert.Equal(t, []string{"go", "notion"}, cfg.Defaults.Tags)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "notionpost.db", cfg.Storage.Path)
	assert.False(t, cfg.AutoSave())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.True(t, cfg.AutoSave())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTION_TOKEN", "from-env")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("NOTIONPOST_API_KEY", "preferred-key")
	t.Setenv("PORT", "4000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notion:\n  token: from-file\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Notion.Token)
	assert.Equal(t, "preferred-key", cfg.AI.APIKey)
	assert.Equal(t, ":4000", cfg.Server.Addr)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notion: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
