package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
slack:
  bot_token: xoxb-test
  signing_secret: shhh
server:
  listen_port: "8080"
notion:
  token: ntn-test
  database_id: db123
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "xoxb-test", cfg.Slack.BotToken)
	assert.Equal(t, "shhh", cfg.Slack.SigningSecret)
	assert.Equal(t, "8080", cfg.Server.ListenPort)
	assert.True(t, cfg.NotionEnabled())

	// Defaults fill what the file leaves out.
	assert.Equal(t, "data/boss-tasks.db", cfg.Database.Path)
	assert.Equal(t, "logs", cfg.Logger.Directory)
	assert.Equal(t, 10, cfg.Logger.Rotation.MaxSize)
}

func TestLoadRequiresSlackCredentials(t *testing.T) {
	path := writeConfigFile(t, `
slack:
  signing_secret: shhh
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack.bot_token")

	path = writeConfigFile(t, `
slack:
  bot_token: xoxb-test
`)

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack.signing_secret")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BTT_SLACK_BOT_TOKEN", "xoxb-env")
	t.Setenv("BTT_SLACK_SIGNING_SECRET", "env-secret")
	t.Setenv("BTT_DATABASE_PATH", "/tmp/env.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "xoxb-env", cfg.Slack.BotToken)
	assert.Equal(t, "env-secret", cfg.Slack.SigningSecret)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.False(t, cfg.NotionEnabled())
}

func TestNotionEnabledNeedsBothFields(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.NotionEnabled())

	cfg.Notion.Token = "ntn-test"
	assert.False(t, cfg.NotionEnabled())

	cfg.Notion.DatabaseID = "db123"
	assert.True(t, cfg.NotionEnabled())
}
