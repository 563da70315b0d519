package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, int64(475744554910351370), cfg.Discord.RsvpBotID)
	assert.Equal(t, 60, cfg.Discord.SelectTimeout)
	assert.Equal(t, 2000, cfg.Roster.MaxMessage)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"discord": {"token": "from-file", "select_timeout": 30},
		"roster": {"labels": {"red": "🟥"}}
	}`), 0o600))

	t.Setenv("MUSTER_DISCORD_TOKEN", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Discord.Token)
	assert.Equal(t, 30, cfg.Discord.SelectTimeout)
	assert.Equal(t, "🟥", cfg.Roster.Labels["red"])
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"announce": {"enabled": true}}`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Discord.GuildID = "42"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "42", loaded.Discord.GuildID)
}
