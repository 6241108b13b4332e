package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	. "parrot/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	require.Equal(t, "assets", cfg.Assets.Dir)
	require.False(t, cfg.Assets.Watch)
	require.Equal(t, "data", cfg.Data.Dir)
	require.Equal(t, filepath.Join("data", "profiles"), cfg.Data.ProfilesDir)
	require.Equal(t, ":8000", cfg.HTTP.Addr)
	require.Equal(t, DefaultIPCAddr, cfg.IPC.Addr)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Gateway.URL)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
		"assets": {"dir": "emoji-assets", "watch": true},
		"channels": {"ignored": ["1012"]},
		"data": {"dir": "/var/lib/parrot"},
		"gateway": {"url": "ws://localhost:8000/gateway", "token": "hunter2"},
		"log": {"level": "debug"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "emoji-assets", cfg.Assets.Dir)
	require.True(t, cfg.Assets.Watch)
	require.Equal(t, []Snowflake{1012}, cfg.Channels.Ignored)
	require.Equal(t, "/var/lib/parrot", cfg.Data.Dir)
	require.Equal(t, filepath.Join("/var/lib/parrot", "profiles"), cfg.Data.ProfilesDir)
	require.Equal(t, "ws://localhost:8000/gateway", cfg.Gateway.URL)
	require.Equal(t, "hunter2", cfg.Gateway.Token)
	require.Equal(t, "debug", cfg.Log.Level)

	// Defaults still fill whatever the file left out.
	require.Equal(t, ":8000", cfg.HTTP.Addr)
	require.Equal(t, DefaultIPCAddr, cfg.IPC.Addr)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `{"asets": {"dir": "typo"}}`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := writeConfig(t, `{"assets":`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadTokenOverride(t *testing.T) {
	t.Setenv("PARROT_TOKEN", "sso-token")

	path := writeConfig(t, `{"gateway": {"token": "hunter2"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sso-token", cfg.Gateway.Token)

	// The override also applies when there is no file at all.
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, "sso-token", cfg.Gateway.Token)
}
