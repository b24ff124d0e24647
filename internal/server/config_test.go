package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/partydeck/internal/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partydeck.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadServerConfigDefaultsWhenAbsent(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
}

func TestLoadServerConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9191
  log_level = "debug"
}

game {
  hand_size = 6
  catalog   = "cards.hcl"
  seed      = 42
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9191", cfg.ListenAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 6, cfg.Game.HandSize)
	assert.Equal(t, "cards.hcl", cfg.Game.Catalog)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	require.NoError(t, cfg.Validate())
}

func TestLoadServerConfigPartialGetsDefaults(t *testing.T) {
	path := writeConfig(t, `
server {
  port = 9191
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, game.DefaultHandSize, cfg.Game.HandSize)
}

func TestLoadServerConfigBadSyntax(t *testing.T) {
	path := writeConfig(t, `server { port = `)
	_, err := LoadServerConfig(path)
	require.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	cfg := DefaultServerConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "invalid port")

	cfg = DefaultServerConfig()
	cfg.Game.HandSize = -1
	assert.ErrorContains(t, cfg.Validate(), "hand size")
}
