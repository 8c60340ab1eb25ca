package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Renderer.Backend)
	assert.Equal(t, uint32(1280), cfg.Window.Width)
	assert.Equal(t, float32(4.0), cfg.Camera.Distance)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prisma.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "debug"

[renderer]
backend = "vulkan"
vsync = false

[window]
width = 800
height = 600
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vulkan", cfg.Renderer.Backend)
	assert.False(t, cfg.Renderer.Vsync)
	assert.Equal(t, uint32(800), cfg.Window.Width)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prisma.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer\nbackend ="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrideWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prisma.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nbackend = \"vulkan\"\n"), 0o644))

	t.Setenv(EnvRendererOverride, "software")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "software", cfg.Renderer.Backend)
}
