package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.False(t, cfg.NoColor)
	assert.Empty(t, cfg.Packages)
	assert.Empty(t, cfg.Mapping)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	data := "log_level: debug\nmapping: mapping.yaml\npackages:\n  - ./store\n  - ./warehouse\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entity-mapper.yaml"), []byte(data), 0o644))

	cfg, err := Load(New(dir))
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, "mapping.yaml", cfg.Mapping)
	assert.Equal(t, []string{"./store", "./warehouse"}, cfg.Packages)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("ENTITY_MAPPER_LOG_LEVEL", "warn")
	t.Setenv("ENTITY_MAPPER_MAPPING", "from-env.yaml")

	cfg, err := Load(New(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
	assert.Equal(t, "from-env.yaml", cfg.Mapping)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entity-mapper.yaml"), []byte("log_level: loud\n"), 0o644))

	_, err := Load(New(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "entity-mapper.yaml"), []byte("log_level: [\n"), 0o644))

	_, err = Load(New(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
