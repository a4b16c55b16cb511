package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/onx/format"
	"github.com/arloliu/onx/internal/options"
	"github.com/arloliu/onx/meshcodec"
	"github.com/arloliu/onx/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "onx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(ConfigEnv, "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv(ConfigEnv, "")

	path := writeConfig(t, `
write:
  version: 7
  comment: exported
mesh:
  compression: s2
  speed: 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Write.Version)
	assert.Equal(t, "exported", cfg.Write.Comment)
	assert.True(t, cfg.Write.UserData, "unset keys keep their defaults")
	assert.Equal(t, "s2", cfg.Mesh.Compression)
	assert.Equal(t, 2, cfg.Mesh.Speed)

	wo := model.WriteOptions{}
	require.NoError(t, options.Apply(&wo, cfg.WriteOptions()...))
	assert.Equal(t, 70, wo.OnDiskVersion())
	assert.Equal(t, "exported", wo.Comment)

	meshOpts, err := cfg.MeshOptions()
	require.NoError(t, err)
	mc := meshcodec.DefaultConfig()
	require.NoError(t, options.Apply(&mc, meshOpts...))
	assert.Equal(t, format.CompressionS2, mc.Compression)
	assert.Equal(t, 2, mc.Speed)
}

func TestLoadConfig_Environment(t *testing.T) {
	path := writeConfig(t, "mesh:\n  compression: none\n")
	t.Setenv(ConfigEnv, path)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Mesh.Compression)

	// An explicit path wins over the environment.
	other := writeConfig(t, "mesh:\n  compression: lz4\n")
	cfg, err = LoadConfig(other)
	require.NoError(t, err)
	assert.Equal(t, "lz4", cfg.Mesh.Compression)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv(ConfigEnv, "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "write: [1, 2"))
	require.ErrorContains(t, err, "parse config")

	_, err = LoadConfig(writeConfig(t, `
write:
  version: 9
mesh:
  compression: brotli
  speed: 12
`))
	require.ErrorContains(t, err, "write.version 9")
	require.ErrorContains(t, err, "mesh.compression")
	require.ErrorContains(t, err, "mesh.speed")
}
