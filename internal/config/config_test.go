package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":4567", cfg.Addr)
	assert.True(t, cfg.RequireSignin)
	assert.Equal(t, Duration(24*time.Hour), cfg.SessionTTL)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":9999\"\ndata_root: /srv/docs\nrequire_signin: false\nsession_ttl: 1h\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "/srv/docs", cfg.DataRoot)
	assert.False(t, cfg.RequireSignin)
	assert.Equal(t, Duration(time.Hour), cfg.SessionTTL)
}

func TestNormalize(t *testing.T) {
	t.Run("data_root required", func(t *testing.T) {
		_, err := Default().Normalize()
		assert.Error(t, err)
	})

	t.Run("derived defaults", func(t *testing.T) {
		cfg := Default()
		cfg.DataRoot = filepath.Join(t.TempDir(), "data")
		cfg, err := cfg.Normalize()
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(cfg.DataRoot))
		assert.Equal(t, filepath.Join(cfg.DataRoot, ".inkwell"), cfg.StateDir)
		assert.Equal(t, filepath.Join(filepath.Dir(cfg.DataRoot), "users.yml"), cfg.UsersFile)
	})

	t.Run("test env reroutes the data root", func(t *testing.T) {
		t.Setenv("INKWELL_ENV", "test")
		cfg := Default()
		cfg.DataRoot = filepath.Join(t.TempDir(), "data")
		cfg, err := cfg.Normalize()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("test", "data"), filepath.Join(filepath.Base(filepath.Dir(cfg.DataRoot)), filepath.Base(cfg.DataRoot)))
	})
}
