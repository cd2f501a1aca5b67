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
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"database_url": "postgres://localhost/rms",
		"docstore_url": "https://docstore.example",
		"port": 9090,
		"page_size": 25
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/rms", cfg.DatabaseURL)
	assert.Equal(t, "https://docstore.example", cfg.DocstoreURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 25, cfg.PageSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfigFile(t, `{not json`)
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := &Config{DatabaseURL: "postgres://base", Port: 8080}
	overlay := &Config{DocstoreURL: "https://docstore.example", Port: 9090}

	merged := base.Merge(overlay)
	assert.Equal(t, "postgres://base", merged.DatabaseURL)
	assert.Equal(t, "https://docstore.example", merged.DocstoreURL)
	assert.Equal(t, 9090, merged.Port)
}

func TestValidate(t *testing.T) {
	valid := &Config{DatabaseURL: "postgres://x", DocstoreURL: "https://y", Port: 8080}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&Config{DocstoreURL: "https://y"}).Validate())
	assert.Error(t, (&Config{DatabaseURL: "postgres://x"}).Validate())
	assert.Error(t, (&Config{DatabaseURL: "x", DocstoreURL: "y", Port: -1}).Validate())
	assert.Error(t, (&Config{DatabaseURL: "x", DocstoreURL: "y", PageSize: -5}).Validate())
}
