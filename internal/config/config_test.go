package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"storage_path": "/tmp/draft.json",
		"collaborator_url": "https://api.example.com/optimize",
		"autosave_window_ms": 750,
		"port": 9090
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/draft.json", cfg.StoragePath)
	assert.Equal(t, "https://api.example.com/optimize", cfg.CollaboratorURL)
	assert.Equal(t, 750, cfg.AutosaveWindowMS)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "{broken"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())

	cfg.CollaboratorURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Port = 99999
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{CollaboratorURL: "https://api.example.com/optimize"}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "https://api.example.com/optimize", merged.CollaboratorURL)
	assert.Equal(t, DefaultAutosaveWindowMS, merged.AutosaveWindowMS)
	assert.Equal(t, 8080, merged.Port)
	assert.NotEmpty(t, merged.StoragePath)
}

func TestMergeWithDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := Config{AutosaveWindowMS: 1000, Port: 3000, StoragePath: "/x/y.json"}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 1000, merged.AutosaveWindowMS)
	assert.Equal(t, 3000, merged.Port)
	assert.Equal(t, "/x/y.json", merged.StoragePath)
}
