package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgonek/richedit/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "richedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Preset)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, "./uploads", cfg.Storage.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
preset: legacy
parser:
  defaultImageAlign: center
  languageMap:
    golang: go
render:
  omitLinkTarget: true
upload:
  endpoint: https://example.com/upload
  validator:
    maxSize: 2048
    allowWebp: true
server:
  addr: ":9000"
storage:
  backend: minio
  minio:
    endpoint: minio:9000
    bucket: images
log:
  level: debug
  file: /tmp/richedit.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "legacy", cfg.Preset)
	assert.Equal(t, document.AlignCenter, cfg.Parser.DefaultImageAlign)
	assert.Equal(t, map[string]string{"golang": "go"}, cfg.Parser.LanguageMap)
	assert.True(t, cfg.Render.OmitLinkTarget)
	assert.Equal(t, "https://example.com/upload", cfg.Upload.Endpoint)
	assert.Equal(t, int64(2048), cfg.Upload.Validator.MaxSize)
	assert.True(t, cfg.Upload.Validator.AllowWebP)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "images", cfg.Storage.MinIO.Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/richedit.log", cfg.Log.File)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "preset: default\nlog:\n  level: warn\n")
	t.Setenv("RICHEDIT_PRESET", "legacy")
	t.Setenv("RICHEDIT_LOG_LEVEL", "debug")
	t.Setenv("RICHEDIT_LOG_JSON", "true")
	t.Setenv("RICHEDIT_UPLOAD_MAX_SIZE", "1024")
	t.Setenv("RICHEDIT_UPLOAD_ALLOW_WEBP", "1")
	t.Setenv("RICHEDIT_STORAGE_DIR", "/var/richedit")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "legacy", cfg.Preset)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, int64(1024), cfg.Upload.Validator.MaxSize)
	assert.Equal(t, int64(1024), cfg.Server.Validator.MaxSize)
	assert.True(t, cfg.Server.Validator.AllowWebP)
	assert.Equal(t, "/var/richedit", cfg.Storage.Dir)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown key",
			yaml:    "presets: legacy\n",
			wantErr: "presets",
		},
		{
			name:    "unknown backend",
			yaml:    "storage:\n  backend: ftp\n",
			wantErr: "unknown backend",
		},
		{
			name:    "minio without bucket",
			yaml:    "storage:\n  backend: minio\n  minio:\n    endpoint: minio:9000\n",
			wantErr: "bucket",
		},
		{
			name:    "bad size",
			env:     map[string]string{"RICHEDIT_UPLOAD_MAX_SIZE": "ten"},
			wantErr: "RICHEDIT_UPLOAD_MAX_SIZE",
		},
		{
			name:    "bad bool",
			env:     map[string]string{"RICHEDIT_MINIO_USE_SSL": "maybe"},
			wantErr: "RICHEDIT_MINIO_USE_SSL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}
