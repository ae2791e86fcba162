package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/htmlparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestPresetConfig(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		cfg, err := presetConfig(presetDefault)
		require.NoError(t, err)
		assert.Equal(t, htmlparser.Config{}, cfg)
	})

	t.Run("empty defaults to default", func(t *testing.T) {
		cfg, err := presetConfig("")
		require.NoError(t, err)
		assert.Equal(t, htmlparser.Config{}, cfg)
	})

	t.Run("legacy", func(t *testing.T) {
		cfg, err := presetConfig(" Legacy ")
		require.NoError(t, err)
		assert.Equal(t, document.AlignLeft, cfg.DefaultImageAlign)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := presetConfig("fancy")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allowed: default, legacy")
	})
}

func TestResolveParserConfig(t *testing.T) {
	cfg, err := resolveParserConfig(presetLegacy, htmlparser.Config{LanguageMode: htmlparser.LanguageVerbatim})
	require.NoError(t, err)
	assert.Equal(t, document.AlignLeft, cfg.DefaultImageAlign)
	assert.Equal(t, htmlparser.LanguageVerbatim, cfg.LanguageMode)

	cfg, err = resolveParserConfig(presetLegacy, htmlparser.Config{DefaultImageAlign: document.AlignCenter})
	require.NoError(t, err)
	assert.Equal(t, document.AlignCenter, cfg.DefaultImageAlign)
}

func TestRunNormalize(t *testing.T) {
	stdout, _, err := runCLI(t, "<p>Hello <b>world</b></p>", "normalize")
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello <strong>world</strong></p>\n", stdout)
}

func TestRunNormalizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.html")
	require.NoError(t, os.WriteFile(path, []byte("<h2>Title</h2>"), 0o644))

	stdout, _, err := runCLI(t, "", "normalize", path)
	require.NoError(t, err)
	assert.Equal(t, "<h2>Title</h2>\n", stdout)
}

func TestRunPresetImageAlign(t *testing.T) {
	stdout, _, err := runCLI(t, `<img src="a.png">`, "normalize")
	require.NoError(t, err)
	assert.Contains(t, stdout, `data-align="none"`)

	stdout, _, err = runCLI(t, `<img src="a.png">`, "-preset", "legacy", "normalize")
	require.NoError(t, err)
	assert.Contains(t, stdout, `data-align="left"`)
}

func TestRunMarkdown(t *testing.T) {
	stdout, _, err := runCLI(t, "# Title\n\nsome **bold** text\n", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<h1>Title</h1>")
	assert.Contains(t, stdout, "<strong>bold</strong>")
}

func TestRunTree(t *testing.T) {
	stdout, _, err := runCLI(t, "<p>hi</p>", "tree")
	require.NoError(t, err)

	var result htmlparser.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, document.TypeDoc, result.Doc.Type)
	require.Len(t, result.Doc.Content, 1)
	assert.Equal(t, "hi", result.Doc.Content[0].TextContent())
}

func TestRunExport(t *testing.T) {
	src := `<h2>Notes</h2><p>Some <u>underlined</u> text</p><img src="a.png" alt="pic" data-align="center">`

	stdout, _, err := runCLI(t, src, "export")
	require.NoError(t, err)
	assert.Equal(t, "## Notes\n\nSome underlined text\n\n![pic](a.png)\n", stdout)

	stdout, _, err = runCLI(t, src, "-allow-html", "export")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Some <u>underlined</u> text")
	assert.Contains(t, stdout, `<img src="a.png" alt="pic"`)
}

func TestRunUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/a.png"}`))
	}))
	defer srv.Close()
	t.Setenv("RICHEDIT_UPLOAD_ENDPOINT", srv.URL+"/upload")

	path := filepath.Join(t.TempDir(), "a.png")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(path, png, 0o644))

	stdout, _, err := runCLI(t, "", "upload", path)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png\n", stdout)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no command", args: nil, wantErr: "missing command"},
		{name: "unknown command", args: []string{"render"}, wantErr: "unknown command"},
		{name: "bad preset", args: []string{"-preset", "fancy", "normalize"}, wantErr: "invalid preset"},
		{name: "bad log level", args: []string{"-log-level", "loud", "normalize"}, wantErr: "log level"},
		{name: "upload without endpoint", args: []string{"upload", "missing.png"}, wantErr: "read file"},
		{name: "upload argument count", args: []string{"upload"}, wantErr: "exactly one file"},
		{name: "missing config", args: []string{"-config", "nope.yaml", "tree"}, wantErr: "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
