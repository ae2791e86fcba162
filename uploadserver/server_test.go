package uploadserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rgonek/richedit/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	bmpBytes = []byte{'B', 'M', 0x3a, 0, 0, 0, 0, 0, 0, 0, 0x36, 0, 0, 0}
)

type memoryStorage struct {
	mu    sync.Mutex
	saved map[string][]byte
	types map[string]string
	err   error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{saved: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) Save(_ context.Context, name, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[name] = data
	m.types[name] = contentType
	return "https://cdn.example.com/" + name, nil
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func newTestServer(t testing.TB, cfg Config, storage Storage) *Server {
	t.Helper()
	s, err := New(cfg, storage, nil)
	require.NoError(t, err)
	return s
}

func uploadRequest(t testing.TB, path, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doRequest(t testing.TB, s *Server, req *http.Request) (int, upload.Response) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out upload.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestUploadStoresImage(t *testing.T) {
	storage := newMemoryStorage()
	s := newTestServer(t, Config{}, storage)

	status, resp := doRequest(t, s, uploadRequest(t, "/upload", "file", "photo.png", "image/png", pngBytes))

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Error)
	require.True(t, strings.HasPrefix(resp.URL, "https://cdn.example.com/"), resp.URL)
	assert.True(t, strings.HasSuffix(resp.URL, ".png"), resp.URL)

	name := strings.TrimPrefix(resp.URL, "https://cdn.example.com/")
	assert.Equal(t, pngBytes, storage.saved[name])
	assert.Equal(t, "image/png", storage.types[name])
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		field      string
		data       []byte
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing file field",
			field:      "other",
			data:       pngBytes,
			wantStatus: http.StatusBadRequest,
			wantError:  "image file is required",
		},
		{
			name:       "unsupported type",
			field:      "file",
			data:       bmpBytes,
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  "unsupported",
		},
		{
			name:       "too large",
			cfg:        Config{Validator: upload.Validator{MaxSize: 8}},
			field:      "file",
			data:       pngBytes,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "too large",
		},
		{
			name:       "empty file",
			field:      "file",
			data:       []byte{},
			wantStatus: http.StatusBadRequest,
			wantError:  "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMemoryStorage()
			s := newTestServer(t, tt.cfg, storage)

			status, resp := doRequest(t, s, uploadRequest(t, "/upload", tt.field, "x.bin", "", tt.data))

			assert.Equal(t, tt.wantStatus, status)
			assert.Empty(t, resp.URL)
			assert.Contains(t, resp.Error, tt.wantError)
			assert.Zero(t, storage.count())
		})
	}
}

func TestUploadStorageFailure(t *testing.T) {
	storage := newMemoryStorage()
	storage.err = errors.New("disk full")
	s := newTestServer(t, Config{}, storage)

	status, resp := doRequest(t, s, uploadRequest(t, "/upload", "file", "a.png", "image/png", pngBytes))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "failed to store file", resp.Error)
}

func TestUploadCustomPathAndField(t *testing.T) {
	s := newTestServer(t, Config{Path: "/api/images", FieldName: "image"}, newMemoryStorage())

	status, resp := doRequest(t, s, uploadRequest(t, "/api/images", "image", "a.png", "", pngBytes))

	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, resp.URL)
}

func TestUploadWebPRequiresOptIn(t *testing.T) {
	webp := []byte{'R', 'I', 'F', 'F', 0x1a, 0, 0, 0, 'W', 'E', 'B', 'P', 'V', 'P', '8', ' '}

	s := newTestServer(t, Config{}, newMemoryStorage())
	status, _ := doRequest(t, s, uploadRequest(t, "/upload", "file", "a.webp", "image/webp", webp))
	assert.Equal(t, http.StatusUnsupportedMediaType, status)

	s = newTestServer(t, Config{Validator: upload.Validator{AllowWebP: true}}, newMemoryStorage())
	status, resp := doRequest(t, s, uploadRequest(t, "/upload", "file", "a.webp", "image/webp", webp))
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasSuffix(resp.URL, ".webp"), resp.URL)
}

func TestClientAgainstServer(t *testing.T) {
	storage := newMemoryStorage()
	s := newTestServer(t, Config{}, storage)

	// route the upload client through app.Test
	client, err := upload.NewClient(upload.Config{
		Endpoint:   "http://richedit.test/upload",
		HTTPClient: &http.Client{Transport: appTransport{s}},
	})
	require.NoError(t, err)

	url, err := client.Upload(context.Background(), upload.File{Name: "a.png", ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/"))
	assert.Equal(t, 1, storage.count())
}

type appTransport struct {
	server *Server
}

func (t appTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.server.App().Test(req, -1)
}

func TestLocalStorageServesFiles(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080/")
	require.NoError(t, err)
	s := newTestServer(t, Config{}, storage)

	status, resp := doRequest(t, s, uploadRequest(t, "/upload", "file", "a.png", "image/png", pngBytes))
	require.Equal(t, http.StatusOK, status)
	require.True(t, strings.HasPrefix(resp.URL, "http://localhost:8080/uploads/"), resp.URL)

	name := strings.TrimPrefix(resp.URL, "http://localhost:8080/uploads/")
	onDisk, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, onDisk)

	get, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil), -1)
	require.NoError(t, err)
	defer get.Body.Close()
	served, err := io.ReadAll(get.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get.StatusCode)
	assert.Equal(t, pngBytes, served)
}

func TestLocalStorageRejectsPaths(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = storage.Save(context.Background(), "../escape.png", "image/png", pngBytes)
	require.Error(t, err)

	url, err := storage.Save(context.Background(), "ok.png", "image/png", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ok.png", url)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	require.Error(t, err)

	_, err = New(Config{Path: "upload"}, newMemoryStorage(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path")

	_, err = New(Config{Validator: upload.Validator{AllowedTypes: []string{"text/plain"}}}, newMemoryStorage(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validator")

	_, err = NewLocalStorage(" ", "")
	require.Error(t, err)
}

func TestMinIOConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MinIOConfig
		wantErr string
	}{
		{name: "missing endpoint", cfg: MinIOConfig{Bucket: "b"}, wantErr: "endpoint"},
		{name: "scheme in endpoint", cfg: MinIOConfig{Endpoint: "http://minio:9000", Bucket: "b"}, wantErr: "without scheme"},
		{name: "missing bucket", cfg: MinIOConfig{Endpoint: "minio:9000"}, wantErr: "bucket"},
		{name: "bad public url", cfg: MinIOConfig{Endpoint: "minio:9000", Bucket: "b", PublicURL: "not a url"}, wantErr: "publicURL"},
		{name: "valid", cfg: MinIOConfig{Endpoint: "minio:9000", Bucket: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMinIOObjectURL(t *testing.T) {
	storage, err := NewMinIOStorage(MinIOConfig{Endpoint: "minio:9000", Bucket: "images", Prefix: "/editor/"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/images/editor/a.png", storage.objectURL(storage.objectKey("a.png")))

	storage, err = NewMinIOStorage(MinIOConfig{Endpoint: "s3.example.com", Bucket: "images", UseSSL: true, PublicURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", storage.objectURL(storage.objectKey("a.png")))
}
