package editor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngFile = upload.File{Name: "shot.png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}

// gatedUploader blocks every upload until release is closed.
type gatedUploader struct {
	release chan struct{}
	url     string
	err     error
	calls   atomic.Int32
}

func newGatedUploader(url string, err error) *gatedUploader {
	return &gatedUploader{release: make(chan struct{}), url: url, err: err}
}

func (g *gatedUploader) Upload(ctx context.Context, _ upload.File) (string, error) {
	g.calls.Add(1)
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return g.url, g.err
}

func TestImageUploaderInsertsImage(t *testing.T) {
	e, rec := newTestEditor(t, Options{InitialContent: "<p>text</p>"})
	require.True(t, e.Select(Caret(document.Path{0}, 4)))
	g := newGatedUploader("https://cdn.example.com/shot.png", nil)
	u := e.NewImageUploader(g)

	done := u.Upload(context.Background(), pngFile)
	close(g.release)
	require.NoError(t, <-done)

	assert.False(t, u.InFlight())
	assert.Equal(t,
		`<p>text</p><img src="https://cdn.example.com/shot.png" class="custom-image" data-align="none">`,
		e.Content())
	changes := rec.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, UploadSource, changes[0].Source)
	assert.Equal(t, OriginUser, changes[0].Origin)
}

func TestImageUploaderIgnoresReentrantStart(t *testing.T) {
	e := New(Options{})
	g := newGatedUploader("https://cdn.example.com/a.png", nil)
	u := e.NewImageUploader(g)

	first := u.Upload(context.Background(), pngFile)
	require.True(t, u.InFlight())

	second := u.Upload(context.Background(), pngFile)
	assert.ErrorIs(t, <-second, upload.ErrInFlight)

	close(g.release)
	require.NoError(t, <-first)
	assert.Equal(t, int32(1), g.calls.Load())
	assert.Len(t, document.FindAll(e.Document(), document.TypeImage), 1)
}

func TestImageUploaderFailureReleasesGuard(t *testing.T) {
	e, rec := newTestEditor(t, Options{InitialContent: "<p>text</p>"})
	g := newGatedUploader("", errors.New("connection reset"))
	close(g.release)

	var notified []error
	u := e.NewImageUploader(g, WithErrorHandler(func(err error) {
		notified = append(notified, err)
	}))

	err := <-u.Upload(context.Background(), pngFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.Len(t, notified, 1)
	assert.Equal(t, err, notified[0])
	assert.False(t, u.InFlight())
	assert.Equal(t, "<p>text</p>", e.Content())
	assert.Empty(t, rec.Changes())

	// retry goes through
	err = <-u.Upload(context.Background(), pngFile)
	require.Error(t, err)
	assert.Equal(t, int32(2), g.calls.Load())
}

func TestImageUploaderRejectsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/x.png"}`))
	}))
	defer srv.Close()

	client, err := upload.NewClient(upload.Config{Endpoint: srv.URL})
	require.NoError(t, err)
	e := New(Options{InitialContent: "<p>text</p>"})
	u := e.NewImageUploader(client)

	huge := upload.File{Name: "huge.png", Data: append([]byte(nil), make([]byte, 15<<20)...)}
	copy(huge.Data, pngFile.Data)
	assert.ErrorIs(t, <-u.Upload(context.Background(), huge), upload.ErrTooLarge)

	bmp := upload.File{Name: "old.bmp", ContentType: "image/bmp", Data: []byte("BM\x3a\x00\x00\x00\x00\x00")}
	assert.ErrorIs(t, <-u.Upload(context.Background(), bmp), upload.ErrUnsupportedType)

	assert.Equal(t, int32(0), hits.Load())
	assert.Equal(t, "<p>text</p>", e.Content())

	require.NoError(t, <-u.Upload(context.Background(), pngFile))
	assert.Equal(t, int32(1), hits.Load())
}

func TestImageUploaderDisabledEditor(t *testing.T) {
	e := New(Options{Disabled: true})
	g := newGatedUploader("https://cdn.example.com/a.png", nil)
	close(g.release)
	u := e.NewImageUploader(g, WithUploadSource("paste"))

	assert.ErrorIs(t, <-u.Upload(context.Background(), pngFile), ErrNotInserted)
	assert.Equal(t, "<p></p>", e.Content())
}
