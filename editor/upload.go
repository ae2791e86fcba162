package editor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/upload"
	"go.uber.org/zap"
)

// UploadSource labels changes made by completed uploads.
const UploadSource = "upload"

// ErrNotInserted is returned when an upload finished but the editor refused
// the image, e.g. because it was disabled meanwhile.
var ErrNotInserted = errors.New("uploaded image was not inserted")

// Uploader sends a file to the upload endpoint and returns its URL.
// *upload.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, f upload.File) (string, error)
}

// ImageUploader is one upload trigger (paste handler, toolbar button).
// While an upload runs, further starts through the same trigger are
// ignored.
type ImageUploader struct {
	editor   *Editor
	uploader Uploader
	source   string
	onError  func(error)
	inFlight atomic.Bool
}

// UploaderOption configures an ImageUploader.
type UploaderOption func(*ImageUploader)

// WithUploadSource overrides the source label of inserted images.
func WithUploadSource(source string) UploaderOption {
	return func(u *ImageUploader) {
		u.source = source
	}
}

// WithErrorHandler registers the user notification for failed uploads.
func WithErrorHandler(fn func(error)) UploaderOption {
	return func(u *ImageUploader) {
		u.onError = fn
	}
}

// NewImageUploader creates an upload trigger bound to the editor.
func (e *Editor) NewImageUploader(uploader Uploader, opts ...UploaderOption) *ImageUploader {
	u := &ImageUploader{editor: e, uploader: uploader, source: UploadSource}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// InFlight reports whether an upload is running.
func (u *ImageUploader) InFlight() bool {
	return u.inFlight.Load()
}

// Upload starts uploading f in the background and returns a channel that
// receives the outcome once. On success the image is inserted at the
// current selection. A start while another upload runs yields
// upload.ErrInFlight immediately and does nothing else.
func (u *ImageUploader) Upload(ctx context.Context, f upload.File) <-chan error {
	done := make(chan error, 1)
	if !u.inFlight.CompareAndSwap(false, true) {
		done <- upload.ErrInFlight
		close(done)
		return done
	}

	go func() {
		defer close(done)
		err := u.run(ctx, f)
		u.inFlight.Store(false)
		if err != nil {
			u.editor.logger.Warn("image upload failed", zap.String("file", f.Name), zap.Error(err))
			if u.onError != nil {
				u.onError(err)
			}
		}
		done <- err
	}()
	return done
}

func (u *ImageUploader) run(ctx context.Context, f upload.File) error {
	url, err := u.uploader.Upload(ctx, f)
	if err != nil {
		return fmt.Errorf("upload %s: %w", f.Name, err)
	}
	if !u.editor.ApplyCommand(InsertImage(document.ImageAttrs{Src: url}), WithSource(u.source)) {
		return ErrNotInserted
	}
	return nil
}
