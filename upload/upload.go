// Package upload implements the image upload contract: client-side
// validation, a multipart POST to the upload endpoint and the {url} /
// {error} JSON response.
package upload

import (
	"errors"
	"fmt"
)

// File is an image picked by the user or pasted into the editor.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

var (
	// ErrTooLarge is returned for files above the configured size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned for files whose type is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyFile is returned for files without content.
	ErrEmptyFile = errors.New("file is empty")
	// ErrNoURL is returned when a successful response carries no url.
	ErrNoURL = errors.New("upload response has no url")
	// ErrInFlight is returned when an upload is already running through the
	// same trigger.
	ErrInFlight = errors.New("upload already in progress")
)

// Response is the JSON body of the upload endpoint.
type Response struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// ResponseError is a non-2xx answer of the upload endpoint.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload failed with status %d", e.Status)
	}
	return fmt.Sprintf("upload failed with status %d: %s", e.Status, e.Message)
}
