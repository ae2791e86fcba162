package upload

import (
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"
)

// DefaultMaxSize is the upload size limit when none is configured.
const DefaultMaxSize int64 = 10 << 20

// MIMEWebP is accepted only when Validator.AllowWebP is set.
const MIMEWebP = "image/webp"

// DefaultAllowedTypes are the image types accepted by default.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Validator checks files before they are sent. The upload endpoint uses the
// same rules.
type Validator struct {
	MaxSize      int64    `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	AllowedTypes []string `json:"allowedTypes,omitempty" yaml:"allowedTypes,omitempty"`
	AllowWebP    bool     `json:"allowWebp,omitempty" yaml:"allowWebp,omitempty"`
}

func (v Validator) applyDefaults() Validator {
	out := v.clone()
	if out.MaxSize == 0 {
		out.MaxSize = DefaultMaxSize
	}
	if len(out.AllowedTypes) == 0 {
		out.AllowedTypes = slices.Clone(DefaultAllowedTypes)
	}
	if out.AllowWebP && !slices.Contains(out.AllowedTypes, MIMEWebP) {
		out.AllowedTypes = append(out.AllowedTypes, MIMEWebP)
	}
	return out
}

func (v Validator) clone() Validator {
	out := v
	out.AllowedTypes = slices.Clone(v.AllowedTypes)
	return out
}

// Validate checks the validator configuration.
func (v Validator) Validate() error {
	if v.MaxSize < 0 {
		return fmt.Errorf("maxSize must be positive, got %d", v.MaxSize)
	}
	for _, allowed := range v.AllowedTypes {
		if !strings.HasPrefix(allowed, "image/") {
			return fmt.Errorf("allowedTypes: %q is not an image type", allowed)
		}
	}
	return nil
}

// Check validates f and returns its detected MIME type.
func (v Validator) Check(f File) (string, error) {
	cfg := v.applyDefaults()
	if f.Size() == 0 {
		return "", ErrEmptyFile
	}
	if f.Size() > cfg.MaxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, f.Size(), cfg.MaxSize)
	}
	contentType := DetectType(f)
	if !slices.Contains(cfg.AllowedTypes, contentType) {
		if contentType == "" {
			contentType = "unknown"
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return contentType, nil
}

// DetectType sniffs the MIME type from the file content, falling back to
// the declared content type and then the file extension.
func DetectType(f File) string {
	if kind, err := filetype.Match(f.Data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if f.ContentType != "" {
		if mediaType, _, err := mime.ParseMediaType(f.ContentType); err == nil {
			return strings.ToLower(mediaType)
		}
	}
	if ext := filepath.Ext(f.Name); ext != "" {
		if mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil {
			return strings.ToLower(mediaType)
		}
	}
	return ""
}
