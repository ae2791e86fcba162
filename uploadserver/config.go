package uploadserver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgonek/richedit/upload"
)

// Config holds the upload endpoint settings.
type Config struct {
	Addr           string           `json:"addr,omitempty" yaml:"addr,omitempty"`
	Path           string           `json:"path,omitempty" yaml:"path,omitempty"`
	FieldName      string           `json:"fieldName,omitempty" yaml:"fieldName,omitempty"`
	AllowedOrigins string           `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
	Validator      upload.Validator `json:"validator" yaml:"validator"`
}

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

func (c Config) applyDefaults() Config {
	out := c
	if out.Addr == "" {
		out.Addr = DefaultAddr
	}
	if out.Path == "" {
		out.Path = "/upload"
	}
	if out.FieldName == "" {
		out.FieldName = upload.DefaultFieldName
	}
	if out.AllowedOrigins == "" {
		out.AllowedOrigins = "*"
	}
	if out.Validator.MaxSize == 0 {
		out.Validator.MaxSize = upload.DefaultMaxSize
	}
	return out
}

// Validate checks the config.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /, got %q", c.Path)
	}
	if strings.TrimSpace(c.FieldName) == "" {
		return errors.New("fieldName is required")
	}
	if err := c.Validator.Validate(); err != nil {
		return fmt.Errorf("validator: %w", err)
	}
	return nil
}
