package htmlparser

import (
	"fmt"
	"strings"

	"github.com/rgonek/richedit/document"
)

// LanguageMode controls how code block languages are normalized.
type LanguageMode string

const (
	// LanguageAlias resolves languages through the lexer registry to their
	// canonical alias ("golang" becomes "go").
	LanguageAlias LanguageMode = "alias"
	// LanguageVerbatim keeps languages as written, apart from LanguageMap.
	LanguageVerbatim LanguageMode = "verbatim"
)

// Config holds parser configuration.
type Config struct {
	DefaultImageAlign document.Align    `json:"defaultImageAlign,omitempty" yaml:"defaultImageAlign,omitempty"`
	ImageClass        string            `json:"imageClass,omitempty" yaml:"imageClass,omitempty"`
	LanguageMode      LanguageMode      `json:"languageMode,omitempty" yaml:"languageMode,omitempty"`
	LanguageMap       map[string]string `json:"languageMap,omitempty" yaml:"languageMap,omitempty"`
	MarkdownRawHTML   bool              `json:"markdownRawHTML,omitempty" yaml:"markdownRawHTML,omitempty"`
}

func (c Config) applyDefaults() Config {
	if c.DefaultImageAlign == "" {
		c.DefaultImageAlign = document.AlignNone
	}
	if c.ImageClass == "" {
		c.ImageClass = document.ImageBaseClass
	}
	if c.LanguageMode == "" {
		c.LanguageMode = LanguageAlias
	}
	return c
}

func (c Config) clone() Config {
	cloned := c
	cloned.LanguageMap = cloneStringMap(c.LanguageMap)
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if _, ok := document.ParseAlign(string(c.DefaultImageAlign)); !ok {
		return fmt.Errorf("invalid defaultImageAlign %q", c.DefaultImageAlign)
	}

	if c.LanguageMode != LanguageAlias && c.LanguageMode != LanguageVerbatim {
		return fmt.Errorf("invalid languageMode %q", c.LanguageMode)
	}

	if len(strings.Fields(c.ImageClass)) != 1 {
		return fmt.Errorf("imageClass must be a single class name, got %q", c.ImageClass)
	}

	for from, to := range c.LanguageMap {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return fmt.Errorf("languageMap keys and values must be non-empty")
		}
	}

	return nil
}

func cloneStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
