package document

import (
	"fmt"
	"strings"
)

// RenderConfig holds serializer configuration.
type RenderConfig struct {
	LinkTarget     string `json:"linkTarget,omitempty" yaml:"linkTarget,omitempty"`
	LinkRel        string `json:"linkRel,omitempty" yaml:"linkRel,omitempty"`
	OmitLinkTarget bool   `json:"omitLinkTarget,omitempty" yaml:"omitLinkTarget,omitempty"`
	ImageClass     string `json:"imageClass,omitempty" yaml:"imageClass,omitempty"`
}

func (c RenderConfig) applyDefaults() RenderConfig {
	if c.LinkTarget == "" {
		c.LinkTarget = "_blank"
	}
	if c.LinkRel == "" {
		c.LinkRel = "noopener noreferrer nofollow"
	}
	if c.ImageClass == "" {
		c.ImageClass = ImageBaseClass
	}
	return c
}

// Validate checks that config values are valid.
func (c RenderConfig) Validate() error {
	if strings.ContainsAny(c.LinkTarget, " \t\"'<>") {
		return fmt.Errorf("invalid linkTarget %q", c.LinkTarget)
	}
	if strings.ContainsAny(c.LinkRel, "\"'<>") {
		return fmt.Errorf("invalid linkRel %q", c.LinkRel)
	}
	if c.ImageClass == "" || len(strings.Fields(c.ImageClass)) != 1 {
		return fmt.Errorf("imageClass must be a single class name, got %q", c.ImageClass)
	}
	return nil
}
