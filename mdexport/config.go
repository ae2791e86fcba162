package mdexport

import "fmt"

// UnderlineStyle controls how underline marks are rendered.
type UnderlineStyle string

const (
	UnderlineIgnore UnderlineStyle = "ignore"
	UnderlineHTML   UnderlineStyle = "html"
)

// ColorStyle controls how text color and highlight marks are rendered.
type ColorStyle string

const (
	ColorIgnore ColorStyle = "ignore"
	ColorHTML   ColorStyle = "html"
)

// ImageStyle controls how images are rendered.
type ImageStyle string

const (
	// ImageMarkdown always uses ![alt](src), dropping size and alignment.
	ImageMarkdown ImageStyle = "markdown"
	// ImageHTML uses an <img> tag for images with size or alignment.
	ImageHTML ImageStyle = "html"
)

// HardBreakStyle controls how hard line breaks are rendered.
type HardBreakStyle string

const (
	HardBreakBackslash HardBreakStyle = "backslash"
	HardBreakHTML      HardBreakStyle = "html"
)

// UnknownPolicy controls handling of unknown nodes and marks.
type UnknownPolicy string

const (
	UnknownSkip  UnknownPolicy = "skip"
	UnknownError UnknownPolicy = "error"
)

// Config holds exporter configuration.
type Config struct {
	UnderlineStyle UnderlineStyle    `json:"underlineStyle,omitempty" yaml:"underlineStyle,omitempty"`
	ColorStyle     ColorStyle        `json:"colorStyle,omitempty" yaml:"colorStyle,omitempty"`
	ImageStyle     ImageStyle        `json:"imageStyle,omitempty" yaml:"imageStyle,omitempty"`
	HardBreakStyle HardBreakStyle    `json:"hardBreakStyle,omitempty" yaml:"hardBreakStyle,omitempty"`
	UnknownNodes   UnknownPolicy     `json:"unknownNodes,omitempty" yaml:"unknownNodes,omitempty"`
	LanguageMap    map[string]string `json:"languageMap,omitempty" yaml:"languageMap,omitempty"`
}

// HTMLConfig renders every feature Markdown cannot express as inline HTML.
func HTMLConfig() Config {
	return Config{
		UnderlineStyle: UnderlineHTML,
		ColorStyle:     ColorHTML,
		ImageStyle:     ImageHTML,
		HardBreakStyle: HardBreakHTML,
	}
}

func (c Config) applyDefaults() Config {
	if c.UnderlineStyle == "" {
		c.UnderlineStyle = UnderlineIgnore
	}
	if c.ColorStyle == "" {
		c.ColorStyle = ColorIgnore
	}
	if c.ImageStyle == "" {
		c.ImageStyle = ImageMarkdown
	}
	if c.HardBreakStyle == "" {
		c.HardBreakStyle = HardBreakBackslash
	}
	if c.UnknownNodes == "" {
		c.UnknownNodes = UnknownSkip
	}
	return c
}

func (c Config) clone() Config {
	cloned := c
	if c.LanguageMap != nil {
		cloned.LanguageMap = make(map[string]string, len(c.LanguageMap))
		for k, v := range c.LanguageMap {
			cloned.LanguageMap[k] = v
		}
	}
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.UnderlineStyle != UnderlineIgnore && c.UnderlineStyle != UnderlineHTML {
		return fmt.Errorf("invalid underlineStyle %q", c.UnderlineStyle)
	}
	if c.ColorStyle != ColorIgnore && c.ColorStyle != ColorHTML {
		return fmt.Errorf("invalid colorStyle %q", c.ColorStyle)
	}
	if c.ImageStyle != ImageMarkdown && c.ImageStyle != ImageHTML {
		return fmt.Errorf("invalid imageStyle %q", c.ImageStyle)
	}
	if c.HardBreakStyle != HardBreakBackslash && c.HardBreakStyle != HardBreakHTML {
		return fmt.Errorf("invalid hardBreakStyle %q", c.HardBreakStyle)
	}
	if c.UnknownNodes != UnknownSkip && c.UnknownNodes != UnknownError {
		return fmt.Errorf("invalid unknownNodes %q", c.UnknownNodes)
	}
	return nil
}
