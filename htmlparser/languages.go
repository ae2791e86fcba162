package htmlparser

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// normalizeLanguage maps a code block language to its canonical name.
// Unknown languages are kept lower-cased.
func (c Config) normalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return ""
	}
	if mapped, ok := c.LanguageMap[language]; ok {
		return mapped
	}
	for _, mapped := range c.LanguageMap {
		if mapped == language {
			return language
		}
	}
	if c.LanguageMode == LanguageVerbatim {
		return language
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return strings.ToLower(language)
	}
	config := lexer.Config()
	if len(config.Aliases) > 0 {
		return config.Aliases[0]
	}
	return strings.ToLower(config.Name)
}

// NormalizeLanguage returns the language a parsed code block would carry
// for language, so trees built outside the parser survive a round trip.
func (p *Parser) NormalizeLanguage(language string) string {
	return p.config.normalizeLanguage(language)
}
