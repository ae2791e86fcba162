package htmlparser

import (
	"bytes"
	"fmt"
)

// ParseMarkdown converts GFM markdown to a document by rendering it to HTML
// and parsing the result, so both inputs share one set of content rules.
func (p *Parser) ParseMarkdown(markdown string) (Result, error) {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(markdown), &buf); err != nil {
		return Result{}, fmt.Errorf("failed to render markdown: %w", err)
	}
	return p.Parse(buf.String()), nil
}
