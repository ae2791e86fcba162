package htmlparser

import (
	"strconv"
	"strings"

	"github.com/rgonek/richedit/document"
	xhtml "golang.org/x/net/html"
)

// containerElements are unwrapped into their block children.
var containerElements = map[string]bool{
	"div": true, "section": true, "article": true, "main": true, "header": true,
	"footer": true, "nav": true, "aside": true, "figure": true, "figcaption": true,
	"body": true, "html": true, "form": true, "fieldset": true, "center": true,
	"details": true, "summary": true, "address": true, "dl": true, "dt": true, "dd": true,
}

// droppedElements never carry document content.
var droppedElements = map[string]bool{
	"script": true, "style": true, "head": true, "title": true, "meta": true,
	"link": true, "template": true, "noscript": true, "iframe": true, "object": true,
	"embed": true, "svg": true, "math": true, "canvas": true, "video": true,
	"audio": true, "button": true, "select": true, "textarea": true, "input": true,
	"colgroup": true, "col": true, "caption": true,
}

// convertBlocks converts a sequence of sibling HTML nodes into blocks.
// Loose inline content is wrapped in paragraphs.
func (s *state) convertBlocks(nodes []*xhtml.Node) []document.Node {
	b := newBlockBuilder(document.Node{Type: document.TypeParagraph}, false)
	for _, n := range nodes {
		s.convertNode(n, nil, b)
	}
	return b.finish()
}

// convertNode converts one HTML node in a flow context. Inline content goes
// to the builder's current textblock, blocks break it.
func (s *state) convertNode(n *xhtml.Node, marks []document.Mark, b *blockBuilder) {
	switch n.Type {
	case xhtml.TextNode:
		b.text(n.Data, marks)
		return
	case xhtml.ElementNode:
	default:
		// comments, doctypes
		return
	}

	if isCheckbox(n) {
		// task item markers are read by the list conversion
		return
	}
	if droppedElements[n.Data] {
		s.addWarning(document.WarningDroppedNode, n.Data, "unsupported element dropped")
		return
	}

	switch n.Data {
	case "p":
		b.block(s.convertTextblock(n, document.Node{Type: document.TypeParagraph}, marks)...)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(n.Data[1:])
		b.block(s.convertTextblock(n, document.NewHeading(level), marks)...)
	case "pre":
		b.block(s.convertCodeBlock(n))
	case "blockquote":
		b.block(document.Node{Type: document.TypeBlockquote, Content: s.convertBlocks(children(n))})
	case "hr":
		b.block(document.Node{Type: document.TypeHorizontalRule})
	case "ul", "ol", "menu":
		if list, ok := s.convertList(n); ok {
			b.block(list)
		}
	case "li":
		// list item outside of a list
		b.block(s.convertBlocks(children(n))...)
	case "table":
		if table, ok := s.convertTable(n); ok {
			b.block(table)
		}
	case "img":
		if image, ok := s.convertImage(n); ok {
			b.block(image)
		}
	case "br":
		b.inline(document.Node{Type: document.TypeHardBreak})
	default:
		if containerElements[n.Data] {
			b.flush()
			for _, child := range children(n) {
				s.convertNode(child, marks, b)
			}
			b.flush()
			return
		}
		s.convertInline(n, marks, b)
	}
}

// convertTextblock converts a paragraph or heading element. Blocks nested in
// it (images most commonly) split it into several textblocks.
func (s *state) convertTextblock(n *xhtml.Node, template document.Node, marks []document.Mark) []document.Node {
	b := newBlockBuilder(template, true)
	for _, child := range children(n) {
		s.convertNode(child, marks, b)
	}
	return b.finish()
}

func (s *state) convertCodeBlock(n *xhtml.Node) document.Node {
	language := languageFromClass(n)
	var sb strings.Builder
	for _, child := range children(n) {
		if isElement(child, "code") && language == "" {
			language = languageFromClass(child)
		}
		writeCodeText(&sb, child)
	}

	return document.NewCodeBlock(s.config.normalizeLanguage(language), sb.String())
}

func writeCodeText(sb *strings.Builder, n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		sb.WriteString(n.Data)
	case xhtml.ElementNode:
		if n.Data == "br" {
			sb.WriteString("\n")
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeCodeText(sb, child)
		}
	}
}

func languageFromClass(n *xhtml.Node) string {
	for _, class := range strings.Fields(attrOr(n, "class", "")) {
		if language, ok := strings.CutPrefix(class, "language-"); ok && language != "" {
			return language
		}
		if language, ok := strings.CutPrefix(class, "lang-"); ok && language != "" {
			return language
		}
	}
	return attrOr(n, "data-language", "")
}

// blockBuilder accumulates inline content into textblocks shaped like
// template and interleaves them with blocks.
type blockBuilder struct {
	template document.Node
	explicit bool
	blocks   []document.Node
	pending  []document.Node
}

func newBlockBuilder(template document.Node, explicit bool) *blockBuilder {
	return &blockBuilder{template: template, explicit: explicit}
}

func (b *blockBuilder) text(raw string, marks []document.Mark) {
	text := collapseWhitespace(raw)
	if text == "" {
		return
	}
	if strings.HasPrefix(text, " ") && b.atLineStart() {
		text = text[1:]
		if text == "" {
			return
		}
	}
	b.pending = append(b.pending, document.NewText(text, marks...))
}

// atLineStart reports whether a leading space would be collapsed away: at
// the start of the textblock, after a hard break or after another space.
func (b *blockBuilder) atLineStart() bool {
	if len(b.pending) == 0 {
		return true
	}
	last := b.pending[len(b.pending)-1]
	if last.Type == document.TypeHardBreak {
		return true
	}
	return last.Type == document.TypeText && strings.HasSuffix(last.Text, " ")
}

func (b *blockBuilder) inline(node document.Node) {
	if node.Type == document.TypeHardBreak {
		b.trimTrailingSpace()
	}
	b.pending = append(b.pending, node)
}

func (b *blockBuilder) block(blocks ...document.Node) {
	if len(blocks) == 0 {
		return
	}
	b.flush()
	b.blocks = append(b.blocks, blocks...)
}

func (b *blockBuilder) flush() {
	b.trimTrailingSpace()
	content := document.NormalizeInline(b.pending)
	b.pending = nil
	if len(content) == 0 {
		return
	}
	textblock := b.template.Clone()
	textblock.Content = content
	b.blocks = append(b.blocks, textblock)
}

func (b *blockBuilder) finish() []document.Node {
	b.flush()
	if b.explicit && len(b.blocks) == 0 {
		return []document.Node{b.template.Clone()}
	}
	return b.blocks
}

func (b *blockBuilder) trimTrailingSpace() {
	for len(b.pending) > 0 {
		last := &b.pending[len(b.pending)-1]
		if last.Type != document.TypeText {
			return
		}
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			return
		}
		b.pending = b.pending[:len(b.pending)-1]
	}
}

func collapseWhitespace(text string) string {
	return whitespacePattern.ReplaceAllString(text, " ")
}
