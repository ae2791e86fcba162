package htmlparser

import (
	"strings"

	"github.com/rgonek/richedit/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the outcome of parsing: a normalized document plus the
// warnings collected on the way.
type Result struct {
	Doc      document.Node      `json:"doc"`
	Warnings []document.Warning `json:"warnings,omitempty"`
}

// Parser converts HTML fragments to document trees.
type Parser struct {
	config   Config
	markdown goldmark.Markdown
}

type state struct {
	config   Config
	warnings []document.Warning
}

// New creates a Parser with the given config.
func New(config Config) (*Parser, error) {
	cfg := config.applyDefaults().clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var rendererOptions []goldmark.Option
	if cfg.MarkdownRawHTML {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}

	return &Parser{
		config: cfg,
		markdown: goldmark.New(
			append([]goldmark.Option{goldmark.WithExtensions(extension.GFM)}, rendererOptions...)...,
		),
	}, nil
}

// Default returns a Parser using the default config.
func Default() *Parser {
	p, err := New(Config{})
	if err != nil {
		panic(err)
	}
	return p
}

// Config returns a copy of the parser config.
func (p *Parser) Config() Config {
	return p.config.clone()
}

// Parse reads an HTML fragment. It never fails: unsupported markup is
// unwrapped or dropped and reported as warnings.
func (p *Parser) Parse(src string) Result {
	s := &state{config: p.config}

	context := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		s.addWarning(document.WarningDroppedNode, "html", "unparseable html treated as text: "+err.Error())
		doc := document.NewDoc(document.NewParagraph(document.NewText(src)))
		return Result{Doc: document.Normalize(doc), Warnings: s.warnings}
	}

	doc := document.Node{Type: document.TypeDoc, Content: s.convertBlocks(nodes)}
	return Result{
		Doc:      document.Normalize(doc),
		Warnings: s.warnings,
	}
}

func (s *state) addWarning(warnType document.WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, document.Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}

func getAttr(n *xhtml.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

func attrOr(n *xhtml.Node, key, fallback string) string {
	if value, ok := getAttr(n, key); ok {
		return value
	}
	return fallback
}

func children(n *xhtml.Node) []*xhtml.Node {
	var out []*xhtml.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, child)
	}
	return out
}

func isElement(n *xhtml.Node, tags ...string) bool {
	if n == nil || n.Type != xhtml.ElementNode {
		return false
	}
	for _, tag := range tags {
		if n.Data == tag {
			return true
		}
	}
	return false
}

func isBlankText(n *xhtml.Node) bool {
	return n.Type == xhtml.TextNode && strings.TrimSpace(n.Data) == ""
}

func hasClass(n *xhtml.Node, name string) bool {
	for _, class := range strings.Fields(attrOr(n, "class", "")) {
		if class == name {
			return true
		}
	}
	return false
}
