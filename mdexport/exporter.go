// Package mdexport renders editor documents as GitHub Flavored Markdown.
package mdexport

import (
	"fmt"
	"strings"

	"github.com/rgonek/richedit/document"
)

// Result holds the output of an export.
type Result struct {
	Markdown string             `json:"markdown"`
	Warnings []document.Warning `json:"warnings,omitempty"`
}

// Exporter converts document trees to Markdown.
type Exporter struct {
	config     Config
	serializer *document.Serializer
}

type state struct {
	config     Config
	serializer *document.Serializer
	warnings   []document.Warning
	// inTable flattens block structure to a single line.
	inTable bool
}

// New creates an Exporter.
func New(config Config) (*Exporter, error) {
	resolved := config.clone().applyDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{config: resolved, serializer: document.DefaultSerializer()}, nil
}

// Export renders doc. Content Markdown cannot express is dropped with a
// warning unless the config asks for HTML.
func (e *Exporter) Export(doc document.Node) (Result, error) {
	s := &state{config: e.config, serializer: e.serializer}

	var (
		out string
		err error
	)
	if doc.Type == document.TypeDoc {
		out, err = s.convertBlocks(doc.Content)
	} else {
		out, err = s.convertNode(doc)
	}
	if err != nil {
		return Result{}, err
	}

	out = strings.TrimRight(out, "\n")
	if out != "" {
		out += "\n"
	}
	return Result{Markdown: out, Warnings: s.warnings}, nil
}

func (s *state) addWarning(warnType document.WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, document.Warning{Type: warnType, NodeType: nodeType, Message: message})
}

func (s *state) convertBlocks(nodes []document.Node) (string, error) {
	var sb strings.Builder
	for _, node := range nodes {
		out, err := s.convertNode(node)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

func (s *state) convertNode(node document.Node) (string, error) {
	switch node.Type {
	case document.TypeParagraph:
		return s.convertParagraph(node)
	case document.TypeHeading:
		return s.convertHeading(node)
	case document.TypeBlockquote:
		return s.convertBlockquote(node)
	case document.TypeHorizontalRule:
		return "---\n\n", nil
	case document.TypeCodeBlock:
		return s.convertCodeBlock(node)
	case document.TypeBulletList:
		return s.convertBulletList(node)
	case document.TypeOrderedList:
		return s.convertOrderedList(node)
	case document.TypeTaskList:
		return s.convertTaskList(node)
	case document.TypeTable:
		return s.convertTable(node)
	case document.TypeImage:
		out, err := s.convertImage(node)
		if err != nil || out == "" {
			return "", err
		}
		return out + "\n\n", nil
	default:
		if s.config.UnknownNodes == UnknownError {
			return "", fmt.Errorf("unknown node type: %s", node.Type)
		}
		s.addWarning(document.WarningUnknownNode, node.Type, "unknown node skipped")
		return "", nil
	}
}

func (s *state) convertParagraph(node document.Node) (string, error) {
	content, err := s.convertInline(node.Content)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", nil
	}
	return escapeLineStart(content) + "\n\n", nil
}

func (s *state) convertHeading(node document.Node) (string, error) {
	level := min(max(node.GetIntAttr("level", 1), 1), 6)
	content, err := s.convertInline(node.Content)
	if err != nil {
		return "", err
	}
	// headings cannot end in a hard break
	content = strings.TrimRight(strings.TrimSuffix(content, "\\\n"), "\n")
	if content == "" {
		return "", nil
	}
	return strings.Repeat("#", level) + " " + strings.ReplaceAll(content, "\\\n", " ") + "\n\n", nil
}

func (s *state) convertBlockquote(node document.Node) (string, error) {
	content, err := s.convertBlocks(node.Content)
	if err != nil {
		return "", err
	}
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return "", nil
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		switch {
		case line == "":
			lines[i] = ">"
		case strings.HasPrefix(line, ">"):
			lines[i] = ">" + line
		default:
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n") + "\n\n", nil
}

func (s *state) convertCodeBlock(node document.Node) (string, error) {
	content := node.TextContent()
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	language := node.GetStringAttr("language", "")
	if mapped, ok := s.config.LanguageMap[language]; ok {
		language = mapped
	}

	fence := strings.Repeat("`", max(3, longestRun(content, '`')+1))
	var sb strings.Builder
	sb.WriteString(fence)
	sb.WriteString(language)
	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(content, "\n"))
	sb.WriteString("\n")
	sb.WriteString(fence)
	sb.WriteString("\n\n")
	return sb.String(), nil
}

func (s *state) convertImage(node document.Node) (string, error) {
	attrs := document.ImageAttrsFromNode(node)
	if attrs.Src == "" {
		s.addWarning(document.WarningInvalidAttribute, node.Type, "image without src skipped")
		return "", nil
	}

	styled := attrs.Align != document.AlignNone || attrs.Width != "" || attrs.Height != ""
	if styled && s.config.ImageStyle == ImageHTML {
		return s.serializer.Serialize(node), nil
	}
	if styled {
		s.addWarning(document.WarningDroppedAttribute, node.Type, "image size and alignment dropped")
	}

	out := "![" + escapeText(attrs.Alt) + "](" + attrs.Src
	if attrs.Title != "" {
		out += ` "` + escapeTitle(attrs.Title) + `"`
	}
	return out + ")", nil
}

// indent prefixes the first line with marker and aligns the rest under it.
func indent(content, marker string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return strings.TrimRight(marker, " ")
	}

	lines := strings.Split(content, "\n")
	pad := strings.Repeat(" ", len(marker))
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = marker + line
		case line != "":
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

func longestRun(text string, r rune) int {
	longest, current := 0, 0
	for _, c := range text {
		if c == r {
			current++
			longest = max(longest, current)
		} else {
			current = 0
		}
	}
	return longest
}
