package htmlparser

import (
	"regexp"
	"strings"

	"github.com/rgonek/richedit/document"
	xhtml "golang.org/x/net/html"
)

var whitespacePattern = regexp.MustCompile(`[ \t\n\f\r]+`)

// transparentInline elements are unwrapped without a warning.
var transparentInline = map[string]bool{
	"span": true, "font": true, "small": true, "big": true, "sub": true, "sup": true,
	"abbr": true, "cite": true, "dfn": true, "kbd": true, "samp": true, "var": true,
	"q": true, "time": true, "label": true, "bdi": true, "bdo": true, "wbr": true,
	"ins": true, "nobr": true, "data": true,
}

// convertInline converts an inline element, pushing the marks it implies
// onto the marks of its children.
func (s *state) convertInline(n *xhtml.Node, marks []document.Mark, b *blockBuilder) {
	next := marks
	switch n.Data {
	case "strong", "b":
		next = withMark(marks, document.Mark{Type: document.MarkBold})
	case "em", "i":
		next = withMark(marks, document.Mark{Type: document.MarkItalic})
	case "u":
		next = withMark(marks, document.Mark{Type: document.MarkUnderline})
	case "s", "strike", "del":
		next = withMark(marks, document.Mark{Type: document.MarkStrike})
	case "code", "tt":
		next = withMark(marks, document.Mark{Type: document.MarkCode})
	case "a":
		if href := strings.TrimSpace(attrOr(n, "href", "")); href != "" {
			next = withMark(marks, document.Link(href))
		}
	case "mark":
		next = withMark(marks, document.Highlight(s.highlightColor(n)))
	case "span", "font":
		next = s.spanMarks(n, marks)
	default:
		if !transparentInline[n.Data] {
			s.addWarning(document.WarningUnknownNode, n.Data, "unsupported element unwrapped")
		}
	}

	for _, child := range children(n) {
		s.convertNode(child, next, b)
	}
}

// spanMarks reads text and background colors from a span's style.
func (s *state) spanMarks(n *xhtml.Node, marks []document.Mark) []document.Mark {
	style := attrOr(n, "style", "")
	if n.Data == "font" {
		if color, ok := getAttr(n, "color"); ok {
			style = "color: " + color + "; " + style
		}
	}

	if color, ok := document.StyleValue(style, "color"); ok {
		if normalized, ok := s.color(n.Data, color); ok {
			marks = withMark(marks, document.TextColor(normalized))
		}
	}
	if color, ok := document.StyleValue(style, "background-color"); ok {
		if normalized, ok := s.color(n.Data, color); ok {
			marks = withMark(marks, document.Highlight(normalized))
		}
	}
	return marks
}

func (s *state) highlightColor(n *xhtml.Node) string {
	color, ok := getAttr(n, "data-color")
	if !ok {
		color, ok = document.StyleValue(attrOr(n, "style", ""), "background-color")
	}
	if !ok {
		return ""
	}
	normalized, ok := s.color(n.Data, color)
	if !ok {
		return ""
	}
	return normalized
}

// color validates a CSS color value. Only hex colors are kept; "inherit"
// and friends are dropped silently, anything else with a warning.
func (s *state) color(element, value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "", "inherit", "initial", "unset", "currentcolor", "transparent":
		return "", false
	}
	if err := document.ValidateColor(value); err != nil {
		s.addWarning(document.WarningInvalidAttribute, element, err.Error())
		return "", false
	}
	return value, true
}

func withMark(marks []document.Mark, mark document.Mark) []document.Mark {
	next := make([]document.Mark, 0, len(marks)+1)
	next = append(next, marks...)
	return append(next, mark)
}
