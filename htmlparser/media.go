package htmlparser

import (
	"strings"

	"github.com/rgonek/richedit/document"
	xhtml "golang.org/x/net/html"
)

// convertImage reads an <img>. Alignment comes from the inline float, then
// data-align, then the configured default. Generated classes and alignment
// declarations are not stored; rendering re-creates them.
func (s *state) convertImage(n *xhtml.Node) (document.Node, bool) {
	src := strings.TrimSpace(attrOr(n, "src", ""))
	if src == "" {
		s.addWarning(document.WarningDroppedNode, document.TypeImage, "image without src dropped")
		return document.Node{}, false
	}

	style := attrOr(n, "style", "")
	attrs := document.ImageAttrs{
		Src:    src,
		Alt:    attrOr(n, "alt", ""),
		Title:  attrOr(n, "title", ""),
		Width:  strings.TrimSpace(attrOr(n, "width", "")),
		Height: strings.TrimSpace(attrOr(n, "height", "")),
		Align:  s.imageAlign(n, style),
		Class:  strings.Join(document.UserImageClasses(attrOr(n, "class", ""), s.config.ImageClass), " "),
		Style:  document.StripAlignmentStyle(style),
	}

	return document.NewImage(attrs), true
}

func (s *state) imageAlign(n *xhtml.Node, style string) document.Align {
	if float, ok := document.StyleValue(style, "float"); ok {
		if align, ok := document.ParseAlign(float); ok && align != document.AlignCenter {
			return align
		}
		s.addWarning(document.WarningInvalidAttribute, document.TypeImage, "unsupported float value "+float)
	}

	if raw, ok := getAttr(n, "data-align"); ok {
		if align, ok := document.ParseAlign(raw); ok {
			return align
		}
		s.addWarning(document.WarningInvalidAttribute, document.TypeImage, "unsupported data-align value "+raw)
	}

	return s.config.DefaultImageAlign
}
