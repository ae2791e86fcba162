package document

import (
	"html"
	"strconv"
	"strings"
)

// Serializer renders document trees to HTML.
type Serializer struct {
	config RenderConfig
}

// NewSerializer creates a Serializer with the given config.
func NewSerializer(config RenderConfig) (*Serializer, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Serializer{config: cfg}, nil
}

// DefaultSerializer returns a Serializer using the default config.
func DefaultSerializer() *Serializer {
	return &Serializer{config: RenderConfig{}.applyDefaults()}
}

// Serialize renders a document (or any subtree) as an HTML string.
func (s *Serializer) Serialize(root Node) string {
	var sb strings.Builder
	if root.Type == TypeDoc {
		s.writeBlocks(&sb, root.Content)
	} else {
		s.writeNode(&sb, root)
	}
	return sb.String()
}

func (s *Serializer) writeBlocks(sb *strings.Builder, blocks []Node) {
	for _, block := range blocks {
		s.writeNode(sb, block)
	}
}

func (s *Serializer) writeNode(sb *strings.Builder, node Node) {
	switch node.Type {
	case TypeDoc:
		s.writeBlocks(sb, node.Content)

	case TypeParagraph:
		sb.WriteString("<p>")
		s.writeInline(sb, node.Content)
		sb.WriteString("</p>")

	case TypeHeading:
		tag := "h" + strconv.Itoa(ClampHeadingLevel(node.GetIntAttr("level", 1)))
		sb.WriteString("<" + tag + ">")
		s.writeInline(sb, node.Content)
		sb.WriteString("</" + tag + ">")

	case TypeBulletList:
		sb.WriteString("<ul>")
		s.writeBlocks(sb, node.Content)
		sb.WriteString("</ul>")

	case TypeOrderedList:
		if start := node.GetIntAttr("start", 1); start != 1 {
			sb.WriteString(`<ol start="` + strconv.Itoa(start) + `">`)
		} else {
			sb.WriteString("<ol>")
		}
		s.writeBlocks(sb, node.Content)
		sb.WriteString("</ol>")

	case TypeListItem:
		sb.WriteString("<li>")
		s.writeBlocks(sb, node.Content)
		sb.WriteString("</li>")

	case TypeTaskList:
		sb.WriteString(`<ul data-type="taskList">`)
		s.writeBlocks(sb, node.Content)
		sb.WriteString("</ul>")

	case TypeTaskItem:
		s.writeTaskItem(sb, node)

	case TypeTable:
		sb.WriteString("<table><tbody>")
		s.writeBlocks(sb, node.Content)
		sb.WriteString("</tbody></table>")

	case TypeTableRow:
		sb.WriteString("<tr>")
		s.writeBlocks(sb, node.Content)
		sb.WriteString("</tr>")

	case TypeTableHeader, TypeTableCell:
		s.writeTableCell(sb, node)

	case TypeCodeBlock:
		sb.WriteString("<pre><code")
		if language := node.GetStringAttr("language", ""); language != "" {
			writeAttr(sb, "class", "language-"+language)
		}
		sb.WriteString(">")
		sb.WriteString(html.EscapeString(node.TextContent()))
		sb.WriteString("</code></pre>")

	case TypeBlockquote:
		sb.WriteString("<blockquote>")
		s.writeBlocks(sb, node.Content)
		sb.WriteString("</blockquote>")

	case TypeHorizontalRule:
		sb.WriteString("<hr>")

	case TypeImage:
		s.writeImage(sb, node)

	case TypeHardBreak:
		sb.WriteString("<br>")

	case TypeText:
		s.writeInline(sb, []Node{node})

	default:
		// Unknown node type - render content if any
		s.writeBlocks(sb, node.Content)
	}
}

func (s *Serializer) writeTaskItem(sb *strings.Builder, node Node) {
	checked := node.GetBoolAttr("checked", false)
	sb.WriteString(`<li data-type="taskItem" data-checked="` + strconv.FormatBool(checked) + `">`)
	sb.WriteString(`<label><input type="checkbox"`)
	if checked {
		sb.WriteString(` checked="checked"`)
	}
	sb.WriteString("><span></span></label><div>")
	s.writeBlocks(sb, node.Content)
	sb.WriteString("</div></li>")
}

func (s *Serializer) writeTableCell(sb *strings.Builder, node Node) {
	tag := "td"
	if node.Type == TypeTableHeader {
		tag = "th"
	}
	sb.WriteString("<" + tag)
	if colspan := node.GetIntAttr("colspan", 1); colspan > 1 {
		writeAttr(sb, "colspan", strconv.Itoa(colspan))
	}
	if rowspan := node.GetIntAttr("rowspan", 1); rowspan > 1 {
		writeAttr(sb, "rowspan", strconv.Itoa(rowspan))
	}
	sb.WriteString(">")
	s.writeBlocks(sb, node.Content)
	sb.WriteString("</" + tag + ">")
}

func (s *Serializer) writeImage(sb *strings.Builder, node Node) {
	sb.WriteString("<img")
	for _, attr := range ImageRenderAttrs(ImageAttrsFromNode(node), s.config.ImageClass) {
		writeAttr(sb, attr[0], attr[1])
	}
	sb.WriteString(">")
}

// writeInline renders inline content while keeping marks shared by
// adjacent text nodes open across them.
func (s *Serializer) writeInline(sb *strings.Builder, content []Node) {
	var activeMarks []Mark

	for _, node := range content {
		if node.Type != TypeText {
			// For non-text nodes, close all active marks, process node, reset marks
			s.closeMarks(sb, activeMarks)
			activeMarks = nil
			s.writeNode(sb, node)
			continue
		}

		currentMarks := s.renderableMarks(node.Marks)
		common := commonMarkPrefix(activeMarks, currentMarks)

		s.closeMarks(sb, activeMarks[common:])
		for _, mark := range currentMarks[common:] {
			sb.WriteString(s.openingTag(mark))
		}

		sb.WriteString(html.EscapeString(node.Text))
		activeMarks = currentMarks
	}

	s.closeMarks(sb, activeMarks)
}

func (s *Serializer) renderableMarks(marks []Mark) []Mark {
	canonical := NormalizeMarks(marks)
	result := canonical[:0]
	for _, mark := range canonical {
		if s.openingTag(mark) != "" {
			result = append(result, mark)
		}
	}
	return result
}

func commonMarkPrefix(active, current []Mark) int {
	common := 0
	for common < len(active) && common < len(current) && active[common].Equal(current[common]) {
		common++
	}
	return common
}

func (s *Serializer) closeMarks(sb *strings.Builder, marks []Mark) {
	for i := len(marks) - 1; i >= 0; i-- {
		sb.WriteString(closingTag(marks[i]))
	}
}

func (s *Serializer) openingTag(mark Mark) string {
	switch mark.Type {
	case MarkBold:
		return "<strong>"
	case MarkItalic:
		return "<em>"
	case MarkUnderline:
		return "<u>"
	case MarkStrike:
		return "<s>"
	case MarkCode:
		return "<code>"
	case MarkLink:
		href := mark.AttrString("href")
		if href == "" {
			return ""
		}
		var sb strings.Builder
		sb.WriteString("<a")
		writeAttr(&sb, "href", href)
		if !s.config.OmitLinkTarget {
			writeAttr(&sb, "target", s.config.LinkTarget)
			writeAttr(&sb, "rel", s.config.LinkRel)
		}
		sb.WriteString(">")
		return sb.String()
	case MarkTextColor:
		color := mark.AttrString("color")
		if color == "" {
			return ""
		}
		return `<span style="color: ` + html.EscapeString(color) + `">`
	case MarkHighlight:
		color := mark.AttrString("color")
		if color == "" {
			return "<mark>"
		}
		escaped := html.EscapeString(color)
		return `<mark data-color="` + escaped + `" style="background-color: ` + escaped + `; color: inherit">`
	}
	return ""
}

func closingTag(mark Mark) string {
	switch mark.Type {
	case MarkBold:
		return "</strong>"
	case MarkItalic:
		return "</em>"
	case MarkUnderline:
		return "</u>"
	case MarkStrike:
		return "</s>"
	case MarkCode:
		return "</code>"
	case MarkLink:
		return "</a>"
	case MarkTextColor:
		return "</span>"
	case MarkHighlight:
		return "</mark>"
	}
	return ""
}

func writeAttr(sb *strings.Builder, key, value string) {
	sb.WriteString(" ")
	sb.WriteString(key)
	sb.WriteString(`="`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteString(`"`)
}
