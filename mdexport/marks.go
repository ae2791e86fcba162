package mdexport

import (
	"fmt"
	"strings"

	"github.com/rgonek/richedit/document"
)

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"~", `\~`,
)

func escapeText(text string) string {
	return textEscaper.Replace(text)
}

func escapeTitle(title string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(title)
}

// escapeLineStart escapes characters that would turn a paragraph line into
// a heading, quote or list.
func escapeLineStart(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "#"), strings.HasPrefix(line, ">"),
			strings.HasPrefix(line, "- "), strings.HasPrefix(line, "+ "):
			lines[i] = `\` + line
		case orderedMarkerLen(line) > 0:
			n := orderedMarkerLen(line)
			lines[i] = line[:n-1] + `\` + line[n-1:]
		}
	}
	return strings.Join(lines, "\n")
}

// orderedMarkerLen returns the length of a leading "12." marker, or 0.
func orderedMarkerLen(line string) int {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(line) || line[i] != '.' || line[i+1] != ' ' {
		return 0
	}
	return i + 1
}

type inlineWriter struct {
	sb           strings.Builder
	active       []document.Mark
	pendingSpace string
	underscoreEm bool
	codeDelim    string
}

// convertInline renders inline content, keeping marks shared by adjacent
// text nodes open across them.
func (s *state) convertInline(content []document.Node) (string, error) {
	w := &inlineWriter{
		underscoreEm: hasBoldAndItalic(content),
		codeDelim:    strings.Repeat("`", longestCodeRun(content)+1),
	}

	for _, node := range content {
		if node.Type != document.TypeText {
			w.closeFrom(0)
			w.flushSpace()
			out, err := s.convertInlineNode(node)
			if err != nil {
				return "", err
			}
			w.sb.WriteString(out)
			continue
		}

		marks, err := s.renderableMarks(node.Marks)
		if err != nil {
			return "", err
		}
		lead, core, trail := splitSpace(node.Text)
		if core == "" {
			// whitespace keeps the marks it shares with the open run
			marks = intersectMarks(w.active, marks)
		}

		common := commonPrefix(w.active, marks)
		w.closeFrom(common)
		w.flushSpace()
		if common < len(marks) {
			w.sb.WriteString(lead)
			lead = ""
		}
		for _, mark := range marks[common:] {
			open, _ := w.delimiters(mark)
			w.sb.WriteString(open)
		}
		w.active = marks

		if document.HasMark(marks, document.MarkCode) {
			w.sb.WriteString(lead + core)
		} else {
			w.sb.WriteString(escapeText(lead + core))
		}
		w.pendingSpace = trail
	}

	w.closeFrom(0)
	w.flushSpace()
	return w.sb.String(), nil
}

func (w *inlineWriter) closeFrom(index int) {
	for i := len(w.active) - 1; i >= index; i-- {
		_, closing := w.delimiters(w.active[i])
		w.sb.WriteString(closing)
	}
	if index < len(w.active) {
		w.active = w.active[:index]
	}
}

func (w *inlineWriter) flushSpace() {
	w.sb.WriteString(w.pendingSpace)
	w.pendingSpace = ""
}

func (w *inlineWriter) delimiters(mark document.Mark) (string, string) {
	switch mark.Type {
	case document.MarkBold:
		return "**", "**"
	case document.MarkItalic:
		if w.underscoreEm {
			return "_", "_"
		}
		return "*", "*"
	case document.MarkStrike:
		return "~~", "~~"
	case document.MarkCode:
		return w.codeDelim, w.codeDelim
	case document.MarkUnderline:
		return "<u>", "</u>"
	case document.MarkLink:
		closing := "](" + mark.AttrString("href")
		if title := mark.AttrString("title"); title != "" {
			closing += ` "` + escapeTitle(title) + `"`
		}
		return "[", closing + ")"
	case document.MarkTextColor:
		return `<span style="color: ` + mark.AttrString("color") + `">`, "</span>"
	case document.MarkHighlight:
		if color := mark.AttrString("color"); color != "" {
			return `<mark style="background-color: ` + color + `">`, "</mark>"
		}
		return "<mark>", "</mark>"
	}
	return "", ""
}

// renderableMarks drops the marks the config does not render.
func (s *state) renderableMarks(marks []document.Mark) ([]document.Mark, error) {
	var out []document.Mark
	for _, mark := range marks {
		switch mark.Type {
		case document.MarkBold, document.MarkItalic, document.MarkStrike, document.MarkCode:
		case document.MarkLink:
			if mark.AttrString("href") == "" {
				continue
			}
		case document.MarkUnderline:
			if s.config.UnderlineStyle != UnderlineHTML {
				continue
			}
		case document.MarkTextColor, document.MarkHighlight:
			if s.config.ColorStyle != ColorHTML {
				continue
			}
		default:
			if s.config.UnknownNodes == UnknownError {
				return nil, fmt.Errorf("unknown mark type: %s", mark.Type)
			}
			s.addWarning(document.WarningUnknownMark, mark.Type, "unknown mark skipped")
			continue
		}
		out = append(out, mark)
	}
	return out, nil
}

func (s *state) convertInlineNode(node document.Node) (string, error) {
	switch node.Type {
	case document.TypeHardBreak:
		if s.inTable || s.config.HardBreakStyle == HardBreakHTML {
			return "<br>", nil
		}
		return "\\\n", nil
	case document.TypeImage:
		return s.convertImage(node)
	default:
		if s.config.UnknownNodes == UnknownError {
			return "", fmt.Errorf("unknown inline node type: %s", node.Type)
		}
		s.addWarning(document.WarningUnknownNode, node.Type, "unknown inline node skipped")
		return "", nil
	}
}

func splitSpace(text string) (lead, core, trail string) {
	trimmed := strings.TrimLeft(text, " ")
	lead = text[:len(text)-len(trimmed)]
	core = strings.TrimRight(trimmed, " ")
	trail = trimmed[len(core):]
	return lead, core, trail
}

func commonPrefix(active, current []document.Mark) int {
	n := 0
	for n < len(active) && n < len(current) && active[n].Equal(current[n]) {
		n++
	}
	return n
}

// intersectMarks keeps the marks of active that current also has.
func intersectMarks(active, current []document.Mark) []document.Mark {
	var out []document.Mark
	for _, am := range active {
		for _, cm := range current {
			if am.Equal(cm) {
				out = append(out, am)
				break
			}
		}
	}
	return out
}

func hasBoldAndItalic(content []document.Node) bool {
	for _, node := range content {
		if node.Type == document.TypeText &&
			document.HasMark(node.Marks, document.MarkBold) &&
			document.HasMark(node.Marks, document.MarkItalic) {
			return true
		}
	}
	return false
}

func longestCodeRun(content []document.Node) int {
	longest := 0
	for _, node := range content {
		if node.Type == document.TypeText && document.HasMark(node.Marks, document.MarkCode) {
			longest = max(longest, longestRun(node.Text, '`'))
		}
	}
	return longest
}
