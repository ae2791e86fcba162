package mdexport

import (
	"strings"

	"github.com/rgonek/richedit/document"
)

// convertTable renders a GFM table. Spanning cells keep their content in
// their top-left position; the positions they cover stay empty.
func (s *state) convertTable(node document.Node) (string, error) {
	tableMap := document.BuildTableMap(node)
	if tableMap.Height == 0 || tableMap.Width == 0 {
		return "", nil
	}

	rows := make([][]string, tableMap.Height)
	for r := range rows {
		rows[r] = make([]string, tableMap.Width)
	}
	spans := false
	for r, row := range node.Content {
		for i, cell := range row.Content {
			rect, ok := tableMap.RectOf(document.CellRef{Row: r, Index: i})
			if !ok {
				continue
			}
			if rect.Bottom-rect.Top > 1 || rect.Right-rect.Left > 1 {
				spans = true
			}
			content, err := s.convertCellContent(cell)
			if err != nil {
				return "", err
			}
			rows[rect.Top][rect.Left] = content
		}
	}
	if spans {
		s.addWarning(document.WarningDroppedAttribute, node.Type, "merged cells flattened")
	}

	header := make([]string, tableMap.Width)
	body := rows
	if isHeaderRow(node.Content[0]) {
		header, body = rows[0], rows[1:]
	}

	var sb strings.Builder
	writeRow(&sb, header)
	sb.WriteString("|")
	for i := 0; i < tableMap.Width; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range body {
		writeRow(&sb, row)
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

func isHeaderRow(row document.Node) bool {
	if len(row.Content) == 0 {
		return false
	}
	for _, cell := range row.Content {
		if cell.Type != document.TypeTableHeader {
			return false
		}
	}
	return true
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

// convertCellContent flattens cell blocks to one line.
func (s *state) convertCellContent(cell document.Node) (string, error) {
	s.inTable = true
	defer func() { s.inTable = false }()

	sep := " "
	if s.config.HardBreakStyle == HardBreakHTML {
		sep = "<br>"
	}

	var parts []string
	for _, child := range cell.Content {
		var (
			out string
			err error
		)
		switch child.Type {
		case document.TypeParagraph, document.TypeHeading:
			out, err = s.convertInline(child.Content)
		case document.TypeCodeBlock:
			code := strings.TrimSpace(child.TextContent())
			if code != "" {
				delim := strings.Repeat("`", longestRun(code, '`')+1)
				out = delim + strings.ReplaceAll(code, "\n", " ") + delim
			}
		default:
			out, err = s.convertNode(child)
			out = strings.Join(strings.Fields(strings.ReplaceAll(strings.TrimRight(out, "\n"), "\n", sep)), " ")
		}
		if err != nil {
			return "", err
		}
		if out != "" {
			parts = append(parts, out)
		}
	}
	// pipes are escaped once, here
	return strings.ReplaceAll(strings.Join(parts, sep), "|", `\|`), nil
}
