package htmlparser

import (
	"strconv"
	"strings"

	"github.com/rgonek/richedit/document"
	xhtml "golang.org/x/net/html"
)

func (s *state) convertTable(n *xhtml.Node) (document.Node, bool) {
	table := document.Node{Type: document.TypeTable}
	for _, tr := range tableRows(n) {
		row := document.Node{Type: document.TypeTableRow}
		for _, child := range children(tr) {
			if !isElement(child, "td", "th") {
				continue
			}
			row.Content = append(row.Content, s.convertTableCell(child))
		}
		if len(row.Content) > 0 {
			table.Content = append(table.Content, row)
		}
	}

	if len(table.Content) == 0 {
		s.addWarning(document.WarningDroppedNode, document.TypeTable, "table without cells dropped")
		return document.Node{}, false
	}
	return table, true
}

func tableRows(n *xhtml.Node) []*xhtml.Node {
	var rows []*xhtml.Node
	for _, child := range children(n) {
		switch {
		case isElement(child, "tr"):
			rows = append(rows, child)
		case isElement(child, "thead", "tbody", "tfoot"):
			rows = append(rows, tableRows(child)...)
		}
	}
	return rows
}

func (s *state) convertTableCell(n *xhtml.Node) document.Node {
	cell := document.Node{Type: document.TypeTableCell}
	if n.Data == "th" {
		cell.Type = document.TypeTableHeader
	}
	s.setSpan(&cell, n, "colspan")
	s.setSpan(&cell, n, "rowspan")
	cell.Content = s.convertBlocks(children(n))
	return cell
}

func (s *state) setSpan(cell *document.Node, n *xhtml.Node, key string) {
	raw, ok := getAttr(n, key)
	if !ok {
		return
	}
	span, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || span < 1 {
		s.addWarning(document.WarningInvalidAttribute, cell.Type, "invalid "+key+" "+raw)
		return
	}
	if span > 1 {
		cell.SetAttr(key, span)
	}
}
