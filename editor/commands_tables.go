package editor

import (
	"sort"

	"github.com/rgonek/richedit/document"
)

type tableContext struct {
	path     document.Path
	table    *document.Node
	tableMap document.TableMap
	rect     document.Rect
}

// tableContext resolves the table around the selection and the grid
// rectangle the selection covers, grown to whole cells.
func (tx *Transaction) tableContext() (tableContext, bool) {
	switch tx.Selection.Kind {
	case SelectionCells:
		table := tx.Doc.Ref(tx.Selection.Path)
		if table == nil || table.Type != document.TypeTable {
			return tableContext{}, false
		}
		m := document.BuildTableMap(*table)
		rect := tx.Selection.Rect()
		if rect.Top < 0 || rect.Left < 0 || rect.Bottom > m.Height || rect.Right > m.Width {
			return tableContext{}, false
		}
		return tableContext{path: tx.Selection.Path.Clone(), table: table, tableMap: m, rect: m.Expand(rect)}, true

	case SelectionText, SelectionNode:
		cellPath, ok := tx.Doc.FindAncestor(tx.Selection.Path, func(n document.Node) bool { return n.IsTableCell() })
		if !ok || len(cellPath) < 2 {
			return tableContext{}, false
		}
		tablePath := cellPath[:len(cellPath)-2].Clone()
		table := tx.Doc.Ref(tablePath)
		if table == nil || table.Type != document.TypeTable {
			return tableContext{}, false
		}
		m := document.BuildTableMap(*table)
		rect, ok := m.RectOf(document.CellRef{Row: cellPath[len(cellPath)-2], Index: cellPath[len(cellPath)-1]})
		if !ok {
			return tableContext{}, false
		}
		return tableContext{path: tablePath, table: table, tableMap: m, rect: rect}, true
	}
	return tableContext{}, false
}

func (c tableContext) cell(ref document.CellRef) *document.Node {
	return &c.table.Content[ref.Row].Content[ref.Index]
}

// refs returns every cell of the table in row order.
func (c tableContext) refs() []document.CellRef {
	var refs []document.CellRef
	for r, row := range c.table.Content {
		for i := range row.Content {
			refs = append(refs, document.CellRef{Row: r, Index: i})
		}
	}
	return refs
}

func newCell(cellType string) document.Node {
	return document.Node{Type: cellType, Content: []document.Node{{Type: document.TypeParagraph}}}
}

func setSpan(cell *document.Node, key string, span int) {
	if span > 1 {
		cell.SetAttr(key, span)
	} else {
		cell.SetAttr(key, nil)
	}
}

// InsertTable inserts a rows x cols table after the selected block and
// places the cursor in its first cell.
func InsertTable(rows, cols int, withHeaderRow bool) Command {
	return func(tx *Transaction) bool {
		if rows < 1 || cols < 1 {
			return false
		}
		table := document.Node{Type: document.TypeTable}
		for r := 0; r < rows; r++ {
			cellType := document.TypeTableCell
			if withHeaderRow && r == 0 {
				cellType = document.TypeTableHeader
			}
			row := document.Node{Type: document.TypeTableRow}
			for c := 0; c < cols; c++ {
				row.Content = append(row.Content, newCell(cellType))
			}
			table.Content = append(table.Content, row)
		}

		path := tx.insertBlocksAfterSelection(table)
		tx.Selection = Caret(append(path.Clone(), 0, 0, 0), 0)
		return true
	}
}

// AddRowAfter inserts an empty row below the selection. Cells spanning
// across the insertion point grow instead.
func AddRowAfter() Command {
	return func(tx *Transaction) bool {
		ctx, ok := tx.tableContext()
		if !ok {
			return false
		}
		m, at := ctx.tableMap, ctx.rect.Bottom

		row := document.Node{Type: document.TypeTableRow}
		grown := map[document.CellRef]bool{}
		for c := 0; c < m.Width; c++ {
			above, okAbove := m.CellAt(at-1, c)
			below, okBelow := m.CellAt(at, c)
			if okAbove && okBelow && above == below {
				if !grown[above] {
					grown[above] = true
					cell := ctx.cell(above)
					setSpan(cell, "rowspan", cell.GetIntAttr("rowspan", 1)+1)
				}
				continue
			}
			row.Content = append(row.Content, newCell(document.TypeTableCell))
		}

		tx.Doc.Splice(ctx.path, at, 0, row)
		return true
	}
}

// AddColumnAfter inserts an empty column right of the selection. Cells
// spanning across the insertion point grow instead.
func AddColumnAfter() Command {
	return func(tx *Transaction) bool {
		ctx, ok := tx.tableContext()
		if !ok {
			return false
		}
		m, at := ctx.tableMap, ctx.rect.Right

		type insertion struct {
			row, index int
			cellType   string
		}
		var inserts []insertion
		grown := map[document.CellRef]bool{}
		for r := 0; r < m.Height; r++ {
			left, okLeft := m.CellAt(r, at-1)
			right, okRight := m.CellAt(r, at)
			if okLeft && okRight && left == right {
				if !grown[left] {
					grown[left] = true
					cell := ctx.cell(left)
					setSpan(cell, "colspan", cell.GetIntAttr("colspan", 1)+1)
				}
				continue
			}
			cellType := document.TypeTableCell
			if okLeft {
				cellType = ctx.cell(left).Type
			}
			inserts = append(inserts, insertion{row: r, index: m.InsertIndex(*ctx.table, r, at), cellType: cellType})
		}

		for _, ins := range inserts {
			tx.Doc.Splice(ctx.path.Child(ins.row), ins.index, 0, newCell(ins.cellType))
		}
		return true
	}
}

// DeleteRow removes the rows covered by the selection. Cells spanning into
// the removed rows shrink; cells starting there and reaching below move down.
func DeleteRow() Command {
	return func(tx *Transaction) bool {
		ctx, ok := tx.tableContext()
		if !ok {
			return false
		}
		m, top, bottom := ctx.tableMap, ctx.rect.Top, ctx.rect.Bottom
		if top == 0 && bottom == m.Height {
			return DeleteTable()(tx)
		}

		type move struct {
			cell document.Node
			left int
		}
		var moves []move
		for _, ref := range ctx.refs() {
			rect, _ := m.RectOf(ref)
			switch {
			case rect.Top < top && rect.Bottom > top:
				cell := ctx.cell(ref)
				setSpan(cell, "rowspan", cell.GetIntAttr("rowspan", 1)-(min(rect.Bottom, bottom)-top))
			case rect.Top >= top && rect.Top < bottom && rect.Bottom > bottom:
				moved := ctx.cell(ref).Clone()
				setSpan(&moved, "rowspan", rect.Bottom-bottom)
				moves = append(moves, move{cell: moved, left: rect.Left})
			}
		}

		sort.Slice(moves, func(i, j int) bool { return moves[i].left > moves[j].left })
		for _, mv := range moves {
			tx.Doc.Splice(ctx.path.Child(bottom), m.InsertIndex(*ctx.table, bottom, mv.left), 0, mv.cell)
		}
		tx.Doc.Splice(ctx.path, top, bottom-top)

		tx.selectFirstCell(ctx.path)
		return true
	}
}

// DeleteColumn removes the columns covered by the selection. Cells only
// partly inside shrink.
func DeleteColumn() Command {
	return func(tx *Transaction) bool {
		ctx, ok := tx.tableContext()
		if !ok {
			return false
		}
		m, left, right := ctx.tableMap, ctx.rect.Left, ctx.rect.Right
		if left == 0 && right == m.Width {
			return DeleteTable()(tx)
		}

		removals := map[int][]int{}
		for _, ref := range ctx.refs() {
			rect, _ := m.RectOf(ref)
			overlap := min(rect.Right, right) - max(rect.Left, left)
			if overlap <= 0 {
				continue
			}
			if overlap == rect.Right-rect.Left {
				removals[ref.Row] = append(removals[ref.Row], ref.Index)
				continue
			}
			cell := ctx.cell(ref)
			setSpan(cell, "colspan", cell.GetIntAttr("colspan", 1)-overlap)
		}
		removeCells(ctx.table, removals)
		removeEmptyRows(ctx.table)

		tx.selectFirstCell(ctx.path)
		return true
	}
}

// DeleteTable removes the table around the selection.
func DeleteTable() Command {
	return func(tx *Transaction) bool {
		var path document.Path
		if table, ok := tx.selectedNode(document.TypeTable); ok && table != nil {
			path = tx.Selection.Path.Clone()
		} else if ctx, ok := tx.tableContext(); ok {
			path = ctx.path
		} else {
			return false
		}
		tx.Doc.Splice(path.Parent(), path.Index(), 1)
		tx.Selection = NoSelection()
		return true
	}
}

// MergeCells merges the selected cells into the top-left one. Content of
// non-empty cells is concatenated.
func MergeCells() Command {
	return func(tx *Transaction) bool {
		if tx.Selection.Kind != SelectionCells {
			return false
		}
		ctx, ok := tx.tableContext()
		if !ok {
			return false
		}
		refs := ctx.tableMap.CellsIn(ctx.rect)
		if len(refs) < 2 {
			return false
		}

		var content []document.Node
		removals := map[int][]int{}
		for i, ref := range refs {
			cell := ctx.cell(ref)
			if !isEmptyCell(*cell) {
				content = append(content, cloneNodes(cell.Content)...)
			}
			if i > 0 {
				removals[ref.Row] = append(removals[ref.Row], ref.Index)
			}
		}
		if len(content) == 0 {
			content = []document.Node{{Type: document.TypeParagraph}}
		}

		merged := ctx.cell(refs[0])
		merged.Content = content
		setSpan(merged, "colspan", ctx.rect.Right-ctx.rect.Left)
		setSpan(merged, "rowspan", ctx.rect.Bottom-ctx.rect.Top)

		removeCells(ctx.table, removals)
		removeEmptyRows(ctx.table)

		corner := CellPos{Row: ctx.rect.Top, Col: ctx.rect.Left}
		tx.Selection = CellSelection(ctx.path, corner, corner)
		return true
	}
}

// SplitCell splits a merged cell back into single cells. The original
// keeps its content; the new cells are empty.
func SplitCell() Command {
	return func(tx *Transaction) bool {
		ctx, ok := tx.tableContext()
		if !ok {
			return false
		}
		refs := ctx.tableMap.CellsIn(ctx.rect)
		if len(refs) != 1 {
			return false
		}
		rect := ctx.rect
		if rect.Right-rect.Left == 1 && rect.Bottom-rect.Top == 1 {
			return false
		}

		cell := ctx.cell(refs[0])
		cellType := cell.Type
		setSpan(cell, "colspan", 1)
		setSpan(cell, "rowspan", 1)

		for r := rect.Top; r < rect.Bottom; r++ {
			col, count := rect.Left, rect.Right-rect.Left
			if r == rect.Top {
				col, count = col+1, count-1
			}
			if count == 0 {
				continue
			}
			cells := make([]document.Node, count)
			for i := range cells {
				cells[i] = newCell(cellType)
			}
			tx.Doc.Splice(ctx.path.Child(r), ctx.tableMap.InsertIndex(*ctx.table, r, col), 0, cells...)
		}
		return true
	}
}

func (tx *Transaction) selectFirstCell(tablePath document.Path) {
	if path, ok := firstTextblock(tx.Doc, tablePath); ok {
		tx.Selection = Caret(path, 0)
		return
	}
	tx.Selection = NoSelection()
}

func removeCells(table *document.Node, removals map[int][]int) {
	for row, indexes := range removals {
		sort.Sort(sort.Reverse(sort.IntSlice(indexes)))
		cells := table.Content[row].Content
		for _, index := range indexes {
			cells = append(cells[:index:index], cells[index+1:]...)
		}
		table.Content[row].Content = cells
	}
}

// removeEmptyRows drops rows left without cells and shrinks the cells
// spanning through them.
func removeEmptyRows(table *document.Node) {
	m := document.BuildTableMap(*table)
	for r := len(table.Content) - 1; r >= 0; r-- {
		if len(table.Content[r].Content) > 0 {
			continue
		}
		shrunk := map[document.CellRef]bool{}
		for c := 0; c < m.Width; c++ {
			ref, ok := m.CellAt(r, c)
			if !ok || shrunk[ref] {
				continue
			}
			shrunk[ref] = true
			cell := &table.Content[ref.Row].Content[ref.Index]
			setSpan(cell, "rowspan", cell.GetIntAttr("rowspan", 1)-1)
		}
		table.Content = append(table.Content[:r:r], table.Content[r+1:]...)
	}
}

func isEmptyCell(cell document.Node) bool {
	return len(cell.Content) == 0 ||
		(len(cell.Content) == 1 && cell.Content[0].Type == document.TypeParagraph && len(cell.Content[0].Content) == 0)
}
