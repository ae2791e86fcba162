package editor

import (
	"strings"

	"github.com/rgonek/richedit/document"
)

// InsertText replaces the selected text with text. In code blocks text is
// inserted verbatim; elsewhere newlines become hard breaks. Outside code,
// runs of spaces are kept in the tree but collapse to one when the
// serialized HTML is parsed again.
func InsertText(text string) Command {
	return func(tx *Transaction) bool {
		block, ok := tx.textblock()
		if !ok || text == "" {
			return false
		}

		before, _, after := sliceInline(block.Content, tx.Selection.From, tx.Selection.To)
		var inserted []document.Node
		if block.Type == document.TypeCodeBlock {
			inserted = []document.Node{{Type: document.TypeText, Text: text}}
		} else {
			inserted = inlineFromText(text, tx.currentMarks(*block))
		}

		block.Content = joinInline(before, inserted, after)
		if block.Type == document.TypeCodeBlock {
			block.Content = plainInline(block.Content)
		}

		offset := tx.Selection.From + inlineLength(inserted)
		tx.Selection = Caret(tx.Selection.Path, offset)
		tx.clearStoredMarks()
		return true
	}
}

// InsertHardBreak inserts a line break at the cursor.
func InsertHardBreak() Command {
	return func(tx *Transaction) bool {
		block, ok := tx.textblock()
		if !ok {
			return false
		}
		if block.Type == document.TypeCodeBlock {
			return InsertText("\n")(tx)
		}

		before, _, after := sliceInline(block.Content, tx.Selection.From, tx.Selection.To)
		block.Content = joinInline(before, []document.Node{{Type: document.TypeHardBreak}}, after)
		tx.Selection = Caret(tx.Selection.Path, tx.Selection.From+1)
		return true
	}
}

// DeleteSelection removes the selected text, the selected node or the
// content of the selected cells.
func DeleteSelection() Command {
	return func(tx *Transaction) bool {
		switch tx.Selection.Kind {
		case SelectionText:
			block, ok := tx.textblock()
			if !ok || tx.Selection.Empty() {
				return false
			}
			before, _, after := sliceInline(block.Content, tx.Selection.From, tx.Selection.To)
			block.Content = joinInline(before, after)
			if block.Type == document.TypeCodeBlock {
				block.Content = plainInline(block.Content)
			}
			tx.Selection = Caret(tx.Selection.Path, tx.Selection.From)
			return true

		case SelectionNode:
			path := tx.Selection.Path
			if len(path) == 0 || !tx.Doc.Splice(path.Parent(), path.Index(), 1) {
				return false
			}
			tx.Selection = NoSelection()
			return true

		case SelectionCells:
			ctx, ok := tx.tableContext()
			if !ok {
				return false
			}
			for _, ref := range ctx.tableMap.CellsIn(ctx.rect) {
				cell := &ctx.table.Content[ref.Row].Content[ref.Index]
				cell.Content = []document.Node{{Type: document.TypeParagraph}}
			}
			return true
		}
		return false
	}
}

func inlineLength(nodes []document.Node) int {
	size := 0
	for _, node := range nodes {
		size += node.InlineSize()
	}
	return size
}

// textblockFromCode converts code block text to inline content where
// newlines become hard breaks.
func textblockFromCode(block document.Node) []document.Node {
	return document.NormalizeInline(inlineFromText(strings.TrimRight(block.TextContent(), "\n"), nil))
}
