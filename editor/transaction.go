package editor

import (
	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/htmlparser"
)

// Command is a structural edit. It mutates the transaction and reports
// whether it applied; a command that returns false leaves no trace.
type Command func(tx *Transaction) bool

// Transaction is the working copy a command edits.
type Transaction struct {
	Doc       document.Node
	Selection Selection

	storedMarks []document.Mark
	hasStored   bool
	parser      *htmlparser.Parser
}

// textblock resolves a text selection to its textblock.
func (tx *Transaction) textblock() (*document.Node, bool) {
	if tx.Selection.Kind != SelectionText {
		return nil, false
	}
	node := tx.Doc.Ref(tx.Selection.Path)
	if node == nil || !node.IsTextblock() {
		return nil, false
	}
	return node, true
}

// selectedNode resolves a node selection, optionally requiring a type.
func (tx *Transaction) selectedNode(nodeType string) (*document.Node, bool) {
	if tx.Selection.Kind != SelectionNode || len(tx.Selection.Path) == 0 {
		return nil, false
	}
	node := tx.Doc.Ref(tx.Selection.Path)
	if node == nil || (nodeType != "" && node.Type != nodeType) {
		return nil, false
	}
	return node, true
}

// currentMarks returns the marks new text at the cursor receives.
func (tx *Transaction) currentMarks(block document.Node) []document.Mark {
	if tx.hasStored {
		return tx.storedMarks
	}
	return marksAt(block.Content, tx.Selection.From)
}

func (tx *Transaction) setStoredMarks(marks []document.Mark) {
	tx.storedMarks = document.NormalizeMarks(marks)
	tx.hasStored = true
}

func (tx *Transaction) clearStoredMarks() {
	tx.storedMarks = nil
	tx.hasStored = false
}

// blockPath returns the path of the block the selection sits in: the
// textblock for text selections, the node for node selections and the
// table for cell selections.
func (tx *Transaction) blockPath() (document.Path, bool) {
	switch tx.Selection.Kind {
	case SelectionText, SelectionNode, SelectionCells:
		if len(tx.Selection.Path) > 0 {
			return tx.Selection.Path.Clone(), true
		}
	}
	return nil, false
}

// insertBlocksAfterSelection places blocks after the selected block, or at
// the end of the document when nothing is selected. An empty paragraph
// holding the cursor is replaced. It returns the path of the first
// inserted block.
func (tx *Transaction) insertBlocksAfterSelection(blocks ...document.Node) document.Path {
	path, ok := tx.blockPath()
	if !ok {
		index := len(tx.Doc.Content)
		tx.Doc.Splice(document.Path{}, index, 0, blocks...)
		return document.Path{index}
	}

	parent, index := path.Parent(), path.Index()
	current, _ := tx.Doc.At(path)
	if current.Type == document.TypeParagraph && len(current.Content) == 0 {
		tx.Doc.Splice(parent, index, 1, blocks...)
		return parent.Child(index)
	}
	tx.Doc.Splice(parent, index+1, 0, blocks...)
	return parent.Child(index + 1)
}

// splitTextblockAt replaces the selected textblock with its halves around
// the selection plus blocks in between. Empty halves are dropped. It
// returns the path of the first inserted block.
func (tx *Transaction) splitTextblockAt(blocks ...document.Node) document.Path {
	block, _ := tx.textblock()
	path := tx.Selection.Path.Clone()
	before, _, after := sliceInline(block.Content, tx.Selection.From, tx.Selection.To)

	var replacement []document.Node
	if len(before) > 0 {
		head := block.Clone()
		head.Content = before
		replacement = append(replacement, head)
	}
	first := path.Parent().Child(path.Index() + len(replacement))
	replacement = append(replacement, blocks...)
	if len(after) > 0 {
		tail := block.Clone()
		tail.Content = after
		replacement = append(replacement, tail)
	}

	tx.Doc.Splice(path.Parent(), path.Index(), 1, replacement...)
	return first
}

// firstTextblock finds the first textblock at or below path.
func firstTextblock(doc document.Node, path document.Path) (document.Path, bool) {
	node, ok := doc.At(path)
	if !ok {
		return nil, false
	}
	var found document.Path
	document.Walk(node, func(rel document.Path, n document.Node) bool {
		if found != nil {
			return false
		}
		if n.IsTextblock() {
			found = append(path.Clone(), rel...)
			return false
		}
		return true
	})
	return found, found != nil
}
