package editor

import (
	"github.com/rgonek/richedit/document"
)

// SelectionKind distinguishes the selection variants.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	// SelectionText is a rune range inside a single textblock.
	SelectionText
	// SelectionNode selects one whole node (images, rules, tables).
	SelectionNode
	// SelectionCells is a rectangular range of table cells.
	SelectionCells
)

// CellPos is a position in a table grid.
type CellPos struct {
	Row int
	Col int
}

// Selection points into the document. It is transient: commands recompute
// it and content replacement clears it.
type Selection struct {
	Kind SelectionKind
	// Path is the textblock (text), the node (node) or the table (cells).
	Path document.Path
	From int
	To   int

	Anchor CellPos
	Head   CellPos
}

// NoSelection returns an empty selection.
func NoSelection() Selection {
	return Selection{}
}

// TextSelection selects the runes from..to of the textblock at path.
func TextSelection(path document.Path, from, to int) Selection {
	if from > to {
		from, to = to, from
	}
	return Selection{Kind: SelectionText, Path: path.Clone(), From: from, To: to}
}

// Caret places a collapsed cursor.
func Caret(path document.Path, offset int) Selection {
	return TextSelection(path, offset, offset)
}

// NodeSelection selects the node at path.
func NodeSelection(path document.Path) Selection {
	return Selection{Kind: SelectionNode, Path: path.Clone()}
}

// CellSelection selects the cells between anchor and head of the table at path.
func CellSelection(table document.Path, anchor, head CellPos) Selection {
	return Selection{Kind: SelectionCells, Path: table.Clone(), Anchor: anchor, Head: head}
}

// Empty reports whether a text selection is collapsed.
func (s Selection) Empty() bool {
	return s.Kind != SelectionText || s.From == s.To
}

// Clone copies the selection.
func (s Selection) Clone() Selection {
	s.Path = s.Path.Clone()
	return s
}

// Equal compares two selections.
func (s Selection) Equal(other Selection) bool {
	if s.Kind != other.Kind || !s.Path.Equal(other.Path) {
		return false
	}
	switch s.Kind {
	case SelectionText:
		return s.From == other.From && s.To == other.To
	case SelectionCells:
		return s.Anchor == other.Anchor && s.Head == other.Head
	}
	return true
}

// Rect returns the grid rectangle spanned by a cell selection.
func (s Selection) Rect() document.Rect {
	return document.Rect{
		Top:    min(s.Anchor.Row, s.Head.Row),
		Left:   min(s.Anchor.Col, s.Head.Col),
		Bottom: max(s.Anchor.Row, s.Head.Row) + 1,
		Right:  max(s.Anchor.Col, s.Head.Col) + 1,
	}
}

// resolveSelection checks a selection against the document and returns a
// valid equivalent. Out-of-range text offsets are clamped; anything that no
// longer resolves becomes NoSelection.
func resolveSelection(doc document.Node, sel Selection) Selection {
	switch sel.Kind {
	case SelectionText:
		node, ok := doc.At(sel.Path)
		if !ok || !node.IsTextblock() {
			return NoSelection()
		}
		size := node.ContentSize()
		sel.From = clamp(sel.From, 0, size)
		sel.To = clamp(sel.To, sel.From, size)
		return sel
	case SelectionNode:
		if len(sel.Path) == 0 {
			return NoSelection()
		}
		if _, ok := doc.At(sel.Path); !ok {
			return NoSelection()
		}
		return sel
	case SelectionCells:
		table, ok := doc.At(sel.Path)
		if !ok || table.Type != document.TypeTable {
			return NoSelection()
		}
		m := document.BuildTableMap(table)
		if _, ok := m.CellAt(sel.Anchor.Row, sel.Anchor.Col); !ok {
			return NoSelection()
		}
		if _, ok := m.CellAt(sel.Head.Row, sel.Head.Col); !ok {
			return NoSelection()
		}
		return sel
	}
	return NoSelection()
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
