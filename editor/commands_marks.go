package editor

import (
	"strings"

	"github.com/rgonek/richedit/document"
)

// toggleable marks carry no attributes.
var toggleableMarks = map[string]bool{
	document.MarkBold:      true,
	document.MarkItalic:    true,
	document.MarkUnderline: true,
	document.MarkStrike:    true,
	document.MarkCode:      true,
}

// ToggleMark adds a simple mark to the selected text, or removes it when
// all selected text already has it. On a collapsed cursor it toggles the
// mark for the next typed text.
func ToggleMark(markType string) Command {
	return func(tx *Transaction) bool {
		if !toggleableMarks[markType] {
			return false
		}
		block, ok := tx.markableTextblock()
		if !ok {
			return false
		}

		if tx.Selection.Empty() {
			marks := tx.currentMarks(*block)
			if document.HasMark(marks, markType) {
				tx.setStoredMarks(document.RemoveMark(marks, markType))
			} else {
				tx.setStoredMarks(document.AddMark(marks, document.Mark{Type: markType}))
			}
			return true
		}

		_, middle, _ := sliceInline(block.Content, tx.Selection.From, tx.Selection.To)
		if allTextsHave(middle, markType) {
			return tx.removeMarkInSelection(markType)
		}
		return tx.addMarkInSelection(document.Mark{Type: markType})
	}
}

// SetLink links the selected text. On a collapsed cursor inside a link the
// whole link is re-targeted.
func SetLink(href string) Command {
	return func(tx *Transaction) bool {
		href = strings.TrimSpace(href)
		if href == "" {
			return false
		}
		block, ok := tx.markableTextblock()
		if !ok {
			return false
		}
		if tx.Selection.Empty() {
			from, to, found := markRange(block.Content, tx.Selection.From, document.MarkLink)
			if !found {
				return false
			}
			tx.Selection.From, tx.Selection.To = from, to
		}
		return tx.addMarkInSelection(document.Link(href))
	}
}

// UnsetLink removes links from the selection, or the whole link around a
// collapsed cursor.
func UnsetLink() Command {
	return unsetMark(document.MarkLink)
}

// SetTextColor colors the selected text (hex #rgb or #rrggbb).
func SetTextColor(color string) Command {
	return func(tx *Transaction) bool {
		if document.ValidateColor(color) != nil {
			return false
		}
		return tx.applyMark(document.TextColor(color))
	}
}

// UnsetTextColor removes text color.
func UnsetTextColor() Command {
	return unsetMark(document.MarkTextColor)
}

// SetHighlight highlights the selected text. An empty color uses the
// default highlight.
func SetHighlight(color string) Command {
	return func(tx *Transaction) bool {
		if color != "" && document.ValidateColor(color) != nil {
			return false
		}
		return tx.applyMark(document.Highlight(color))
	}
}

// UnsetHighlight removes highlights.
func UnsetHighlight() Command {
	return unsetMark(document.MarkHighlight)
}

func unsetMark(markType string) Command {
	return func(tx *Transaction) bool {
		block, ok := tx.markableTextblock()
		if !ok {
			return false
		}
		if tx.Selection.Empty() {
			if from, to, found := markRange(block.Content, tx.Selection.From, markType); found {
				tx.Selection.From, tx.Selection.To = from, to
			} else {
				marks := tx.currentMarks(*block)
				if !document.HasMark(marks, markType) {
					return false
				}
				tx.setStoredMarks(document.RemoveMark(marks, markType))
				return true
			}
		}
		return tx.removeMarkInSelection(markType)
	}
}

// applyMark adds mark to the selection or, on a collapsed cursor, to the
// stored marks.
func (tx *Transaction) applyMark(mark document.Mark) bool {
	block, ok := tx.markableTextblock()
	if !ok {
		return false
	}
	if tx.Selection.Empty() {
		tx.setStoredMarks(document.AddMark(tx.currentMarks(*block), mark))
		return true
	}
	return tx.addMarkInSelection(mark)
}

func (tx *Transaction) addMarkInSelection(mark document.Mark) bool {
	return tx.mapSelectedText(func(node document.Node) document.Node {
		node.Marks = document.AddMark(node.Marks, mark)
		return node
	})
}

func (tx *Transaction) removeMarkInSelection(markType string) bool {
	return tx.mapSelectedText(func(node document.Node) document.Node {
		node.Marks = document.RemoveMark(node.Marks, markType)
		return node
	})
}

func (tx *Transaction) mapSelectedText(fn func(document.Node) document.Node) bool {
	block, ok := tx.markableTextblock()
	if !ok || tx.Selection.Empty() {
		return false
	}
	before, middle, after := sliceInline(block.Content, tx.Selection.From, tx.Selection.To)
	block.Content = joinInline(before, mapTexts(middle, fn), after)
	return true
}

// markableTextblock is the selected textblock unless it is a code block,
// which holds plain text only.
func (tx *Transaction) markableTextblock() (*document.Node, bool) {
	block, ok := tx.textblock()
	if !ok || block.Type == document.TypeCodeBlock {
		return nil, false
	}
	return block, true
}
