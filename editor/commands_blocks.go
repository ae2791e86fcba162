package editor

import (
	"github.com/rgonek/richedit/document"
)

// SetParagraph turns the selected textblock into a paragraph.
func SetParagraph() Command {
	return func(tx *Transaction) bool {
		block, ok := tx.textblock()
		if !ok || block.Type == document.TypeParagraph {
			return false
		}
		*block = convertTextblock(*block, document.Node{Type: document.TypeParagraph})
		return true
	}
}

// ToggleHeading turns the selected textblock into a heading of level, or
// back into a paragraph when it already is one.
func ToggleHeading(level int) Command {
	return func(tx *Transaction) bool {
		if level < 1 || level > document.MaxHeadingLevel {
			return false
		}
		block, ok := tx.textblock()
		if !ok {
			return false
		}
		if block.Type == document.TypeHeading && block.GetIntAttr("level", 1) == level {
			*block = convertTextblock(*block, document.Node{Type: document.TypeParagraph})
			return true
		}
		*block = convertTextblock(*block, document.NewHeading(level))
		return true
	}
}

// SetCodeBlock turns the selected textblock into a code block. Marks are
// dropped and hard breaks become newlines. The language is normalized the
// way the parser normalizes it.
func SetCodeBlock(language string) Command {
	return func(tx *Transaction) bool {
		block, ok := tx.textblock()
		if !ok {
			return false
		}
		normalized := tx.parser.NormalizeLanguage(language)
		if block.Type == document.TypeCodeBlock && block.GetStringAttr("language", "") == normalized {
			return false
		}
		*block = convertTextblock(*block, document.NewCodeBlock(normalized, ""))
		return true
	}
}

// convertTextblock moves the inline content of block into template. Offsets
// stay valid: hard breaks and newlines both count one.
func convertTextblock(block, template document.Node) document.Node {
	converted := template.Clone()
	switch {
	case template.Type == document.TypeCodeBlock:
		converted.Content = plainInline(block.Content)
	case block.Type == document.TypeCodeBlock:
		converted.Content = textblockFromCode(block)
	default:
		converted.Content = cloneNodes(block.Content)
	}
	return converted
}

// ToggleBulletList wraps the selected block in a bullet list, converts the
// surrounding list, or lifts the item out of a bullet list.
func ToggleBulletList() Command {
	return toggleList(document.TypeBulletList)
}

// ToggleOrderedList is ToggleBulletList for ordered lists.
func ToggleOrderedList() Command {
	return toggleList(document.TypeOrderedList)
}

// ToggleTaskList is ToggleBulletList for task lists.
func ToggleTaskList() Command {
	return toggleList(document.TypeTaskList)
}

func toggleList(listType string) Command {
	return func(tx *Transaction) bool {
		if _, ok := tx.textblock(); !ok {
			return false
		}
		path := tx.Selection.Path

		listPath, inList := tx.Doc.FindAncestor(path.Parent(), func(n document.Node) bool { return n.IsList() })
		if !inList {
			item := document.Node{Type: itemTypeFor(listType)}
			if listType == document.TypeTaskList {
				item.SetAttr("checked", false)
			}
			block, _ := tx.Doc.At(path)
			item.Content = []document.Node{block}
			tx.Doc.Splice(path.Parent(), path.Index(), 1, document.Node{Type: listType, Content: []document.Node{item}})
			tx.Selection.Path = append(path.Clone(), 0, 0)
			return true
		}

		list := tx.Doc.Ref(listPath)
		if list.Type != listType {
			*list = convertList(*list, listType)
			return true
		}

		tx.liftListItem(listPath, path)
		return true
	}
}

// liftListItem replaces the item holding path with its content, splitting
// the list around it.
func (tx *Transaction) liftListItem(listPath, path document.Path) {
	list, _ := tx.Doc.At(listPath)
	itemIndex := path[len(listPath)]
	item := list.Content[itemIndex]

	var replacement []document.Node
	if itemIndex > 0 {
		head := list.Clone()
		head.Content = cloneNodes(list.Content[:itemIndex])
		replacement = append(replacement, head)
	}
	offset := len(replacement)
	replacement = append(replacement, cloneNodes(item.Content)...)
	if itemIndex < len(list.Content)-1 {
		tail := list.Clone()
		tail.Content = cloneNodes(list.Content[itemIndex+1:])
		if tail.Type == document.TypeOrderedList {
			tail.SetAttr("start", list.GetIntAttr("start", 1)+itemIndex+1)
		}
		replacement = append(replacement, tail)
	}

	tx.Doc.Splice(listPath.Parent(), listPath.Index(), 1, replacement...)

	rest := path[len(listPath)+1:]
	next := listPath.Parent().Child(listPath.Index() + offset + rest[0])
	tx.Selection.Path = append(next, rest[1:]...)
}

func convertList(list document.Node, listType string) document.Node {
	converted := document.Node{Type: listType}
	for _, item := range list.Content {
		next := document.Node{Type: itemTypeFor(listType), Content: cloneNodes(item.Content)}
		if listType == document.TypeTaskList {
			next.SetAttr("checked", item.GetBoolAttr("checked", false))
		}
		converted.Content = append(converted.Content, next)
	}
	return converted
}

func itemTypeFor(listType string) string {
	if listType == document.TypeTaskList {
		return document.TypeTaskItem
	}
	return document.TypeListItem
}

// ToggleTaskItem flips the checked state of the task item around the
// selection.
func ToggleTaskItem() Command {
	return func(tx *Transaction) bool {
		path, ok := tx.blockPath()
		if !ok {
			return false
		}
		itemPath, ok := tx.Doc.FindAncestor(path, func(n document.Node) bool { return n.Type == document.TypeTaskItem })
		if !ok {
			return false
		}
		item := tx.Doc.Ref(itemPath)
		item.SetAttr("checked", !item.GetBoolAttr("checked", false))
		return true
	}
}

// ToggleBlockquote wraps the selected textblock in a blockquote or lifts
// the content of the nearest enclosing blockquote.
func ToggleBlockquote() Command {
	return func(tx *Transaction) bool {
		if _, ok := tx.textblock(); !ok {
			return false
		}
		path := tx.Selection.Path

		quotePath, inQuote := tx.Doc.FindAncestor(path.Parent(), func(n document.Node) bool {
			return n.Type == document.TypeBlockquote
		})
		if !inQuote {
			block, _ := tx.Doc.At(path)
			tx.Doc.Splice(path.Parent(), path.Index(), 1, document.Node{
				Type:    document.TypeBlockquote,
				Content: []document.Node{block},
			})
			tx.Selection.Path = append(path.Clone(), 0)
			return true
		}

		quote, _ := tx.Doc.At(quotePath)
		tx.Doc.Splice(quotePath.Parent(), quotePath.Index(), 1, cloneNodes(quote.Content)...)
		rest := path[len(quotePath):]
		next := quotePath.Parent().Child(quotePath.Index() + rest[0])
		tx.Selection.Path = append(next, rest[1:]...)
		return true
	}
}

// InsertHorizontalRule inserts a rule after the selected block and moves
// the cursor to the following textblock, creating one when needed.
func InsertHorizontalRule() Command {
	return func(tx *Transaction) bool {
		rulePath := tx.insertBlocksAfterSelection(document.Node{Type: document.TypeHorizontalRule})
		tx.ensureTextblockAfter(rulePath)
		return true
	}
}

// ensureTextblockAfter places the cursor in the block after path, inserting
// an empty paragraph when that block is not a textblock.
func (tx *Transaction) ensureTextblockAfter(path document.Path) {
	next := path.Parent().Child(path.Index() + 1)
	if node, ok := tx.Doc.At(next); !ok || !node.IsTextblock() {
		tx.Doc.Splice(path.Parent(), path.Index()+1, 0, document.Node{Type: document.TypeParagraph})
	}
	tx.Selection = Caret(next, 0)
}

// InsertContent parses html and inserts it. A single paragraph is inserted
// inline at the cursor; other content is inserted as blocks after the
// selected block.
func InsertContent(html string) Command {
	return func(tx *Transaction) bool {
		result := tx.parser.Parse(html)
		blocks := result.Doc.Content
		if len(blocks) == 1 && blocks[0].Type == document.TypeParagraph && len(blocks[0].Content) == 0 {
			return false
		}

		if block, ok := tx.markableTextblock(); ok && len(blocks) == 1 && blocks[0].Type == document.TypeParagraph {
			before, _, after := sliceInline(block.Content, tx.Selection.From, tx.Selection.To)
			block.Content = joinInline(before, blocks[0].Content, after)
			tx.Selection = Caret(tx.Selection.Path, tx.Selection.From+blocks[0].ContentSize())
			return true
		}

		first := tx.insertBlocksAfterSelection(blocks...)
		last := first.Parent().Child(first.Index() + len(blocks) - 1)
		if node, ok := tx.Doc.At(last); ok && node.IsTextblock() {
			tx.Selection = Caret(last, node.ContentSize())
		} else {
			tx.Selection = NoSelection()
		}
		return true
	}
}
