package document

// Normalize returns a copy of the tree satisfying the content rules: block
// containers hold at least one block, lists and tables drop foreign or empty
// children, textblocks hold normalized inline content and code blocks hold
// a single unmarked text node.
func Normalize(root Node) Node {
	root = root.Clone()
	if root.Type != TypeDoc {
		return normalizeNode(root)
	}
	root.Content = fillBlocks(normalizeBlocks(root.Content))
	return root
}

func normalizeNode(node Node) Node {
	switch node.Type {
	case TypeParagraph, TypeHeading:
		node.Marks = nil
		node.Content = NormalizeInline(inlineOnly(node.Content))
		if node.Type == TypeHeading {
			node.SetAttr("level", ClampHeadingLevel(node.GetIntAttr("level", 1)))
		}
	case TypeCodeBlock:
		text := codeText(node)
		node.Content = nil
		if text != "" {
			node.Content = []Node{{Type: TypeText, Text: text}}
		}
		if node.GetStringAttr("language", "") == "" {
			node.SetAttr("language", nil)
		}
	case TypeBlockquote, TypeListItem, TypeTaskItem, TypeTableHeader, TypeTableCell:
		node.Content = fillBlocks(normalizeBlocks(node.Content))
		switch node.Type {
		case TypeTaskItem:
			node.SetAttr("checked", node.GetBoolAttr("checked", false))
		case TypeTableHeader, TypeTableCell:
			normalizeSpan(&node, "colspan")
			normalizeSpan(&node, "rowspan")
		}
	case TypeBulletList, TypeOrderedList:
		node.Content = normalizeChildrenOfType(node.Content, TypeListItem)
		if node.Type == TypeOrderedList {
			if start := node.GetIntAttr("start", 1); start == 1 {
				node.SetAttr("start", nil)
			} else {
				node.SetAttr("start", start)
			}
		}
	case TypeTaskList:
		node.Content = normalizeChildrenOfType(node.Content, TypeTaskItem)
	case TypeTable:
		node.Content = normalizeChildrenOfType(node.Content, TypeTableRow)
	case TypeTableRow:
		var cells []Node
		for _, child := range node.Content {
			if child.IsTableCell() {
				cells = append(cells, normalizeNode(child))
			}
		}
		node.Content = cells
	case TypeImage, TypeHorizontalRule:
		node.Content = nil
	}
	return node
}

func normalizeSpan(node *Node, key string) {
	if span := node.GetIntAttr(key, 1); span > 1 {
		node.SetAttr(key, span)
	} else {
		node.SetAttr(key, nil)
	}
}

// normalizeBlocks normalizes block children and drops containers left empty.
func normalizeBlocks(blocks []Node) []Node {
	var result []Node
	for _, block := range blocks {
		if block.IsInline() {
			// stray inline content gets its own paragraph
			if len(result) > 0 && result[len(result)-1].Type == TypeParagraph && block.Type == TypeText {
				last := &result[len(result)-1]
				last.Content = NormalizeInline(append(last.Content, block))
				continue
			}
			result = append(result, NewParagraph(block))
			continue
		}
		normalized := normalizeNode(block)
		if isDroppableEmpty(normalized) {
			continue
		}
		result = append(result, normalized)
	}
	return result
}

func normalizeChildrenOfType(children []Node, childType string) []Node {
	var result []Node
	for _, child := range children {
		if child.Type != childType {
			continue
		}
		normalized := normalizeNode(child)
		if isDroppableEmpty(normalized) {
			continue
		}
		result = append(result, normalized)
	}
	return result
}

func isDroppableEmpty(node Node) bool {
	switch node.Type {
	case TypeBulletList, TypeOrderedList, TypeTaskList, TypeTable, TypeTableRow:
		return len(node.Content) == 0
	case TypeImage:
		return node.GetStringAttr("src", "") == ""
	}
	return false
}

func fillBlocks(blocks []Node) []Node {
	if len(blocks) == 0 {
		return []Node{{Type: TypeParagraph}}
	}
	return blocks
}

func inlineOnly(content []Node) []Node {
	var result []Node
	for _, child := range content {
		if child.IsInline() {
			result = append(result, child)
		}
	}
	return result
}

func codeText(node Node) string {
	var out []byte
	for _, child := range node.Content {
		out = append(out, child.TextContent()...)
	}
	return string(out)
}
