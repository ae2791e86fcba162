package document

import (
	"unicode/utf8"
)

// Node types understood by the editor.
const (
	TypeDoc            = "doc"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeListItem       = "listItem"
	TypeTaskList       = "taskList"
	TypeTaskItem       = "taskItem"
	TypeTable          = "table"
	TypeTableRow       = "tableRow"
	TypeTableHeader    = "tableHeader"
	TypeTableCell      = "tableCell"
	TypeCodeBlock      = "codeBlock"
	TypeBlockquote     = "blockquote"
	TypeHorizontalRule = "horizontalRule"
	TypeImage          = "image"
	TypeHardBreak      = "hardBreak"
	TypeText           = "text"
)

// MaxHeadingLevel is the deepest heading the editor offers.
const MaxHeadingLevel = 4

// Node represents any node in the document tree (e.g., paragraph, text, etc.).
// A node owns its Content; trees never share subtrees.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// NewDoc builds a document root. An empty document holds one empty paragraph.
func NewDoc(blocks ...Node) Node {
	if len(blocks) == 0 {
		blocks = []Node{{Type: TypeParagraph}}
	}
	return Node{Type: TypeDoc, Content: blocks}
}

// NewText builds a text leaf with the given marks in canonical order.
func NewText(text string, marks ...Mark) Node {
	node := Node{Type: TypeText, Text: text}
	if len(marks) > 0 {
		node.Marks = NormalizeMarks(marks)
	}
	return node
}

// NewParagraph builds a paragraph from inline nodes.
func NewParagraph(inline ...Node) Node {
	return Node{Type: TypeParagraph, Content: NormalizeInline(inline)}
}

// NewHeading builds a heading, clamping level to 1..MaxHeadingLevel.
func NewHeading(level int, inline ...Node) Node {
	return Node{
		Type:    TypeHeading,
		Attrs:   map[string]any{"level": ClampHeadingLevel(level)},
		Content: NormalizeInline(inline),
	}
}

// NewCodeBlock builds a code block holding plain text.
func NewCodeBlock(language, text string) Node {
	node := Node{Type: TypeCodeBlock}
	if language != "" {
		node.Attrs = map[string]any{"language": language}
	}
	if text != "" {
		node.Content = []Node{{Type: TypeText, Text: text}}
	}
	return node
}

// ClampHeadingLevel keeps a heading level in the supported range.
func ClampHeadingLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > MaxHeadingLevel {
		return MaxHeadingLevel
	}
	return level
}

// IsTextblock reports whether the node holds inline content directly.
func (n Node) IsTextblock() bool {
	switch n.Type {
	case TypeParagraph, TypeHeading, TypeCodeBlock:
		return true
	}
	return false
}

// IsInline reports whether the node lives inside a textblock.
func (n Node) IsInline() bool {
	return n.Type == TypeText || n.Type == TypeHardBreak
}

// IsLeaf reports whether the node type never has content.
func (n Node) IsLeaf() bool {
	switch n.Type {
	case TypeText, TypeHardBreak, TypeImage, TypeHorizontalRule:
		return true
	}
	return false
}

// IsList reports whether the node is one of the list containers.
func (n Node) IsList() bool {
	switch n.Type {
	case TypeBulletList, TypeOrderedList, TypeTaskList:
		return true
	}
	return false
}

// IsTableCell reports whether the node is a header or data cell.
func (n Node) IsTableCell() bool {
	return n.Type == TypeTableHeader || n.Type == TypeTableCell
}

// InlineSize is the length of a node inside a textblock: runes for text, one otherwise.
func (n Node) InlineSize() int {
	if n.Type == TypeText {
		return utf8.RuneCountInString(n.Text)
	}
	return 1
}

// ContentSize is the inline length of a textblock.
func (n Node) ContentSize() int {
	size := 0
	for _, child := range n.Content {
		size += child.InlineSize()
	}
	return size
}

// GetStringAttr returns a string attribute or fallback when missing or not a string.
func (n Node) GetStringAttr(key, fallback string) string {
	if n.Attrs == nil {
		return fallback
	}
	if value, ok := n.Attrs[key].(string); ok {
		return value
	}
	return fallback
}

// GetIntAttr returns an integer attribute, accepting JSON float64 values.
func (n Node) GetIntAttr(key string, fallback int) int {
	if n.Attrs == nil {
		return fallback
	}
	switch value := n.Attrs[key].(type) {
	case int:
		return value
	case float64:
		return int(value)
	}
	return fallback
}

// GetBoolAttr returns a boolean attribute or fallback.
func (n Node) GetBoolAttr(key string, fallback bool) bool {
	if n.Attrs == nil {
		return fallback
	}
	if value, ok := n.Attrs[key].(bool); ok {
		return value
	}
	return fallback
}

// SetAttr sets or, for nil values, removes an attribute.
func (n *Node) SetAttr(key string, value any) {
	if value == nil {
		if n.Attrs != nil {
			delete(n.Attrs, key)
			if len(n.Attrs) == 0 {
				n.Attrs = nil
			}
		}
		return
	}
	if n.Attrs == nil {
		n.Attrs = map[string]any{}
	}
	n.Attrs[key] = value
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	cloned := n
	cloned.Attrs = cloneAnyMap(n.Attrs)
	if n.Marks != nil {
		cloned.Marks = make([]Mark, len(n.Marks))
		for i, mark := range n.Marks {
			cloned.Marks[i] = mark.Clone()
		}
	}
	if n.Content != nil {
		cloned.Content = make([]Node, len(n.Content))
		for i, child := range n.Content {
			cloned.Content[i] = child.Clone()
		}
	}
	return cloned
}

// TextContent concatenates the text of the subtree; hard breaks become newlines.
func (n Node) TextContent() string {
	switch n.Type {
	case TypeText:
		return n.Text
	case TypeHardBreak:
		return "\n"
	}
	var out []byte
	for _, child := range n.Content {
		out = append(out, child.TextContent()...)
	}
	return string(out)
}

func cloneAnyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
