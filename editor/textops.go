package editor

import (
	"strings"

	"github.com/rgonek/richedit/document"
)

// splitInline splits inline content at a rune offset.
func splitInline(content []document.Node, offset int) (before, after []document.Node) {
	pos := 0
	for i, node := range content {
		size := node.InlineSize()
		switch {
		case offset <= pos:
			return cloneNodes(before), append(after, cloneNodes(content[i:])...)
		case offset < pos+size:
			// offset falls inside a text node
			runes := []rune(node.Text)
			head, tail := node.Clone(), node.Clone()
			head.Text = string(runes[:offset-pos])
			tail.Text = string(runes[offset-pos:])
			before = append(before, head)
			after = append(after, tail)
			return before, append(after, cloneNodes(content[i+1:])...)
		}
		before = append(before, node.Clone())
		pos += size
	}
	return before, nil
}

// sliceInline splits inline content into the parts before, inside and
// after the range from..to.
func sliceInline(content []document.Node, from, to int) (before, middle, after []document.Node) {
	before, rest := splitInline(content, from)
	middle, after = splitInline(rest, to-from)
	return before, middle, after
}

func joinInline(parts ...[]document.Node) []document.Node {
	var joined []document.Node
	for _, part := range parts {
		joined = append(joined, part...)
	}
	return document.NormalizeInline(joined)
}

func cloneNodes(nodes []document.Node) []document.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]document.Node, len(nodes))
	for i, node := range nodes {
		out[i] = node.Clone()
	}
	return out
}

// marksAt returns the marks of the character before offset, or of the
// first character when the cursor is at the start.
func marksAt(content []document.Node, offset int) []document.Mark {
	if offset == 0 {
		if len(content) > 0 && content[0].Type == document.TypeText {
			return content[0].Marks
		}
		return nil
	}

	pos := 0
	for _, node := range content {
		size := node.InlineSize()
		if offset > pos && offset <= pos+size {
			if node.Type == document.TypeText {
				return node.Marks
			}
			return nil
		}
		pos += size
	}
	return nil
}

// markRange expands offset to the contiguous run of text carrying a mark
// of markType. It reports false when the cursor touches no such text.
func markRange(content []document.Node, offset int, markType string) (int, int, bool) {
	pos, start := 0, -1
	for _, node := range content {
		marked := node.Type == document.TypeText && document.HasMark(node.Marks, markType)
		switch {
		case marked && start < 0:
			start = pos
		case !marked && start >= 0:
			if offset >= start && offset <= pos {
				return start, pos, true
			}
			start = -1
		}
		pos += node.InlineSize()
	}
	if start >= 0 && offset >= start && offset <= pos {
		return start, pos, true
	}
	return 0, 0, false
}

// mapTexts applies fn to every text node.
func mapTexts(content []document.Node, fn func(document.Node) document.Node) []document.Node {
	out := make([]document.Node, 0, len(content))
	for _, node := range content {
		if node.Type == document.TypeText {
			node = fn(node)
		}
		out = append(out, node)
	}
	return out
}

// allTextsHave reports whether every text node carries a mark of markType.
func allTextsHave(content []document.Node, markType string) bool {
	seen := false
	for _, node := range content {
		if node.Type != document.TypeText {
			continue
		}
		seen = true
		if !document.HasMark(node.Marks, markType) {
			return false
		}
	}
	return seen
}

// inlineFromText turns text into inline nodes, newlines becoming hard breaks.
func inlineFromText(text string, marks []document.Mark) []document.Node {
	var out []document.Node
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out = append(out, document.Node{Type: document.TypeHardBreak})
		}
		if line != "" {
			out = append(out, document.NewText(line, marks...))
		}
	}
	return out
}

// plainInline flattens inline content to one unmarked text node.
func plainInline(content []document.Node) []document.Node {
	var sb strings.Builder
	for _, node := range content {
		sb.WriteString(node.TextContent())
	}
	if sb.Len() == 0 {
		return nil
	}
	return []document.Node{{Type: document.TypeText, Text: sb.String()}}
}

func runeLen(s string) int {
	return len([]rune(s))
}
