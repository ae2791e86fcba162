package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mark types.
const (
	MarkLink      = "link"
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkStrike    = "strike"
	MarkCode      = "code"
	MarkTextColor = "textColor"
	MarkHighlight = "highlight"
)

// markRank is the serialization nesting order, outermost first.
var markRank = map[string]int{
	MarkLink:      0,
	MarkBold:      1,
	MarkItalic:    2,
	MarkUnderline: 3,
	MarkStrike:    4,
	MarkCode:      5,
	MarkTextColor: 6,
	MarkHighlight: 7,
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Mark represents text formatting applied to a text node (e.g., bold, link, etc.).
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Link builds a link mark.
func Link(href string) Mark {
	return Mark{Type: MarkLink, Attrs: map[string]any{"href": href}}
}

// TextColor builds a text color mark.
func TextColor(color string) Mark {
	return Mark{Type: MarkTextColor, Attrs: map[string]any{"color": strings.ToLower(color)}}
}

// Highlight builds a highlight mark. An empty color uses the renderer's default.
func Highlight(color string) Mark {
	if color == "" {
		return Mark{Type: MarkHighlight}
	}
	return Mark{Type: MarkHighlight, Attrs: map[string]any{"color": strings.ToLower(color)}}
}

// IsKnownMark checks if a mark type is supported.
func IsKnownMark(markType string) bool {
	_, ok := markRank[markType]
	return ok
}

// ValidateColor checks a hex color value (#rgb or #rrggbb).
func ValidateColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid hex color %q", color)
	}
	return nil
}

// Clone returns a deep copy of the mark.
func (m Mark) Clone() Mark {
	cloned := m
	cloned.Attrs = cloneAnyMap(m.Attrs)
	return cloned
}

// AttrString returns a string attribute of the mark.
func (m Mark) AttrString(key string) string {
	if m.Attrs == nil {
		return ""
	}
	value, _ := m.Attrs[key].(string)
	return value
}

// Equal compares type and attributes.
func (m Mark) Equal(other Mark) bool {
	return m.Type == other.Type && attrsEqual(m.Attrs, other.Attrs)
}

// NormalizeMarks deduplicates marks by type (last one wins) and sorts them
// into canonical nesting order. Unknown marks sort last by name.
func NormalizeMarks(marks []Mark) []Mark {
	if len(marks) == 0 {
		return nil
	}

	byType := make(map[string]Mark, len(marks))
	for _, mark := range marks {
		byType[mark.Type] = mark.Clone()
	}

	result := make([]Mark, 0, len(byType))
	for _, mark := range byType {
		result = append(result, mark)
	}
	sort.Slice(result, func(i, j int) bool {
		ri, iKnown := markRank[result[i].Type]
		rj, jKnown := markRank[result[j].Type]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return result[i].Type < result[j].Type
		}
	})
	return result
}

// HasMark reports whether marks contains a mark of the given type.
func HasMark(marks []Mark, markType string) bool {
	for _, mark := range marks {
		if mark.Type == markType {
			return true
		}
	}
	return false
}

// AddMark returns marks with mark added, replacing any mark of the same type.
func AddMark(marks []Mark, mark Mark) []Mark {
	next := make([]Mark, 0, len(marks)+1)
	next = append(next, marks...)
	next = append(next, mark)
	return NormalizeMarks(next)
}

// RemoveMark returns marks without marks of the given type.
func RemoveMark(marks []Mark, markType string) []Mark {
	var next []Mark
	for _, mark := range marks {
		if mark.Type != markType {
			next = append(next, mark.Clone())
		}
	}
	return next
}

// MarksEqual compares two canonical mark sets.
func MarksEqual(left, right []Mark) bool {
	if len(left) != len(right) {
		return false
	}
	for idx := range left {
		if !left[idx].Equal(right[idx]) {
			return false
		}
	}
	return true
}

func attrsEqual(left, right map[string]any) bool {
	if len(left) != len(right) {
		return false
	}
	for key, leftValue := range left {
		rightValue, ok := right[key]
		if !ok || leftValue != rightValue {
			return false
		}
	}
	return true
}

// NormalizeInline drops empty text nodes, canonicalizes marks and merges
// adjacent text nodes carrying equal marks.
func NormalizeInline(content []Node) []Node {
	var result []Node
	for _, node := range content {
		if node.Type == TypeText {
			if node.Text == "" {
				continue
			}
			node.Marks = NormalizeMarks(node.Marks)
		}
		result = appendInlineNode(result, node)
	}
	return result
}

func appendInlineNode(content []Node, next Node) []Node {
	if len(content) == 0 {
		return append(content, next)
	}

	last := &content[len(content)-1]
	if last.Type == TypeText && next.Type == TypeText && MarksEqual(last.Marks, next.Marks) {
		last.Text += next.Text
		return content
	}

	return append(content, next)
}
