package mdexport

import (
	"fmt"
	"strings"

	"github.com/rgonek/richedit/document"
)

func (s *state) convertBulletList(node document.Node) (string, error) {
	return s.convertList(node, document.TypeListItem, func(int, document.Node) string { return "- " })
}

func (s *state) convertOrderedList(node document.Node) (string, error) {
	start := node.GetIntAttr("start", 1)
	return s.convertList(node, document.TypeListItem, func(i int, _ document.Node) string {
		return fmt.Sprintf("%d. ", start+i)
	})
}

func (s *state) convertTaskList(node document.Node) (string, error) {
	return s.convertList(node, document.TypeTaskItem, func(_ int, item document.Node) string {
		if item.GetBoolAttr("checked", false) {
			return "- [x] "
		}
		return "- [ ] "
	})
}

func (s *state) convertList(node document.Node, itemType string, marker func(int, document.Node) string) (string, error) {
	var items []string
	for _, item := range node.Content {
		if item.Type != itemType {
			s.addWarning(document.WarningUnknownNode, item.Type, fmt.Sprintf("%s expects %s children", node.Type, itemType))
			continue
		}
		content, err := s.convertListItemContent(item.Content)
		if err != nil {
			return "", err
		}
		items = append(items, indent(content, marker(len(items), item)))
	}
	if len(items) == 0 {
		return "", nil
	}
	return strings.Join(items, "\n") + "\n\n", nil
}

// convertListItemContent renders item children; a nested list follows its
// paragraph without a blank line so the list stays tight.
func (s *state) convertListItemContent(content []document.Node) (string, error) {
	var sb strings.Builder
	for i, child := range content {
		out, err := s.convertNode(child)
		if err != nil {
			return "", err
		}
		out = strings.TrimRight(out, "\n")
		if out == "" {
			continue
		}
		if sb.Len() > 0 {
			if child.IsList() && content[i-1].Type == document.TypeParagraph {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}
