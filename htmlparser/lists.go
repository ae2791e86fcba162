package htmlparser

import (
	"strconv"
	"strings"

	"github.com/rgonek/richedit/document"
	xhtml "golang.org/x/net/html"
)

// convertList converts ul/ol. A list whose items all carry checkboxes (the
// editor's data-type markup or GFM task list output) becomes a task list.
func (s *state) convertList(n *xhtml.Node) (document.Node, bool) {
	task := attrOr(n, "data-type", "") == "taskList" || allTaskItems(n)

	list := document.Node{Type: document.TypeBulletList}
	switch {
	case task:
		list.Type = document.TypeTaskList
	case n.Data == "ol":
		list.Type = document.TypeOrderedList
		if raw, ok := getAttr(n, "start"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				s.addWarning(document.WarningInvalidAttribute, document.TypeOrderedList, "invalid start "+raw)
			} else if start != 1 {
				list.SetAttr("start", start)
			}
		}
	}

	for _, child := range children(n) {
		if isBlankText(child) {
			continue
		}
		if isElement(child, "li") {
			if task {
				list.Content = append(list.Content, s.convertTaskItem(child))
			} else {
				list.Content = append(list.Content, document.Node{
					Type:    document.TypeListItem,
					Content: s.convertBlocks(children(child)),
				})
			}
			continue
		}

		// stray content between items belongs to the previous item
		blocks := s.convertBlocks([]*xhtml.Node{child})
		if len(list.Content) == 0 {
			itemType := document.TypeListItem
			if task {
				itemType = document.TypeTaskItem
			}
			list.Content = append(list.Content, document.Node{Type: itemType})
		}
		last := &list.Content[len(list.Content)-1]
		last.Content = append(last.Content, blocks...)
	}

	if len(list.Content) == 0 {
		return document.Node{}, false
	}
	return list, true
}

func (s *state) convertTaskItem(li *xhtml.Node) document.Node {
	item := document.Node{Type: document.TypeTaskItem}

	checked := attrOr(li, "data-checked", "") == "true"
	if checkbox := findCheckbox(li); checkbox != nil {
		if _, ok := getAttr(checkbox, "checked"); ok {
			checked = true
		}
	}
	item.SetAttr("checked", checked)

	var content []*xhtml.Node
	for _, child := range children(li) {
		switch {
		case isElement(child, "label") && findCheckbox(child) != nil:
			continue
		case isCheckbox(child):
			continue
		case isElement(child, "div") && content == nil:
			content = append(content, children(child)...)
		default:
			content = append(content, child)
		}
	}
	item.Content = s.convertBlocks(content)
	return item
}

func allTaskItems(list *xhtml.Node) bool {
	items := 0
	for _, child := range children(list) {
		if isBlankText(child) {
			continue
		}
		if !isElement(child, "li") {
			return false
		}
		if attrOr(child, "data-type", "") != "taskItem" && leadingCheckbox(child) == nil {
			return false
		}
		items++
	}
	return items > 0
}

// leadingCheckbox returns the checkbox that starts an item's content, if any.
func leadingCheckbox(li *xhtml.Node) *xhtml.Node {
	for child := li.FirstChild; child != nil; child = child.NextSibling {
		if isBlankText(child) {
			continue
		}
		if isCheckbox(child) {
			return child
		}
		if isElement(child, "p", "label") {
			return leadingCheckbox(child)
		}
		return nil
	}
	return nil
}

func findCheckbox(n *xhtml.Node) *xhtml.Node {
	if isCheckbox(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if isElement(child, "ul", "ol", "div") {
			continue
		}
		if found := findCheckbox(child); found != nil {
			return found
		}
	}
	return nil
}

func isCheckbox(n *xhtml.Node) bool {
	return isElement(n, "input") && strings.EqualFold(attrOr(n, "type", ""), "checkbox")
}
