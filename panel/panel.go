// Package panel implements the image attribute panel: a view of the
// selected image's alt text, width and alignment that writes edits back
// through editor commands.
package panel

import (
	"regexp"
	"strings"
	"sync"

	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/editor"
)

// Source labels the changes the panel makes.
const Source = "image-panel"

var widthInputPattern = regexp.MustCompile(`^(\d+%?)?$`)

// Fields is the local state of the panel inputs.
type Fields struct {
	Alt   string
	Width string
	Align document.Align
}

// Panel follows the editor selection. It is visible while an image is
// selected.
type Panel struct {
	editor *editor.Editor
	sub    *editor.Subscription

	mu      sync.Mutex
	visible bool
	fields  Fields
}

// New attaches a panel to the editor. Call Close to detach it.
func New(ed *editor.Editor) *Panel {
	p := &Panel{editor: ed}
	p.sub = ed.OnSelectionChange(p.onSelection)

	sel := ed.Selection()
	if sel.Kind == editor.SelectionNode {
		if node, ok := ed.Document().At(sel.Path); ok {
			p.onSelection(editor.SelectionEvent{Selection: sel, Node: node, HasNode: true})
		}
	}
	return p
}

// Close unsubscribes from the editor and hides the panel.
func (p *Panel) Close() {
	p.sub.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
	p.fields = Fields{}
}

func (p *Panel) onSelection(ev editor.SelectionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.visible = ev.IsImage()
	if !p.visible {
		p.fields = Fields{}
		return
	}
	if ev.Source == Source {
		// the panel already shows what it wrote
		return
	}
	p.fields = FieldsFromNode(ev.Node)
}

// FieldsFromNode reads the panel fields from an image node. The width is
// shown without its px unit.
func FieldsFromNode(node document.Node) Fields {
	attrs := document.ImageAttrsFromNode(node)
	return Fields{
		Alt:   attrs.Alt,
		Width: strings.TrimSuffix(attrs.Width, "px"),
		Align: attrs.Align,
	}
}

// Visible reports whether an image is selected.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Fields returns the current field values.
func (p *Panel) Fields() Fields {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fields
}

// ValidWidthInput reports whether input is acceptable in the width field:
// empty, digits, or digits followed by %.
func ValidWidthInput(input string) bool {
	return widthInputPattern.MatchString(input)
}

// SetAlt updates the alt text of the selected image.
func (p *Panel) SetAlt(alt string) bool {
	if !p.apply(editor.UpdateImageAttribute("alt", alt)) {
		return false
	}
	p.update(func(f *Fields) { f.Alt = alt })
	return true
}

// SetWidth updates the width of the selected image. Invalid input is
// rejected and leaves the field unchanged.
func (p *Panel) SetWidth(input string) bool {
	if !ValidWidthInput(input) {
		return false
	}
	if !p.apply(editor.UpdateImageAttribute("width", input)) {
		return false
	}
	p.update(func(f *Fields) { f.Width = input })
	return true
}

// ToggleAlign presses the alignment button: the active alignment resets to
// none, any other becomes active.
func (p *Panel) ToggleAlign(align document.Align) bool {
	current := p.Fields().Align
	if !p.apply(editor.SetImageAlign(align)) {
		return false
	}
	p.update(func(f *Fields) { f.Align = current.Toggle(align) })
	return true
}

// Delete removes the selected image from the document.
func (p *Panel) Delete() bool {
	return p.apply(editor.DeleteImage())
}

func (p *Panel) apply(cmd editor.Command) bool {
	if !p.Visible() {
		return false
	}
	return p.editor.ApplyCommand(cmd, editor.WithSource(Source))
}

func (p *Panel) update(fn func(*Fields)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible {
		fn(&p.fields)
	}
}
