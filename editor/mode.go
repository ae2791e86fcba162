package editor

import (
	"html"
	"strings"

	strip "github.com/grokify/html-strip-tags-go"
	"github.com/rgonek/richedit/document"
)

// Mode returns the active surface.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// ToggleMode switches between the structured and raw HTML surfaces.
func (e *Editor) ToggleMode() Mode {
	if e.Mode() == ModeStructured {
		e.EnterRawHTML()
	} else {
		e.EnterStructured()
	}
	return e.Mode()
}

// EnterRawHTML serializes the document into the raw buffer and makes the
// buffer the editable surface. The structured surface becomes read-only.
func (e *Editor) EnterRawHTML() bool {
	e.mu.Lock()
	if e.mode == ModeRawHTML {
		e.mu.Unlock()
		return false
	}

	var fx effects
	e.rawBuffer = e.serializer.Serialize(e.doc)
	e.mode = ModeRawHTML
	e.storedMarks, e.hasStored = nil, false
	fx.modes = append(fx.modes, ModeRawHTML)
	e.setSelectionLocked(NoSelection(), "", &fx)
	e.mu.Unlock()

	e.logger.Debug("entered raw html mode")
	e.dispatch(fx)
	return true
}

// EnterStructured parses the raw buffer into a new document, discarding
// the previous tree, and re-enables structured editing.
func (e *Editor) EnterStructured() bool {
	e.mu.Lock()
	if e.mode == ModeStructured {
		e.mu.Unlock()
		return false
	}

	var fx effects
	buffer := e.rawBuffer
	e.mode = ModeStructured
	e.rawBuffer = ""
	fx.modes = append(fx.modes, ModeStructured)
	e.replaceContentLocked(buffer, "", &fx)
	e.mu.Unlock()

	e.logger.Debug("entered structured mode")
	e.dispatch(fx)
	return true
}

// RawHTML returns the raw buffer while raw mode is active.
func (e *Editor) RawHTML() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeRawHTML {
		return "", false
	}
	return e.rawBuffer, true
}

// SetRawHTML replaces the raw buffer and reports it through OnChange. The
// document tree is untouched until the editor returns to structured mode.
func (e *Editor) SetRawHTML(value string) bool {
	e.mu.Lock()
	if e.mode != ModeRawHTML || e.disabled {
		e.mu.Unlock()
		return false
	}
	e.rawBuffer = value
	fx := effects{changes: []ChangeEvent{{HTML: value, Origin: OriginRawEdit}}}
	e.mu.Unlock()

	e.dispatch(fx)
	return true
}

// SyncExternal applies an externally supplied content value. In structured
// mode the document is reset when value differs from its serialization; in
// raw mode external values are ignored so the buffer is never overwritten
// mid-edit.
func (e *Editor) SyncExternal(value string) bool {
	e.mu.Lock()
	if e.mode == ModeRawHTML || value == e.serializer.Serialize(e.doc) {
		e.mu.Unlock()
		return false
	}

	var fx effects
	e.replaceContentLocked(value, "", &fx)
	e.mu.Unlock()

	e.dispatch(fx)
	return true
}

// SetDisabled toggles the read-only override for both surfaces.
func (e *Editor) SetDisabled(disabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = disabled
}

// Disabled reports whether editing is blocked.
func (e *Editor) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// Editable reports whether the surface of the given mode accepts edits.
func (e *Editor) Editable(mode Mode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.disabled && e.mode == mode
}

// PlainText returns the visible text. Blocks are separated by newlines.
func (e *Editor) PlainText() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeRawHTML {
		return strings.TrimSpace(html.UnescapeString(strip.StripTags(e.rawBuffer)))
	}
	return plainText(e.doc)
}

// IsEmpty reports whether the content holds no text and no media.
func (e *Editor) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeRawHTML {
		return strings.TrimSpace(html.UnescapeString(strip.StripTags(e.rawBuffer))) == "" &&
			!strings.Contains(strings.ToLower(e.rawBuffer), "<img")
	}
	return isEmptyDoc(e.doc)
}

// Placeholder returns the placeholder while the content is empty.
func (e *Editor) Placeholder() string {
	if !e.IsEmpty() {
		return ""
	}
	return e.placeholder
}

func plainText(doc document.Node) string {
	var lines []string
	document.Walk(doc, func(_ document.Path, node document.Node) bool {
		if node.IsTextblock() {
			lines = append(lines, node.TextContent())
			return false
		}
		return true
	})
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isEmptyDoc(doc document.Node) bool {
	empty := true
	document.Walk(doc, func(_ document.Path, node document.Node) bool {
		switch node.Type {
		case document.TypeImage, document.TypeHorizontalRule, document.TypeTable, document.TypeHardBreak:
			empty = false
		case document.TypeText:
			if strings.TrimSpace(node.Text) != "" {
				empty = false
			}
		}
		return empty
	})
	return empty
}
