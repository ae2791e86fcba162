package editor

import (
	"sync"

	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/htmlparser"
	"go.uber.org/zap"
)

// Mode is the active editing surface.
type Mode string

const (
	ModeStructured Mode = "structured"
	ModeRawHTML    Mode = "rawHTML"
)

// Editor is a handle to one editable document. Create it with New and pass
// it to whatever needs imperative access; editors share no state.
type Editor struct {
	mu sync.Mutex

	parser     *htmlparser.Parser
	serializer *document.Serializer
	logger     *zap.Logger

	doc         document.Node
	selection   Selection
	storedMarks []document.Mark
	hasStored   bool

	mode      Mode
	rawBuffer string
	disabled  bool

	placeholder string
	onChange    func(string)

	updates    listeners[ChangeEvent]
	selections listeners[SelectionEvent]
	modes      listeners[Mode]
}

// effects collects the notifications of one state transition. They are
// delivered after the editor lock is released.
type effects struct {
	changes    []ChangeEvent
	selections []SelectionEvent
	modes      []Mode
}

// New creates an Editor seeded with opts.InitialContent.
func New(opts Options) *Editor {
	e := &Editor{
		parser:      opts.Parser,
		serializer:  opts.Serializer,
		logger:      opts.Logger,
		mode:        ModeStructured,
		disabled:    opts.Disabled,
		placeholder: opts.Placeholder,
		onChange:    opts.OnChange,
	}
	if e.parser == nil {
		e.parser = htmlparser.Default()
	}
	if e.serializer == nil {
		e.serializer = document.DefaultSerializer()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	e.doc = e.parse(opts.InitialContent)
	return e
}

// Content serializes the current document. In raw mode it returns the raw
// buffer, the value the user currently sees.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeRawHTML {
		return e.rawBuffer
	}
	return e.serializer.Serialize(e.doc)
}

// Document returns a copy of the document tree.
func (e *Editor) Document() document.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// SetContent replaces the document by parsing html. The change is reported
// with OriginProgrammatic and never reaches OnChange. In raw mode the raw
// buffer is replaced as well.
func (e *Editor) SetContent(html string, opts ...ApplyOption) {
	o := resolveApplyOptions(opts)

	e.mu.Lock()
	var fx effects
	e.replaceContentLocked(html, o.source, &fx)
	if e.mode == ModeRawHTML {
		e.rawBuffer = e.serializer.Serialize(e.doc)
	}
	e.mu.Unlock()

	e.dispatch(fx)
}

func (e *Editor) replaceContentLocked(html, source string, fx *effects) {
	e.doc = e.parse(html)
	e.storedMarks, e.hasStored = nil, false
	fx.changes = append(fx.changes, ChangeEvent{
		HTML:   e.serializer.Serialize(e.doc),
		Origin: OriginProgrammatic,
		Source: source,
	})
	e.setSelectionLocked(NoSelection(), source, fx)
}

func (e *Editor) parse(html string) document.Node {
	result := e.parser.Parse(html)
	for _, warning := range result.Warnings {
		e.logger.Warn("content parse warning",
			zap.String("type", string(warning.Type)),
			zap.String("node", warning.NodeType),
			zap.String("message", warning.Message),
		)
	}
	return result.Doc
}

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Clone()
}

// Select moves the selection. It reports false when sel does not resolve in
// the document or the editor is not in structured mode.
func (e *Editor) Select(sel Selection, opts ...ApplyOption) bool {
	o := resolveApplyOptions(opts)

	e.mu.Lock()
	if e.mode != ModeStructured {
		e.mu.Unlock()
		return false
	}
	resolved := resolveSelection(e.doc, sel)
	if resolved.Kind != sel.Kind {
		e.mu.Unlock()
		return false
	}
	var fx effects
	e.storedMarks, e.hasStored = nil, false
	e.setSelectionLocked(resolved, o.source, &fx)
	e.mu.Unlock()

	e.dispatch(fx)
	return true
}

func (e *Editor) setSelectionLocked(sel Selection, source string, fx *effects) {
	e.selection = sel.Clone()
	event := SelectionEvent{Selection: sel.Clone(), Source: source}
	if sel.Kind == SelectionNode {
		if node, ok := e.doc.At(sel.Path); ok {
			event.Node = node.Clone()
			event.HasNode = true
		}
	}
	fx.selections = append(fx.selections, event)
}

// ApplyCommand runs cmd against a copy of the document. When the command
// applies, the copy is committed, the selection is recomputed and one
// change event fires if the content changed. It reports false, without any
// event, when the command does not apply, the editor is disabled or the
// raw HTML surface is active.
func (e *Editor) ApplyCommand(cmd Command, opts ...ApplyOption) bool {
	if cmd == nil {
		return false
	}
	o := resolveApplyOptions(opts)

	e.mu.Lock()
	if e.disabled || e.mode != ModeStructured {
		e.mu.Unlock()
		return false
	}

	tx := &Transaction{
		Doc:         e.doc.Clone(),
		Selection:   e.selection.Clone(),
		storedMarks: e.storedMarks,
		hasStored:   e.hasStored,
		parser:      e.parser,
	}
	if !cmd(tx) {
		e.mu.Unlock()
		return false
	}

	var fx effects
	before := e.serializer.Serialize(e.doc)
	e.doc = document.Normalize(tx.Doc)
	e.storedMarks, e.hasStored = tx.storedMarks, tx.hasStored
	if after := e.serializer.Serialize(e.doc); after != before {
		fx.changes = append(fx.changes, ChangeEvent{HTML: after, Origin: OriginUser, Source: o.source})
	}
	e.setSelectionLocked(resolveSelection(e.doc, tx.Selection), o.source, &fx)
	e.mu.Unlock()

	e.dispatch(fx)
	return true
}

// OnUpdate subscribes to every change event regardless of origin.
func (e *Editor) OnUpdate(fn func(ChangeEvent)) *Subscription {
	return e.updates.add(fn)
}

// OnSelectionChange subscribes to selection events.
func (e *Editor) OnSelectionChange(fn func(SelectionEvent)) *Subscription {
	return e.selections.add(fn)
}

// OnModeChange subscribes to mode transitions.
func (e *Editor) OnModeChange(fn func(Mode)) *Subscription {
	return e.modes.add(fn)
}

func (e *Editor) dispatch(fx effects) {
	for _, change := range fx.changes {
		if e.onChange != nil && (change.Origin == OriginUser || change.Origin == OriginRawEdit) {
			e.onChange(change.HTML)
		}
		e.updates.emit(change)
	}
	for _, mode := range fx.modes {
		e.modes.emit(mode)
	}
	for _, sel := range fx.selections {
		e.selections.emit(sel)
	}
}
