package editor

import (
	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/htmlparser"
	"go.uber.org/zap"
)

// Options configures a new Editor.
type Options struct {
	// InitialContent seeds the document.
	InitialContent string
	// OnChange receives the content after user edits and raw-mode edits.
	// Programmatic changes (SetContent, leaving raw mode) are not reported.
	OnChange func(html string)
	// Disabled makes both editing surfaces read-only.
	Disabled bool
	// Placeholder is shown while the document is empty.
	Placeholder string

	Parser     *htmlparser.Parser
	Serializer *document.Serializer
	Logger     *zap.Logger
}

// Origin tells where a change came from.
type Origin string

const (
	// OriginUser marks edits applied through commands.
	OriginUser Origin = "user"
	// OriginProgrammatic marks content replaced by SetContent, external
	// sync or leaving raw mode.
	OriginProgrammatic Origin = "programmatic"
	// OriginRawEdit marks edits of the raw HTML buffer.
	OriginRawEdit Origin = "rawEdit"
)

// ChangeEvent describes one committed change of the content.
type ChangeEvent struct {
	HTML   string
	Origin Origin
	// Source labels the component that caused the change, if any.
	Source string
}

// SelectionEvent describes the selection after it was recomputed.
type SelectionEvent struct {
	Selection Selection
	// Node is the selected node for node selections.
	Node    document.Node
	HasNode bool
	Source  string
}

// IsImage reports whether the event selects an image node.
func (e SelectionEvent) IsImage() bool {
	return e.HasNode && e.Node.Type == document.TypeImage
}

// ApplyOption tweaks a single ApplyCommand or Select call.
type ApplyOption func(*applyOptions)

type applyOptions struct {
	source string
}

// WithSource labels the resulting events with the calling component.
func WithSource(source string) ApplyOption {
	return func(o *applyOptions) {
		o.source = source
	}
}

func resolveApplyOptions(opts []ApplyOption) applyOptions {
	var resolved applyOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&resolved)
		}
	}
	return resolved
}
