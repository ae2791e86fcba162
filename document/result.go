package document

// WarningType categorizes parse warnings.
type WarningType string

const (
	WarningUnknownNode      WarningType = "unknown_node"
	WarningUnknownMark      WarningType = "unknown_mark"
	WarningDroppedNode      WarningType = "dropped_node"
	WarningDroppedAttribute WarningType = "dropped_attribute"
	WarningInvalidAttribute WarningType = "invalid_attribute"
)

// Warning represents a non-fatal issue encountered while reading content.
type Warning struct {
	Type     WarningType `json:"type"`
	NodeType string      `json:"nodeType,omitempty"`
	Message  string      `json:"message"`
}
