package document

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Align controls how an image floats relative to surrounding content.
type Align string

const (
	AlignNone   Align = "none"
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ImageBaseClass is always present on rendered images.
const ImageBaseClass = "custom-image"

var dimensionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(px|%)?$`)

// ErrMissingSrc is returned when a patch would leave an image without a source.
var ErrMissingSrc = errors.New("image src is required")

// ParseAlign maps a string to an Align. Unknown values are rejected.
func ParseAlign(value string) (Align, bool) {
	switch Align(strings.ToLower(strings.TrimSpace(value))) {
	case AlignNone:
		return AlignNone, true
	case AlignLeft:
		return AlignLeft, true
	case AlignCenter:
		return AlignCenter, true
	case AlignRight:
		return AlignRight, true
	}
	return "", false
}

// Toggle returns the alignment after pressing the button for requested:
// pressing the active alignment again resets to none.
func (a Align) Toggle(requested Align) Align {
	if a == requested {
		return AlignNone
	}
	return requested
}

// ImageAttrs is the typed view of an image node's attributes. Empty strings
// mean the attribute is absent.
type ImageAttrs struct {
	Src    string
	Alt    string
	Title  string
	Width  string
	Height string
	Align  Align
	Class  string
	Style  string
}

// ImageAttrsFromNode reads the typed attributes of an image node.
func ImageAttrsFromNode(node Node) ImageAttrs {
	align, ok := ParseAlign(node.GetStringAttr("align", ""))
	if !ok {
		align = AlignNone
	}
	return ImageAttrs{
		Src:    node.GetStringAttr("src", ""),
		Alt:    node.GetStringAttr("alt", ""),
		Title:  node.GetStringAttr("title", ""),
		Width:  node.GetStringAttr("width", ""),
		Height: node.GetStringAttr("height", ""),
		Align:  align,
		Class:  node.GetStringAttr("class", ""),
		Style:  node.GetStringAttr("style", ""),
	}
}

// Node builds the image node carrying these attributes.
func (a ImageAttrs) Node() Node {
	node := Node{Type: TypeImage}
	node.SetAttr("src", a.Src)
	setOptional := func(key, value string) {
		if value != "" {
			node.SetAttr(key, value)
		}
	}
	setOptional("alt", a.Alt)
	setOptional("title", a.Title)
	setOptional("width", a.Width)
	setOptional("height", a.Height)
	align := a.Align
	if align == "" {
		align = AlignNone
	}
	node.SetAttr("align", string(align))
	setOptional("class", a.Class)
	setOptional("style", a.Style)
	return node
}

// NewImage builds an image node.
func NewImage(attrs ImageAttrs) Node {
	return attrs.Node()
}

// ImagePatch is a typed partial update of image attributes.
type ImagePatch struct {
	Src    Value[string]
	Alt    Value[string]
	Title  Value[string]
	Width  Value[string]
	Height Value[string]
	Align  Value[Align]
	Class  Value[string]
	Style  Value[string]
}

// IsEmpty reports whether the patch changes nothing.
func (p ImagePatch) IsEmpty() bool {
	return !p.Src.IsSet() && !p.Alt.IsSet() && !p.Title.IsSet() && !p.Width.IsSet() &&
		!p.Height.IsSet() && !p.Align.IsSet() && !p.Class.IsSet() && !p.Style.IsSet()
}

// Apply merges the patch over attrs. Dimensions are normalized: bare numbers
// gain "px", percentages pass through and empty values clear.
func (p ImagePatch) Apply(attrs ImageAttrs) (ImageAttrs, error) {
	next := attrs
	next.Src = strings.TrimSpace(p.Src.Resolve(attrs.Src))
	if next.Src == "" {
		return attrs, ErrMissingSrc
	}
	next.Alt = p.Alt.Resolve(attrs.Alt)
	next.Title = p.Title.Resolve(attrs.Title)

	width, err := NormalizeDimension(p.Width.Resolve(attrs.Width))
	if err != nil {
		return attrs, fmt.Errorf("width: %w", err)
	}
	next.Width = width

	height, err := NormalizeDimension(p.Height.Resolve(attrs.Height))
	if err != nil {
		return attrs, fmt.Errorf("height: %w", err)
	}
	next.Height = height

	next.Align = p.Align.Resolve(attrs.Align)
	if next.Align == "" {
		next.Align = AlignNone
	}
	if _, ok := ParseAlign(string(next.Align)); !ok {
		return attrs, fmt.Errorf("invalid align %q", next.Align)
	}
	next.Class = p.Class.Resolve(attrs.Class)
	next.Style = StripAlignmentStyle(p.Style.Resolve(attrs.Style))

	return next, nil
}

// NormalizeDimension coerces a width/height value: "300" becomes "300px",
// "300px" and "50%" pass through and "" stays empty.
func NormalizeDimension(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	match := dimensionPattern.FindStringSubmatch(value)
	if match == nil {
		return "", fmt.Errorf("invalid dimension %q", value)
	}
	if match[2] == "" {
		return match[1] + "px", nil
	}
	return value, nil
}

// DimensionFromAny converts the loosely typed values an attribute setter
// receives (numbers, strings, nil) into a dimension string.
func DimensionFromAny(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return NormalizeDimension(typed)
	case int:
		return NormalizeDimension(strconv.Itoa(typed))
	case int64:
		return NormalizeDimension(strconv.FormatInt(typed, 10))
	case float64:
		return NormalizeDimension(strconv.FormatFloat(typed, 'f', -1, 64))
	}
	return "", fmt.Errorf("unsupported dimension value %v (%T)", value, value)
}

// PatchFromAttribute builds a single-attribute patch. A nil value clears the
// attribute; empty width/height strings clear as well.
func PatchFromAttribute(key string, value any) (ImagePatch, error) {
	var patch ImagePatch

	stringField := func() (Value[string], error) {
		switch typed := value.(type) {
		case nil:
			return Clear[string](), nil
		case string:
			if typed == "" {
				return Clear[string](), nil
			}
			return Some(typed), nil
		}
		return Value[string]{}, fmt.Errorf("attribute %s expects a string, got %T", key, value)
	}

	var err error
	switch key {
	case "src":
		patch.Src, err = stringField()
	case "alt":
		patch.Alt, err = stringField()
	case "title":
		patch.Title, err = stringField()
	case "class":
		patch.Class, err = stringField()
	case "style":
		patch.Style, err = stringField()
	case "width", "height":
		dimension, dimErr := DimensionFromAny(value)
		if dimErr != nil {
			return ImagePatch{}, fmt.Errorf("%s: %w", key, dimErr)
		}
		field := Some(dimension)
		if dimension == "" {
			field = Clear[string]()
		}
		if key == "width" {
			patch.Width = field
		} else {
			patch.Height = field
		}
	case "align":
		if value == nil {
			patch.Align = Some(AlignNone)
			break
		}
		raw, ok := value.(string)
		if !ok {
			return ImagePatch{}, fmt.Errorf("attribute align expects a string, got %T", value)
		}
		align, ok := ParseAlign(raw)
		if !ok {
			return ImagePatch{}, fmt.Errorf("invalid align %q", raw)
		}
		patch.Align = Some(align)
	default:
		return ImagePatch{}, fmt.Errorf("unknown image attribute %q", key)
	}
	if err != nil {
		return ImagePatch{}, err
	}
	return patch, nil
}

// AlignmentStyle returns the CSS declarations and class for an alignment.
func AlignmentStyle(align Align) (style string, class string) {
	switch align {
	case AlignLeft:
		return "float: left;", "align-left"
	case AlignRight:
		return "float: right;", "align-right"
	case AlignCenter:
		return "display: block; margin-left: auto; margin-right: auto;", "align-center"
	}
	return "", ""
}

// ImageRenderAttrs computes the HTML attributes of an image in output order.
func ImageRenderAttrs(attrs ImageAttrs, baseClass string) [][2]string {
	if baseClass == "" {
		baseClass = ImageBaseClass
	}

	out := [][2]string{{"src", attrs.Src}}
	if attrs.Alt != "" {
		out = append(out, [2]string{"alt", attrs.Alt})
	}
	if attrs.Title != "" {
		out = append(out, [2]string{"title", attrs.Title})
	}
	if attrs.Width != "" {
		out = append(out, [2]string{"width", attrs.Width})
	}
	if attrs.Height != "" {
		out = append(out, [2]string{"height", attrs.Height})
	}

	align := attrs.Align
	if align == "" {
		align = AlignNone
	}
	alignStyle, alignClass := AlignmentStyle(align)

	classes := []string{baseClass}
	if alignClass != "" {
		classes = append(classes, alignClass)
	}
	classes = append(classes, UserImageClasses(attrs.Class, baseClass)...)
	out = append(out, [2]string{"class", strings.Join(classes, " ")})

	style := StripAlignmentStyle(attrs.Style)
	if alignStyle != "" {
		if style != "" {
			style += " "
		}
		style += alignStyle
	}
	if style != "" {
		out = append(out, [2]string{"style", style})
	}

	out = append(out, [2]string{"data-align", string(align)})
	return out
}

// UserImageClasses returns the classes of a class attribute that the
// renderer does not generate itself.
func UserImageClasses(class, baseClass string) []string {
	if baseClass == "" {
		baseClass = ImageBaseClass
	}
	var kept []string
	for _, name := range strings.Fields(class) {
		switch name {
		case baseClass, "align-left", "align-right", "align-center":
			continue
		}
		kept = append(kept, name)
	}
	return kept
}
