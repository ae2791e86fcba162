package editor

import (
	"github.com/rgonek/richedit/document"
)

// InsertImage inserts an image at the selection and selects it. Inside a
// paragraph or heading the textblock is split around the cursor; with no
// selection the image is appended to the document.
func InsertImage(attrs document.ImageAttrs) Command {
	return func(tx *Transaction) bool {
		normalized, err := document.ImagePatch{}.Apply(attrs)
		if err != nil {
			return false
		}
		image := document.NewImage(normalized)

		var path document.Path
		if _, ok := tx.markableTextblock(); ok {
			path = tx.splitTextblockAt(image)
		} else {
			path = tx.insertBlocksAfterSelection(image)
		}
		tx.Selection = NodeSelection(path)
		return true
	}
}

// SetImageAlign toggles the alignment of the selected image: requesting
// the active alignment again resets it to none.
func SetImageAlign(align document.Align) Command {
	return func(tx *Transaction) bool {
		if _, ok := document.ParseAlign(string(align)); !ok {
			return false
		}
		image, ok := tx.selectedNode(document.TypeImage)
		if !ok {
			return false
		}
		attrs := document.ImageAttrsFromNode(*image)
		attrs.Align = attrs.Align.Toggle(align)
		*image = attrs.Node()
		return true
	}
}

// UpdateImage applies a typed partial patch to the selected image. Patches
// that would leave the image invalid are rejected.
func UpdateImage(patch document.ImagePatch) Command {
	return func(tx *Transaction) bool {
		image, ok := tx.selectedNode(document.TypeImage)
		if !ok || patch.IsEmpty() {
			return false
		}
		next, err := patch.Apply(document.ImageAttrsFromNode(*image))
		if err != nil {
			return false
		}
		*image = next.Node()
		return true
	}
}

// UpdateImageAttribute sets one attribute of the selected image from a
// loosely typed value: numbers and strings are accepted for width and
// height, nil clears.
func UpdateImageAttribute(key string, value any) Command {
	return func(tx *Transaction) bool {
		patch, err := document.PatchFromAttribute(key, value)
		if err != nil {
			return false
		}
		return UpdateImage(patch)(tx)
	}
}

// DeleteImage removes the selected image node.
func DeleteImage() Command {
	return func(tx *Transaction) bool {
		if _, ok := tx.selectedNode(document.TypeImage); !ok {
			return false
		}
		path := tx.Selection.Path
		tx.Doc.Splice(path.Parent(), path.Index(), 1)
		tx.Selection = NoSelection()
		return true
	}
}
