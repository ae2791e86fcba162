package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignToggle(t *testing.T) {
	assert.Equal(t, AlignLeft, AlignNone.Toggle(AlignLeft))
	assert.Equal(t, AlignNone, AlignLeft.Toggle(AlignLeft))
	assert.Equal(t, AlignRight, AlignLeft.Toggle(AlignRight))
	assert.Equal(t, AlignNone, AlignCenter.Toggle(AlignCenter))
}

func TestNormalizeDimension(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "300", want: "300px"},
		{in: " 300 ", want: "300px"},
		{in: "300px", want: "300px"},
		{in: "50%", want: "50%"},
		{in: "12.5", want: "12.5px"},
		{in: "auto", wantErr: true},
		{in: "-4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDimension(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImagePatchApply(t *testing.T) {
	base := ImageAttrs{Src: "a.png", Alt: "old", Width: "100px", Align: AlignLeft}

	next, err := ImagePatch{
		Alt:   Some("new"),
		Width: Some("250"),
		Title: Clear[string](),
	}.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, "a.png", next.Src)
	assert.Equal(t, "new", next.Alt)
	assert.Equal(t, "250px", next.Width)
	assert.Equal(t, AlignLeft, next.Align)

	cleared, err := ImagePatch{Width: Clear[string]()}.Apply(next)
	require.NoError(t, err)
	assert.Empty(t, cleared.Width)
}

func TestImagePatchRequiresSrc(t *testing.T) {
	base := ImageAttrs{Src: "a.png"}

	_, err := ImagePatch{Src: Some("  ")}.Apply(base)
	require.ErrorIs(t, err, ErrMissingSrc)

	_, err = ImagePatch{Src: Clear[string]()}.Apply(base)
	require.ErrorIs(t, err, ErrMissingSrc)
}

func TestImagePatchStripsAlignmentStyle(t *testing.T) {
	next, err := ImagePatch{Style: Some("float: left; border: 0")}.Apply(ImageAttrs{Src: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "border: 0;", next.Style)
}

func TestPatchFromAttribute(t *testing.T) {
	patch, err := PatchFromAttribute("width", 320)
	require.NoError(t, err)
	width, ok := patch.Width.Get()
	require.True(t, ok)
	assert.Equal(t, "320px", width)

	patch, err = PatchFromAttribute("height", "")
	require.NoError(t, err)
	assert.True(t, patch.Height.IsClear())

	patch, err = PatchFromAttribute("align", nil)
	require.NoError(t, err)
	align, _ := patch.Align.Get()
	assert.Equal(t, AlignNone, align)

	patch, err = PatchFromAttribute("alt", nil)
	require.NoError(t, err)
	assert.True(t, patch.Alt.IsClear())

	_, err = PatchFromAttribute("align", "middle")
	require.Error(t, err)

	_, err = PatchFromAttribute("onclick", "x")
	require.Error(t, err)
}

func TestImageAttrsNodeRoundTrip(t *testing.T) {
	attrs := ImageAttrs{Src: "a.png", Title: "t", Height: "10%", Align: AlignRight}
	node := attrs.Node()

	assert.Equal(t, TypeImage, node.Type)
	assert.Equal(t, "right", node.Attrs["align"])
	assert.NotContains(t, node.Attrs, "alt")
	assert.Equal(t, attrs, ImageAttrsFromNode(node))
}

func TestUserImageClasses(t *testing.T) {
	assert.Equal(t, []string{"rounded", "shadow"}, UserImageClasses("custom-image align-center rounded shadow", ""))
	assert.Nil(t, UserImageClasses("custom-image", ""))
}
