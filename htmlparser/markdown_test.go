package htmlparser

import (
	"testing"

	"github.com/rgonek/richedit/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdown(t *testing.T) {
	md := "# Title\n\n**bold** text\n\n- [x] done\n- [ ] todo\n\n```golang\nfmt.Println()\n```\n\n![alt](a.png)\n"

	result, err := newTestParser(t, Config{}).ParseMarkdown(md)
	require.NoError(t, err)

	blocks := result.Doc.Content
	require.Len(t, blocks, 5)
	assert.Equal(t, document.NewHeading(1, document.NewText("Title")), blocks[0])
	assert.Equal(t, document.NewParagraph(
		document.NewText("bold", document.Mark{Type: document.MarkBold}),
		document.NewText(" text"),
	), blocks[1])

	assert.Equal(t, document.TypeTaskList, blocks[2].Type)
	require.Len(t, blocks[2].Content, 2)
	assert.Equal(t, true, blocks[2].Content[0].Attrs["checked"])
	assert.Equal(t, "todo", blocks[2].Content[1].TextContent())

	assert.Equal(t, document.TypeCodeBlock, blocks[3].Type)
	assert.Equal(t, "go", blocks[3].Attrs["language"])
	assert.Equal(t, "fmt.Println()\n", blocks[3].TextContent())

	assert.Equal(t, document.TypeImage, blocks[4].Type)
	assert.Equal(t, "alt", blocks[4].Attrs["alt"])
}

func TestParseMarkdownRawHTML(t *testing.T) {
	md := "before\n\n<div><u>under</u></div>\n"

	safe, err := newTestParser(t, Config{}).ParseMarkdown(md)
	require.NoError(t, err)
	assert.NotContains(t, document.DefaultSerializer().Serialize(safe.Doc), "<u>")

	unsafe, err := newTestParser(t, Config{MarkdownRawHTML: true}).ParseMarkdown(md)
	require.NoError(t, err)
	assert.Contains(t, document.DefaultSerializer().Serialize(unsafe.Doc), "<u>under</u>")
}
