package htmlparser

import (
	"testing"

	"github.com/rgonek/richedit/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraph(text string, marks ...document.Mark) document.Node {
	return document.NewParagraph(document.NewText(text, marks...))
}

func TestRoundTripStructure(t *testing.T) {
	bold := document.Mark{Type: document.MarkBold}
	italic := document.Mark{Type: document.MarkItalic}

	tests := []struct {
		name string
		doc  document.Node
	}{
		{
			name: "empty",
			doc:  document.NewDoc(),
		},
		{
			name: "marks",
			doc: document.NewDoc(document.NewParagraph(
				document.NewText("a ", bold),
				document.NewText("b", bold, italic, document.Link("https://example.com")),
				document.NewText(" c", document.TextColor("#336699")),
				document.NewText("d", document.Highlight("#ffee00"), document.Mark{Type: document.MarkStrike}),
				document.Node{Type: document.TypeHardBreak},
				document.NewText("e", document.Mark{Type: document.MarkUnderline}, document.Mark{Type: document.MarkCode}),
			)),
		},
		{
			name: "headings and quote",
			doc: document.NewDoc(
				document.NewHeading(1, document.NewText("One")),
				document.NewHeading(4, document.NewText("Four")),
				document.Node{Type: document.TypeBlockquote, Content: []document.Node{paragraph("quoted"), paragraph("")}},
				document.Node{Type: document.TypeHorizontalRule},
			),
		},
		{
			name: "lists",
			doc: document.NewDoc(
				document.Node{Type: document.TypeBulletList, Content: []document.Node{
					{Type: document.TypeListItem, Content: []document.Node{
						paragraph("a"),
						{Type: document.TypeOrderedList, Attrs: map[string]any{"start": 5}, Content: []document.Node{
							{Type: document.TypeListItem, Content: []document.Node{paragraph("b")}},
						}},
					}},
				}},
				document.Node{Type: document.TypeTaskList, Content: []document.Node{
					{Type: document.TypeTaskItem, Attrs: map[string]any{"checked": true}, Content: []document.Node{paragraph("done")}},
					{Type: document.TypeTaskItem, Attrs: map[string]any{"checked": false}, Content: []document.Node{paragraph("todo")}},
				}},
			),
		},
		{
			name: "code",
			doc:  document.NewDoc(document.NewCodeBlock("go", "if a < b {\n\treturn\n}"), document.NewCodeBlock("", "plain  text")),
		},
		{
			name: "code entities",
			doc: document.NewDoc(
				document.NewCodeBlock("python", "if a < b and c > d:\n    print(\"x & y\")\n"),
				document.NewCodeBlock("html", "<p class=\"a\">&amp;</p>"),
				paragraph("after"),
			),
		},
		{
			name: "table",
			doc: document.NewDoc(document.Node{Type: document.TypeTable, Content: []document.Node{
				{Type: document.TypeTableRow, Content: []document.Node{
					{Type: document.TypeTableHeader, Attrs: map[string]any{"colspan": 2}, Content: []document.Node{paragraph("h")}},
				}},
				{Type: document.TypeTableRow, Content: []document.Node{
					{Type: document.TypeTableCell, Content: []document.Node{paragraph("a")}},
					{Type: document.TypeTableCell, Attrs: map[string]any{"rowspan": 2}, Content: []document.Node{paragraph("b")}},
				}},
				{Type: document.TypeTableRow, Content: []document.Node{
					{Type: document.TypeTableCell, Content: []document.Node{paragraph("c")}},
				}},
			}}),
		},
		{
			name: "images",
			doc: document.NewDoc(
				document.NewImage(document.ImageAttrs{Src: "a.png", Alt: "A", Title: "T", Width: "200px", Height: "50%", Align: document.AlignCenter}),
				document.NewImage(document.ImageAttrs{Src: "b.png", Align: document.AlignLeft, Class: "rounded", Style: "border: 0;"}),
				document.NewImage(document.ImageAttrs{Src: "c.png", Align: document.AlignRight}),
				document.NewImage(document.ImageAttrs{Src: "d.png"}),
			),
		},
	}

	serializer := document.DefaultSerializer()
	parser := newTestParser(t, Config{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := document.Normalize(tt.doc)
			assert.Equal(t, tt.doc.TextContent(), want.TextContent(), "normalize lost text")
			html := serializer.Serialize(want)

			result := parser.Parse(html)
			require.Empty(t, result.Warnings, html)
			assert.Equal(t, want, result.Doc, html)
			assert.Equal(t, html, serializer.Serialize(result.Doc))
		})
	}
}
