package mdexport

import (
	"testing"

	"github.com/rgonek/richedit/document"
	"github.com/rgonek/richedit/htmlparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bold      = document.Mark{Type: document.MarkBold}
	italic    = document.Mark{Type: document.MarkItalic}
	code      = document.Mark{Type: document.MarkCode}
	underline = document.Mark{Type: document.MarkUnderline}
)

func newTestExporter(t testing.TB, cfg Config) *Exporter {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func export(t testing.TB, cfg Config, doc document.Node) Result {
	t.Helper()
	result, err := newTestExporter(t, cfg).Export(doc)
	require.NoError(t, err)
	return result
}

func listItem(blocks ...document.Node) document.Node {
	return document.Node{Type: document.TypeListItem, Content: blocks}
}

func TestExportBlocks(t *testing.T) {
	tests := []struct {
		name string
		doc  document.Node
		want string
	}{
		{
			name: "empty document",
			doc:  document.NewDoc(),
			want: "",
		},
		{
			name: "heading paragraph rule code quote",
			doc: document.NewDoc(
				document.NewHeading(2, document.NewText("Title")),
				document.NewParagraph(document.NewText("Hello "), document.NewText("world", bold)),
				document.Node{Type: document.TypeHorizontalRule},
				document.NewCodeBlock("go", "fmt.Println(1)"),
				document.Node{Type: document.TypeBlockquote, Content: []document.Node{document.NewParagraph(document.NewText("quote"))}},
			),
			want: "## Title\n\nHello **world**\n\n---\n\n```go\nfmt.Println(1)\n```\n\n> quote\n",
		},
		{
			name: "code fence longer than content backticks",
			doc:  document.NewDoc(document.NewCodeBlock("", "a ``` b")),
			want: "````\na ``` b\n````\n",
		},
		{
			name: "hard break",
			doc:  document.NewDoc(document.NewParagraph(document.NewText("a"), document.Node{Type: document.TypeHardBreak}, document.NewText("b"))),
			want: "a\\\nb\n",
		},
		{
			name: "escaping",
			doc:  document.NewDoc(document.NewParagraph(document.NewText("1. not a list * star"))),
			want: "1\\. not a list \\* star\n",
		},
		{
			name: "nested bullet list",
			doc: document.NewDoc(document.Node{Type: document.TypeBulletList, Content: []document.Node{
				listItem(document.NewParagraph(document.NewText("one"))),
				listItem(
					document.NewParagraph(document.NewText("two")),
					document.Node{Type: document.TypeBulletList, Content: []document.Node{
						listItem(document.NewParagraph(document.NewText("nested"))),
					}},
				),
			}}),
			want: "- one\n- two\n  - nested\n",
		},
		{
			name: "ordered list start",
			doc: document.NewDoc(document.Node{
				Type:  document.TypeOrderedList,
				Attrs: map[string]any{"start": 3},
				Content: []document.Node{
					listItem(document.NewParagraph(document.NewText("a"))),
					listItem(document.NewParagraph(document.NewText("b"))),
				},
			}),
			want: "3. a\n4. b\n",
		},
		{
			name: "task list",
			doc: document.NewDoc(document.Node{Type: document.TypeTaskList, Content: []document.Node{
				{Type: document.TypeTaskItem, Attrs: map[string]any{"checked": true}, Content: []document.Node{document.NewParagraph(document.NewText("done"))}},
				{Type: document.TypeTaskItem, Attrs: map[string]any{"checked": false}, Content: []document.Node{document.NewParagraph(document.NewText("todo"))}},
			}}),
			want: "- [x] done\n- [ ] todo\n",
		},
		{
			name: "image",
			doc:  document.NewDoc(document.NewImage(document.ImageAttrs{Src: "a.png", Alt: "pic", Title: `say "hi"`})),
			want: "![pic](a.png \"say \\\"hi\\\"\")\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := export(t, Config{}, tt.doc)
			assert.Equal(t, tt.want, result.Markdown)
			assert.Empty(t, result.Warnings)
		})
	}
}

func TestExportMarks(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		content []document.Node
		want    string
	}{
		{
			name: "shared marks stay open",
			content: []document.Node{
				document.NewText("a ", bold),
				document.NewText("b", bold, italic),
				document.NewText(" c", bold),
			},
			want: "**a _b_ c**\n",
		},
		{
			name:    "spaces move outside delimiters",
			content: []document.Node{document.NewText("x"), document.NewText(" y ", italic), document.NewText("z")},
			want:    "x *y* z\n",
		},
		{
			name:    "link",
			content: []document.Node{document.NewText("site", document.Link("https://example.com"))},
			want:    "[site](https://example.com)\n",
		},
		{
			name:    "code is not escaped",
			content: []document.Node{document.NewText("a*b", code)},
			want:    "`a*b`\n",
		},
		{
			name:    "code with backtick",
			content: []document.Node{document.NewText("a`b", code)},
			want:    "``a`b``\n",
		},
		{
			name:    "underline dropped by default",
			content: []document.Node{document.NewText("u", underline)},
			want:    "u\n",
		},
		{
			name:    "underline html",
			cfg:     Config{UnderlineStyle: UnderlineHTML},
			content: []document.Node{document.NewText("u", underline)},
			want:    "<u>u</u>\n",
		},
		{
			name:    "colors html",
			cfg:     HTMLConfig(),
			content: []document.Node{document.NewText("red", document.TextColor("#ff0000")), document.NewText("hi", document.Highlight(""))},
			want:    `<span style="color: #ff0000">red</span><mark>hi</mark>` + "\n",
		},
		{
			name:    "html hard break",
			cfg:     HTMLConfig(),
			content: []document.Node{document.NewText("a"), {Type: document.TypeHardBreak}, document.NewText("b")},
			want:    "a<br>b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := export(t, tt.cfg, document.NewDoc(document.NewParagraph(tt.content...)))
			assert.Equal(t, tt.want, result.Markdown)
		})
	}
}

func TestExportTable(t *testing.T) {
	cell := func(cellType, text string, attrs map[string]any) document.Node {
		return document.Node{Type: cellType, Attrs: attrs, Content: []document.Node{document.NewParagraph(document.NewText(text))}}
	}
	row := func(cells ...document.Node) document.Node {
		return document.Node{Type: document.TypeTableRow, Content: cells}
	}

	t.Run("header row", func(t *testing.T) {
		table := document.Node{Type: document.TypeTable, Content: []document.Node{
			row(cell(document.TypeTableHeader, "h1", nil), cell(document.TypeTableHeader, "h2", nil)),
			row(cell(document.TypeTableCell, "a|b", nil), cell(document.TypeTableCell, "c", nil)),
		}}

		result := export(t, Config{}, document.NewDoc(table))
		assert.Equal(t, "| h1 | h2 |\n| --- | --- |\n| a\\|b | c |\n", result.Markdown)
		assert.Empty(t, result.Warnings)
	})

	t.Run("merged cells flattened", func(t *testing.T) {
		table := document.Node{Type: document.TypeTable, Content: []document.Node{
			row(cell(document.TypeTableCell, "x", map[string]any{"colspan": 2})),
			row(cell(document.TypeTableCell, "a", nil), cell(document.TypeTableCell, "b", nil)),
		}}

		result := export(t, Config{}, document.NewDoc(table))
		assert.Equal(t, "|  |  |\n| --- | --- |\n| x |  |\n| a | b |\n", result.Markdown)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, document.WarningDroppedAttribute, result.Warnings[0].Type)
	})
}

func TestExportImageStyles(t *testing.T) {
	doc := document.NewDoc(document.NewImage(document.ImageAttrs{Src: "a.png", Alt: "pic", Width: "200px"}))

	result := export(t, Config{}, doc)
	assert.Equal(t, "![pic](a.png)\n", result.Markdown)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, document.WarningDroppedAttribute, result.Warnings[0].Type)

	result = export(t, HTMLConfig(), doc)
	assert.Equal(t, `<img src="a.png" alt="pic" width="200px" class="custom-image" data-align="none">`+"\n", result.Markdown)
	assert.Empty(t, result.Warnings)

	result = export(t, Config{}, document.NewDoc(document.Node{Type: document.TypeImage}))
	assert.Empty(t, result.Markdown)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, document.WarningInvalidAttribute, result.Warnings[0].Type)
}

func TestExportUnknownNodes(t *testing.T) {
	doc := document.NewDoc(document.Node{Type: "video"}, document.NewParagraph(document.NewText("ok")))

	result := export(t, Config{}, doc)
	assert.Equal(t, "ok\n", result.Markdown)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, document.WarningUnknownNode, result.Warnings[0].Type)

	_, err := newTestExporter(t, Config{UnknownNodes: UnknownError}).Export(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video")
}

func TestExportRoundTripsThroughMarkdownImport(t *testing.T) {
	doc := document.NewDoc(
		document.NewHeading(2, document.NewText("Title")),
		document.NewParagraph(
			document.NewText("Hello "),
			document.NewText("world", bold),
			document.NewText(" and "),
			document.NewText("more", italic),
		),
	)

	result := export(t, Config{}, doc)
	parser, err := htmlparser.New(htmlparser.Config{})
	require.NoError(t, err)
	parsed, err := parser.ParseMarkdown(result.Markdown)
	require.NoError(t, err)

	assert.Equal(t, doc, parsed.Doc)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "underline", cfg: Config{UnderlineStyle: "bold"}, wantErr: "underlineStyle"},
		{name: "color", cfg: Config{ColorStyle: "pandoc"}, wantErr: "colorStyle"},
		{name: "image", cfg: Config{ImageStyle: "figure"}, wantErr: "imageStyle"},
		{name: "hard break", cfg: Config{HardBreakStyle: "double-space"}, wantErr: "hardBreakStyle"},
		{name: "unknown policy", cfg: Config{UnknownNodes: "panic"}, wantErr: "unknownNodes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
