package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/markdown", "text/x-markdown"}, New().SupportedMIMETypes())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URL:      "https://raw.example.com/repo/README.md",
		MIMEType: "text/markdown",
		Content: []byte("# Hello World\n\nThis is **bold** and a [link](https://x.y).\n\n" +
			"```go\nfmt.Println(\"skip\")\n```\n\n- item one\n1. item two\n"),
	}

	doc, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, raw.URL, doc.URL)
	assert.Equal(t, "Hello World", doc.Title)
	assert.Equal(t, "Hello World This is bold and a link. item one item two", doc.Text)
}

func TestNormalise_TitleFromURL(t *testing.T) {
	raw := &domain.RawDocument{URL: "https://example.com/docs/getting-started.md", Content: []byte("Just text.")}

	doc, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "getting started", doc.Title)
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "inline code keeps text", input: "call `Run()` now", want: "call Run() now"},
		{name: "images dropped", input: "![logo](logo.png)after", want: "after"},
		{name: "blockquote", input: "> quoted", want: "quoted"},
		{name: "thematic break", input: "above\n\n---\n\nbelow", want: "above below"},
		{name: "setext heading", input: "Title\n=====\nbody", want: "Title body"},
		{name: "fenced code dropped", input: "run:\n\n```sh\nmake\n```\n", want: "run:"},
		{name: "raw html dropped", input: "a <span>b</span> c", want: "a b c"},
		{name: "table cells", input: "| k | v |\n|---|---|\n| x | y |", want: "k v x y"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.input))
		})
	}
}
