package html

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/html")
	assert.Contains(t, mimeTypes, "application/xhtml+xml")
	assert.Contains(t, mimeTypes, "text/plain")
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URL:      "https://example.com/page.html",
		MIMEType: "text/html",
		Content:  []byte("<html><head><title>Test Page</title></head><body><p>Hello World</p></body></html>"),
	}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, raw.URL, doc.URL)
	assert.Equal(t, "Test Page", doc.Title)
	assert.Equal(t, "Hello World", doc.Text)
}

func TestNormalise_NilDocument(t *testing.T) {
	doc, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, doc)
}

func TestNormalise_EmptyContent(t *testing.T) {
	raw := &domain.RawDocument{URL: "https://example.com/empty.html", Content: []byte("")}

	doc, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
	assert.Equal(t, "empty", doc.Title)
}

func TestNormalise_TitleExtraction(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		url           string
		expectedTitle string
	}{
		{
			name:          "title tag",
			content:       "<html><head><title>My Document</title></head><body></body></html>",
			url:           "https://example.com/doc.html",
			expectedTitle: "My Document",
		},
		{
			name:          "title with extra spaces",
			content:       "<title>   Spaced   Title   </title>",
			url:           "https://example.com/doc.html",
			expectedTitle: "Spaced Title",
		},
		{
			name:          "title with HTML entities",
			content:       "<title>Tom &amp; Jerry</title>",
			url:           "https://example.com/doc.html",
			expectedTitle: "Tom & Jerry",
		},
		{
			name:          "no title - fallback to path",
			content:       "<html><body>Just content</body></html>",
			url:           "https://en.wikipedia.org/wiki/Go_(programming_language)",
			expectedTitle: "Go (programming language)",
		},
		{
			name:          "empty title - fallback to path without extension",
			content:       "<title></title><body>Content</body>",
			url:           "https://example.com/read-me.html",
			expectedTitle: "read me",
		},
		{
			name:          "root path - fallback to host",
			content:       "<body>Content</body>",
			url:           "https://example.com/",
			expectedTitle: "example.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := &domain.RawDocument{URL: tc.url, MIMEType: "text/html", Content: []byte(tc.content)}

			doc, err := New().Normalise(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTitle, doc.Title)
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "script removed",
			input:    "<html><body><script>x</script><p>Hello World</p></body></html>",
			expected: "Hello World",
		},
		{
			name:     "nested tags joined with spaces",
			input:    "<div><p><strong>Bold</strong> text</p></div>",
			expected: "Bold text",
		},
		{
			name:     "style and noscript removed",
			input:    "<style>.foo { color: red; }</style><p>Content</p><noscript>No JS fallback</noscript>",
			expected: "Content",
		},
		{
			name:     "head removed",
			input:    "<head><meta charset='utf-8'><title>Title</title></head><body>Content</body>",
			expected: "Content",
		},
		{
			name: "page furniture removed",
			input: "<body><header>Site Header</header><nav>Home About</nav>" +
				"<p>Article body</p><aside>Related links</aside><footer>Copyright</footer>" +
				"<iframe>frame text</iframe></body>",
			expected: "Article body",
		},
		{
			name:     "main element preferred",
			input:    "<body><div>Sidebar junk</div><main><p>Main story</p></main></body>",
			expected: "Main story",
		},
		{
			name: "wiki content region preferred over main",
			input: "<body><main><p>Outer</p><div id=\"mw-content-text\"><p>Inner article</p></div>" +
				"</main></body>",
			expected: "Inner article",
		},
		{
			name:     "edit and reference markers stripped",
			input:    "<p>Go is a language[1] designed at Google[23]. History[edit]</p>",
			expected: "Go is language designed at Google. History",
		},
		{
			name:     "short tokens dropped",
			input:    "<p>I am a Go fan x</p>",
			expected: "am Go fan",
		},
		{
			name:     "whitespace collapsed",
			input:    "<p>Line 1<br>Line\n\n\t2</p>",
			expected: "Line Line",
		},
		{
			name:     "HTML entities decoded",
			input:    "<p>&lt;tag&gt; &amp;&amp; &quot;quotes&quot;</p>",
			expected: "<tag> && \"quotes\"",
		},
		{
			name:     "comments removed",
			input:    "<p>Visible</p><!-- hidden comment -->",
			expected: "Visible",
		},
		{
			name:     "malformed markup",
			input:    "<div><p>Unclosed <b>bold <i>text</div></span>",
			expected: "Unclosed bold text",
		},
		{
			name:     "plain text passes through",
			input:    "just some plain text",
			expected: "just some plain text",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \n\t ",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.input))
		})
	}
}

func TestExtract_FurnitureNeverLeaks(t *testing.T) {
	tags := []string{"script", "style", "nav", "footer", "header", "aside", "noscript", "iframe"}

	for _, tag := range tags {
		t.Run(tag, func(t *testing.T) {
			markup := "<html><body><main><p>keep this</p><" + tag + ">leakedsecret</" + tag +
				"></main><" + tag + ">leakedsecret</" + tag + "></body></html>"

			got := Extract(markup)
			assert.NotContains(t, got, "leakedsecret")
			assert.Contains(t, got, "keep this")
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	markup := strings.Repeat("<p>repeatable paragraph</p>", 20)
	assert.Equal(t, Extract(markup), Extract(markup))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Hello", Title("<html><head><title>Hello</title></head></html>"))
	assert.Empty(t, Title("<p>no title</p>"))
	assert.Empty(t, Title(""))
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = New()
}
