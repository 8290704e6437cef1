package html

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
// Plain text is accepted too; it passes through the parser unchanged.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml", "text/plain"}
}

// Normalise converts page markup into a Document with title and prose.
// Chunking is handled by the Chunker.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	root := parse(string(raw.Content))

	title := ""
	if root != nil {
		title = titleOf(root)
	}
	if title == "" {
		title = normalisers.TitleFromURL(raw.URL)
	}

	return &domain.Document{
		URL:   raw.URL,
		Title: title,
		Text:  extract(root),
	}, nil
}

// Extract returns the cleaned prose of an HTML document.
// Empty or unparsable input yields "".
func Extract(markup string) string {
	return extract(parse(markup))
}

// Title returns the decoded <title> text of an HTML document, or "".
func Title(markup string) string {
	root := parse(markup)
	if root == nil {
		return ""
	}
	return titleOf(root)
}

// Elements whose subtree never carries page prose.
var furniture = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Header:   true,
	atom.Aside:    true,
	atom.Head:     true,
	atom.Template: true,
}

// Pre-compiled regular expressions for text cleanup.
var markers = regexp.MustCompile(`\[edit\]|\[\d+\]`)

const mainContentID = "mw-content-text"

func parse(markup string) *html.Node {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	return root
}

func extract(root *html.Node) string {
	if root == nil {
		return ""
	}

	region := findMain(root)

	var parts []string
	collectText(region, &parts)

	text := strings.Join(parts, " ")
	text = markers.ReplaceAllString(text, "")

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) >= 2 {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// findMain returns the recognised main-content region, or root.
func findMain(root *html.Node) *html.Node {
	if n := findFirst(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && attr(n, "id") == mainContentID
	}); n != nil {
		return n
	}
	if n := findFirst(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Main
	}); n != nil {
		return n
	}
	return root
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode {
		if furniture[n.DataAtom] {
			return nil
		}
		if match(n) {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.ElementNode:
		if furniture[n.DataAtom] {
			return
		}
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func titleOf(root *html.Node) string {
	var t *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if t != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			t = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if t == nil {
		return ""
	}

	var sb strings.Builder
	for c := t.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
