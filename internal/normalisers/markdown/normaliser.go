// Package markdown normalises raw Markdown files such as READMEs served as
// text/markdown.
package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Normalise reduces Markdown to its prose. The first level-1 heading
// becomes the title.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	root := parse(raw.Content)

	title := firstHeading(root, raw.Content)
	if title == "" {
		title = normalisers.TitleFromURL(raw.URL)
	}

	return &domain.Document{
		URL:   raw.URL,
		Title: title,
		Text:  prose(root, raw.Content),
	}, nil
}

// Strip returns the prose of a Markdown document with whitespace collapsed.
// Code blocks, images and raw HTML are dropped; inline code keeps its text.
func Strip(content string) string {
	src := []byte(content)
	return prose(parse(src), src)
}

func parse(src []byte) ast.Node {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return md.Parser().Parse(text.NewReader(src))
}

func prose(root ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Separate blocks so words never run together
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		return writeInline(&b, n, src), nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// writeInline appends the visible text of n and reports whether to descend.
func writeInline(b *strings.Builder, n ast.Node, src []byte) ast.WalkStatus {
	switch node := n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML, *ast.Image:
		return ast.WalkSkipChildren
	case *ast.Text:
		b.Write(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			b.WriteByte(' ')
		}
	case *ast.String:
		b.Write(node.Value)
	case *ast.AutoLink:
		b.Write(node.Label(src))
	}
	return ast.WalkContinue
}

func firstHeading(root ast.Node, src []byte) string {
	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if title != "" {
			return ast.WalkStop, nil
		}
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			title = prose(h, src)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}
