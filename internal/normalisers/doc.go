// Package normalisers reduces fetched pages to clean prose.
//
// Each subpackage handles a family of MIME types: html for web pages,
// markdown for raw Markdown files and plaintext for text/plain responses.
// Registry dispatches on the response MIME type and falls back to HTML for
// anything it does not recognise.
package normalisers
