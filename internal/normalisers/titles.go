package normalisers

import (
	"net/url"
	"path"
	"strings"
)

// TitleFromURL derives a readable title from the last path segment of a
// URL, dropping common page extensions. A bare host yields the host name.
func TitleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return u.Host
	}
	switch ext := path.Ext(base); ext {
	case ".html", ".htm", ".php", ".asp", ".aspx", ".md", ".markdown", ".txt":
		base = strings.TrimSuffix(base, ext)
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}
