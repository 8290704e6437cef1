// Package html provides a Normaliser implementation for web pages.
// It reduces permissively parsed markup to clean prose: page furniture
// (navigation, headers, footers, asides) and non-content elements are
// removed, and the main content region is preferred when one exists.
package html
