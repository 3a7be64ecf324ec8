// Package export renders documents outside the terminal: sanitized HTML built
// from the registry's nodes, and Markdown converted from that HTML.
package export
