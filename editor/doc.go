// Package editor provides a Bubble Tea rich-text editor component backed by
// the buffer package.
//
// The package is responsible for input handling, viewport behavior,
// grapheme-aware rendering of inline and block formats, the theme toolbar and
// activation of interactive format nodes. Messages dispatched by activated
// nodes are returned from Update as commands so they reach the host program.
package editor
