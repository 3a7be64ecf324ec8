// Package buffer implements the rich-text editor engine state behind the
// richbridge editor: a delta document, an anchored selection, undo history and
// synchronous change notifications tagged with their Source.
//
// Offsets are 0-based rune offsets into the document. Pos gives the same
// location as (Row, Col) for line-oriented callers.
package buffer
