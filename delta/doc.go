// Package delta implements the rich-text document snapshot used by richbridge.
//
// A Delta is an ordered, immutable sequence of operations. A document is a
// Delta made only of inserts; a change is a Delta that may also retain and
// delete. Offsets and lengths are counted in runes, embeds count as one.
package delta
