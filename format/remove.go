package format

import (
	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
)

// Formatter applies formatting changes; *buffer.Buffer implements it.
type Formatter interface {
	FormatText(index, length int, name string, value any, src buffer.Source) delta.Delta
}

// RemoveFormatMsg asks the host to remove Format from the span it covered
// when the node was created.
type RemoveFormatMsg struct {
	Format string
	Index  int
	Length int
}

// Apply removes the format as a user edit so the change flows through the
// regular change pipeline. It reports whether the document changed.
func (m RemoveFormatMsg) Apply(f Formatter) bool {
	if f == nil || m.Length <= 0 || m.Format == "" {
		return false
	}
	return !f.FormatText(m.Index, m.Length, m.Format, false, buffer.SourceUser).IsEmpty()
}
