package bridge

import (
	"github.com/iw2rmb/richbridge/editor"
	"github.com/iw2rmb/richbridge/format"
)

// NormalizeToolbarFormats turns format names into toolbar controls. "list"
// becomes an ordered and a bullet control; every other name is a toggle.
func NormalizeToolbarFormats(formats []string) []editor.ToolbarItem {
	if formats == nil {
		return nil
	}
	out := make([]editor.ToolbarItem, 0, len(formats)+1)
	for _, name := range formats {
		if name == "list" {
			out = append(out,
				editor.ToolbarItem{Format: "list", Value: format.ListOrdered},
				editor.ToolbarItem{Format: "list", Value: format.ListBullet},
			)
			continue
		}
		out = append(out, editor.ToolbarItem{Format: name})
	}
	return out
}
