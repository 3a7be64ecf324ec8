package export

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/format"
)

// HTML renders d as sanitized HTML. Lines become paragraphs or list items;
// inline formats are rendered through each format's Create. A nil registry
// means format.DefaultRegistry.
func HTML(d delta.Delta, reg *format.Registry) (string, error) {
	if !d.IsDocument() {
		return "", delta.ErrNotDocument
	}
	if reg == nil {
		reg = format.DefaultRegistry()
	}

	lines := d.Lines()
	// The final line after a trailing newline carries nothing.
	if n := len(lines); n > 1 && len(lines[n-1].Ops) == 0 && len(lines[n-1].Attributes) == 0 {
		lines = lines[:n-1]
	}

	var sb strings.Builder
	list := ""
	for _, line := range lines {
		tag := listTag(reg, line.Attributes)
		if tag != list {
			if list != "" {
				fmt.Fprintf(&sb, "</%s>", list)
			}
			if tag != "" {
				fmt.Fprintf(&sb, "<%s>", tag)
			}
			list = tag
		}

		outer := "p"
		if tag != "" {
			outer = "li"
		}
		fmt.Fprintf(&sb, "<%s>", outer)
		if len(line.Ops) == 0 {
			sb.WriteString("<br>")
		}
		offset := line.Start
		for _, op := range line.Ops {
			writeOp(&sb, reg, op, offset)
			offset += op.Len()
		}
		fmt.Fprintf(&sb, "</%s>", outer)
	}
	if list != "" {
		fmt.Fprintf(&sb, "</%s>", list)
	}

	return sanitizer.Sanitize(sb.String()), nil
}

func listTag(reg *format.Registry, attrs delta.AttributeMap) string {
	if !attrs.Has("list") || !reg.Has("list") {
		return ""
	}
	switch attrs["list"] {
	case format.ListOrdered:
		return "ol"
	case format.ListBullet:
		return "ul"
	default:
		return ""
	}
}

func writeOp(sb *strings.Builder, reg *format.Registry, op delta.Op, index int) {
	var nodes []format.Node
	for _, name := range inlineNames(reg, op.Attributes) {
		f, _ := reg.Lookup(name)
		n := f.Create(format.Span{Index: index, Length: op.Len(), Value: op.Attributes[name]})
		if n.Tag == "" {
			continue
		}
		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		openTag(sb, n)
	}
	if op.Embed != nil {
		writeEmbed(sb, op.Embed)
	} else {
		sb.WriteString(html.EscapeString(op.Insert))
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		fmt.Fprintf(sb, "</%s>", nodes[i].Tag)
	}
}

func inlineNames(reg *format.Registry, attrs delta.AttributeMap) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if !attrs.Has(name) {
			continue
		}
		if f, ok := reg.Lookup(name); ok && f.Scope() == format.ScopeInline {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func openTag(sb *strings.Builder, n format.Node) {
	sb.WriteString("<" + n.Tag)
	if n.Class != "" {
		fmt.Fprintf(sb, ` class="%s"`, html.EscapeString(n.Class))
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, ` %s="%s"`, k, html.EscapeString(n.Attrs[k]))
	}
	sb.WriteString(">")
}

func writeEmbed(sb *strings.Builder, embed map[string]any) {
	src, ok := embed["image"].(string)
	if !ok {
		return
	}
	fmt.Fprintf(sb, `<img src="%s">`, html.EscapeString(src))
}
