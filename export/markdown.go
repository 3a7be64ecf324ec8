package export

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"

	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/format"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		strikethrough.NewStrikethroughPlugin(),
	),
)

// Markdown renders d as CommonMark by converting its HTML.
func Markdown(d delta.Delta, reg *format.Registry) (string, error) {
	h, err := HTML(d, reg)
	if err != nil {
		return "", err
	}
	md, err := mdConverter.ConvertString(h)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
