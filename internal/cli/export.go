package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Render a document as HTML, Markdown or JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "html", "output format: html, markdown or json")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	file := ""
	if len(args) == 1 {
		file = args[0]
	}
	st, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
	}
	doc, err := loadDocument(cmd.Context(), file, st, cfg.Store)
	if err != nil {
		return err
	}

	out, err := render(doc.Content, exportFormat)
	if err != nil {
		return err
	}
	logger.Debug("cli: exported", "format", exportFormat, "length", doc.Content.Length())
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func render(d delta.Delta, format string) (string, error) {
	switch format {
	case "html":
		return export.HTML(d, nil)
	case "markdown", "md":
		return export.Markdown(d, nil)
	case "json":
		raw, err := d.MarshalJSON()
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(pretty.Pretty(raw)), "\n"), nil
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}
