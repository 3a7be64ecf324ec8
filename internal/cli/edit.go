package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/richbridge/internal/app"
	"github.com/iw2rmb/richbridge/internal/clipboard"
	"github.com/iw2rmb/richbridge/internal/watch"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open a document in the terminal editor",
	Long: `Open a document in the terminal editor.

A .json file holds a delta; any other file is plain text. Without a file the
configured stored document is opened. Every change is saved to the configured
store, and the file is written back on exit.

Controls:
  ctrl+b/alt+i/ctrl+u - Bold / italic / underline
  ctrl+g              - Highlight
  ctrl+n, ctrl+p      - Focus next / previous highlight
  enter               - Remove the focused highlight
  ctrl+c, ctrl+q      - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The TUI owns the terminal; logs go to the configured file only.
	logger, closeLog, err := newLogger(cfg, io.Discard)
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

	opts := app.Options{
		Element:   cfg.Element,
		Document:  doc,
		Store:     st,
		Clipboard: clipboard.Default(),
		Logger:    logger,
	}
	if file != "" && cfg.Watch.Enabled {
		w, err := watch.New(file, watch.Options{Debounce: cfg.Watch.Debounce, Logger: logger})
		if err != nil {
			return err
		}
		defer w.Close()
		opts.Watcher = w
	}

	m, err := app.New(opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}

	if file == "" {
		return nil
	}
	if opts.Watcher != nil {
		opts.Watcher.Close()
	}
	out, ok := final.(app.Model)
	if !ok {
		return nil
	}
	logger.Info("cli: writing document", "file", file)
	return writeDocument(file, out.Element().Editor().Buffer().Contents())
}
