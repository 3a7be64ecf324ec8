package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/internal/config"
	"github.com/iw2rmb/richbridge/internal/store"
	"github.com/iw2rmb/richbridge/internal/watch"
)

// loadDocument reads the document named by file, or the configured stored
// document when file is empty. A missing file or stored id starts empty.
func loadDocument(ctx context.Context, file string, st *store.Store, cfg config.StoreConfig) (store.Document, error) {
	if file != "" {
		d, err := watch.ReadFile(file)
		if errors.Is(err, os.ErrNotExist) {
			return store.Document{ID: cfg.Document}, nil
		}
		if err != nil {
			return store.Document{}, fmt.Errorf("read %s: %w", file, err)
		}
		return store.Document{ID: cfg.Document, Content: d}, nil
	}
	if st == nil || cfg.Document == "" {
		return store.Document{ID: cfg.Document}, nil
	}
	doc, err := st.Load(ctx, cfg.Document)
	if errors.Is(err, store.ErrNotFound) {
		return store.Document{ID: cfg.Document}, nil
	}
	return doc, err
}

// writeDocument saves d to file: pretty JSON for .json files, plain text
// otherwise.
func writeDocument(file string, d delta.Delta) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(file), ".json") {
		raw, err := d.MarshalJSON()
		if err != nil {
			return err
		}
		data = pretty.Pretty(raw)
	} else {
		data = []byte(d.Text())
	}
	return os.WriteFile(file, data, 0o644)
}

func openStore(cfg config.StoreConfig) (*store.Store, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	return store.Open(cfg.Path)
}
