// Package clipboard adapts the system clipboard to editor.Clipboard.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/iw2rmb/richbridge/editor"
)

var ErrUnavailable = errors.New("clipboard: no system clipboard available")

var (
	_ editor.Clipboard = System{}
	_ editor.Clipboard = (*Memory)(nil)
)

// System uses the platform clipboard (pbcopy, xclip, xsel, wl-copy or the
// Windows API).
type System struct{}

func (System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	return clipboard.ReadAll()
}

func (System) WriteText(s string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(s)
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteText(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = s
	return nil
}

// Default returns System when the platform supports it and a Memory
// clipboard otherwise.
func Default() editor.Clipboard {
	if clipboard.Unsupported {
		return &Memory{}
	}
	return System{}
}
