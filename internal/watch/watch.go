// Package watch turns writes to a document file into Bubble Tea messages.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/iw2rmb/richbridge/delta"
)

var ErrClosed = errors.New("watch: watcher closed")

// ContentMsg carries the file's new document.
type ContentMsg struct {
	Path    string
	Content delta.Delta
}

// ErrMsg reports a watch or decode failure. Watching continues.
type ErrMsg struct {
	Path string
	Err  error
}

func (m ErrMsg) Error() string { return fmt.Sprintf("watch %s: %v", m.Path, m.Err) }

func (m ErrMsg) Unwrap() error { return m.Err }

type Options struct {
	// Debounce collapses bursts of writes. Zero means 100ms.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher observes one file. The parent directory is watched so that
// editors which save by renaming a temp file are seen too.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *slog.Logger
	fsw      *fsnotify.Watcher

	out  chan tea.Msg
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func New(path string, opt Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}

	w := &Watcher{
		path:     abs,
		debounce: opt.Debounce,
		log:      opt.Logger,
		fsw:      fsw,
		out:      make(chan tea.Msg, 1),
		done:     make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = 100 * time.Millisecond
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	w.log = w.log.With("path", abs)

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) Path() string { return w.path }

// Next waits for the next message. Re-issue it after every delivery. It
// yields nil once the watcher is closed.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.out
		if !ok {
			return nil
		}
		return msg
	}
}

func (w *Watcher) Close() error {
	err := ErrClosed
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	defer close(w.out)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			d, err := ReadFile(w.path)
			if err != nil {
				w.log.Warn("watch: reload failed", "error", err)
				w.emit(ErrMsg{Path: w.path, Err: err})
				continue
			}
			w.log.Debug("watch: reloaded", "length", d.Length())
			w.emit(ContentMsg{Path: w.path, Content: d})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.emit(ErrMsg{Path: w.path, Err: err})
		}
	}
}

// emit keeps only the newest undelivered message.
func (w *Watcher) emit(msg tea.Msg) {
	for {
		select {
		case w.out <- msg:
			return
		default:
		}
		select {
		case <-w.out:
		default:
		}
	}
}

// ReadFile decodes a document file. Files ending in .json hold a delta;
// anything else is plain text.
func ReadFile(path string) (delta.Delta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return delta.Delta{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		d, err := delta.Parse(data)
		if err != nil {
			return delta.Delta{}, err
		}
		if !d.IsDocument() {
			return delta.Delta{}, delta.ErrNotDocument
		}
		return d, nil
	}
	if len(data) == 0 {
		return delta.Delta{}, nil
	}
	return delta.Delta{}.Insert(string(data), nil), nil
}
