// Package app is the terminal host for one bridged editor. It owns the
// document state, persists every change and feeds file reloads back in.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/google/uuid"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/richbridge/bridge"
	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/editor"
	"github.com/iw2rmb/richbridge/format"
	"github.com/iw2rmb/richbridge/internal/config"
	"github.com/iw2rmb/richbridge/internal/store"
	"github.com/iw2rmb/richbridge/internal/watch"
)

// State is the host-owned document the element renders.
type State struct {
	Content   delta.Delta
	Selection *buffer.Range
}

type Options struct {
	Element  config.ElementConfig
	Document store.Document

	// Store, when set, receives every emitted change.
	Store *store.Store
	// Watcher, when set, replaces the content on file writes.
	Watcher *watch.Watcher

	Clipboard editor.Clipboard
	Logger    *slog.Logger
}

type savedMsg struct {
	doc store.Document
	err error
}

var quitKeys = key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"))

type Model struct {
	opts  Options
	log   *slog.Logger
	el    *bridge.Element
	state State
	docID string

	// One save runs at a time; changes made meanwhile are saved after it.
	saving     bool
	saveQueued bool

	status string
	width  int
}

// New builds and attaches the element from opts.
func New(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		opts:  opts,
		log:   logger,
		docID: opts.Document.ID,
		state: State{Content: opts.Document.Content, Selection: opts.Document.Selection},
	}
	if m.docID == "" {
		m.docID = uuid.NewString()
	}
	m.el = bridge.New(bridge.Config{
		Editor: editor.Config{Clipboard: opts.Clipboard, Logger: logger},
		Logger: logger,
	})
	if err := m.el.Apply(m.props()); err != nil {
		return Model{}, err
	}
	if err := m.el.Attach(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) State() State { return m.state }

func (m Model) DocumentID() string { return m.docID }

func (m Model) Element() *bridge.Element { return m.el }

func (m Model) Status() string { return m.status }

func (m Model) props() bridge.Props {
	e := m.opts.Element
	return bridge.Props{
		Content:     m.state.Content,
		Selection:   m.state.Selection,
		Placeholder: e.Placeholder,
		Theme:       editor.Theme(e.Theme),
		Formats:     e.Formats,
		ReadOnly:    e.ReadOnly,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.el.Init(), m.watchNext())
}

func (m Model) watchNext() tea.Cmd {
	if m.opts.Watcher == nil {
		return nil
	}
	return m.opts.Watcher.Next()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, quitKeys) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		// The last row is the status line.
		_, cmd := m.el.Update(tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-1, 1)})
		return m, cmd

	case bridge.ChangeMsg:
		if msg.ElementID != m.el.ID() {
			return m, nil
		}
		// The editor already shows this state; adopting it needs no sync.
		m.state = State{Content: msg.Delta, Selection: msg.Range}
		m.logChange()
		var cmd tea.Cmd
		m, cmd = m.requestSave()
		return m, cmd

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.log.Error("app: save failed", "error", msg.err)
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved " + msg.doc.UpdatedAt.Local().Format(time.TimeOnly)
		}
		if !m.saveQueued {
			return m, nil
		}
		m.saveQueued = false
		var cmd tea.Cmd
		m, cmd = m.requestSave()
		return m, cmd

	case format.RemoveFormatMsg:
		m.el.RemoveFormat(msg)
		return m, nil

	case watch.ContentMsg:
		m.state.Content = msg.Content
		m.status = "reloaded " + msg.Path
		m.apply()
		var cmd tea.Cmd
		m, cmd = m.requestSave()
		return m, tea.Batch(cmd, m.watchNext())

	case watch.ErrMsg:
		m.status = msg.Error()
		return m, m.watchNext()
	}

	_, cmd := m.el.Update(msg)
	return m, cmd
}

// apply re-renders the element from the host state.
func (m Model) apply() {
	if err := m.el.Apply(m.props()); err != nil {
		m.log.Warn("app: apply failed", "error", err)
	}
}

func (m Model) logChange() {
	if !m.log.Enabled(context.Background(), slog.LevelDebug) || !m.el.Attached() {
		return
	}
	c, ok := m.el.Editor().Buffer().LastChange()
	if !ok {
		return
	}
	m.log.Debug("app: change",
		"source", c.Source.String(),
		"version", c.VersionAfter,
		"ops", c.Delta.Len(),
		"selection", c.SelectionAfter.Range,
	)
}

// requestSave starts a save of the current state, or queues one behind the
// save already in flight.
func (m Model) requestSave() (Model, tea.Cmd) {
	if m.opts.Store == nil {
		return m, nil
	}
	if m.saving {
		m.saveQueued = true
		return m, nil
	}
	m.saving = true
	return m, m.save()
}

func (m Model) save() tea.Cmd {
	if m.opts.Store == nil {
		return nil
	}
	st := m.opts.Store
	doc := store.Document{ID: m.docID, Content: m.state.Content, Selection: m.state.Selection}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		saved, err := st.Save(ctx, doc)
		return savedMsg{doc: saved, err: err}
	}
}

var statusStyle = lipgloss.NewStyle().Faint(true)

func (m Model) View() string {
	status := m.status
	if m.docID != "" {
		status = fmt.Sprintf("%s  %s", m.docID, status)
	}
	return m.el.View() + "\n" + statusStyle.Render(status)
}
