package editor

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/format"
)

// Model is a Bubble Tea component that renders and edits a rich-text buffer.
type Model struct {
	cfg   Config
	id    string
	theme Theme
	buf   *buffer.Buffer
	reg   *format.Registry
	km    KeyMap
	st    Style
	log   *slog.Logger

	focused bool

	viewport viewport.Model
	width    int
	height   int

	lines          []lineLayout
	nodes          []format.Node // interactive nodes in document order
	nodeFocus      int           // index into nodes; -1 when none has focus
	lastBufVersion uint64

	mouseDragging bool
	mouseAnchor   int
}

// New builds an editor. It fails without side effects when the theme or a
// format name is unknown.
func New(cfg Config) (Model, error) {
	theme, ok := cfg.Theme.normalize()
	if !ok {
		return Model{}, fmt.Errorf("%w: %q", ErrUnknownTheme, cfg.Theme)
	}

	reg := cfg.Registry
	if reg == nil {
		reg = format.DefaultRegistry()
	}
	for _, name := range cfg.Formats {
		if !reg.Has(name) {
			return Model{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
	}
	for _, item := range cfg.Toolbar {
		if !reg.Has(item.Format) {
			return Model{}, fmt.Errorf("%w: toolbar %q", ErrUnknownFormat, item.Format)
		}
	}

	km := cfg.KeyMap
	if km.isZero() {
		km = DefaultKeyMap()
	}
	st := DefaultStyle()
	if cfg.Style != nil {
		st = *cfg.Style
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	buf := buffer.New(cfg.Contents, buffer.Options{
		HistoryLimit: cfg.HistoryLimit,
		Formats:      cfg.Formats,
		BlockFormats: reg.BlockNames(),
	})
	buf.Enable(!cfg.ReadOnly)

	m := Model{
		cfg:       cfg,
		id:        id,
		theme:     theme,
		buf:       buf,
		reg:       reg,
		km:        km,
		st:        st,
		log:       logger.With("id", id),
		focused:   true,
		viewport:  viewport.New(0, 0),
		nodeFocus: -1,
	}
	m.rebuildContent()
	return m, nil
}

func (m Model) Buffer() *buffer.Buffer { return m.buf }

func (m Model) ID() string { return m.id }

func (m Model) Theme() Theme { return m.theme }

func (m Model) Toolbar() []ToolbarItem { return append([]ToolbarItem(nil), m.cfg.Toolbar...) }

func (m Model) Placeholder() string { return m.cfg.Placeholder }

// SetPlaceholder replaces the text shown while the document is empty.
func (m Model) SetPlaceholder(s string) Model {
	m.cfg.Placeholder = s
	m.rebuildContent()
	return m
}

// Nodes returns the interactive nodes of the current document.
func (m Model) Nodes() []format.Node {
	if m.buf != nil && m.buf.Version() != m.lastBufVersion {
		m.rebuildContent()
	}
	return append([]format.Node(nil), m.nodes...)
}

// FocusedNode returns the interactive node that has keyboard focus.
func (m Model) FocusedNode() (format.Node, bool) {
	if m.nodeFocus < 0 || m.nodeFocus >= len(m.nodes) {
		return format.Node{}, false
	}
	return m.nodes[m.nodeFocus], true
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-m.toolbarHeight(), 0)

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.nodeFocus = -1
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		m.syncFromBuffer()
		m, cmd = m.updateKey(msg)
		m.syncFromBuffer()
		m.followCursor()
		return m, cmd
	case tea.MouseMsg:
		m.syncFromBuffer()
		m, cmd = m.updateMouse(msg)
		// Don't force-follow cursor here; allow manual scrolling via mouse wheel.
		m.syncFromBuffer()
		return m, cmd
	default:
		// Hosts may mutate the buffer directly between updates.
		if m.syncFromBuffer() {
			m.followCursor()
		}
		return m, nil
	}
}

func (m *Model) syncFromBuffer() (changed bool) {
	if m.buf == nil || m.buf.Version() == m.lastBufVersion {
		return false
	}
	m.rebuildContent()
	return true
}

func (m *Model) rebuildContent() {
	if m.buf == nil {
		return
	}
	focused, hadFocus := m.FocusedNode()

	m.lines = buildLayout(m.buf.Lines(), m.reg)
	m.nodes = m.nodes[:0:0]
	for _, n := range m.reg.Nodes(m.buf.Contents()) {
		if n.Interactive {
			m.nodes = append(m.nodes, n)
		}
	}
	m.nodeFocus = -1
	if hadFocus {
		for i, n := range m.nodes {
			if n.Format == focused.Format && n.Span.Index == focused.Span.Index && n.Span.Length == focused.Span.Length {
				m.nodeFocus = i
				break
			}
		}
	}

	m.lastBufVersion = m.buf.Version()
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	if m.buf == nil {
		return
	}
	row := m.buf.PosOf(m.buf.Cursor()).Row
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
