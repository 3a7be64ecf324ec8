package bridge

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/editor"
	"github.com/iw2rmb/richbridge/format"
	"github.com/iw2rmb/richbridge/task"
)

// ChangeEvent is the outbound notification: the whole current document and
// the selection, nil when the editor has no focus.
type ChangeEvent struct {
	Delta delta.Delta   `json:"delta"`
	Range *buffer.Range `json:"range"`
}

// ChangeMsg delivers a ChangeEvent to the Bubble Tea program.
type ChangeMsg struct {
	ElementID string
	ChangeEvent
}

// Props is a full declarative snapshot of the element's properties.
type Props struct {
	Content     any
	Selection   *buffer.Range
	Placeholder string
	Theme       editor.Theme
	Formats     []string
	ReadOnly    bool
}

type Config struct {
	// Scheduler runs deferred flushes. When nil the element owns a
	// task.Queue driven by Init and Update, and flushes are also delivered
	// as ChangeMsg.
	Scheduler Scheduler
	// OnChange receives every emitted event.
	OnChange func(ChangeEvent)

	// Editor is the template for the editor built on Attach. The element
	// overrides its ID, contents, formats, toolbar, theme, placeholder and
	// read-only fields.
	Editor editor.Config

	// WrapEngine, when set, decorates the engine the element talks to.
	WrapEngine func(Engine) Engine

	Logger *slog.Logger
}

// Element binds stored properties to one live editor. It is not safe for
// concurrent use.
type Element struct {
	cfg   Config
	id    string
	log   *slog.Logger
	queue *task.Queue
	sched Scheduler

	content     delta.Delta
	selection   *buffer.Range
	placeholder string
	theme       editor.Theme
	formats     []string
	readOnly    bool

	attached bool
	ed       editor.Model
	engine   Engine
	off      func()
	width    int
	height   int

	// generation changes on every attach and detach; flushes scheduled for
	// an older generation do nothing.
	generation uint64
	pending    bool
	syncing    bool
	outbox     []ChangeEvent
}

func New(cfg Config) *Element {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Element{
		cfg: cfg,
		id:  uuid.NewString(),
	}
	e.log = logger.With("id", e.id)
	e.sched = cfg.Scheduler
	if e.sched == nil {
		e.queue = task.NewQueue()
		e.sched = e.queue
	}
	return e
}

func (e *Element) ID() string { return e.id }

func (e *Element) Attached() bool { return e.attached }

// Content returns the stored content, not the live document.
func (e *Element) Content() delta.Delta { return e.content }

// Selection returns a copy of the stored selection.
func (e *Element) Selection() *buffer.Range { return copyRange(e.selection) }

// Engine returns the live engine, or nil while detached.
func (e *Element) Engine() Engine { return e.engine }

// Editor returns the live editor. It is the zero Model while detached.
func (e *Element) Editor() editor.Model { return e.ed }

// SetContent stores v as the target document and synchronizes when
// attached. v is anything delta.From accepts and must contain only inserts.
// On error the stored content is unchanged.
func (e *Element) SetContent(v any) error {
	d, err := parseContent(v)
	if err != nil {
		e.log.Warn("bridge: rejected content", "error", err)
		return err
	}
	e.content = d
	e.sync()
	return nil
}

func parseContent(v any) (delta.Delta, error) {
	d, err := delta.From(v)
	if err != nil {
		return delta.Delta{}, err
	}
	if !d.IsDocument() {
		return delta.Delta{}, &delta.MalformedContentError{Op: -1, Reason: "content must contain only inserts"}
	}
	return d, nil
}

// SetSelection stores r (nil for no focus) and synchronizes when attached.
func (e *Element) SetSelection(r *buffer.Range) {
	e.selection = copyRange(r)
	e.sync()
}

// SetPlaceholder stores s; a live editor shows it immediately.
func (e *Element) SetPlaceholder(s string) {
	e.placeholder = s
	if e.attached && e.ed.Placeholder() != s {
		e.ed = e.ed.SetPlaceholder(s)
	}
}

// SetTheme stores the theme used by the next Attach.
func (e *Element) SetTheme(t editor.Theme) { e.theme = t }

// SetFormats stores the formats used by the next Attach.
func (e *Element) SetFormats(formats []string) {
	e.formats = append([]string(nil), formats...)
	if formats == nil {
		e.formats = nil
	}
}

// SetReadOnly stores the flag and toggles a live engine.
func (e *Element) SetReadOnly(readOnly bool) {
	e.readOnly = readOnly
	if e.attached {
		e.engine.Enable(!readOnly)
	}
}

// Apply writes every property of p and synchronizes once. Invalid content is
// reported and the previous content kept; the other properties still apply.
func (e *Element) Apply(p Props) error {
	e.SetPlaceholder(p.Placeholder)
	e.SetTheme(p.Theme)
	e.SetFormats(p.Formats)
	if p.ReadOnly != e.readOnly {
		e.SetReadOnly(p.ReadOnly)
	}

	d, err := parseContent(p.Content)
	if err != nil {
		e.log.Warn("bridge: rejected content", "error", err)
	} else {
		e.content = d
	}
	e.selection = copyRange(p.Selection)
	e.sync()
	return err
}

// Attach builds the editor from the stored properties, subscribes to its
// changes and synchronizes. It returns *InitializationError when the editor
// cannot be built; the element then stays detached.
func (e *Element) Attach() error {
	if e.attached {
		return nil
	}

	cfg := e.cfg.Editor
	cfg.ID = e.id
	cfg.Contents = delta.Delta{}
	cfg.Formats = e.formats
	cfg.Toolbar = NormalizeToolbarFormats(e.formats)
	cfg.Theme = e.theme
	cfg.Placeholder = e.placeholder
	cfg.ReadOnly = e.readOnly
	if cfg.Logger == nil {
		cfg.Logger = e.log
	}

	ed, err := editor.New(cfg)
	if err != nil {
		e.log.Error("bridge: attach failed", "error", err)
		return &InitializationError{ID: e.id, Err: err}
	}
	if e.width > 0 || e.height > 0 {
		ed = ed.SetSize(e.width, e.height)
	}

	var eng Engine = ed.Buffer()
	if e.cfg.WrapEngine != nil {
		eng = e.cfg.WrapEngine(eng)
	}

	e.ed = ed
	e.engine = eng
	e.generation++
	e.pending = false
	e.off = eng.On(buffer.EventEditorChange, e.handleChange)
	e.attached = true
	e.log.Debug("bridge: attached", "theme", ed.Theme(), "formats", e.formats)

	e.sync()
	return nil
}

// Detach unsubscribes from and drops the editor. Flushes already scheduled
// become no-ops.
func (e *Element) Detach() {
	if !e.attached {
		return
	}
	if e.off != nil {
		e.off()
		e.off = nil
	}
	e.attached = false
	e.engine = nil
	e.ed = editor.Model{}
	e.generation++
	e.pending = false
	e.outbox = nil
	e.log.Debug("bridge: detached")
}

// Format applies a user-tagged formatting change to the live document and
// reports whether it changed anything.
func (e *Element) Format(index, length int, name string, value any) bool {
	if !e.attached {
		return false
	}
	return !e.engine.FormatText(index, length, name, value, buffer.SourceUser).IsEmpty()
}

// RemoveFormat applies a removal requested by an interactive node.
func (e *Element) RemoveFormat(msg format.RemoveFormatMsg) bool {
	if !e.attached {
		return false
	}
	return msg.Apply(e.engine)
}

// sync pushes the stored content and selection into the editor. Content is
// replaced only when it differs; the selection is always re-applied.
func (e *Element) sync() {
	if !e.attached {
		return
	}
	e.syncing = true
	defer func() { e.syncing = false }()

	diff, err := e.engine.Contents().Diff(e.content)
	if err != nil || !diff.IsEmpty() {
		if err := e.engine.SetContents(e.content, buffer.SourceSilent); err != nil {
			e.log.Error("bridge: set contents", "error", err)
		}
	}
	e.engine.SetSelection(e.selection, buffer.SourceSilent)
}

func (e *Element) handleChange(ev buffer.Event) {
	if ev.Source == buffer.SourceSilent {
		return
	}
	if e.syncing {
		e.log.Error("bridge: user change during synchronization",
			"error", ErrFeedbackLoopViolation, "event", string(ev.Name))
		return
	}
	if e.pending {
		return
	}
	e.pending = true
	gen := e.generation
	e.sched.Schedule(func() { e.flush(gen) })
}

// flush emits the live state. It runs on a later turn than the mutations
// that scheduled it.
func (e *Element) flush(gen uint64) {
	if gen != e.generation || !e.attached {
		return
	}
	e.pending = false

	ev := ChangeEvent{Delta: e.engine.Contents()}
	if r, ok := e.engine.Selection(); ok {
		ev.Range = &r
	}
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(ev)
	}
	if e.queue != nil {
		e.outbox = append(e.outbox, ev)
	}
}

// Init arms the owned queue.
func (e *Element) Init() tea.Cmd {
	if e.queue == nil {
		return nil
	}
	return e.queue.Wait()
}

// Update drains the owned queue on its ReadyMsg and forwards everything else
// to the live editor.
func (e *Element) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case task.ReadyMsg:
		if e.queue == nil || msg.Queue != e.queue {
			return e, nil
		}
		e.queue.Drain()
		cmds := make([]tea.Cmd, 0, len(e.outbox)+1)
		for _, ev := range e.outbox {
			cmds = append(cmds, changeCmd(ChangeMsg{ElementID: e.id, ChangeEvent: ev}))
		}
		e.outbox = nil
		return e, tea.Batch(append(cmds, e.queue.Wait())...)

	case tea.WindowSizeMsg:
		e.width, e.height = msg.Width, msg.Height
	}

	if !e.attached {
		return e, nil
	}
	var cmd tea.Cmd
	e.ed, cmd = e.ed.Update(msg)
	return e, cmd
}

func changeCmd(msg ChangeMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (e *Element) View() string {
	if !e.attached {
		return ""
	}
	return e.ed.View()
}

func copyRange(r *buffer.Range) *buffer.Range {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
