package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"duely/internal/config"
	"duely/internal/deadline"
	"duely/internal/reminder"
	"duely/internal/storage"
	"duely/internal/task"
	"duely/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

const (
	fieldText = iota
	fieldDeadline
)

const clockInterval = time.Minute

// tasksMsg carries a fresh collection from the reminder loop.
type tasksMsg []task.Task

type notificationMsg struct {
	title string
	body  string
}

type permissionRequestMsg struct {
	reply chan<- reminder.Permission
}

type clockMsg time.Time

type Model struct {
	ctx    context.Context
	store  *storage.Store
	cfg    config.Config
	state  *view.State
	logger *log.Logger
	now    func() time.Time

	tasks    []task.Task
	list     view.List
	cursor   int
	selected int64
	mode     mode

	text     textinput.Model
	due      textinput.Model
	field    int
	priority task.Priority

	status     string
	banner     string
	pendingDel *view.Row
	permReply  chan<- reminder.Permission
}

func New(ctx context.Context, store *storage.Store, cfg config.Config, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tasks, err := store.Tasks(ctx)
	if err != nil {
		return Model{}, err
	}

	text := textinput.New()
	text.Placeholder = "Task"
	text.CharLimit = 256
	text.Width = 40

	due := textinput.New()
	due.Placeholder = "Deadline (YYYY-MM-DD HH:MM, optional)"
	due.CharLimit = 32
	due.Width = 40

	m := Model{
		ctx:      ctx,
		store:    store,
		cfg:      cfg,
		state:    view.NewState(cfg.Filter()),
		logger:   logger,
		now:      time.Now,
		tasks:    tasks,
		mode:     modeList,
		text:     text,
		due:      due,
		priority: cfg.Priority(),
		status:   fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to delete.", cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	m.rebuild()
	return m, nil
}

// Run starts the TUI together with the reminder loops and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, store *storage.Store, cfg config.Config, logger *log.Logger) error {
	m, err := New(ctx, store, cfg, logger)
	if err != nil {
		return err
	}
	perm, err := reminder.ParsePermission(cfg.Reminder.Notifications)
	if err != nil {
		return err
	}
	pendingEvery, deadlineEvery, err := cfg.Reminder.Intervals()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(m, tea.WithContext(runCtx))
	gate := reminder.NewGate(newTeaNotifier(perm, program.Send), m.logger)
	scheduler := reminder.NewScheduler(store, gate,
		reminder.WithPendingInterval(pendingEvery),
		reminder.WithDeadlineInterval(deadlineEvery),
		reminder.WithRefresh(func(tasks []task.Task) { program.Send(tasksMsg(tasks)) }),
		reminder.WithLogger(m.logger),
	)
	go scheduler.Run(runCtx)

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tickClock()
}

func tickClock() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tasksMsg:
		m.tasks = msg
		m.rebuild()
	case notificationMsg:
		m.banner = msg.title + ": " + msg.body
		m.logger.Info("notification", "body", msg.body)
	case permissionRequestMsg:
		m.permReply = msg.reply
		m.banner = "Allow reminder notifications? y/n"
	case clockMsg:
		m.rebuild()
		return m, tickClock()
	case tea.WindowSizeMsg:
		m.text.Width = msg.Width - 10
		m.due.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	if m.permReply != nil {
		switch key {
		case "y", "Y":
			return m.answerPermission(reminder.PermissionGranted), nil
		case "n", "N":
			return m.answerPermission(reminder.PermissionDenied), nil
		}
	} else {
		m.banner = ""
	}

	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.moveCursor(1)
	case m.cfg.Keys.Up, "up":
		m.moveCursor(-1)
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.field = fieldText
		m.priority = m.cfg.Priority()
		m.text.Focus()
		m.due.Blur()
		m.status = m.addPrompt()
	case m.cfg.Keys.FilterAll:
		m.setFilter(task.FilterAll)
	case m.cfg.Keys.FilterActive:
		m.setFilter(task.FilterActive)
	case m.cfg.Keys.FilterCompleted:
		m.setFilter(task.FilterCompleted)
	case m.cfg.Keys.Toggle:
		row, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		t, err := m.store.ToggleComplete(m.ctx, row.ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.reload()
		if t.Completed {
			m.status = fmt.Sprintf("Completed %q", t.Text)
		} else {
			m.status = fmt.Sprintf("Reopened %q", t.Text)
		}
	case m.cfg.Keys.Delete:
		row, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDel = &row
		m.status = fmt.Sprintf("Delete %q? y/n", row.Text)
	case m.cfg.Keys.ClearCompleted:
		n, err := m.store.ClearCompleted(m.ctx)
		if err != nil {
			m.status = fmt.Sprintf("clear failed: %v", err)
			return m, nil
		}
		m.reload()
		m.status = fmt.Sprintf("Cleared %d completed %s", n, plural(n))
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.resetForm()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.NextField:
		if m.field == fieldText {
			m.field = fieldDeadline
			m.text.Blur()
			m.due.Focus()
		} else {
			m.field = fieldText
			m.due.Blur()
			m.text.Focus()
		}
		return m, nil
	case m.cfg.Keys.CyclePriority:
		m.priority = m.priority.Next()
		m.status = m.addPrompt()
		return m, nil
	case m.cfg.Keys.Confirm:
		due, err := deadline.Parse(m.due.Value(), time.Local)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		t, err := m.store.AddTask(m.ctx, m.text.Value(), m.priority, due)
		if errors.Is(err, storage.ErrEmptyText) {
			m.status = "Task text cannot be empty"
			return m, nil
		}
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.resetForm()
		m.selected = t.ID
		m.reload()
		m.status = fmt.Sprintf("Added %q", t.Text)
		return m, nil
	default:
		var cmd tea.Cmd
		if m.field == fieldDeadline {
			m.due, cmd = m.due.Update(msg)
		} else {
			m.text, cmd = m.text.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		removed, err := m.store.DeleteTask(m.ctx, m.pendingDel.ID)
		if err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			break
		}
		m.reload()
		if removed {
			m.status = "Deleted task"
		} else {
			m.status = "Task was already gone"
		}
	default:
		return m, nil
	}
	m.mode = modeList
	m.pendingDel = nil
	return m, nil
}

func (m Model) answerPermission(p reminder.Permission) Model {
	m.permReply <- p
	m.permReply = nil
	m.banner = ""
	if p == reminder.PermissionGranted {
		m.status = "Reminders enabled"
	} else {
		m.status = "Reminders disabled"
	}
	return m
}

func (m *Model) setFilter(f task.Filter) {
	if !m.state.SetFilter(f) {
		return
	}
	m.rebuild()
	m.status = "Showing " + string(f) + " tasks"
}

func (m *Model) resetForm() {
	m.mode = modeList
	m.field = fieldText
	m.text.SetValue("")
	m.due.SetValue("")
	m.text.Blur()
	m.due.Blur()
}

// reload re-reads storage and redraws; the view always reflects the last
// completed save.
func (m *Model) reload() {
	tasks, err := m.store.Tasks(m.ctx)
	if err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.tasks = tasks
	m.rebuild()
}

// rebuild recomputes the visible list and keeps the cursor on the same task
// when it is still visible.
func (m *Model) rebuild() {
	m.list = view.Build(m.tasks, m.state.Filter(), m.now())
	if i := m.list.Index(m.selected); i >= 0 {
		m.cursor = i
	} else {
		m.cursor = clampCursor(m.cursor, len(m.list.Rows))
	}
	if row, ok := m.currentRow(); ok {
		m.selected = row.ID
	}
}

func (m *Model) moveCursor(delta int) {
	if m.list.Empty() {
		return
	}
	m.cursor = clampCursor(m.cursor+delta, len(m.list.Rows))
	m.selected = m.list.Rows[m.cursor].ID
}

func (m Model) currentRow() (view.Row, bool) {
	if m.list.Empty() {
		return view.Row{}, false
	}
	return m.list.Rows[clampCursor(m.cursor, len(m.list.Rows))], true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(view.Title.Render("duely"))
	b.WriteString("  ")
	b.WriteString(view.RenderTabs(m.state.Filter()))
	b.WriteString("\n\n")

	cursor := m.cursor
	if m.mode != modeList {
		cursor = -1
	}
	b.WriteString(view.Render(m.list, cursor))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString("\nAdd task ")
		b.WriteString(view.PriorityStyle(m.priority).Render("[" + m.priority.String() + "]"))
		b.WriteString("\n")
		b.WriteString(m.text.View())
		b.WriteString("\n")
		b.WriteString(m.due.View())
		b.WriteString("\n")
	}

	if m.banner != "" {
		b.WriteString("\n")
		b.WriteString(view.Banner.Render(m.banner))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(view.Muted.Render(renderHelp(m.cfg.Keys, m.mode)))

	return b.String()
}

func (m Model) addPrompt() string {
	return fmt.Sprintf("Add mode: %s to save, %s switches field, %s cycles priority (%s), %s cancels",
		m.cfg.Keys.Confirm, m.cfg.Keys.NextField, m.cfg.Keys.CyclePriority, m.priority, m.cfg.Keys.Cancel)
}

func renderHelp(k config.Keymap, md mode) string {
	if md == modeAdd {
		return fmt.Sprintf("%s save • %s next field • %s priority • %s cancel",
			k.Confirm, k.NextField, k.CyclePriority, k.Cancel)
	}
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s/%s/%s filter • %s clear done • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Delete, k.FilterAll, k.FilterActive, k.FilterCompleted, k.ClearCompleted, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func plural(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
