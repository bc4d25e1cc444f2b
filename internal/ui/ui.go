package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo/internal/config"
	"todo/internal/sidebar"
	"todo/internal/storage"
)

type mode int

const (
	modeBrowse mode = iota
	modeAddList
	modeAddTask
	modeMetadata
	modeConfirmDeleteList
)

type pane int

const (
	paneSidebar pane = iota
	paneContent
)

// refreshMsg asks the sidebar to re-read the store.
type refreshMsg struct{}

type Model struct {
	store   *storage.Store
	cfg     config.Config
	keys    keyMap
	shell   *sidebarShell
	sidebar *sidebar.Sidebar
	now     func() time.Time

	focus      pane
	mode       mode
	input      textinput.Model
	nameOK     bool
	meta       *metaState
	pendingDel *sidebar.TaskListRow

	contentKey string
	tasks      []storage.Task
	tags       []storage.TagCount
	cursor     int
	status     string
	width      int
	height     int
}

// New loads the sidebar from store and queues the last opened row for
// selection once the first layout pass has happened.
func New(store *storage.Store, cfg config.Config) (Model, error) {
	shell := newSidebarShell()
	sb := sidebar.New(store, shell)
	shell.onRealize = sb.Realized
	if err := sb.Load(); err != nil {
		return Model{}, err
	}
	last, err := store.Setting(storage.KeyLastOpen)
	if err != nil {
		log.Printf("UI: read last opened item: %v", err)
	}
	sb.RestoreSelection(last)

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:   store,
		cfg:     cfg,
		keys:    newKeyMap(cfg.Keys),
		shell:   shell,
		sidebar: sb,
		now:     time.Now,
		input:   ti,
		status:  fmt.Sprintf("Press '%s' to add a list, '%s' to switch panes.", cfg.Keys.AddList, cfg.Keys.Focus),
	}
	m.loadContent()
	return m, nil
}

func Run(store *storage.Store, cfg config.Config) error {
	m, err := New(store, cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	d := m.cfg.Refresh()
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-sidebarWidth-20, 10)
		m.shell.Layout(sidebarWidth, msg.Height-8)
		m.loadContent()
	case refreshMsg:
		m.refresh()
		return m, m.tick()
	case tea.KeyMsg:
		switch m.mode {
		case modeAddList:
			return m.updateAddList(msg)
		case modeAddTask:
			return m.updateAddTask(msg)
		case modeMetadata:
			return m.updateMetadataMode(msg)
		case modeConfirmDeleteList:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		if m.focus == paneSidebar {
			m.focus = paneContent
		} else {
			m.focus = paneSidebar
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		m.status = "Refreshed"
		return m, nil
	case key.Matches(msg, m.keys.AddList):
		return m.startAddList()
	}
	if m.focus == paneSidebar {
		return m.updateSidebar(msg)
	}
	return m.updateContent(msg)
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.sidebar.Select(m.shell.Neighbour(1))
		m.loadContent()
	case key.Matches(msg, m.keys.Up):
		m.sidebar.Select(m.shell.Neighbour(-1))
		m.loadContent()
	case key.Matches(msg, m.keys.Confirm):
		if m.shell.Selected() != nil {
			m.focus = paneContent
		}
	case key.Matches(msg, m.keys.DeleteList):
		row, ok := m.shell.Selected().(*sidebar.TaskListRow)
		if !ok {
			m.status = "Select a task list to delete"
			return m, nil
		}
		m.mode = modeConfirmDeleteList
		m.pendingDel = row
		m.status = fmt.Sprintf("Delete list \"%s\"? y/n", row.Label())
	}
	return m, nil
}

func (m Model) updateContent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, m.itemCount())
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, m.itemCount())
	case key.Matches(msg, m.keys.Add):
		if m.currentList() == nil {
			m.status = "Open a task list to add tasks"
			return m, nil
		}
		m.mode = modeAddTask
		m.input.SetValue("")
		m.input.Placeholder = "Task title"
		m.input.Focus()
		m.status = "Add task: type a title and press Enter"
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.currentTask()
		if !ok || t.Trash {
			return m, nil
		}
		if err := m.store.SetDone(t.UID, !t.Done); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = "Toggled task"
	case key.Matches(msg, m.keys.Trash):
		t, ok := m.currentTask()
		if !ok || t.Trash {
			return m, nil
		}
		if err := m.sidebar.Trash().Drop(t.UID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("Moved \"%s\" to trash", t.Title)
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.currentTask()
		if !ok || t.Trash {
			m.status = "No task to edit"
			return m, nil
		}
		return m.startMetadataEdit(t)
	case key.Matches(msg, m.keys.Restore):
		if m.shell.content != sidebar.KeyTrash {
			return m, nil
		}
		m.trashAction(m.sidebar.Trash().Restore, "Restored trash")
	case key.Matches(msg, m.keys.Clear):
		if m.shell.content != sidebar.KeyTrash {
			return m, nil
		}
		m.trashAction(m.sidebar.Trash().Clear, "Cleared trash")
	}
	return m, nil
}

func (m *Model) trashAction(action func() error, done string) {
	if err := action(); err != nil {
		if errors.Is(err, sidebar.ErrActionDisabled) {
			m.status = "Trash is empty"
		} else {
			m.status = err.Error()
		}
		return
	}
	m.refresh()
	m.status = done
}

func (m Model) startAddList() (tea.Model, tea.Cmd) {
	m.mode = modeAddList
	m.input.SetValue("")
	m.input.Placeholder = "New list name"
	m.input.Focus()
	m.nameOK = false
	m.status = "Add list: type a name and press Enter"
	return m, nil
}

func (m Model) updateAddList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endInput()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if !m.nameOK {
			m.status = "List name is empty or already taken"
			return m, nil
		}
		row, err := m.sidebar.AddTaskList(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.endInput()
		m.sidebar.Select(row)
		m.loadContent()
		m.status = fmt.Sprintf("Added list \"%s\"", row.Label())
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		ok, err := m.sidebar.NameAvailable(m.input.Value())
		if err != nil {
			m.status = err.Error()
		}
		m.nameOK = ok
		return m, cmd
	}
}

func (m Model) updateAddTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endInput()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		l := m.currentList()
		if l == nil {
			m.endInput()
			return m, nil
		}
		if _, err := m.store.AddTask(l.UID(), title); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.endInput()
		m.refresh()
		m.cursor = clampCursor(len(m.tasks)-1, len(m.tasks))
		m.status = "Added task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(answer string) (tea.Model, tea.Cmd) {
	switch answer {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.mode = modeBrowse
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		row := m.pendingDel
		m.mode = modeBrowse
		m.pendingDel = nil
		if row == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		if err := m.store.DeleteTaskList(row.UID()); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("Deleted list \"%s\"", row.Label())
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) endInput() {
	m.mode = modeBrowse
	m.input.SetValue("")
	m.input.Blur()
}

// refresh reconciles the sidebar with the store and reloads the content.
func (m *Model) refresh() {
	if err := m.sidebar.Reconcile(); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
	}
	m.loadContent()
}

func (m *Model) loadContent() {
	current := m.shell.content
	if current != m.contentKey {
		m.contentKey = current
		m.cursor = 0
	}
	m.tasks, m.tags = nil, nil
	var err error
	switch current {
	case sidebar.ContentStatus, "":
	case sidebar.KeyToday:
		m.tasks, err = m.store.TasksDueOn(m.now())
	case sidebar.KeyTags:
		m.tags, err = m.store.Tags()
	case sidebar.KeyTrash:
		m.tasks, err = m.store.TrashedTasks()
	default:
		m.tasks, err = m.store.FetchTasks(current)
	}
	if err != nil {
		m.status = fmt.Sprintf("load failed: %v", err)
	}
	m.cursor = clampCursor(m.cursor, m.itemCount())
}

func (m Model) itemCount() int {
	if m.shell.content == sidebar.KeyTags {
		return len(m.tags)
	}
	return len(m.tasks)
}

func (m Model) currentTask() (storage.Task, bool) {
	if m.shell.content == sidebar.KeyTags || len(m.tasks) == 0 {
		return storage.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

// currentList returns the row of the task list on display, if any.
func (m Model) currentList() *sidebar.TaskListRow {
	row, _ := m.sidebar.Row(m.shell.content).(*sidebar.TaskListRow)
	return row
}

func (m Model) View() string {
	sidebarPane := paneStyle
	contentPane := paneStyle
	if m.focus == paneSidebar {
		sidebarPane = focusedPaneStyle
	} else {
		contentPane = focusedPaneStyle
	}

	var left strings.Builder
	left.WriteString(titleStyle.Render("Task Lists"))
	left.WriteString("\n")
	left.WriteString(m.shell.View())
	if m.shell.placeholder {
		left.WriteString("\n")
		left.WriteString(placeholderStyle.Render("No lists yet"))
	}

	contentWidth := max(m.width-sidebarWidth-8, 30)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarPane.Width(sidebarWidth).Render(left.String()),
		contentPane.Width(contentWidth).Render(m.renderContent()),
	)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	switch m.mode {
	case modeAddList:
		b.WriteString("New list: ")
		b.WriteString(m.input.View())
		if !m.nameOK {
			b.WriteString(" ")
			b.WriteString(disabledStyle.Render("add"))
		}
		b.WriteString("\n")
	case modeAddTask:
		b.WriteString("Add task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeMetadata:
		b.WriteString(m.renderMetaBox())
		b.WriteString("Field: " + m.currentMetaLabel() + " ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.renderHelp()))
	return b.String()
}

func (m Model) renderContent() string {
	var b strings.Builder
	switch m.shell.content {
	case sidebar.ContentStatus, "":
		if !m.shell.placeholder {
			b.WriteString(titleStyle.Render("Nothing Open"))
			b.WriteString("\n\n")
			b.WriteString(placeholderStyle.Render(fmt.Sprintf("Select a row with '%s'/'%s'.", m.cfg.Keys.Up, m.cfg.Keys.Down)))
			break
		}
		b.WriteString(titleStyle.Render("No Task Lists"))
		b.WriteString("\n\n")
		b.WriteString(placeholderStyle.Render(fmt.Sprintf("Press '%s' to create a list.", m.cfg.Keys.AddList)))
	case sidebar.KeyToday:
		b.WriteString(titleStyle.Render("Today"))
		b.WriteString("\n\n")
		b.WriteString(m.renderTaskList("Nothing due today."))
	case sidebar.KeyTags:
		b.WriteString(titleStyle.Render("Tags"))
		b.WriteString("\n\n")
		b.WriteString(m.renderTags())
	case sidebar.KeyTrash:
		trash := m.sidebar.Trash()
		b.WriteString(titleStyle.Render("Trash"))
		b.WriteString("\n\n")
		b.WriteString(m.renderTaskList("Trash is empty."))
		b.WriteString("\n")
		b.WriteString(actionLabel(m.keys.Restore, trash.CanRestore()))
		b.WriteString("  ")
		b.WriteString(actionLabel(m.keys.Clear, trash.CanClear()))
	default:
		title := m.shell.content
		if l := m.currentList(); l != nil {
			title = l.Label()
		}
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
		b.WriteString(m.renderTaskList(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)))
	}
	return b.String()
}

func (m Model) renderTaskList(empty string) string {
	if len(m.tasks) == 0 {
		return placeholderStyle.Render(empty) + "\n"
	}
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.focus == paneContent {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}

		body := fmt.Sprintf("%s %s %s", cursor, checkbox, t.Title)
		extras := make([]string, 0, 2)
		if tags := t.TagList(); len(tags) > 0 {
			extras = append(extras, "#"+strings.Join(tags, " #"))
		}
		if t.Due.Valid {
			extras = append(extras, "due:"+formatDate(t.Due))
		}
		if len(extras) > 0 {
			body += " " + counterStyle.Render(strings.Join(extras, " "))
		}
		if t.Done {
			body = doneStyle.Render(body)
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTags() string {
	if len(m.tags) == 0 {
		return placeholderStyle.Render("No tags in use.") + "\n"
	}
	var b strings.Builder
	for i, tag := range m.tags {
		cursor := " "
		if m.cursor == i && m.focus == paneContent {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s #%s %s\n", cursor, tag.Name, counterStyle.Render(fmt.Sprintf("%d", tag.Tasks))))
	}
	return b.String()
}

func actionLabel(b key.Binding, enabled bool) string {
	h := b.Help()
	label := fmt.Sprintf("[%s] %s", h.Key, h.Desc)
	if !enabled {
		return disabledStyle.Render(label)
	}
	return label
}

func (m Model) renderHelp() string {
	k := m.keys
	if m.focus == paneSidebar {
		return helpLine(k.Up, k.Down, k.Focus, k.AddList, k.DeleteList, k.Refresh, k.Quit)
	}
	if m.shell.content == sidebar.KeyTrash {
		return helpLine(k.Up, k.Down, k.Focus, k.Restore, k.Clear, k.Quit)
	}
	return helpLine(k.Up, k.Down, k.Focus, k.Add, k.Toggle, k.Trash, k.Edit, k.Quit)
}
