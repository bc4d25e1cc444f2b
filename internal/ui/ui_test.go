package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/config"
	"todo/internal/sidebar"
	"todo/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), config.DefaultConfigFileName))
	require.NoError(t, err)
	cfg.RefreshInterval = "0"
	return cfg
}

func newModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	m, err := New(store, testConfig(t))
	require.NoError(t, err)
	return m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func keys(in ...string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(in))
	for _, k := range in {
		switch k {
		case "enter":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
		case "tab":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyTab})
		case "esc":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEsc})
		case "space":
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		default:
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
	return msgs
}

func layout(t *testing.T, m Model) Model {
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func selectedKey(m Model) string {
	if row := m.shell.Selected(); row != nil {
		return row.Key()
	}
	return ""
}

func TestNew_EmptyStoreShowsPlaceholder(t *testing.T) {
	m := layout(t, newModel(t, openStore(t)))
	assert.True(t, m.shell.placeholder)
	assert.Equal(t, sidebar.ContentStatus, m.shell.content)
	assert.Contains(t, m.View(), "No Task Lists")
}

func TestNew_ListsWithoutSavedRowSkipEmptyState(t *testing.T) {
	store := openStore(t)
	_, err := store.AddTaskList("Groceries")
	require.NoError(t, err)

	m := layout(t, newModel(t, store))
	assert.False(t, m.shell.placeholder)
	view := m.View()
	assert.NotContains(t, view, "No Task Lists")
	assert.Contains(t, view, "Nothing Open")

	require.NoError(t, store.SetSetting(storage.KeyLastOpen, "vanished"))
	m = layout(t, newModel(t, store))
	assert.NotContains(t, m.View(), "No Task Lists")
}

func TestNew_RestoresLastOpenAfterLayout(t *testing.T) {
	store := openStore(t)
	_, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(storage.KeyLastOpen, sidebar.KeyToday))

	m := newModel(t, store)
	assert.Equal(t, "", selectedKey(m))
	assert.True(t, m.sidebar.PendingSelection(sidebar.KeyToday))

	m = layout(t, m)
	assert.Equal(t, sidebar.KeyToday, selectedKey(m))
	assert.Equal(t, sidebar.KeyToday, m.shell.content)
	assert.False(t, m.sidebar.PendingSelection(sidebar.KeyToday))
}

func TestAddList_GatedOnName(t *testing.T) {
	store := openStore(t)
	_, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	m := layout(t, newModel(t, store))

	m = send(t, m, keys("A", "Groceries")...)
	assert.Equal(t, modeAddList, m.mode)
	assert.False(t, m.nameOK)

	m = send(t, m, keys("enter")...)
	assert.Equal(t, modeAddList, m.mode, "duplicate name must not confirm")

	m = send(t, m, keys("esc", "A", "Work", "enter")...)
	assert.Equal(t, modeBrowse, m.mode)

	rows := m.sidebar.TaskListRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Work", rows[1].Label())
	assert.Equal(t, rows[1].Key(), selectedKey(m))
	assert.Equal(t, rows[1].Key(), m.shell.content)
	assert.False(t, m.shell.placeholder)

	last, err := store.Setting(storage.KeyLastOpen)
	require.NoError(t, err)
	assert.Equal(t, rows[1].Key(), last)
}

func TestDeleteList_SelectsPreviousRow(t *testing.T) {
	store := openStore(t)
	a, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	b, err := store.AddTaskList("Work")
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(storage.KeyLastOpen, b.UID))

	m := layout(t, newModel(t, store))
	require.Equal(t, b.UID, selectedKey(m))

	m = send(t, m, keys("D")...)
	assert.Equal(t, modeConfirmDeleteList, m.mode)
	m = send(t, m, keys("y")...)

	assert.Equal(t, a.UID, selectedKey(m))
	assert.Equal(t, a.UID, m.shell.content)
	require.Len(t, m.sidebar.TaskListRows(), 1)

	lists, err := store.ListTaskLists()
	require.NoError(t, err)
	assert.True(t, lists[1].Deleted)
}

func TestDeleteLastList_ShowsStatus(t *testing.T) {
	store := openStore(t)
	a, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(storage.KeyLastOpen, a.UID))

	m := layout(t, newModel(t, store))
	m = send(t, m, keys("D", "y")...)
	assert.True(t, m.shell.placeholder)
	assert.Equal(t, sidebar.ContentStatus, m.shell.content)
}

func TestTasks_AddToggleAndTrash(t *testing.T) {
	store := openStore(t)
	a, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(storage.KeyLastOpen, a.UID))

	m := layout(t, newModel(t, store))
	m = send(t, m, keys("tab", "a", "milk", "enter", "a", "eggs", "enter")...)
	require.Len(t, m.tasks, 2)
	row := m.sidebar.TaskListRows()[0]
	assert.Equal(t, "2", row.Counter())
	assert.Equal(t, 1, m.cursor)

	m = send(t, m, keys("space")...)
	assert.True(t, m.tasks[1].Done)
	assert.Equal(t, "1", row.Counter())

	m = send(t, m, keys("k", "d")...)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "eggs", m.tasks[0].Title)
	trash := m.sidebar.Trash()
	assert.Equal(t, 1, trash.Count())
	assert.True(t, trash.CanRestore())
	assert.Equal(t, sidebar.IconTrashFull, trash.Icon())
}

func TestTrashView_RestoreAndClear(t *testing.T) {
	store := openStore(t)
	a, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	milk, err := store.AddTask(a.UID, "milk")
	require.NoError(t, err)
	require.NoError(t, store.TrashTask(milk.UID))
	require.NoError(t, store.SetSetting(storage.KeyLastOpen, sidebar.KeyTrash))

	m := layout(t, newModel(t, store))
	require.Equal(t, sidebar.KeyTrash, m.shell.content)
	require.Len(t, m.tasks, 1)

	m = send(t, m, keys("tab", "r")...)
	assert.Empty(t, m.tasks)
	assert.False(t, m.sidebar.Trash().CanClear())

	m = send(t, m, keys("c")...)
	assert.Equal(t, "Trash is empty", m.status)

	tasks, err := store.FetchTasks(a.UID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestRefreshMsg_PicksUpExternalChanges(t *testing.T) {
	store := openStore(t)
	a, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	m := layout(t, newModel(t, store))

	w, err := store.AddTaskList("Wrok")
	require.NoError(t, err)
	require.NoError(t, store.DeleteTaskList(a.UID))

	m = send(t, m, refreshMsg{})
	rows := m.sidebar.TaskListRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Wrok", rows[0].Label())

	require.NoError(t, store.RenameTaskList(w.UID, "Work"))
	m = send(t, m, refreshMsg{})
	assert.Equal(t, "Work", m.sidebar.TaskListRows()[0].Label())
	assert.Contains(t, m.View(), "Work")
}

func TestSidebarNavigation(t *testing.T) {
	store := openStore(t)
	_, err := store.AddTaskList("Groceries")
	require.NoError(t, err)
	m := layout(t, newModel(t, store))

	m = send(t, m, keys("j")...)
	assert.Equal(t, sidebar.KeyToday, selectedKey(m))
	m = send(t, m, keys("j", "j")...)
	assert.Equal(t, sidebar.KeyTrash, selectedKey(m))
	m = send(t, m, keys("k")...)
	assert.Equal(t, sidebar.KeyTags, selectedKey(m))
	assert.Contains(t, m.View(), "No tags in use.")
}

func TestMetadataEdit(t *testing.T) {
	store := openStore(t)
	a, err := store.AddTaskList("Work")
	require.NoError(t, err)
	_, err = store.AddTask(a.UID, "report")
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(storage.KeyLastOpen, a.UID))

	m := layout(t, newModel(t, store))
	m = send(t, m, keys("tab", "e", "work", "enter", "2026-10-18", "enter")...)
	assert.Equal(t, modeBrowse, m.mode)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, []string{"work"}, m.tasks[0].TagList())
	assert.Equal(t, "2026-10-18", formatDate(m.tasks[0].Due))
	assert.Equal(t, "1", m.sidebar.Tags().Counter())
}
