package sidebar

import (
	"fmt"
	"time"

	"todo/internal/storage"
)

// fakeStore is an in-memory Store. Lists keep insertion order.
type fakeStore struct {
	lists    []storage.TaskList
	pending  map[string]int
	dueToday int
	tags     []storage.TagCount
	trash    []string
	settings map[string]string
	nextID   int

	ListErr    error
	AddErr     error
	RefreshErr error
}

func newFakeStore(lists ...storage.TaskList) *fakeStore {
	return &fakeStore{
		lists:    lists,
		pending:  map[string]int{},
		settings: map[string]string{},
	}
}

func (f *fakeStore) setDeleted(uid string, deleted bool) {
	for i := range f.lists {
		if f.lists[i].UID == uid {
			f.lists[i].Deleted = deleted
		}
	}
}

func (f *fakeStore) drop(uid string) {
	for i := range f.lists {
		if f.lists[i].UID == uid {
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			return
		}
	}
}

func (f *fakeStore) ListTaskLists() ([]storage.TaskList, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]storage.TaskList, len(f.lists))
	copy(out, f.lists)
	return out, nil
}

func (f *fakeStore) AddTaskList(name string) (storage.TaskList, error) {
	if f.AddErr != nil {
		return storage.TaskList{}, f.AddErr
	}
	f.nextID++
	l := storage.TaskList{UID: fmt.Sprintf("new-%d", f.nextID), Name: name}
	f.lists = append(f.lists, l)
	return l, nil
}

func (f *fakeStore) TaskList(uid string) (storage.TaskList, error) {
	if f.RefreshErr != nil {
		return storage.TaskList{}, f.RefreshErr
	}
	for _, l := range f.lists {
		if l.UID == uid {
			return l, nil
		}
	}
	return storage.TaskList{}, storage.ErrNotFound
}

func (f *fakeStore) CountPending(listUID string) (int, error) {
	return f.pending[listUID], nil
}

func (f *fakeStore) CountDueOn(time.Time) (int, error) {
	return f.dueToday, nil
}

func (f *fakeStore) Tags() ([]storage.TagCount, error) {
	return f.tags, nil
}

func (f *fakeStore) CountTrash() (int, error) {
	return len(f.trash), nil
}

func (f *fakeStore) TrashTask(uid string) error {
	f.trash = append(f.trash, uid)
	return nil
}

func (f *fakeStore) RestoreTrash() error {
	f.trash = nil
	return nil
}

func (f *fakeStore) ClearTrash() error {
	f.trash = nil
	return nil
}

func (f *fakeStore) SetSetting(key, value string) error {
	f.settings[key] = value
	return nil
}

// fakeShell records what the sidebar asks of the presentation layer.
type fakeShell struct {
	rows        []Row
	selected    Row
	content     string
	detached    []string
	placeholder bool
	realized    map[string]bool
	// realizeOnAppend marks rows realized as soon as they are appended.
	realizeOnAppend bool
}

func newFakeShell() *fakeShell {
	return &fakeShell{realized: map[string]bool{}, realizeOnAppend: true}
}

func (f *fakeShell) AppendRow(row Row) {
	f.rows = append(f.rows, row)
	if f.realizeOnAppend {
		f.realized[row.Key()] = true
	}
}

func (f *fakeShell) RemoveRow(row Row) {
	for i, r := range f.rows {
		if r == row {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			break
		}
	}
	delete(f.realized, row.Key())
	if f.selected == row {
		f.selected = nil
	}
}

func (f *fakeShell) Rows() []Row {
	out := make([]Row, len(f.rows))
	copy(out, f.rows)
	return out
}

func (f *fakeShell) SelectRow(row Row) { f.selected = row }

func (f *fakeShell) PrevSibling(row Row) Row {
	for i, r := range f.rows {
		if r == row {
			if i == 0 {
				return nil
			}
			return f.rows[i-1]
		}
	}
	return nil
}

func (f *fakeShell) IsRealized(row Row) bool { return f.realized[row.Key()] }

func (f *fakeShell) ShowContent(key string) { f.content = key }

func (f *fakeShell) DetachContent(key string) { f.detached = append(f.detached, key) }

func (f *fakeShell) SetPlaceholderVisible(visible bool) { f.placeholder = visible }

func (f *fakeShell) selectedKey() string {
	if f.selected == nil {
		return ""
	}
	return f.selected.Key()
}

func (f *fakeShell) keys() []string {
	keys := make([]string, 0, len(f.rows))
	for _, r := range f.rows {
		keys = append(keys, r.Key())
	}
	return keys
}
