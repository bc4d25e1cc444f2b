// Package sidebar keeps the rows of the task-list sidebar in step with the
// records in the store and restores the row that was open last.
//
// All methods are meant to be called from the single goroutine that owns
// the presentation shell; nothing here locks.
package sidebar

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"todo/internal/storage"
)

var (
	// ErrStoreRead wraps failures to fetch the task lists. No row has been
	// touched when it is returned.
	ErrStoreRead = errors.New("read task lists")

	// ErrActionDisabled is returned by trash actions invoked while disabled.
	ErrActionDisabled = errors.New("action disabled")
)

// ContentStatus is the content key of the empty-state page.
const ContentStatus = "status"

// Store is the data access the sidebar needs.
type Store interface {
	ListTaskLists() ([]storage.TaskList, error)
	AddTaskList(name string) (storage.TaskList, error)
	TaskList(uid string) (storage.TaskList, error)
	CountPending(listUID string) (int, error)
	CountDueOn(day time.Time) (int, error)
	Tags() ([]storage.TagCount, error)
	CountTrash() (int, error)
	TrashTask(uid string) error
	RestoreTrash() error
	ClearTrash() error
	SetSetting(key, value string) error
}

// Shell is the presentation layer that owns the row widgets, the
// selection and the content area.
type Shell interface {
	AppendRow(row Row)
	RemoveRow(row Row)
	// Rows returns the rows in display order.
	Rows() []Row
	// SelectRow selects row; nil clears the selection.
	SelectRow(row Row)
	// PrevSibling returns the row displayed right before row, or nil.
	PrevSibling(row Row) Row
	// IsRealized reports whether row has been laid out and can be selected.
	IsRealized(row Row) bool
	ShowContent(key string)
	DetachContent(key string)
	SetPlaceholderVisible(visible bool)
}

type Option func(*Sidebar)

// WithClock overrides the clock used for the Today row.
func WithClock(now func() time.Time) Option {
	return func(s *Sidebar) {
		s.today.now = now
	}
}

type Sidebar struct {
	store    Store
	shell    Shell
	deferred *Deferred

	today *TodayRow
	tags  *TagsRow
	trash *TrashRow
}

// New appends the Today, Tags and Trash rows to shell and returns a
// sidebar with no task lists loaded yet.
func New(store Store, shell Shell, opts ...Option) *Sidebar {
	s := &Sidebar{
		store:    store,
		shell:    shell,
		deferred: NewDeferred(),
		today:    &TodayRow{store: store, now: time.Now},
		tags:     &TagsRow{store: store},
		trash:    &TrashRow{store: store},
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, row := range []Row{s.today, s.tags, s.trash} {
		shell.AppendRow(row)
		refresh(row)
	}
	return s
}

func (s *Sidebar) Today() *TodayRow { return s.today }
func (s *Sidebar) Tags() *TagsRow   { return s.tags }
func (s *Sidebar) Trash() *TrashRow { return s.trash }

func (s *Sidebar) Rows() []Row {
	return s.shell.Rows()
}

// TaskListRows returns only the rows backed by task-list records.
func (s *Sidebar) TaskListRows() []*TaskListRow {
	var rows []*TaskListRow
	for _, row := range s.shell.Rows() {
		if tl, ok := row.(*TaskListRow); ok {
			rows = append(rows, tl)
		}
	}
	return rows
}

// Row finds a row by key.
func (s *Sidebar) Row(key string) Row {
	for _, row := range s.shell.Rows() {
		if row.Key() == key {
			return row
		}
	}
	return nil
}

// Load appends a row for every live task list in store order.
func (s *Sidebar) Load() error {
	log.Printf("Sidebar: Load Task Lists")
	lists, err := s.store.ListTaskLists()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreRead, err)
	}
	shown := s.shownUIDs()
	created := 0
	for _, l := range lists {
		if l.Deleted {
			continue
		}
		if _, ok := shown[l.UID]; ok {
			continue
		}
		s.appendTaskList(l)
		created++
	}
	s.shell.SetPlaceholderVisible(created == 0 && len(shown) == 0)
	return nil
}

// Reconcile makes the task-list rows match the live records: rows of
// deleted or vanished records are removed, rows for new records are
// appended in store order, and every row refreshes its own display.
func (s *Sidebar) Reconcile() error {
	log.Printf("Sidebar: Update UI")
	lists, err := s.store.ListTaskLists()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreRead, err)
	}

	live := make(map[string]struct{}, len(lists))
	for _, l := range lists {
		if !l.Deleted {
			live[l.UID] = struct{}{}
		}
	}

	for _, row := range s.TaskListRows() {
		if _, ok := live[row.UID()]; !ok {
			s.removeTaskList(row)
		}
	}

	shown := s.shownUIDs()
	for _, l := range lists {
		if l.Deleted {
			continue
		}
		if _, ok := shown[l.UID]; ok {
			continue
		}
		s.appendTaskList(l)
	}

	for _, row := range s.shell.Rows() {
		refresh(row)
	}

	s.showStatus()
	return nil
}

// AddTaskList creates a list in the store and appends its row. The name
// is expected to have passed NameAvailable.
func (s *Sidebar) AddTaskList(name string) (*TaskListRow, error) {
	l, err := s.store.AddTaskList(name)
	if err != nil {
		return nil, fmt.Errorf("add task list %q: %w", name, err)
	}
	return s.appendTaskList(l), nil
}

// NameAvailable reports whether name may be used for a new task list: it
// must not be blank and must not equal the name of a live list.
func (s *Sidebar) NameAvailable(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	lists, err := s.store.ListTaskLists()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}
	for _, l := range lists {
		if !l.Deleted && l.Name == name {
			return false, nil
		}
	}
	return true, nil
}

// RestoreSelection selects the first row whose key is key. A row that is
// not realized yet gets selected once the shell reports it realized.
func (s *Sidebar) RestoreSelection(key string) {
	if key == "" {
		return
	}
	for _, row := range s.shell.Rows() {
		if row.Key() != key {
			continue
		}
		log.Printf("Sidebar: Select last opened item")
		if s.shell.IsRealized(row) {
			s.Select(row)
			return
		}
		s.deferred.Register(key, func() { s.Select(row) })
		return
	}
}

// Realized is called by the shell once the row with key is laid out.
func (s *Sidebar) Realized(key string) {
	s.deferred.Fire(key)
}

// PendingSelection reports whether a deferred selection waits on key.
func (s *Sidebar) PendingSelection(key string) bool {
	return s.deferred.Pending(key)
}

// Select selects row and opens its content. A nil row only clears the
// selection.
func (s *Sidebar) Select(row Row) {
	s.shell.SelectRow(row)
	if row == nil {
		return
	}
	s.activate(row)
}

func (s *Sidebar) activate(row Row) {
	log.Printf("Sidebar: Open %s '%s'", row.Kind(), row.Key())
	s.shell.ShowContent(row.Key())
	if err := s.store.SetSetting(storage.KeyLastOpen, row.Key()); err != nil {
		log.Printf("Sidebar: save last opened item: %v", err)
	}
}

func (s *Sidebar) appendTaskList(l storage.TaskList) *TaskListRow {
	log.Printf("Sidebar: Add Task List '%s'", l.UID)
	row := newTaskListRow(s.store, l)
	refresh(row)
	s.shell.AppendRow(row)
	s.shell.SetPlaceholderVisible(false)
	return row
}

func (s *Sidebar) removeTaskList(row *TaskListRow) {
	log.Printf("Sidebar: Delete list %s", row.UID())
	s.Select(s.shell.PrevSibling(row))
	s.deferred.Cancel(row.Key())
	s.shell.DetachContent(row.Key())
	s.shell.RemoveRow(row)
}

func (s *Sidebar) showStatus() {
	empty := len(s.TaskListRows()) == 0
	s.shell.SetPlaceholderVisible(empty)
	if empty {
		s.shell.ShowContent(ContentStatus)
	}
}

func (s *Sidebar) shownUIDs() map[string]struct{} {
	shown := map[string]struct{}{}
	for _, row := range s.TaskListRows() {
		shown[row.UID()] = struct{}{}
	}
	return shown
}

func refresh(row Row) {
	r, ok := row.(Refreshable)
	if !ok {
		return
	}
	if err := r.Refresh(); err != nil {
		log.Printf("Sidebar: refresh %s '%s': %v", row.Kind(), row.Key(), err)
	}
}
