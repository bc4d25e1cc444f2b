package sidebar

import (
	"strconv"
	"time"

	"todo/internal/storage"
)

type Kind int

const (
	KindTaskList Kind = iota
	KindToday
	KindTags
	KindTrash
)

func (k Kind) String() string {
	switch k {
	case KindTaskList:
		return "task-list"
	case KindToday:
		return "today"
	case KindTags:
		return "tags"
	case KindTrash:
		return "trash"
	default:
		return "unknown"
	}
}

// Keys of the pseudo-rows. Task-list rows are keyed by record uid.
const (
	KeyToday = "today"
	KeyTags  = "tags"
	KeyTrash = "trash"
)

// Row is one entry of the sidebar.
type Row interface {
	Kind() Kind
	// Key identifies the row across reloads and restarts.
	Key() string
	Label() string
	// Counter is the size label shown next to the row, "" when there is
	// nothing to count.
	Counter() string
}

// Refreshable rows recompute their display state from the store.
type Refreshable interface {
	Refresh() error
}

// TaskListRow shows one task-list record.
type TaskListRow struct {
	store   Store
	list    storage.TaskList
	pending int
}

func newTaskListRow(store Store, list storage.TaskList) *TaskListRow {
	return &TaskListRow{store: store, list: list}
}

func (r *TaskListRow) Kind() Kind             { return KindTaskList }
func (r *TaskListRow) Key() string            { return r.list.UID }
func (r *TaskListRow) UID() string            { return r.list.UID }
func (r *TaskListRow) Label() string          { return r.list.Name }
func (r *TaskListRow) List() storage.TaskList { return r.list }
func (r *TaskListRow) Pending() int           { return r.pending }
func (r *TaskListRow) Counter() string        { return countLabel(r.pending) }

// Refresh reloads the record, picking up renames, and recounts the
// pending tasks.
func (r *TaskListRow) Refresh() error {
	list, err := r.store.TaskList(r.list.UID)
	if err != nil {
		return err
	}
	n, err := r.store.CountPending(r.list.UID)
	if err != nil {
		return err
	}
	r.list = list
	r.pending = n
	return nil
}

// TodayRow counts the pending tasks due today.
type TodayRow struct {
	store Store
	now   func() time.Time
	due   int
}

func (r *TodayRow) Kind() Kind      { return KindToday }
func (r *TodayRow) Key() string     { return KeyToday }
func (r *TodayRow) Label() string   { return "Today" }
func (r *TodayRow) Due() int        { return r.due }
func (r *TodayRow) Counter() string { return countLabel(r.due) }

func (r *TodayRow) Refresh() error {
	n, err := r.store.CountDueOn(r.now())
	if err != nil {
		return err
	}
	r.due = n
	return nil
}

// TagsRow counts the distinct tags in use.
type TagsRow struct {
	store Store
	tags  int
}

func (r *TagsRow) Kind() Kind      { return KindTags }
func (r *TagsRow) Key() string     { return KeyTags }
func (r *TagsRow) Label() string   { return "Tags" }
func (r *TagsRow) Tags() int       { return r.tags }
func (r *TagsRow) Counter() string { return countLabel(r.tags) }

func (r *TagsRow) Refresh() error {
	tags, err := r.store.Tags()
	if err != nil {
		return err
	}
	r.tags = len(tags)
	return nil
}

func countLabel(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
