package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Task struct {
	UID       string
	ListUID   string
	Title     string
	Done      bool
	Tags      string
	Due       sql.NullTime
	Trash     bool
	CreatedAt time.Time
}

// TagList splits the comma separated tags, dropping blanks.
func (t Task) TagList() []string {
	return splitTags(t.Tags)
}

const taskColumns = `uid, list_uid, title, done, tags, due, trash, created_at`

// FetchTasks returns the tasks of one list that are not in the trash.
func (s *Store) FetchTasks(listUID string) ([]Task, error) {
	return s.queryTasks(`SELECT `+taskColumns+` FROM tasks WHERE list_uid = ? AND trash = 0 ORDER BY rowid;`, listUID)
}

// TasksDueOn returns pending tasks of live lists due on the given day.
func (s *Store) TasksDueOn(day time.Time) ([]Task, error) {
	return s.queryTasks(`SELECT `+prefixed("t", taskColumns)+` FROM tasks t
JOIN task_lists l ON l.uid = t.list_uid
WHERE l.deleted = 0 AND t.trash = 0 AND t.done = 0 AND t.due = ?
ORDER BY t.rowid;`, day.Format(dateLayout))
}

// TrashedTasks returns the trashed tasks of live lists. Tasks of a
// deleted list stay with that list until it comes back.
func (s *Store) TrashedTasks() ([]Task, error) {
	return s.queryTasks(`SELECT ` + prefixed("t", taskColumns) + ` FROM tasks t
JOIN task_lists l ON l.uid = t.list_uid
WHERE l.deleted = 0 AND t.trash = 1
ORDER BY t.rowid;`)
}

func (s *Store) AddTask(listUID, title string) (Task, error) {
	t := Task{
		UID:       uuid.NewString(),
		ListUID:   listUID,
		Title:     title,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.Exec(`INSERT INTO tasks (uid, list_uid, title, done, created_at) VALUES (?, ?, ?, 0, ?);`,
		t.UID, t.ListUID, t.Title, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) SetDone(uid string, done bool) error {
	return s.execOne(uid, `UPDATE tasks SET done = ? WHERE uid = ?;`, boolToInt(done), uid)
}

func (s *Store) UpdateTaskMetadata(uid, tags string, due sql.NullTime) error {
	dueStr := sql.NullString{}
	if due.Valid {
		dueStr = sql.NullString{String: due.Time.Format(dateLayout), Valid: true}
	}
	tags = strings.Join(splitTags(tags), ",")
	return s.execOne(uid, `UPDATE tasks SET tags = ?, due = ? WHERE uid = ?;`, tags, dueStr, uid)
}

// TrashTask moves a task into the trash.
func (s *Store) TrashTask(uid string) error {
	return s.execOne(uid, `UPDATE tasks SET trash = 1 WHERE uid = ?;`, uid)
}

// RestoreTrash moves the trashed tasks of live lists back to their list.
func (s *Store) RestoreTrash() error {
	_, err := s.db.Exec(`UPDATE tasks SET trash = 0 WHERE trash = 1 AND ` + liveListClause + `;`)
	return err
}

// ClearTrash permanently removes the trashed tasks of live lists.
func (s *Store) ClearTrash() error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE trash = 1 AND ` + liveListClause + `;`)
	return err
}

const liveListClause = `list_uid IN (SELECT uid FROM task_lists WHERE deleted = 0)`

func (s *Store) CountPending(listUID string) (int, error) {
	return s.count(`SELECT COUNT(*) FROM tasks WHERE list_uid = ? AND trash = 0 AND done = 0;`, listUID)
}

func (s *Store) CountDueOn(day time.Time) (int, error) {
	return s.count(`SELECT COUNT(*) FROM tasks t JOIN task_lists l ON l.uid = t.list_uid
WHERE l.deleted = 0 AND t.trash = 0 AND t.done = 0 AND t.due = ?;`, day.Format(dateLayout))
}

func (s *Store) CountTrash() (int, error) {
	return s.count(`SELECT COUNT(*) FROM tasks WHERE trash = 1 AND ` + liveListClause + `;`)
}

// Tags returns the distinct tags used by non-trashed tasks of live lists
// with the number of tasks carrying each, sorted by name.
func (s *Store) Tags() ([]TagCount, error) {
	rows, err := s.db.Query(`SELECT t.tags FROM tasks t JOIN task_lists l ON l.uid = t.list_uid
WHERE l.deleted = 0 AND t.trash = 0 AND t.tags != '';`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		for _, tag := range splitTags(raw) {
			counts[tag]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	tags := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		tags = append(tags, TagCount{Name: name, Tasks: n})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

type TagCount struct {
	Name  string
	Tasks int
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var doneInt, trashInt int
		var dueStr sql.NullString
		var createdStr string
		if err := rows.Scan(&t.UID, &t.ListUID, &t.Title, &doneInt, &t.Tags, &dueStr, &trashInt, &createdStr); err != nil {
			return nil, err
		}
		t.Done = doneInt == 1
		t.Trash = trashInt == 1
		if dueStr.Valid {
			if parsed, err := time.Parse(dateLayout, dueStr.String); err == nil {
				t.Due = sql.NullTime{Time: parsed, Valid: true}
			}
		}
		if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
			t.CreatedAt = created
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) count(query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) execOne(uid, query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", uid, ErrNotFound)
	}
	return nil
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
