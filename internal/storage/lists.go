package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskList is a persisted task-list record. Deleted lists stay in the table
// until a sync collaborator purges them.
type TaskList struct {
	UID       string
	Name      string
	Deleted   bool
	Synced    bool
	CreatedAt time.Time
}

// ListTaskLists returns every task list, deleted ones included, in
// insertion order.
func (s *Store) ListTaskLists() ([]TaskList, error) {
	rows, err := s.db.Query(`SELECT uid, name, deleted, synced, created_at FROM task_lists ORDER BY rowid;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []TaskList
	for rows.Next() {
		l, err := scanTaskList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *Store) AddTaskList(name string) (TaskList, error) {
	l := TaskList{
		UID:       uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.Exec(`INSERT INTO task_lists (uid, name, deleted, synced, created_at) VALUES (?, ?, 0, 0, ?);`,
		l.UID, l.Name, l.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return TaskList{}, err
	}
	return l, nil
}

// TaskList looks up a single list by uid.
func (s *Store) TaskList(uid string) (TaskList, error) {
	row := s.db.QueryRow(`SELECT uid, name, deleted, synced, created_at FROM task_lists WHERE uid = ?;`, uid)
	l, err := scanTaskList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TaskList{}, fmt.Errorf("task list %s: %w", uid, ErrNotFound)
	}
	return l, err
}

// FindTaskList returns the live list with exactly this name.
func (s *Store) FindTaskList(name string) (TaskList, error) {
	row := s.db.QueryRow(`SELECT uid, name, deleted, synced, created_at FROM task_lists WHERE name = ? AND deleted = 0 ORDER BY rowid LIMIT 1;`, name)
	l, err := scanTaskList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TaskList{}, fmt.Errorf("task list %q: %w", name, ErrNotFound)
	}
	return l, err
}

// DeleteTaskList soft-deletes a list. Its tasks stay in place so that an
// undelete from elsewhere brings them back.
func (s *Store) DeleteTaskList(uid string) error {
	res, err := s.db.Exec(`UPDATE task_lists SET deleted = 1, synced = 0 WHERE uid = ?;`, uid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task list %s: %w", uid, ErrNotFound)
	}
	return nil
}

func (s *Store) RenameTaskList(uid, name string) error {
	return s.execOne(uid, `UPDATE task_lists SET name = ?, synced = 0 WHERE uid = ?;`, name, uid)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskList(sc scanner) (TaskList, error) {
	var l TaskList
	var deleted, synced int
	var createdStr string
	if err := sc.Scan(&l.UID, &l.Name, &deleted, &synced, &createdStr); err != nil {
		return TaskList{}, err
	}
	l.Deleted = deleted == 1
	l.Synced = synced == 1
	if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
		l.CreatedAt = created
	}
	return l, nil
}
