package sidebar

import (
	"fmt"
	"log"
)

const (
	IconTrashEmpty = "trash-symbolic"
	IconTrashFull  = "trash-full-symbolic"
)

// TrashRow is the trash entry of the sidebar. Its clear and restore
// actions are only enabled while the trash holds something.
type TrashRow struct {
	store   Store
	count   int
	clear   bool
	restore bool
}

func (r *TrashRow) Kind() Kind       { return KindTrash }
func (r *TrashRow) Key() string      { return KeyTrash }
func (r *TrashRow) Label() string    { return "Trash" }
func (r *TrashRow) Count() int       { return r.count }
func (r *TrashRow) Counter() string  { return countLabel(r.count) }
func (r *TrashRow) CanClear() bool   { return r.clear }
func (r *TrashRow) CanRestore() bool { return r.restore }

func (r *TrashRow) Icon() string {
	if r.count > 0 {
		return IconTrashFull
	}
	return IconTrashEmpty
}

func (r *TrashRow) Refresh() error {
	n, err := r.store.CountTrash()
	if err != nil {
		return err
	}
	r.count = n
	r.clear = n > 0
	r.restore = n > 0
	return nil
}

// Clear permanently deletes everything in the trash.
func (r *TrashRow) Clear() error {
	if !r.clear {
		return fmt.Errorf("clear trash: %w", ErrActionDisabled)
	}
	log.Printf("Trash: Clear")
	if err := r.store.ClearTrash(); err != nil {
		return fmt.Errorf("clear trash: %w", err)
	}
	return r.Refresh()
}

// Restore moves every trashed task back to its list.
func (r *TrashRow) Restore() error {
	if !r.restore {
		return fmt.Errorf("restore trash: %w", ErrActionDisabled)
	}
	log.Printf("Trash: Restore")
	if err := r.store.RestoreTrash(); err != nil {
		return fmt.Errorf("restore trash: %w", err)
	}
	return r.Refresh()
}

// Drop deletes a task dropped onto the trash row.
func (r *TrashRow) Drop(taskUID string) error {
	log.Printf("Trash: Drop task '%s'", taskUID)
	if err := r.store.TrashTask(taskUID); err != nil {
		return fmt.Errorf("trash task %s: %w", taskUID, err)
	}
	return r.Refresh()
}
