package sidebar

// Deferred holds one-shot callbacks keyed by row key, run when the shell
// reports that row as realized.
type Deferred struct {
	tasks map[string]func()
}

func NewDeferred() *Deferred {
	return &Deferred{tasks: map[string]func(){}}
}

// Register replaces any callback already pending for key.
func (d *Deferred) Register(key string, fn func()) {
	d.tasks[key] = fn
}

// Fire runs and forgets the callback for key. It reports whether one ran.
func (d *Deferred) Fire(key string) bool {
	fn, ok := d.tasks[key]
	if !ok {
		return false
	}
	delete(d.tasks, key)
	fn()
	return true
}

func (d *Deferred) Cancel(key string) {
	delete(d.tasks, key)
}

func (d *Deferred) Pending(key string) bool {
	_, ok := d.tasks[key]
	return ok
}
