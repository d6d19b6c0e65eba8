package interpreter

import (
	"sync"
	"sync/atomic"

	"github.com/jclot/clot/internal/object"
	"github.com/jclot/clot/internal/util/future"
)

// TaskRegistry tracks in-flight async builtin calls, each backed by a
// future.Future[object.Value]. Task ids are minted from an atomic
// counter and never reused, so a stale id is simply "not found".
type TaskRegistry struct {
	mu     sync.Mutex
	nextID uint64
	tasks  map[int64]*future.Future[object.Value]

	// sem bounds how many spawned tasks may run their work concurrently.
	// nil means unbounded. Acquired/released inside the task's own
	// goroutine, never by Spawn itself, so launching a task never blocks
	// the main flow even when the pool is saturated.
	sem chan struct{}
}

// NewTaskRegistry creates a registry whose tasks run with at most
// workers concurrently active at once. workers <= 0 means unbounded.
func NewTaskRegistry(workers int) *TaskRegistry {
	r := &TaskRegistry{
		tasks: make(map[int64]*future.Future[object.Value]),
	}
	if workers > 0 {
		r.sem = make(chan struct{}, workers)
	}
	return r
}

// Spawn runs fn on a new goroutine and returns the id under which its
// result can later be polled or awaited.
func (r *TaskRegistry) Spawn(fn func() (object.Value, error)) int64 {
	id := int64(atomic.AddUint64(&r.nextID, 1))
	f := future.New(func() (object.Value, error) {
		if r.sem != nil {
			r.sem <- struct{}{}
			defer func() { <-r.sem }()
		}
		return fn()
	})
	r.mu.Lock()
	r.tasks[id] = f
	r.mu.Unlock()
	return id
}

func (r *TaskRegistry) get(id int64) (*future.Future[object.Value], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.tasks[id]
	return f, ok
}

// Ready reports whether id is known and has completed.
func (r *TaskRegistry) Ready(id int64) (ready bool, known bool) {
	f, ok := r.get(id)
	if !ok {
		return false, false
	}
	select {
	case <-f.Done():
		return true, true
	default:
		return false, true
	}
}

// Await blocks until id completes and returns its result, then forgets
// the task. known is false if id was never a task this registry spawned.
func (r *TaskRegistry) Await(id int64) (val object.Value, err error, known bool) {
	f, ok := r.get(id)
	if !ok {
		return nil, nil, false
	}
	val, err = f.Await()
	r.mu.Lock()
	delete(r.tasks, id)
	r.mu.Unlock()
	return val, err, true
}
