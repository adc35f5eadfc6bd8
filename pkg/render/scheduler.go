package render

// Scheduler defers paint work, like a microtask queue.
type Scheduler interface {
	Schedule(fn func())
}

// Queue is a FIFO scheduler drained explicitly with Flush. Work scheduled
// while flushing runs in the same Flush call.
type Queue struct {
	tasks []func()
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule implements Scheduler.
func (q *Queue) Schedule(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Pending returns the number of queued tasks.
func (q *Queue) Pending() int {
	return len(q.tasks)
}

// Flush runs queued tasks until the queue is empty and returns how many ran.
func (q *Queue) Flush() int {
	n := 0
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		task()
		n++
	}
	return n
}

// Immediate runs scheduled work synchronously.
type Immediate struct{}

// Schedule implements Scheduler.
func (Immediate) Schedule(fn func()) {
	fn()
}
