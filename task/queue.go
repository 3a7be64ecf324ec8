// Package task provides a deferred-task queue for Bubble Tea programs: work
// scheduled during one update runs on a later turn of the event loop, after
// the current update has returned.
package task

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ReadyMsg reports that the queue has pending tasks. The owner of the queue
// calls Drain and re-arms Wait.
type ReadyMsg struct {
	Queue *Queue
}

// Queue is a FIFO of deferred tasks. Schedule is safe for concurrent use;
// tasks run on the goroutine that calls Drain.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
	ready chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Schedule appends fn. It never runs fn inline.
func (q *Queue) Schedule(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs the tasks queued before the call, in order, and returns how many
// ran. Tasks scheduled while draining wait for the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Wait returns a command that blocks until a task is scheduled and then
// yields ReadyMsg.
func (q *Queue) Wait() tea.Cmd {
	return func() tea.Msg {
		<-q.ready
		return ReadyMsg{Queue: q}
	}
}
